package main

import (
	"testing"
	"time"
)

// waitFor polls until cond holds or the deadline passes. Manager tests
// go through live room goroutines, so joins land asynchronously.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestManagerJoinCreatesRoom(t *testing.T) {
	m := NewRoomManager(nil, nil)
	c := &mockConn{}
	m.Join(c, "alice", 0)

	waitFor(t, func() bool { _, id := c.bound(); return id != "" }, "join never bound")
	if m.RoomCount() != 1 {
		t.Errorf("RoomCount = %d, want 1", m.RoomCount())
	}
}

func TestManagerReusesOpenRoom(t *testing.T) {
	m := NewRoomManager(nil, nil)
	c1 := &mockConn{}
	c2 := &mockConn{}
	m.Join(c1, "alice", 0)
	waitFor(t, func() bool { _, id := c1.bound(); return id != "" }, "first join never bound")
	m.Join(c2, "bob", 0)
	waitFor(t, func() bool { _, id := c2.bound(); return id != "" }, "second join never bound")

	r1, _ := c1.bound()
	r2, _ := c2.bound()
	if r1 != r2 {
		t.Error("second player should be matched into the same open room")
	}
	if m.RoomCount() != 1 {
		t.Errorf("RoomCount = %d, want 1", m.RoomCount())
	}
}

func TestManagerSkipsStartedRooms(t *testing.T) {
	m := NewRoomManager(nil, nil)
	c1 := &mockConn{}
	m.Join(c1, "alice", 0)
	waitFor(t, func() bool { _, id := c1.bound(); return id != "" }, "first join never bound")

	r1, _ := c1.bound()
	r1.setState(RoomActive)

	c2 := &mockConn{}
	m.Join(c2, "bob", 0)
	waitFor(t, func() bool { _, id := c2.bound(); return id != "" }, "second join never bound")

	r2, _ := c2.bound()
	if r1 == r2 {
		t.Error("a running match must not accept new players")
	}
	if m.RoomCount() != 2 {
		t.Errorf("RoomCount = %d, want 2", m.RoomCount())
	}
}

func TestManagerRemoveIfEmpty(t *testing.T) {
	m := NewRoomManager(nil, nil)
	m.mu.Lock()
	r := m.pickRoomLocked()
	m.mu.Unlock()
	if m.RoomCount() != 1 {
		t.Fatalf("RoomCount = %d, want 1", m.RoomCount())
	}

	m.removeIfEmpty(r.ID)
	if m.RoomCount() != 0 {
		t.Errorf("empty room should be reclaimed, RoomCount = %d", m.RoomCount())
	}
	if m.Get(r.ID) != nil {
		t.Error("reclaimed room still resolvable")
	}
}

func TestManagerRemoveIfEmptyKeepsPopulatedRoom(t *testing.T) {
	m := NewRoomManager(nil, nil)
	c := &mockConn{}
	m.Join(c, "alice", 0)
	waitFor(t, func() bool { _, id := c.bound(); return id != "" }, "join never bound")

	r, _ := c.bound()
	m.removeIfEmpty(r.ID)
	if m.RoomCount() != 1 {
		t.Error("populated room must not be reclaimed")
	}
}

func TestManagerList(t *testing.T) {
	m := NewRoomManager(nil, nil)
	c := &mockConn{}
	m.Join(c, "alice", 0)
	waitFor(t, func() bool { _, id := c.bound(); return id != "" }, "join never bound")

	list := m.List()
	if len(list) != 1 {
		t.Fatalf("List returned %d rooms", len(list))
	}
	if list[0].State != "open" || list[0].Players != 1 {
		t.Errorf("room info = %+v", list[0])
	}
}
