package main

import (
	"sync"

	"github.com/google/uuid"
)

const maxRooms = 100

// RoomManager owns the room registry. Matchmaking assigns a joining
// player to the first room still accepting players, or creates one.
// The manager never touches a room's simulation state; it reads the
// published state/count and posts join intents into the room's inbox.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	db        *DB
	analytics *Analytics
}

func NewRoomManager(db *DB, analytics *Analytics) *RoomManager {
	return &RoomManager{
		rooms:     make(map[string]*Room),
		db:        db,
		analytics: analytics,
	}
}

// Join matches the connection into a room. The room replies on its own
// goroutine with join-success or join-error. The intent is posted
// while the registry lock is held: a room found under the lock cannot
// be reclaimed before the command lands in its inbox, so the room
// either handles the join or answers it while draining on shutdown.
func (m *RoomManager) Join(conn Conn, username string, authID int64) {
	m.mu.Lock()
	room := m.pickRoomLocked()
	posted := false
	if room != nil {
		posted = room.Post(joinCmd{conn: conn, username: username, authID: authID})
	}
	m.mu.Unlock()

	if room == nil {
		conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "server is full"})
		return
	}
	if !posted {
		conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "room unavailable, try again"})
	}
}

// pickRoomLocked returns an open (or counting-down, not yet full)
// room, creating a fresh one when none accepts joins. Caller holds mu.
func (m *RoomManager) pickRoomLocked() *Room {
	for _, r := range m.rooms {
		s := r.State()
		if (s == RoomOpen || s == RoomCountdown) && r.PlayerCount() < RoomCapacity {
			return r
		}
	}

	if len(m.rooms) >= maxRooms {
		return nil
	}
	id := uuid.NewString()
	r := NewRoom(id, m.db, m.analytics, m.removeIfEmpty)
	m.rooms[id] = r
	go r.Run()
	return r
}

// Get returns a room by ID.
func (m *RoomManager) Get(id string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[id]
}

// removeIfEmpty reclaims a room once its last player is gone. Called
// from the room's own goroutine.
func (m *RoomManager) removeIfEmpty(id string) {
	m.mu.Lock()
	r, ok := m.rooms[id]
	if ok && r.PlayerCount() == 0 {
		delete(m.rooms, id)
	} else {
		r = nil
	}
	m.mu.Unlock()
	if r != nil {
		r.Stop()
	}
}

// List returns the rooms API snapshot.
func (m *RoomManager) List() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]RoomInfo, 0, len(m.rooms))
	for _, r := range m.rooms {
		list = append(list, RoomInfo{
			ID:      r.ID,
			State:   r.State().String(),
			Players: r.PlayerCount(),
		})
	}
	return list
}

// RoomCount returns the number of live rooms.
func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
