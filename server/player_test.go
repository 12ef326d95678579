package main

import (
	"testing"
	"time"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("alice")
	if p.Username != "alice" {
		t.Errorf("username = %s", p.Username)
	}
	if p.ID == "" {
		t.Error("expected generated ID")
	}
	if p.ID == NewPlayer("bob").ID {
		t.Error("IDs should be unique")
	}
}

func TestResetForMatch(t *testing.T) {
	p := NewPlayer("alice")
	p.Lives = 0
	p.Dead = true
	p.SpeedLevel = 2
	p.Range = 4
	p.Kills = 3
	p.SetKey(DirUp, true)

	p.ResetForMatch(TilePos{13, 1})
	if p.X != 13*TileSize || p.Y != 1*TileSize {
		t.Errorf("spawn position = (%f, %f)", p.X, p.Y)
	}
	if p.Dead || p.Lives != DefaultLives {
		t.Errorf("lives = %d dead = %v", p.Lives, p.Dead)
	}
	if p.SpeedLevel != 0 || p.MaxBombs != DefaultMaxBombs || p.Range != DefaultRange {
		t.Error("stat levels should reset to defaults")
	}
	if p.Kills != 0 || p.Direction() != DirNone {
		t.Error("match counters and held keys should clear")
	}
}

func TestSetKeyStack(t *testing.T) {
	p := NewPlayer("alice")
	p.SetKey(DirUp, true)
	p.SetKey(DirLeft, true)
	if p.Direction() != DirLeft {
		t.Errorf("direction = %s, want left", p.Direction())
	}

	// Re-pressing an already held key moves it to the top.
	p.SetKey(DirUp, true)
	if p.Direction() != DirUp {
		t.Errorf("direction = %s, want up", p.Direction())
	}

	p.SetKey(DirUp, false)
	if p.Direction() != DirLeft {
		t.Errorf("direction = %s, want left after release", p.Direction())
	}
	p.SetKey(DirLeft, false)
	if p.Direction() != DirNone {
		t.Errorf("direction = %s, want none", p.Direction())
	}
}

func TestPlayerHit(t *testing.T) {
	p := NewPlayer("alice")
	p.ResetForMatch(TilePos{1, 1})
	now := time.Now()

	hit, died := p.Hit(now)
	if !hit || died {
		t.Fatalf("hit = %v died = %v", hit, died)
	}
	if p.Lives != DefaultLives-1 {
		t.Errorf("lives = %d", p.Lives)
	}

	// Inside the invulnerability window nothing lands.
	if hit, _ := p.Hit(now.Add(InvulnWindow / 2)); hit {
		t.Error("hit during invulnerability window")
	}

	// Burn through the remaining lives.
	later := now
	for i := 0; i < DefaultLives-1; i++ {
		later = later.Add(InvulnWindow + time.Millisecond)
		hit, died = p.Hit(later)
		if !hit {
			t.Fatalf("hit %d did not land", i+2)
		}
	}
	if !died || !p.Dead || p.Lives != 0 {
		t.Errorf("died = %v dead = %v lives = %d", died, p.Dead, p.Lives)
	}

	// The dead take no further damage.
	if hit, _ := p.Hit(later.Add(time.Hour)); hit {
		t.Error("dead player should not be hittable")
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"up":    DirUp,
		"down":  DirDown,
		"left":  DirLeft,
		"right": DirRight,
		"jump":  DirNone,
		"":      DirNone,
	}
	for key, want := range cases {
		if got := ParseDirection(key); got != want {
			t.Errorf("ParseDirection(%q) = %v, want %v", key, got, want)
		}
	}
}
