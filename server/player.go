package main

import "time"

const (
	DefaultLives    = 3
	DefaultMaxBombs = 1
	DefaultRange    = 1

	MaxSpeedLevel = 3
	MaxBombCap    = 4
	MaxRangeCap   = 5

	InvulnWindow = 1 * time.Second
)

// Direction is one of the four cardinal movement directions.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// ParseDirection maps a protocol key name to a direction.
func ParseDirection(key string) Direction {
	switch key {
	case "up":
		return DirUp
	case "down":
		return DirDown
	case "left":
		return DirLeft
	case "right":
		return DirRight
	}
	return DirNone
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Delta returns the unit displacement for the direction.
func (d Direction) Delta() (dx, dy float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Player is one participant in a room. All fields are owned by the
// room goroutine; the connection only ever posts intents.
type Player struct {
	ID       string
	Username string

	X, Y float64

	Lives       int
	SpeedLevel  int
	MaxBombs    int
	ActiveBombs int
	Range       int
	Dead        bool

	InvulnerableUntil time.Time

	// held is the ordered stack of currently held direction keys; the
	// last entry wins.
	held []Direction

	lastChat time.Time

	// Linked account, 0 for guests.
	AuthPlayerID int64

	// Per-match counters, persisted and fed to achievements on match
	// end.
	BombsPlaced       int
	CratesDestroyed   int
	PowerupsCollected int
	Kills             int
}

// NewPlayer creates a player in lobby state; stats are assigned when
// the match starts.
func NewPlayer(username string) *Player {
	return &Player{
		ID:       GenerateID(4),
		Username: username,
	}
}

// ResetForMatch places the player on a spawn tile with default stats.
func (p *Player) ResetForMatch(spawn TilePos) {
	p.X = float64(spawn.X) * TileSize
	p.Y = float64(spawn.Y) * TileSize
	p.Lives = DefaultLives
	p.SpeedLevel = 0
	p.MaxBombs = DefaultMaxBombs
	p.ActiveBombs = 0
	p.Range = DefaultRange
	p.Dead = false
	p.InvulnerableUntil = time.Time{}
	p.held = p.held[:0]
	p.BombsPlaced = 0
	p.CratesDestroyed = 0
	p.PowerupsCollected = 0
	p.Kills = 0
}

// SetKey records a key press or release. A re-press moves the key to
// the top of the stack.
func (p *Player) SetKey(dir Direction, pressed bool) {
	if dir == DirNone {
		return
	}
	for i, d := range p.held {
		if d == dir {
			p.held = append(p.held[:i], p.held[i+1:]...)
			break
		}
	}
	if pressed {
		p.held = append(p.held, dir)
	}
}

// Direction returns the direction currently honored: the most recently
// pressed key that is still held.
func (p *Player) Direction() Direction {
	if len(p.held) == 0 {
		return DirNone
	}
	return p.held[len(p.held)-1]
}

// CenterTile returns the tile under the player's hitbox center.
func (p *Player) CenterTile() TilePos {
	return hitboxCenterTile(p.X, p.Y)
}

// Hit applies one life of explosion damage if the player is currently
// vulnerable. It returns (hit, died).
func (p *Player) Hit(now time.Time) (bool, bool) {
	if p.Dead || now.Before(p.InvulnerableUntil) {
		return false, false
	}
	p.Lives--
	p.InvulnerableUntil = now.Add(InvulnWindow)
	if p.Lives <= 0 {
		p.Lives = 0
		p.Dead = true
		return true, true
	}
	return true, false
}

// Stats returns the snapshot sent in stats-update messages.
func (p *Player) Stats() PlayerStats {
	return PlayerStats{
		Lives:       p.Lives,
		SpeedLevel:  p.SpeedLevel,
		MaxBombs:    p.MaxBombs,
		ActiveBombs: p.ActiveBombs,
		Range:       p.Range,
	}
}
