package main

// Movement tuning. Speed is pixels per second; each tick a player
// covers speed/TickRate pixels, resolved in sub-steps so a fast player
// cannot tunnel through a thin obstacle.
const (
	BaseSpeed     = 150.0
	SpeedPerLevel = 40.0
	MaxStepPx     = 4.0
)

// moveSpeed returns the player's speed in pixels per second.
func moveSpeed(p *Player) float64 {
	return BaseSpeed + float64(p.SpeedLevel)*SpeedPerLevel
}

// stepPlayers integrates held inputs into positions for every live
// player. Only the most recently pressed still-held direction is
// honored; movement is cardinal, never diagonal.
func stepPlayers(g Grid, players map[string]*Player, dt float64) {
	for _, p := range players {
		if p.Dead {
			continue
		}
		dir := p.Direction()
		if dir == DirNone {
			continue
		}
		movePlayer(g, p, dir, moveSpeed(p)*dt)
	}
}

// movePlayer advances p by dist pixels in dir, splitting the move into
// sub-steps and sliding along obstacles when only one leading-edge
// corner is blocked.
func movePlayer(g Grid, p *Player, dir Direction, dist float64) {
	for dist > 0 {
		step := dist
		if step > MaxStepPx {
			step = MaxStepPx
		}
		dist -= step
		if !moveStep(g, p, dir, step) {
			return
		}
	}
}

// moveStep attempts a single sub-step. It returns false once the
// player is fully blocked so the caller can stop early.
func moveStep(g Grid, p *Player, dir Direction, step float64) bool {
	// Tiles the player already overlaps stay passable: standing on
	// your own bomb must not pin you in place.
	pass := overlappedTiles(p.X, p.Y)

	dx, dy := dir.Delta()
	nx := p.X + dx*step
	ny := p.Y + dy*step

	f := collide(g, nx, ny, pass)
	if !f.Any() {
		p.X = nx
		p.Y = ny
		return true
	}

	// Sliding: when exactly one of the two leading-edge corners hits,
	// nudge the perpendicular axis by the same step to hug the
	// obstacle instead of stopping dead.
	var sx, sy float64
	switch dir {
	case DirRight:
		if f.TR && !f.BR {
			sy = step
		} else if f.BR && !f.TR {
			sy = -step
		}
	case DirLeft:
		if f.TL && !f.BL {
			sy = step
		} else if f.BL && !f.TL {
			sy = -step
		}
	case DirUp:
		if f.TL && !f.TR {
			sx = step
		} else if f.TR && !f.TL {
			sx = -step
		}
	case DirDown:
		if f.BL && !f.BR {
			sx = step
		} else if f.BR && !f.BL {
			sx = -step
		}
	}
	if sx == 0 && sy == 0 {
		return false
	}
	if slid := collide(g, p.X+sx, p.Y+sy, pass); !slid.Any() {
		p.X += sx
		p.Y += sy
		return true
	}
	return false
}
