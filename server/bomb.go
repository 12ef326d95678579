package main

import "time"

const (
	BombFuse        = 3000 * time.Millisecond
	ExplosionWindow = 500 * time.Millisecond
	DamageGrace     = 150 * time.Millisecond

	lootDropChance = 0.4
)

// Bomb is a live fuse on the grid. Tile coordinates; the matching cell
// carries TileBomb for as long as the bomb exists.
type Bomb struct {
	X, Y     int
	Owner    string // username
	Range    int
	PlacedAt time.Time
}

// Explosion is one burning tile. The matching cell carries
// TileExplosion until the display window elapses.
type Explosion struct {
	X, Y      int
	Owner     string
	CreatedAt time.Time
}

// placeBomb handles a place-bomb request for the given player. Invalid
// requests (capacity reached, target tile not grass) are silently
// ignored; the client infers failure from the absence of a grid
// change.
func (r *Room) placeBomb(p *Player, now time.Time) {
	if p.Dead || p.ActiveBombs >= p.MaxBombs {
		return
	}
	pos := p.CenterTile()
	if r.grid.At(pos.X, pos.Y) != TileGrass {
		return
	}

	r.grid.Set(pos.X, pos.Y, TileBomb)
	r.bombs = append(r.bombs, &Bomb{
		X:        pos.X,
		Y:        pos.Y,
		Owner:    p.Username,
		Range:    p.Range,
		PlacedAt: now,
	})
	p.ActiveBombs++
	p.BombsPlaced++
	r.gridDirty = true
}

// tickBombs detonates every bomb whose fuse has expired, including any
// chain reactions those explosions trigger, then drops the detonated
// bombs from the active list.
func (r *Room) tickBombs(now time.Time) {
	exploded := make(map[TilePos]bool)
	for _, b := range r.bombs {
		if now.Sub(b.PlacedAt) >= BombFuse {
			r.explodeBomb(b, now, exploded)
		}
	}
	if len(exploded) == 0 {
		return
	}

	remaining := r.bombs[:0]
	for _, b := range r.bombs {
		if !exploded[TilePos{b.X, b.Y}] {
			remaining = append(remaining, b)
		}
	}
	r.bombs = remaining
}

// explodeBomb converts one bomb into explosion tiles, casting a ray in
// each cardinal direction out to the bomb's range. The exploded set
// bounds chain recursion: a bomb already processed this tick is never
// processed again.
func (r *Room) explodeBomb(b *Bomb, now time.Time, exploded map[TilePos]bool) {
	center := TilePos{b.X, b.Y}
	if exploded[center] {
		return
	}
	exploded[center] = true

	// Fuse capacity returns to the owner even if they already left.
	if p := r.playerByName(b.Owner); p != nil && p.ActiveBombs > 0 {
		p.ActiveBombs--
	}

	r.igniteTile(center, b.Owner, now)

	dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range dirs {
		for dist := 1; dist <= b.Range; dist++ {
			pos := TilePos{b.X + d[0]*dist, b.Y + d[1]*dist}
			if !r.grid.InBounds(pos.X, pos.Y) || r.rayStep(pos, b.Owner, now, exploded) {
				break
			}
		}
	}
	r.gridDirty = true
}

// rayStep applies one explosion ray step at pos and reports whether
// the ray stops there.
func (r *Room) rayStep(pos TilePos, owner string, now time.Time, exploded map[TilePos]bool) bool {
	switch t := r.grid.At(pos.X, pos.Y); {
	case t == TileWall || t == TileStone || t == TileCorner:
		// Permanent terrain stops the ray cold, no explosion placed.
		return true

	case t == TileBomb:
		// Chain reaction: the hit bomb detonates now, not after its
		// own remaining fuse.
		if other := r.bombAt(pos); other != nil {
			r.explodeBomb(other, now, exploded)
		}
		return true

	case t == TileCrate:
		r.igniteTile(pos, owner, now)
		if randFloat() < lootDropChance {
			r.pendingLoot[pos] = randomPowerup()
		}
		if p := r.playerByName(owner); p != nil {
			p.CratesDestroyed++
		}
		// Crates block propagation past themselves.
		return true

	case t.IsPowerup():
		// Explosions do not destroy uncollected power-ups; the tile
		// reappears once the fire clears.
		r.pendingLoot[pos] = t
		r.igniteTile(pos, owner, now)
		return false

	default:
		r.igniteTile(pos, owner, now)
		return false
	}
}

// igniteTile marks a cell as burning. A tile already burning has its
// window refreshed rather than gaining a second entry.
func (r *Room) igniteTile(pos TilePos, owner string, now time.Time) {
	r.grid.Set(pos.X, pos.Y, TileExplosion)
	for _, e := range r.explosions {
		if e.X == pos.X && e.Y == pos.Y {
			e.CreatedAt = now
			e.Owner = owner
			return
		}
	}
	r.explosions = append(r.explosions, &Explosion{X: pos.X, Y: pos.Y, Owner: owner, CreatedAt: now})
}

// tickExplosions reverts burnt-out tiles to grass, or to the loot that
// was scheduled for that cell.
func (r *Room) tickExplosions(now time.Time) {
	remaining := r.explosions[:0]
	for _, e := range r.explosions {
		if now.Sub(e.CreatedAt) < ExplosionWindow {
			remaining = append(remaining, e)
			continue
		}
		pos := TilePos{e.X, e.Y}
		if loot, ok := r.pendingLoot[pos]; ok {
			r.grid.Set(e.X, e.Y, loot)
			delete(r.pendingLoot, pos)
		} else {
			r.grid.Set(e.X, e.Y, TileGrass)
		}
		r.gridDirty = true
	}
	r.explosions = remaining
}

// bombAt returns the live bomb on the given tile, if any.
func (r *Room) bombAt(pos TilePos) *Bomb {
	for _, b := range r.bombs {
		if b.X == pos.X && b.Y == pos.Y {
			return b
		}
	}
	return nil
}

// explosionAt returns the explosion burning on the given tile, if any.
func (r *Room) explosionAt(pos TilePos) *Explosion {
	for _, e := range r.explosions {
		if e.X == pos.X && e.Y == pos.Y {
			return e
		}
	}
	return nil
}

// randomPowerup picks the power-up dropped by a destroyed crate.
func randomPowerup() Tile {
	switch int(randFloat() * 3) {
	case 0:
		return TilePowerSpeed
	case 1:
		return TilePowerBomb
	}
	return TilePowerRange
}
