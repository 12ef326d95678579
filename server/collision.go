package main

import "math"

// Player sprite and hitbox geometry. The hitbox is deliberately inset
// from the sprite bounds so sprites may overlap visually while only
// the feet region collides.
const (
	PlayerSize = 50.0

	HitboxOffX   = 10.0
	HitboxOffY   = 14.0
	HitboxWidth  = 30.0
	HitboxHeight = 32.0
)

// CornerFlags reports which hitbox corners were blocked at a sampled
// position. The caller uses the leading-edge pair for wall sliding.
type CornerFlags struct {
	TL, TR, BL, BR bool
}

func (f CornerFlags) Any() bool {
	return f.TL || f.TR || f.BL || f.BR
}

// tileAtPoint maps a pixel coordinate to its tile cell.
func tileAtPoint(px, py float64) TilePos {
	return TilePos{X: int(math.Floor(px / TileSize)), Y: int(math.Floor(py / TileSize))}
}

// hitboxCorners returns the four hitbox corner points for a sprite
// whose top-left is at (x, y), mapped to tile cells.
func hitboxCorners(x, y float64) [4]TilePos {
	left := x + HitboxOffX
	right := x + HitboxOffX + HitboxWidth
	top := y + HitboxOffY
	bottom := y + HitboxOffY + HitboxHeight
	return [4]TilePos{
		tileAtPoint(left, top),
		tileAtPoint(right, top),
		tileAtPoint(left, bottom),
		tileAtPoint(right, bottom),
	}
}

// hitboxCenterTile returns the tile under the center of the hitbox.
func hitboxCenterTile(x, y float64) TilePos {
	return tileAtPoint(x+HitboxOffX+HitboxWidth/2, y+HitboxOffY+HitboxHeight/2)
}

// overlappedTiles returns the set of tiles the hitbox currently
// touches. A bomb on one of these tiles never blocks: whoever is
// standing on it when it appears may walk off, while players outside
// may not walk onto it.
func overlappedTiles(x, y float64) map[TilePos]bool {
	set := make(map[TilePos]bool, 4)
	for _, c := range hitboxCorners(x, y) {
		set[c] = true
	}
	return set
}

// collide samples the four hitbox corners of a sprite at (x, y) and
// flags each corner whose tile is solid, or is a live bomb tile not in
// the pass set.
func collide(g Grid, x, y float64, pass map[TilePos]bool) CornerFlags {
	corners := hitboxCorners(x, y)
	blocked := func(p TilePos) bool {
		t := g.At(p.X, p.Y)
		if t.Solid() {
			return true
		}
		return t == TileBomb && !pass[p]
	}
	return CornerFlags{
		TL: blocked(corners[0]),
		TR: blocked(corners[1]),
		BL: blocked(corners[2]),
		BR: blocked(corners[3]),
	}
}
