package main

// Tile codes occupying one grid cell. Numeric values are part of the
// wire format (grid snapshots are sent as arrays of ints), so the
// order is fixed.
type Tile uint8

const (
	TileGrass Tile = iota
	TileWall
	TileCrate
	TileCorner
	TileStone
	TileBomb
	TileExplosion
	TilePowerSpeed
	TilePowerBomb
	TilePowerRange
)

const (
	GridRows = 15
	GridCols = 15
	TileSize = 50.0

	crateDensity = 0.4
	maxCrates    = 60
)

// TilePos addresses one cell (X = column, Y = row).
type TilePos struct {
	X, Y int
}

// Grid is the room's terrain, indexed [row][col].
type Grid [][]Tile

func (g Grid) InBounds(x, y int) bool {
	return y >= 0 && y < len(g) && x >= 0 && x < len(g[y])
}

// At returns the tile at (col, row); out-of-bounds reads as Wall so
// callers never walk off the map.
func (g Grid) At(x, y int) Tile {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g[y][x]
}

func (g Grid) Set(x, y int, t Tile) {
	if g.InBounds(x, y) {
		g[y][x] = t
	}
}

// Solid reports whether a tile permanently or temporarily blocks
// movement, not counting bombs (bomb passability depends on who asks).
func (t Tile) Solid() bool {
	switch t {
	case TileWall, TileCrate, TileCorner, TileStone:
		return true
	}
	return false
}

// IsPowerup reports whether the tile is a collectible power-up.
func (t Tile) IsPowerup() bool {
	return t == TilePowerSpeed || t == TilePowerBomb || t == TilePowerRange
}

// SpawnTiles are the four spawn corners, in join order.
var SpawnTiles = [4]TilePos{
	{1, 1},
	{GridCols - 2, 1},
	{GridCols - 2, GridRows - 2},
	{1, GridRows - 2},
}

// inSpawnZone reports whether (col, row) falls in one of the four 3x4
// protected corner zones; no crate may generate there so a spawning
// player is never boxed in.
func inSpawnZone(r, c, rows, cols int) bool {
	return (r <= 2 && c <= 3) ||
		(r <= 2 && c >= cols-4) ||
		(r >= rows-3 && c <= 3) ||
		(r >= rows-3 && c >= cols-4)
}

// GenerateGrid builds a fresh terrain layout: solid Wall border with
// Corner tiles at the four extremes, a Stone pillar lattice on even
// row / odd column intersections inside a margin, and random Crates
// elsewhere up to a cap, with the spawn zones kept clear.
// Dimensions must be odd and >= 5.
func GenerateGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	crates := 0

	for r := 0; r < rows; r++ {
		g[r] = make([]Tile, cols)
		for c := 0; c < cols; c++ {
			onBorder := r == 0 || r == rows-1 || c == 0 || c == cols-1
			if onBorder {
				if (r == 0 || r == rows-1) && (c == 0 || c == cols-1) {
					g[r][c] = TileCorner
				} else {
					g[r][c] = TileWall
				}
				continue
			}

			// Pillar lattice
			if r > 1 && r < rows-2 && c > 2 && c < cols-3 && r%2 == 0 && c%2 == 1 {
				g[r][c] = TileStone
				continue
			}

			if crates < maxCrates && !inSpawnZone(r, c, rows, cols) && randFloat() < crateDensity {
				g[r][c] = TileCrate
				crates++
				continue
			}
			g[r][c] = TileGrass
		}
	}
	return g
}

// ToInts converts the grid to the wire representation.
func (g Grid) ToInts() [][]int {
	out := make([][]int, len(g))
	for r, row := range g {
		out[r] = make([]int, len(row))
		for c, t := range row {
			out[r][c] = int(t)
		}
	}
	return out
}
