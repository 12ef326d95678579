package main

import "testing"

// testGrid builds an all-grass arena with a solid wall border, so
// tests control every obstacle explicitly.
func testGrid() Grid {
	g := make(Grid, GridRows)
	for r := range g {
		g[r] = make([]Tile, GridCols)
		for c := range g[r] {
			if r == 0 || r == GridRows-1 || c == 0 || c == GridCols-1 {
				g[r][c] = TileWall
			}
		}
	}
	return g
}

func TestCollideOpenGround(t *testing.T) {
	g := testGrid()
	f := collide(g, 1*TileSize, 1*TileSize, nil)
	if f.Any() {
		t.Errorf("expected no collision on open ground, got %+v", f)
	}
}

func TestCollideWall(t *testing.T) {
	g := testGrid()
	// Push the sprite far enough left that the hitbox's left edge
	// enters the border wall column.
	x := TileSize - HitboxOffX - 1
	f := collide(g, x, 1*TileSize, nil)
	if !f.TL || !f.BL {
		t.Errorf("expected left corners blocked, got %+v", f)
	}
	if f.TR || f.BR {
		t.Errorf("right corners should be free, got %+v", f)
	}
}

func TestCollideBombAsymmetry(t *testing.T) {
	g := testGrid()
	g.Set(1, 1, TileBomb)

	// A player standing on the bomb tile passes through it.
	onBomb := overlappedTiles(1*TileSize, 1*TileSize)
	if f := collide(g, 1*TileSize, 1*TileSize, onBomb); f.Any() {
		t.Errorf("player on bomb tile should not collide, got %+v", f)
	}

	// A player outside the tile is blocked by it.
	outside := overlappedTiles(2*TileSize, 1*TileSize)
	x := 2*TileSize - HitboxOffX - 1
	if f := collide(g, x, 1*TileSize, outside); !f.TL || !f.BL {
		t.Errorf("player outside should be blocked by bomb, got %+v", f)
	}
}

func TestHitboxCenterTile(t *testing.T) {
	for _, s := range SpawnTiles {
		got := hitboxCenterTile(float64(s.X)*TileSize, float64(s.Y)*TileSize)
		if got != s {
			t.Errorf("center of sprite at spawn %v = %v", s, got)
		}
	}
}

func TestOverlappedTilesSingle(t *testing.T) {
	set := overlappedTiles(1*TileSize, 1*TileSize)
	if len(set) != 1 || !set[TilePos{1, 1}] {
		t.Errorf("aligned sprite should overlap exactly its own tile, got %v", set)
	}
}

func TestOverlappedTilesStraddle(t *testing.T) {
	// Halfway between two columns the hitbox touches both.
	set := overlappedTiles(1.5*TileSize, 1*TileSize)
	if !set[TilePos{1, 1}] || !set[TilePos{2, 1}] {
		t.Errorf("straddling sprite should overlap both tiles, got %v", set)
	}
}
