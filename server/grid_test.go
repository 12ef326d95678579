package main

import "testing"

func TestGenerateGridDimensions(t *testing.T) {
	g := GenerateGrid(GridRows, GridCols)
	if len(g) != GridRows {
		t.Fatalf("expected %d rows, got %d", GridRows, len(g))
	}
	for r, row := range g {
		if len(row) != GridCols {
			t.Errorf("row %d: expected %d cols, got %d", r, GridCols, len(row))
		}
	}
}

func TestGenerateGridBorder(t *testing.T) {
	g := GenerateGrid(GridRows, GridCols)
	for r := 0; r < GridRows; r++ {
		for c := 0; c < GridCols; c++ {
			onBorder := r == 0 || r == GridRows-1 || c == 0 || c == GridCols-1
			tile := g.At(c, r)
			if onBorder && !tile.Solid() {
				t.Errorf("border tile (%d,%d) = %d, want solid", c, r, tile)
			}
		}
	}
	for _, p := range [4]TilePos{{0, 0}, {GridCols - 1, 0}, {0, GridRows - 1}, {GridCols - 1, GridRows - 1}} {
		if g.At(p.X, p.Y) != TileCorner {
			t.Errorf("extreme (%d,%d) = %d, want corner", p.X, p.Y, g.At(p.X, p.Y))
		}
	}
}

func TestGenerateGridStoneLattice(t *testing.T) {
	g := GenerateGrid(GridRows, GridCols)
	for r := 1; r < GridRows-1; r++ {
		for c := 1; c < GridCols-1; c++ {
			inLattice := r > 1 && r < GridRows-2 && c > 2 && c < GridCols-3 && r%2 == 0 && c%2 == 1
			isStone := g.At(c, r) == TileStone
			if inLattice != isStone {
				t.Errorf("tile (%d,%d): lattice=%v stone=%v", c, r, inLattice, isStone)
			}
		}
	}
}

func TestGenerateGridSpawnZonesClear(t *testing.T) {
	// Crates must never generate inside a spawn zone, and the spawn
	// tiles themselves must be walkable.
	for i := 0; i < 20; i++ {
		g := GenerateGrid(GridRows, GridCols)
		for _, s := range SpawnTiles {
			if g.At(s.X, s.Y) != TileGrass {
				t.Fatalf("spawn tile (%d,%d) = %d, want grass", s.X, s.Y, g.At(s.X, s.Y))
			}
		}
		for r := 1; r < GridRows-1; r++ {
			for c := 1; c < GridCols-1; c++ {
				if inSpawnZone(r, c, GridRows, GridCols) && g.At(c, r) == TileCrate {
					t.Fatalf("crate generated in spawn zone at (%d,%d)", c, r)
				}
			}
		}
	}
}

func TestGenerateGridCrateCap(t *testing.T) {
	for i := 0; i < 10; i++ {
		g := GenerateGrid(GridRows, GridCols)
		crates := 0
		for _, row := range g {
			for _, tile := range row {
				if tile == TileCrate {
					crates++
				}
			}
		}
		if crates > maxCrates {
			t.Fatalf("generated %d crates, cap is %d", crates, maxCrates)
		}
	}
}

func TestGridAtOutOfBounds(t *testing.T) {
	g := GenerateGrid(GridRows, GridCols)
	for _, p := range []TilePos{{-1, 5}, {5, -1}, {GridCols, 5}, {5, GridRows}} {
		if g.At(p.X, p.Y) != TileWall {
			t.Errorf("out-of-bounds read (%d,%d) = %d, want wall", p.X, p.Y, g.At(p.X, p.Y))
		}
	}
}

func TestGridToInts(t *testing.T) {
	g := GenerateGrid(GridRows, GridCols)
	ints := g.ToInts()
	if len(ints) != GridRows || len(ints[0]) != GridCols {
		t.Fatalf("ToInts dimensions %dx%d", len(ints), len(ints[0]))
	}
	if ints[0][0] != int(TileCorner) {
		t.Errorf("ints[0][0] = %d, want %d", ints[0][0], int(TileCorner))
	}
	if ints[1][1] != int(g.At(1, 1)) {
		t.Errorf("ints[1][1] = %d, want %d", ints[1][1], int(g.At(1, 1)))
	}
}

func TestTileSolid(t *testing.T) {
	solid := []Tile{TileWall, TileCrate, TileCorner, TileStone}
	open := []Tile{TileGrass, TileBomb, TileExplosion, TilePowerSpeed, TilePowerBomb, TilePowerRange}
	for _, tile := range solid {
		if !tile.Solid() {
			t.Errorf("tile %d should be solid", tile)
		}
	}
	for _, tile := range open {
		if tile.Solid() {
			t.Errorf("tile %d should not be solid", tile)
		}
	}
}
