package main

import "testing"

func testPlayerAt(x, y float64) *Player {
	p := NewPlayer("tester")
	p.ResetForMatch(TilePos{1, 1})
	p.X = x
	p.Y = y
	return p
}

func TestMoveSpeed(t *testing.T) {
	p := testPlayerAt(0, 0)
	if got := moveSpeed(p); got != BaseSpeed {
		t.Errorf("base speed = %f, want %f", got, BaseSpeed)
	}
	p.SpeedLevel = MaxSpeedLevel
	want := BaseSpeed + MaxSpeedLevel*SpeedPerLevel
	if got := moveSpeed(p); got != want {
		t.Errorf("max speed = %f, want %f", got, want)
	}
}

func TestMovePlayerFree(t *testing.T) {
	g := testGrid()
	p := testPlayerAt(1*TileSize, 1*TileSize)
	movePlayer(g, p, DirRight, 10)
	if p.X != 1*TileSize+10 {
		t.Errorf("X = %f, want %f", p.X, 1*TileSize+10)
	}
	if p.Y != 1*TileSize {
		t.Errorf("Y should be unchanged, got %f", p.Y)
	}
}

func TestMovePlayerBlockedByWall(t *testing.T) {
	g := testGrid()
	p := testPlayerAt(1*TileSize, 1*TileSize)
	movePlayer(g, p, DirLeft, 100)

	// The hitbox must never end up inside the border wall.
	if f := collide(g, p.X, p.Y, nil); f.Any() {
		t.Errorf("player ended inside a wall: %+v at X=%f", f, p.X)
	}
	if p.X+HitboxOffX < TileSize-MaxStepPx {
		t.Errorf("player pushed too far into wall, X = %f", p.X)
	}
}

func TestMovePlayerNoTunneling(t *testing.T) {
	g := testGrid()
	g.Set(3, 1, TileStone)
	p := testPlayerAt(1*TileSize, 1*TileSize)

	// A single large move must be resolved in sub-steps, never
	// skipping over the pillar.
	movePlayer(g, p, DirRight, 500)
	if f := collide(g, p.X, p.Y, nil); f.Any() {
		t.Errorf("player ended overlapping the pillar: %+v", f)
	}
	if p.X+HitboxOffX+HitboxWidth > 3*TileSize {
		t.Errorf("player tunneled past pillar, X = %f", p.X)
	}
}

func TestMovePlayerWallSlide(t *testing.T) {
	g := testGrid()
	g.Set(2, 1, TileStone)

	// Mostly below the pillar: only the top leading corner would hit,
	// so the player should slide downward and round the obstacle.
	p := testPlayerAt(1*TileSize, 60)
	movePlayer(g, p, DirRight, 300)

	if p.Y <= 60 {
		t.Errorf("expected downward slide, Y = %f", p.Y)
	}
	if p.X <= 2*TileSize {
		t.Errorf("expected player to round the pillar, X = %f", p.X)
	}
	if f := collide(g, p.X, p.Y, nil); f.Any() {
		t.Errorf("player ended inside terrain: %+v", f)
	}
}

func TestMovePlayerEscapesOwnBombTile(t *testing.T) {
	g := testGrid()
	g.Set(1, 1, TileBomb)

	p := testPlayerAt(1*TileSize, 1*TileSize)
	movePlayer(g, p, DirRight, TileSize)
	if p.X != 2*TileSize {
		t.Errorf("player should walk off own bomb tile, X = %f", p.X)
	}

	// Once fully off the tile, walking back on is blocked.
	movePlayer(g, p, DirLeft, TileSize)
	if f := collide(g, p.X, p.Y, overlappedTiles(p.X, p.Y)); f.Any() {
		t.Errorf("player ended overlapping bomb tile: %+v", f)
	}
	if p.X+HitboxOffX < 2*TileSize-MaxStepPx {
		t.Errorf("player re-entered bomb tile, X = %f", p.X)
	}
}

func TestStepPlayersHeldStack(t *testing.T) {
	g := testGrid()
	p := testPlayerAt(5*TileSize, 5*TileSize)
	players := map[string]*Player{p.ID: p}

	p.SetKey(DirRight, true)
	p.SetKey(DirDown, true)
	stepPlayers(g, players, 0.1)
	if p.Y <= 5*TileSize {
		t.Error("most recent key (down) should win")
	}
	if p.X != 5*TileSize {
		t.Error("older held key must not contribute; movement is cardinal")
	}

	p.SetKey(DirDown, false)
	y := p.Y
	stepPlayers(g, players, 0.1)
	if p.X <= 5*TileSize {
		t.Error("releasing down should fall back to held right")
	}
	if p.Y != y {
		t.Error("vertical position should be stable after release")
	}
}

func TestStepPlayersSkipsDead(t *testing.T) {
	g := testGrid()
	p := testPlayerAt(5*TileSize, 5*TileSize)
	p.SetKey(DirRight, true)
	p.Dead = true
	stepPlayers(g, map[string]*Player{p.ID: p}, 0.1)
	if p.X != 5*TileSize {
		t.Errorf("dead player moved to X = %f", p.X)
	}
}
