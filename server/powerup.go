package main

// tickPowerups collects any power-up under a live player's hitbox
// center: the stat bumps (capped), the tile clears to grass, and only
// the collecting player gets a stats-update.
func (r *Room) tickPowerups() {
	for _, p := range r.players {
		if p.Dead {
			continue
		}
		pos := p.CenterTile()
		t := r.grid.At(pos.X, pos.Y)
		if !t.IsPowerup() {
			continue
		}

		switch t {
		case TilePowerSpeed:
			if p.SpeedLevel < MaxSpeedLevel {
				p.SpeedLevel++
			}
		case TilePowerBomb:
			if p.MaxBombs < MaxBombCap {
				p.MaxBombs++
			}
		case TilePowerRange:
			if p.Range < MaxRangeCap {
				p.Range++
			}
		}

		r.grid.Set(pos.X, pos.Y, TileGrass)
		r.gridDirty = true
		p.PowerupsCollected++
		r.sendTo(p, StatsUpdateMsg{Type: MsgStatsUpdate, Stats: p.Stats()})
		r.analytics.Track(EvtPowerup, p.AuthPlayerID, r.ID, t.powerupName())
	}
}

// powerupName labels a power-up tile for analytics payloads.
func (t Tile) powerupName() string {
	switch t {
	case TilePowerSpeed:
		return "speed"
	case TilePowerBomb:
		return "bomb-up"
	case TilePowerRange:
		return "range"
	}
	return ""
}
