package main

import (
	"log"
	"time"
)

// matchResultLine is one player's outcome, snapshotted at match end so
// persistence can run off the room goroutine.
type matchResultLine struct {
	Username  string
	AuthID    int64
	Won       bool
	Bombs     int
	Crates    int
	Powerups  int
	Kills     int
	LivesLeft int
	conn      Conn
}

// xpForMatch is the per-match XP reward curve.
func xpForMatch(line matchResultLine) int {
	xp := 20 + line.Crates*2 + line.Powerups*3 + line.Kills*25
	if line.Won {
		xp += 50
	}
	return xp
}

// recordMatch snapshots the result and persists it in the background.
// The tick loop never waits on the database.
func (r *Room) recordMatch(duration time.Duration, winner string) {
	if r.db == nil {
		return
	}

	lines := make([]matchResultLine, 0, len(r.players))
	for id, p := range r.players {
		lines = append(lines, matchResultLine{
			Username:  p.Username,
			AuthID:    p.AuthPlayerID,
			Won:       p.Username == winner,
			Bombs:     p.BombsPlaced,
			Crates:    p.CratesDestroyed,
			Powerups:  p.PowerupsCollected,
			Kills:     p.Kills,
			LivesLeft: p.Lives,
			conn:      r.conns[id],
		})
	}

	db := r.db
	roomID := r.ID
	go persistMatch(db, roomID, duration, winner, lines)
}

// persistMatch writes the match row, per-account lines and lifetime
// stats, then runs achievement checks and pushes any unlocks to the
// players still connected.
func persistMatch(db *DB, roomID string, duration time.Duration, winner string, lines []matchResultLine) {
	summary := MatchSummary{
		RoomID:   roomID,
		Winner:   winner,
		Duration: duration.Seconds(),
	}
	for _, l := range lines {
		summary.Players = append(summary.Players, MatchSummaryPlayer{
			Username: l.Username,
			Won:      l.Won,
			Bombs:    l.Bombs,
			Crates:   l.Crates,
			Powerups: l.Powerups,
			Kills:    l.Kills,
		})
	}
	blob, err := EncodeMatchSummary(summary)
	if err != nil {
		log.Printf("match summary encode error: %v", err)
		return
	}

	matchID, err := db.RecordMatch(duration.Seconds(), winner, blob)
	if err != nil {
		log.Printf("record match error: %v", err)
		return
	}

	for _, l := range lines {
		if l.AuthID == 0 {
			continue // guest, nothing to persist
		}
		xp := xpForMatch(l)
		if err := db.RecordMatchPlayer(matchID, l.AuthID, l.Won, l.Bombs, l.Crates, l.Powerups, l.Kills, xp); err != nil {
			log.Printf("record match player error: %v", err)
		}
		if _, _, err := db.UpdateStatsAfterMatch(l.AuthID, l.Bombs, l.Crates, l.Powerups, l.Won, duration.Seconds(), xp); err != nil {
			log.Printf("update stats error: %v", err)
			continue
		}
		for _, def := range CheckAchievements(db, l.AuthID, l.Won, l.LivesLeft) {
			if l.conn != nil {
				l.conn.SendJSON(AchievementMsg{
					Type:        MsgAchievement,
					ID:          def.ID,
					Name:        def.Name,
					Description: def.Description,
				})
			}
		}
	}
}
