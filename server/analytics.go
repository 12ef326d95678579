package main

import (
	"database/sql"
	"log"
	"sync"
	"time"
)

// Event types for analytics tracking
const (
	EvtMatchStart = "match_start"
	EvtMatchEnd   = "match_end"
	EvtPlayerDead = "player_dead"
	EvtPowerup    = "powerup"
)

// AnalyticsEvent represents a single trackable event.
type AnalyticsEvent struct {
	Type      string
	PlayerID  int64
	RoomID    string
	Data      string
	Timestamp time.Time
}

// Analytics persists events with batched background writes. Tracking
// is non-blocking; a full buffer drops events rather than stalling a
// room tick.
type Analytics struct {
	db     *DB
	events chan AnalyticsEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewAnalytics creates and starts the analytics background writer.
func NewAnalytics(db *DB) *Analytics {
	a := &Analytics{
		db:     db,
		events: make(chan AnalyticsEvent, 1024),
		stop:   make(chan struct{}),
	}
	a.wg.Add(1)
	go a.writer()
	return a
}

// Track enqueues an event. Safe on a nil receiver so rooms without an
// analytics backend (tests, no database) need no guards.
func (a *Analytics) Track(evtType string, playerID int64, roomID string, data string) {
	if a == nil {
		return
	}
	select {
	case a.events <- AnalyticsEvent{
		Type:      evtType,
		PlayerID:  playerID,
		RoomID:    roomID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop the event rather than block the game loop
	}
}

// Stop gracefully shuts down the analytics writer.
func (a *Analytics) Stop() {
	if a == nil {
		return
	}
	close(a.stop)
	a.wg.Wait()
}

// writer is the background goroutine that batches and writes events.
func (a *Analytics) writer() {
	defer a.wg.Done()

	batch := make([]AnalyticsEvent, 0, 64)
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt := <-a.events:
			batch = append(batch, evt)
			if len(batch) >= 50 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				a.flush(batch)
				batch = batch[:0]
			}
		case <-a.stop:
			// Drain what is buffered. The channel stays open so a
			// straggling Track from a room goroutine cannot panic;
			// anything sent after this point is simply dropped.
			for {
				select {
				case evt := <-a.events:
					batch = append(batch, evt)
				default:
					if len(batch) > 0 {
						a.flush(batch)
					}
					return
				}
			}
		}
	}
}

// flush writes a batch of events to the database.
func (a *Analytics) flush(events []AnalyticsEvent) {
	if a.db == nil || len(events) == 0 {
		return
	}
	tx, err := a.db.conn.Begin()
	if err != nil {
		log.Printf("analytics: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO analytics_events (event_type, player_id, room_id, data, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("analytics: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullInt64{Int64: evt.PlayerID, Valid: evt.PlayerID > 0}
		rid := sql.NullString{String: evt.RoomID, Valid: evt.RoomID != ""}
		data := sql.NullString{String: evt.Data, Valid: evt.Data != ""}
		if _, err := stmt.Exec(evt.Type, pid, rid, data, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("analytics: insert error: %v", err)
		}
	}
	tx.Commit()
}
