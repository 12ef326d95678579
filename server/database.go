package main

import (
	"database/sql"
	"log"
	"math"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database. It stores only out-of-match data:
// accounts, lifetime stats, match history, achievements. Live rooms
// are purely in-memory and do not survive a restart.
type DB struct {
	conn *sql.DB
}

// PlayerRow represents an account record.
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow represents lifetime stats for an account.
type StatsRow struct {
	PlayerID          int64
	Games             int
	Wins              int
	Losses            int
	BombsPlaced       int
	CratesDestroyed   int
	PowerupsCollected int
	Playtime          float64 // seconds
	XP                int
	Level             int
}

// MatchSummary is the compact per-match record persisted alongside the
// match row, msgpack-encoded.
type MatchSummary struct {
	RoomID   string               `msgpack:"room"`
	Winner   string               `msgpack:"winner"`
	Duration float64              `msgpack:"duration"`
	Players  []MatchSummaryPlayer `msgpack:"players"`
}

type MatchSummaryPlayer struct {
	Username string `msgpack:"username"`
	Won      bool   `msgpack:"won"`
	Bombs    int    `msgpack:"bombs"`
	Crates   int    `msgpack:"crates"`
	Powerups int    `msgpack:"powerups"`
	Kills    int    `msgpack:"kills"`
}

// EncodeMatchSummary serializes a match summary blob.
func EncodeMatchSummary(s MatchSummary) ([]byte, error) {
	return msgpack.Marshal(&s)
}

// DecodeMatchSummary deserializes a match summary blob.
func DecodeMatchSummary(b []byte) (MatchSummary, error) {
	var s MatchSummary
	err := msgpack.Unmarshal(b, &s)
	return s, err
}

// OpenDB opens (or creates) the SQLite database.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		games INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		bombs_placed INTEGER NOT NULL DEFAULT 0,
		crates_destroyed INTEGER NOT NULL DEFAULT 0,
		powerups_collected INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0,
		level INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		duration REAL NOT NULL DEFAULT 0,
		winner TEXT NOT NULL DEFAULT '',
		summary BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id INTEGER NOT NULL REFERENCES matches(id),
		player_id INTEGER NOT NULL REFERENCES players(id),
		won INTEGER NOT NULL DEFAULT 0,
		bombs_placed INTEGER NOT NULL DEFAULT 0,
		crates_destroyed INTEGER NOT NULL DEFAULT 0,
		powerups_collected INTEGER NOT NULL DEFAULT 0,
		kills INTEGER NOT NULL DEFAULT 0,
		xp_earned INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (match_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		room_id TEXT,
		data TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_match_players_player ON match_players(player_id);
	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new account (returns its ID).
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns an account by username, nil when absent.
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// GetStats returns lifetime stats for an account, nil when absent.
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		`SELECT player_id, games, wins, losses, bombs_placed, crates_destroyed,
		        powerups_collected, playtime, xp, level
		 FROM stats WHERE player_id = ?`,
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Games, &s.Wins, &s.Losses, &s.BombsPlaced,
		&s.CratesDestroyed, &s.PowerupsCollected, &s.Playtime, &s.XP, &s.Level)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// UsernameExists checks if an account name is taken.
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// XPForLevel returns the total XP required to reach a given level.
// Level 1 requires 0 XP; formula: sum of 100 * i^1.5 for i in 1..level-1.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0.0
	for i := 1; i < level; i++ {
		total += 100.0 * math.Pow(float64(i), 1.5)
	}
	return int(total)
}

// CalculateLevel returns the level for a given total XP amount.
func CalculateLevel(totalXP int) int {
	level := 1
	for {
		if totalXP < XPForLevel(level+1) {
			return level
		}
		level++
		if level > 100 {
			return 100
		}
	}
}

// UpdateStatsAfterMatch folds one match into an account's lifetime
// stats. Returns (totalXP, newLevel).
func (db *DB) UpdateStatsAfterMatch(playerID int64, bombs, crates, powerups int, won bool, duration float64, xpEarned int) (int, int, error) {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}

	_, err := db.conn.Exec(`
		UPDATE stats SET
			games = games + 1,
			wins = wins + ?,
			losses = losses + ?,
			bombs_placed = bombs_placed + ?,
			crates_destroyed = crates_destroyed + ?,
			powerups_collected = powerups_collected + ?,
			playtime = playtime + ?,
			xp = xp + ?
		WHERE player_id = ?`,
		winInc, lossInc, bombs, crates, powerups, duration, xpEarned, playerID,
	)
	if err != nil {
		return 0, 0, err
	}

	var totalXP int
	err = db.conn.QueryRow("SELECT xp FROM stats WHERE player_id = ?", playerID).Scan(&totalXP)
	if err != nil {
		return 0, 0, err
	}
	newLevel := CalculateLevel(totalXP)

	_, err = db.conn.Exec("UPDATE stats SET level = ? WHERE player_id = ?", newLevel, playerID)
	return totalXP, newLevel, err
}

// LeaderboardEntry represents one row in the leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Games    int    `json:"games"`
}

// GetLeaderboard returns top accounts sorted by the given field.
func (db *DB) GetLeaderboard(orderBy string, limit int) ([]LeaderboardEntry, error) {
	// Whitelist valid order columns
	validCols := map[string]string{
		"wins": "s.wins", "level": "s.level", "xp": "s.xp", "games": "s.games",
	}
	col, ok := validCols[orderBy]
	if !ok {
		col = "s.xp"
	}

	query := `SELECT p.username, s.level, s.xp, s.wins, s.losses, s.games
		FROM stats s JOIN players p ON p.id = s.player_id
		ORDER BY ` + col + ` DESC LIMIT ?`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Level, &e.XP, &e.Wins, &e.Losses, &e.Games); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// RecordMatch records a completed match and returns its ID.
func (db *DB) RecordMatch(duration float64, winner string, summary []byte) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO matches (duration, winner, summary) VALUES (?, ?, ?)",
		duration, winner, summary,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetMatchSummary loads and decodes the summary blob for a match.
func (db *DB) GetMatchSummary(matchID int64) (MatchSummary, error) {
	var blob []byte
	err := db.conn.QueryRow("SELECT summary FROM matches WHERE id = ?", matchID).Scan(&blob)
	if err != nil {
		return MatchSummary{}, err
	}
	return DecodeMatchSummary(blob)
}

// RecordMatchPlayer records one account's participation in a match.
func (db *DB) RecordMatchPlayer(matchID, playerID int64, won bool, bombs, crates, powerups, kills, xpEarned int) error {
	wonInt := 0
	if won {
		wonInt = 1
	}
	_, err := db.conn.Exec(
		`INSERT INTO match_players (match_id, player_id, won, bombs_placed, crates_destroyed, powerups_collected, kills, xp_earned)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		matchID, playerID, wonInt, bombs, crates, powerups, kills, xpEarned,
	)
	return err
}

// GetAchievements returns the unlocked achievement IDs for an account.
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	rows, err := db.conn.Query("SELECT achievement_id FROM achievements WHERE player_id = ?", playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement records an unlock; returns true if it was new.
func (db *DB) UnlockAchievement(playerID int64, achievementID string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO achievements (player_id, achievement_id) VALUES (?, ?)",
		playerID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSetting reads a settings value, "" when absent.
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a settings value.
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
