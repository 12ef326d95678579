package main

import (
	"math"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

const (
	TickRate       = 30 // simulation ticks per second
	BroadcastRate  = 15 // players-sync broadcasts per second
	TickDuration   = time.Second / TickRate
	BroadcastEvery = TickRate / BroadcastRate

	RoomCapacity = 4
	MinToStart   = 2

	MaxChatLen   = 30
	ChatCooldown = time.Second
)

// Lifecycle delays are vars so tests can shorten them.
var (
	CountdownLong  = 10 * time.Second // 2-3 players
	CountdownShort = 5 * time.Second  // full room starts faster
	ResetDelay     = 3 * time.Second  // result screen time before reset
)

// RoomState is the lifecycle phase of a room.
type RoomState int32

const (
	RoomOpen RoomState = iota
	RoomCountdown
	RoomActive
	RoomEnded
)

func (s RoomState) String() string {
	switch s {
	case RoomOpen:
		return "open"
	case RoomCountdown:
		return "countdown"
	case RoomActive:
		return "active"
	case RoomEnded:
		return "ended"
	}
	return "unknown"
}

// Conn is the room's view of a player connection. Sends must never
// block the tick loop; Bind/Detach publish room membership back to the
// connection.
type Conn interface {
	SendJSON(v interface{})
	SendRaw(data []byte)
	Bind(r *Room, playerID string)
	Detach()
}

// Inbound intents. Network callbacks never touch room state directly;
// they post one of these and the room goroutine applies it.
type joinCmd struct {
	conn     Conn
	username string
	authID   int64
}

type leaveCmd struct{ playerID string }

type inputCmd struct {
	playerID string
	dir      Direction
	pressed  bool
}

type bombCmd struct{ playerID string }

type chatCmd struct {
	playerID string
	msg      string
}

// Room owns one match. All mutable state below the atomics is touched
// only by the Run goroutine; everything else reads the atomics or
// posts to inbox.
type Room struct {
	ID    string
	inbox chan interface{}
	quit  chan struct{}

	// Published for the manager and the rooms API.
	stateVal    atomic.Int32
	playerCount atomic.Int32

	players   map[string]*Player // playerID -> player
	conns     map[string]Conn
	joinOrder []string

	grid        Grid
	bombs       []*Bomb
	explosions  []*Explosion
	pendingLoot map[TilePos]Tile
	gridDirty   bool

	tick          uint64
	countdownEnds time.Time
	lastCounter   int
	matchStart    time.Time
	endedAt       time.Time

	db        *DB
	analytics *Analytics
	onEmpty   func(id string)
}

// NewRoom creates an open room with a freshly generated grid.
func NewRoom(id string, db *DB, analytics *Analytics, onEmpty func(string)) *Room {
	r := &Room{
		ID:          id,
		inbox:       make(chan interface{}, 256),
		quit:        make(chan struct{}),
		players:     make(map[string]*Player),
		conns:       make(map[string]Conn),
		grid:        GenerateGrid(GridRows, GridCols),
		pendingLoot: make(map[TilePos]Tile),
		db:          db,
		analytics:   analytics,
		onEmpty:     onEmpty,
	}
	r.stateVal.Store(int32(RoomOpen))
	return r
}

// State reports the current lifecycle phase (safe from any goroutine).
func (r *Room) State() RoomState {
	return RoomState(r.stateVal.Load())
}

// PlayerCount reports the current population (safe from any
// goroutine).
func (r *Room) PlayerCount() int {
	return int(r.playerCount.Load())
}

func (r *Room) setState(s RoomState) {
	r.stateVal.Store(int32(s))
}

// Post delivers an intent to the room without ever blocking the
// caller; intents posted to a wedged room are dropped.
func (r *Room) Post(cmd interface{}) bool {
	select {
	case r.inbox <- cmd:
		return true
	default:
		return false
	}
}

// Stop terminates the room goroutine.
func (r *Room) Stop() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
}

// Run is the room's single scheduling context: one goroutine, one
// ticker, one ordered pipeline per tick. Ticks never overlap.
func (r *Room) Run() {
	ticker := time.NewTicker(TickDuration)
	defer ticker.Stop()
	defer r.drainJoins()

	for {
		// quit wins over a ready inbox: a stopped room handles no
		// further commands.
		select {
		case <-r.quit:
			return
		default:
		}
		select {
		case <-r.quit:
			return
		case cmd := <-r.inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.update(time.Now())
		}
	}
}

// drainJoins answers join intents still queued when the room stops so
// a connection matched in just before reclamation gets a reply.
func (r *Room) drainJoins() {
	for {
		select {
		case cmd := <-r.inbox:
			if c, ok := cmd.(joinCmd); ok {
				c.conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "room closed, try again"})
			}
		default:
			return
		}
	}
}

func (r *Room) handleCommand(cmd interface{}) {
	switch c := cmd.(type) {
	case joinCmd:
		r.handleJoin(c)
	case leaveCmd:
		r.handleLeave(c.playerID)
	case inputCmd:
		if p, ok := r.players[c.playerID]; ok && !p.Dead {
			p.SetKey(c.dir, c.pressed)
		}
	case bombCmd:
		if p, ok := r.players[c.playerID]; ok && r.State() == RoomActive {
			r.placeBomb(p, time.Now())
		}
	case chatCmd:
		r.handleChat(c)
	}
}

func (r *Room) handleJoin(c joinCmd) {
	if s := r.State(); s != RoomOpen && s != RoomCountdown {
		c.conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "room already started"})
		return
	}
	if len(r.players) >= RoomCapacity {
		c.conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "room is full"})
		return
	}
	for _, p := range r.players {
		if p.Username == c.username {
			c.conn.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "username already taken"})
			return
		}
	}

	p := NewPlayer(c.username)
	p.AuthPlayerID = c.authID
	r.players[p.ID] = p
	r.conns[p.ID] = c.conn
	r.joinOrder = append(r.joinOrder, p.ID)
	r.playerCount.Store(int32(len(r.players)))

	c.conn.Bind(r, p.ID)
	c.conn.SendJSON(JoinSuccessMsg{Type: MsgJoinSuccess, Username: c.username, RoomID: r.ID})
	r.broadcastPlayerList()
	r.recalcCountdown(time.Now())
}

func (r *Room) handleLeave(playerID string) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	if conn, ok := r.conns[playerID]; ok {
		conn.Detach()
		delete(r.conns, playerID)
	}
	delete(r.players, playerID)
	for i, id := range r.joinOrder {
		if id == playerID {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	r.playerCount.Store(int32(len(r.players)))

	switch r.State() {
	case RoomOpen, RoomCountdown:
		r.broadcastPlayerList()
		r.recalcCountdown(time.Now())
	case RoomActive:
		// A disconnect mid-match counts as an immediate death.
		if !p.Dead {
			r.broadcastJSON(PlayerDeadMsg{Type: MsgPlayerDead, Username: p.Username})
		}
		r.checkWin(time.Now())
	}

	if len(r.players) == 0 && r.onEmpty != nil {
		r.onEmpty(r.ID)
	}
}

func (r *Room) handleChat(c chatCmd) {
	p, ok := r.players[c.playerID]
	if !ok {
		return
	}
	now := time.Now()
	if now.Sub(p.lastChat) < ChatCooldown {
		return
	}
	p.lastChat = now

	msg := c.msg
	if msg == "" {
		return
	}
	if len(msg) > MaxChatLen {
		// Clamp on a rune boundary so a multi-byte character is
		// dropped whole instead of leaving a mangled tail.
		cut := MaxChatLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	r.broadcastJSON(ChatMsg{Type: MsgChat, Username: p.Username, Msg: msg})
}

// recalcCountdown reacts to population changes while waiting: below
// the start threshold there is no countdown; at full capacity the
// short countdown (re)starts; otherwise the long one runs.
func (r *Room) recalcCountdown(now time.Time) {
	n := len(r.players)
	switch {
	case n < MinToStart:
		if r.State() == RoomCountdown {
			r.setState(RoomOpen)
		}
	case n >= RoomCapacity:
		r.setState(RoomCountdown)
		r.countdownEnds = now.Add(CountdownShort)
		r.lastCounter = -1
	default:
		if r.State() != RoomCountdown {
			r.setState(RoomCountdown)
			r.countdownEnds = now.Add(CountdownLong)
			r.lastCounter = -1
		}
	}
}

// update runs one tick of the room pipeline.
func (r *Room) update(now time.Time) {
	r.tick++

	switch r.State() {
	case RoomCountdown:
		r.tickCountdown(now)
	case RoomActive:
		r.tickMatch(now)
	case RoomEnded:
		if now.Sub(r.endedAt) >= ResetDelay {
			r.reset()
		}
	}
}

// tickCountdown broadcasts the counter once per second and starts the
// match when the deadline passes. All timing is a wall-clock
// comparison inside the tick, not a separate timer.
func (r *Room) tickCountdown(now time.Time) {
	rem := r.countdownEnds.Sub(now)
	if rem <= 0 {
		r.broadcastJSON(CounterMsg{Type: MsgCounter, TimeLeft: 0})
		r.startMatch(now)
		return
	}
	secs := int(math.Ceil(rem.Seconds()))
	if secs != r.lastCounter {
		r.lastCounter = secs
		r.broadcastJSON(CounterMsg{Type: MsgCounter, TimeLeft: secs})
	}
}

// startMatch assigns spawn corners in join order, resets stats, and
// enters the Active state.
func (r *Room) startMatch(now time.Time) {
	r.setState(RoomActive)
	r.matchStart = now
	r.bombs = nil
	r.explosions = nil
	r.pendingLoot = make(map[TilePos]Tile)
	r.gridDirty = false

	roster := make([]StartPlayer, 0, len(r.players))
	for i, id := range r.joinOrder {
		p := r.players[id]
		p.ResetForMatch(SpawnTiles[i%len(SpawnTiles)])
		roster = append(roster, StartPlayer{
			Username: p.Username,
			X:        p.X,
			Y:        p.Y,
			Lives:    p.Lives,
		})
	}

	r.broadcastJSON(StartGameMsg{Type: MsgStartGame, Map: r.grid.ToInts(), Players: roster})
	r.analytics.Track(EvtMatchStart, 0, r.ID, "")
}

// tickMatch is the per-tick Active pipeline: physics, bomb fuses,
// explosion expiry, power-ups, damage, win check, broadcasts.
func (r *Room) tickMatch(now time.Time) {
	stepPlayers(r.grid, r.players, 1.0/float64(TickRate))
	r.tickBombs(now)
	r.tickExplosions(now)
	r.tickPowerups()
	r.tickDamage(now)
	if r.checkWin(now) {
		return
	}

	if r.tick%BroadcastEvery == 0 {
		r.broadcastPositions()
	}
	if r.gridDirty {
		r.broadcastJSON(GridUpdateMsg{Type: MsgGridUpdate, Map: r.grid.ToInts()})
		r.gridDirty = false
	}
}

// tickDamage hurts live players standing on an explosion tile that has
// been burning past the grace delay, honoring per-player
// invulnerability windows.
func (r *Room) tickDamage(now time.Time) {
	for _, p := range r.players {
		if p.Dead {
			continue
		}
		pos := p.CenterTile()
		e := r.explosionAt(pos)
		if e == nil || now.Sub(e.CreatedAt) < DamageGrace {
			continue
		}
		hit, died := p.Hit(now)
		if !hit {
			continue
		}
		r.sendTo(p, PlayerHitMsg{Type: MsgPlayerHit})
		r.sendTo(p, StatsUpdateMsg{Type: MsgStatsUpdate, Stats: p.Stats()})
		if died {
			r.broadcastJSON(PlayerDeadMsg{Type: MsgPlayerDead, Username: p.Username})
			if e.Owner != p.Username {
				if killer := r.playerByName(e.Owner); killer != nil {
					killer.Kills++
				}
			}
			r.analytics.Track(EvtPlayerDead, p.AuthPlayerID, r.ID, p.Username)
		}
	}
}

// checkWin ends the match once at most one player is left alive.
// Exactly one alive player wins; zero alive is a draw.
func (r *Room) checkWin(now time.Time) bool {
	if r.State() != RoomActive {
		return false
	}
	var alive *Player
	count := 0
	for _, p := range r.players {
		if !p.Dead {
			alive = p
			count++
		}
	}
	if count > 1 {
		return false
	}

	winner := WinnerDraw
	if count == 1 {
		winner = alive.Username
	}
	r.finishMatch(now, winner, alive)
	return true
}

func (r *Room) finishMatch(now time.Time, winner string, winnerPlayer *Player) {
	r.setState(RoomEnded)
	r.endedAt = now
	r.broadcastJSON(GameOverMsg{Type: MsgGameOver, Winner: winner})
	r.analytics.Track(EvtMatchEnd, 0, r.ID, winner)
	r.recordMatch(now.Sub(r.matchStart), winner)
}

// reset tears the finished room down: players are detached (their
// clients return to the lobby and can be matched again) and the empty
// room is handed back to the manager.
func (r *Room) reset() {
	for id, conn := range r.conns {
		conn.Detach()
		delete(r.conns, id)
	}
	r.players = make(map[string]*Player)
	r.joinOrder = nil
	r.playerCount.Store(0)
	r.grid = GenerateGrid(GridRows, GridCols)
	r.bombs = nil
	r.explosions = nil
	r.pendingLoot = make(map[TilePos]Tile)
	r.gridDirty = false
	r.setState(RoomOpen)

	if r.onEmpty != nil {
		r.onEmpty(r.ID)
	}
}

// playerByName resolves a username to the live player entry, nil when
// the player already left the room.
func (r *Room) playerByName(username string) *Player {
	for _, p := range r.players {
		if p.Username == username {
			return p
		}
	}
	return nil
}
