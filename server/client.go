package main

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50

	maxJoinNameLen = 10
)

// Client represents one WebSocket connection. Simulation state is
// never mutated here; game messages are forwarded as intents to the
// owning room.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string

	msgCount   int
	msgResetAt time.Time

	// Auth state, 0/"" while unauthenticated.
	authPlayerID int64
	authUsername string

	// Room binding, written by the room goroutine via Bind/Detach.
	mu       sync.Mutex
	room     *Room
	playerID string

	handlers map[string]func(raw []byte)
}

// NewClient creates a client and registers its message dispatch table
// once; there is no handler reassignment after this point.
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	c := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
	c.handlers = map[string]func(raw []byte){
		MsgJoin:      c.handleJoin,
		MsgInput:     c.handleInput,
		MsgPlaceBomb: c.handlePlaceBomb,
		MsgChat:      c.handleChat,
		MsgLeave:     c.handleLeave,
		MsgRegister:  c.handleRegister,
		MsgLogin:     c.handleLogin,
		MsgAuth:      c.handleAuth,
		MsgProfile:   c.handleProfile,
	}
	return c
}

// Bind publishes room membership; called by the room goroutine on a
// successful join.
func (c *Client) Bind(r *Room, playerID string) {
	c.mu.Lock()
	c.room = r
	c.playerID = playerID
	c.mu.Unlock()
}

// Detach clears room membership; called by the room goroutine on
// leave or room reset.
func (c *Client) Detach() {
	c.mu.Lock()
	c.room = nil
	c.playerID = ""
	c.mu.Unlock()
}

func (c *Client) binding() (*Room, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room, c.playerID
}

// ReadPump reads messages from the WebSocket connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.dispatch(message)
	}
}

// dispatch routes one inbound message by its type discriminator.
// Malformed or unknown messages are discarded without reply.
func (c *Client) dispatch(raw []byte) {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	if h, ok := c.handlers[p.Type]; ok {
		h(raw)
	}
}

// WritePump writes messages to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes to the client. Non-blocking: a
// client too slow to drain its buffer loses the message rather than
// stalling the sender.
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) handleJoin(raw []byte) {
	var msg JoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if room, _ := c.binding(); room != nil {
		c.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "already in a room"})
		return
	}
	username := strings.TrimSpace(msg.Username)
	if username == "" || len(username) > maxJoinNameLen {
		c.SendJSON(JoinErrorMsg{Type: MsgJoinError, Msg: "username must be 1-10 characters"})
		return
	}
	c.hub.manager.Join(c, username, c.authPlayerID)
}

func (c *Client) handleInput(raw []byte) {
	var msg InputMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	dir := ParseDirection(msg.Key)
	if dir == DirNone {
		return
	}
	if room, pid := c.binding(); room != nil {
		room.Post(inputCmd{playerID: pid, dir: dir, pressed: msg.State})
	}
}

func (c *Client) handlePlaceBomb(raw []byte) {
	if room, pid := c.binding(); room != nil {
		room.Post(bombCmd{playerID: pid})
	}
}

func (c *Client) handleChat(raw []byte) {
	var msg ChatMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if room, pid := c.binding(); room != nil {
		room.Post(chatCmd{playerID: pid, msg: msg.Msg})
	}
}

func (c *Client) handleLeave(raw []byte) {
	if room, pid := c.binding(); room != nil {
		room.Post(leaveCmd{playerID: pid})
	}
}

func (c *Client) handleRegister(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: err.Error()})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: token, Username: msg.Username, PlayerID: id})
}

func (c *Client) handleLogin(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: err.Error()})
		return
	}
	c.authPlayerID = id
	c.authUsername = msg.Username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: token, Username: msg.Username, PlayerID: id})
}

func (c *Client) handleAuth(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "invalid token"})
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: msg.Token, Username: username, PlayerID: id})
}

func (c *Client) handleProfile(raw []byte) {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "not authenticated"})
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "profile not found"})
		return
	}
	c.SendJSON(ProfileDataMsg{
		Type:              MsgProfileData,
		Username:          c.authUsername,
		Level:             stats.Level,
		XP:                stats.XP,
		Games:             stats.Games,
		Wins:              stats.Wins,
		Losses:            stats.Losses,
		BombsPlaced:       stats.BombsPlaced,
		CratesDestroyed:   stats.CratesDestroyed,
		PowerupsCollected: stats.PowerupsCollected,
		Playtime:          stats.Playtime,
	})
}
