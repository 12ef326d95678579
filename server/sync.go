package main

import (
	"encoding/json"
	"log"
)

// broadcastJSON marshals once and fans the same bytes out to every
// connection; sends are non-blocking and drop for slow clients.
func (r *Room) broadcastJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("room %s: marshal error: %v", r.ID, err)
		return
	}
	for _, conn := range r.conns {
		conn.SendRaw(data)
	}
}

// sendTo sends a message to one player only.
func (r *Room) sendTo(p *Player, msg interface{}) {
	if conn, ok := r.conns[p.ID]; ok {
		conn.SendJSON(msg)
	}
}

// broadcastPlayerList pushes the lobby roster, in join order.
func (r *Room) broadcastPlayerList() {
	names := make([]string, 0, len(r.joinOrder))
	for _, id := range r.joinOrder {
		names = append(names, r.players[id].Username)
	}
	r.broadcastJSON(PlayerListMsg{Type: MsgPlayerList, Players: names, RoomID: r.ID})
}

// broadcastPositions is the throttled authoritative position sync.
// Dead players are omitted; clients drop their sprites on player-dead.
func (r *Room) broadcastPositions() {
	moves := make([]PlayerMove, 0, len(r.players))
	for _, id := range r.joinOrder {
		p, ok := r.players[id]
		if !ok || p.Dead {
			continue
		}
		dir := p.Direction()
		moves = append(moves, PlayerMove{
			Username:  p.Username,
			X:         p.X,
			Y:         p.Y,
			Direction: dir.String(),
			IsMoving:  dir != DirNone,
		})
	}
	r.broadcastJSON(PlayersSyncMsg{Type: MsgPlayersSync, Moves: moves})
}
