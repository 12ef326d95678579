package main

// Client -> Server message types
const (
	MsgJoin      = "join"
	MsgInput     = "input"
	MsgPlaceBomb = "place-bomb"
	MsgChat      = "message"
	MsgLeave     = "leave"
	MsgRegister  = "register"
	MsgLogin     = "login"
	MsgAuth      = "auth"
	MsgProfile   = "profile"
)

// Server -> Client message types
const (
	MsgJoinSuccess = "join-success"
	MsgJoinError   = "join-error"
	MsgPlayerList  = "player-list"
	MsgCounter     = "counter"
	MsgStartGame   = "start-game"
	MsgPlayersSync = "players-sync"
	MsgGridUpdate  = "grid-update"
	MsgStatsUpdate = "stats-update"
	MsgPlayerHit   = "player-hit"
	MsgPlayerDead  = "player-dead"
	MsgGameOver    = "game-over"
	MsgError       = "error"
	MsgAuthOK      = "auth-ok"
	MsgProfileData = "profile-data"
	MsgAchievement = "achievement"
)

// WinnerDraw is the game-over winner marker for simultaneous deaths.
const WinnerDraw = "draw"

// probe extracts only the type discriminator; handlers re-unmarshal
// the raw bytes into their own payload struct.
type probe struct {
	Type string `json:"type"`
}

// JoinMsg asks to be matched into a room.
type JoinMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// InputMsg toggles one directional flag.
type InputMsg struct {
	Type  string `json:"type"`
	Key   string `json:"key"`
	State bool   `json:"state"`
}

// ChatMsg carries chat text both directions; the server fills Username
// on relay.
type ChatMsg struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Msg      string `json:"msg"`
}

// RegisterMsg / LoginMsg / AuthMsg drive the optional account system.
type RegisterMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type JoinSuccessMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	RoomID   string `json:"roomId"`
}

type JoinErrorMsg struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type PlayerListMsg struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
	RoomID  string   `json:"roomId"`
}

type CounterMsg struct {
	Type     string `json:"type"`
	TimeLeft int    `json:"timeLeft"`
}

// StartPlayer is one entry in the start-game roster.
type StartPlayer struct {
	Username string  `json:"username"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Lives    int     `json:"lives"`
}

type StartGameMsg struct {
	Type    string        `json:"type"`
	Map     [][]int       `json:"map"`
	Players []StartPlayer `json:"players"`
}

// PlayerMove is one entry in the periodic authoritative position
// broadcast.
type PlayerMove struct {
	Username  string  `json:"username"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction"`
	IsMoving  bool    `json:"isMoving"`
}

type PlayersSyncMsg struct {
	Type  string       `json:"type"`
	Moves []PlayerMove `json:"moves"`
}

type GridUpdateMsg struct {
	Type string  `json:"type"`
	Map  [][]int `json:"map"`
}

// PlayerStats mirrors the live stat block of one player.
type PlayerStats struct {
	Lives       int `json:"lives"`
	SpeedLevel  int `json:"speedLevel"`
	MaxBombs    int `json:"maxBombs"`
	ActiveBombs int `json:"activeBombs"`
	Range       int `json:"range"`
}

type StatsUpdateMsg struct {
	Type  string      `json:"type"`
	Stats PlayerStats `json:"stats"`
}

type PlayerHitMsg struct {
	Type string `json:"type"`
}

type PlayerDeadMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type GameOverMsg struct {
	Type   string `json:"type"`
	Winner string `json:"winner"`
}

type ErrorMsg struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

type AuthOKMsg struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"playerId"`
}

type ProfileDataMsg struct {
	Type              string  `json:"type"`
	Username          string  `json:"username"`
	Level             int     `json:"level"`
	XP                int     `json:"xp"`
	Games             int     `json:"games"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	BombsPlaced       int     `json:"bombsPlaced"`
	CratesDestroyed   int     `json:"cratesDestroyed"`
	PowerupsCollected int     `json:"powerupsCollected"`
	Playtime          float64 `json:"playtime"`
}

type AchievementMsg struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RoomInfo is one entry in the GET /api/rooms listing.
type RoomInfo struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Players int    `json:"players"`
}
