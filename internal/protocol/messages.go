package protocol

// Message types: shell → client
const (
	MsgGameCreated = "game_created"
	MsgState       = "state"
	MsgEvent       = "event"
	MsgTurn        = "turn"
	MsgInfo        = "info"
	MsgError       = "error"
	MsgBye         = "bye"
)

// Message types: client → shell. Game actions use the engine ActionType
// names (drive, direct_flight, ..., discard, end_turn).
const (
	MsgNewGame     = "new_game"
	MsgStatus      = "status"
	MsgHand        = "hand"
	MsgConnections = "connections"
	MsgCity        = "city"
	MsgQuit        = "quit"
)

// NewGameMsg starts a game.
type NewGameMsg struct {
	Players    int    `json:"players"`
	Difficulty int    `json:"difficulty"`
	Seed       uint64 `json:"seed,omitempty"`
}

// QueryMsg asks a read-only question; Arg is a player id, a city name or
// empty depending on the query.
type QueryMsg struct {
	Arg string `json:"arg,omitempty"`
}

// GameCreated is sent once a game has been set up.
type GameCreated struct {
	GameID string `json:"game_id"`
	Seed   uint64 `json:"seed"`
}

// TurnMsg announces whose turn it is.
type TurnMsg struct {
	Player      int    `json:"player"`
	Role        string `json:"role"`
	Location    string `json:"location"`
	ActionsLeft int    `json:"actions_left"`
	Phase       string `json:"phase"`
	Discard     int    `json:"discard,omitempty"`
}

// InfoMsg carries the answer to a read-only query.
type InfoMsg struct {
	Topic string   `json:"topic"`
	Lines []string `json:"lines"`
}

// ErrorMsg is sent when a command fails.
type ErrorMsg struct {
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}
