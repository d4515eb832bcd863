package engine

// GamePhase represents the current phase of the turn state machine.
type GamePhase int

const (
	PhaseActing    GamePhase = iota // current player spending actions
	PhaseDrawing                    // drawing two player cards
	PhaseDiscard                    // waiting for the current player to get down to the hand limit
	PhaseInfecting                  // drawing infection cards
	PhaseGameOver                   // won or lost
)

var phaseNames = map[GamePhase]string{
	PhaseActing:    "Acting",
	PhaseDrawing:   "Drawing",
	PhaseDiscard:   "Discard",
	PhaseInfecting: "Infecting",
	PhaseGameOver:  "GameOver",
}

func (p GamePhase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}

// Result is how a finished game ended.
type Result int

const (
	ResultNone Result = iota
	ResultWon
	ResultLost
)

func (r Result) String() string {
	switch r {
	case ResultWon:
		return "won"
	case ResultLost:
		return "lost"
	default:
		return "in progress"
	}
}

func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Outcome records the terminal condition that ended the game.
type Outcome struct {
	Result Result `json:"result"`
	Reason error  `json:"-"`
	Code   string `json:"code"`
	Turn   int    `json:"turn"`
}
