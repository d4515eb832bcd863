package engine

import (
	"errors"
	"math/rand/v2"
	"sort"

	"go.uber.org/zap"
)

// Game holds the entire game state. It is not safe for concurrent use; one
// owner drives it (see the session package).
type Game struct {
	Graph      *CityGraph           `json:"-"`
	Disease    *DiseaseState        `json:"-"`
	PlayerDeck *Deck[Card]          `json:"-"`
	Infection  *Deck[InfectionCard] `json:"-"`
	Players    []*Player            `json:"players"`

	Phase        GamePhase       `json:"phase"`
	Current      int             `json:"current"` // id of the player whose turn it is
	Turn         int             `json:"turn"`
	RatePosition int             `json:"rate_position"`
	Difficulty   int             `json:"difficulty"`
	StartCity    string          `json:"start_city"`
	Stations     map[string]bool `json:"-"`
	Epidemics    int             `json:"epidemics"`
	SetAside     []Card          `json:"-"` // undealt event cards
	Outcome      *Outcome        `json:"outcome,omitempty"`

	// Setup holds the events produced by NewGame (initial infections).
	Setup []Event `json:"-"`

	// turn in progress while the current player owes discards
	pending *TurnSummary

	rng *rand.Rand
	log *zap.Logger
}

// Apply is the single entry point for player actions.
func (g *Game) Apply(playerID int, action Action) ([]Event, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	p := g.GetPlayer(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer.WithData("player", playerID)
	}
	if playerID != g.Current {
		return nil, ErrNotYourTurn.WithData("player", playerID).WithData("current", g.Current)
	}

	switch action.Type {
	case ActionDiscard:
		return g.applyDiscard(p, action)
	case ActionEndTurn:
		s, err := g.EndTurn()
		if s == nil {
			return nil, err
		}
		return s.Events, err
	}

	if g.Phase != PhaseActing {
		return nil, ErrWrongPhase.WithData("phase", g.Phase.String())
	}
	if p.ActionsLeft <= 0 {
		return nil, ErrNoActionsLeft
	}

	var (
		events []Event
		err    error
	)
	switch action.Type {
	case ActionDrive:
		events, err = g.applyDrive(p, action)
	case ActionDirectFlight:
		events, err = g.applyDirectFlight(p, action)
	case ActionCharterFlight:
		events, err = g.applyCharterFlight(p, action)
	case ActionShuttleFlight:
		events, err = g.applyShuttleFlight(p, action)
	case ActionBuildStation:
		events, err = g.applyBuildStation(p, action)
	case ActionTreat:
		events, err = g.applyTreat(p, action)
	case ActionShare:
		events, err = g.applyShare(p, action)
	case ActionCure:
		events, err = g.applyCure(p, action)
	default:
		return nil, ErrInvalidAction.WithData("type", string(action.Type))
	}
	if err != nil {
		return nil, err
	}
	p.ActionsLeft--
	return events, nil
}

// GetPlayer finds a player by ID.
func (g *Game) GetPlayer(id int) *Player {
	if id < 1 || id > len(g.Players) {
		return nil
	}
	return g.Players[id-1]
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	return g.GetPlayer(g.Current)
}

// Connections returns the cities reachable by driving from the current
// player's city.
func (g *Game) Connections() []string {
	p := g.CurrentPlayer()
	if p == nil {
		return nil
	}
	return g.Graph.Neighbors(p.Location)
}

// InfectionRate is the number of infection cards drawn per turn.
func (g *Game) InfectionRate() int {
	return InfectionRateAt(g.RatePosition)
}

func (g *Game) HasStation(city string) bool {
	return g.Stations[NormalizeName(city)]
}

func (g *Game) StationCount() int {
	return len(g.Stations)
}

// StationCities returns the cities with a research station, sorted.
func (g *Game) StationCities() []string {
	out := make([]string, 0, len(g.Stations))
	for c := range g.Stations {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Over reports whether the game has been won or lost.
func (g *Game) Over() bool {
	return g.Phase == PhaseGameOver
}

// Won reports whether the game ended in a win.
func (g *Game) Won() bool {
	return g.Outcome != nil && g.Outcome.Result == ResultWon
}

// PendingDiscards is how many cards the current player still has to discard.
func (g *Game) PendingDiscards() int {
	if g.Phase != PhaseDiscard {
		return 0
	}
	return g.CurrentPlayer().OverLimit()
}

func (g *Game) finish(result Result, reason error) Event {
	g.Phase = PhaseGameOver
	code := ""
	var ce interface{ CodeText() string }
	if errors.As(reason, &ce) {
		code = ce.CodeText()
	}
	g.Outcome = &Outcome{Result: result, Reason: reason, Code: code, Turn: g.Turn}
	if result == ResultWon {
		g.log.Info("game won", zap.Int("turn", g.Turn))
		return Event{Type: EventGameWon, Data: map[string]any{"turn": g.Turn}}
	}
	g.log.Info("game lost", zap.Int("turn", g.Turn), zap.String("code", code), zap.Error(reason))
	return Event{Type: EventGameLost, Data: map[string]any{"turn": g.Turn, "code": code, "reason": reason.Error()}}
}
