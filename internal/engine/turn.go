package engine

import "go.uber.org/zap"

// CardsPerTurn is how many player cards are drawn at the end of each turn.
const CardsPerTurn = 2

// TurnSummary describes what happened after the acting phase of one turn.
type TurnSummary struct {
	Player         int             `json:"player"`
	Drawn          []Card          `json:"drawn"`
	Epidemics      int             `json:"epidemics"`
	Infected       []InfectionCard `json:"infected"`
	NextPlayer     int             `json:"next_player,omitempty"`
	PendingDiscard int             `json:"pending_discard,omitempty"`
	Events         []Event         `json:"events"`
}

// EndTurn finishes the current player's acting phase: it draws CardsPerTurn
// player cards, resolving epidemics as they come, then infects
// InfectionRate cities and passes the turn on.
//
// If the draw leaves the player above HandLimit the game waits in
// PhaseDiscard and the returned summary has PendingDiscard set; the turn
// resumes once enough ActionDiscard actions have been applied.
//
// A loss condition returns the summary so far together with the loss error.
func (g *Game) EndTurn() (*TurnSummary, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if g.Phase != PhaseActing {
		return nil, ErrWrongPhase.WithData("phase", g.Phase.String())
	}

	p := g.CurrentPlayer()
	s := &TurnSummary{Player: p.ID}
	s.Events = append(s.Events, Event{Type: EventTurnEnd, Player: p.ID, Data: map[string]any{
		"turn": g.Turn, "actions_left": p.ActionsLeft,
	}})
	g.setPhase(s, PhaseDrawing)

	for i := 0; i < CardsPerTurn; i++ {
		cards, err := g.PlayerDeck.Draw(1)
		if err != nil {
			return g.lose(s, err)
		}
		c := cards[0]
		if c.IsEpidemic() {
			s.Epidemics++
			events, err := g.resolveEpidemic()
			s.Events = append(s.Events, events...)
			if err != nil {
				return g.lose(s, err)
			}
			continue
		}
		p.Hand = append(p.Hand, c)
		s.Drawn = append(s.Drawn, c)
	}
	s.Events = append(s.Events, Event{Type: EventCardsDrawn, Player: p.ID, Data: map[string]any{
		"cards": cardNames(s.Drawn), "epidemics": s.Epidemics, "deck": g.PlayerDeck.Len(),
	}})

	if n := p.OverLimit(); n > 0 {
		s.PendingDiscard = n
		g.pending = s
		g.setPhase(s, PhaseDiscard)
		s.Events = append(s.Events, Event{Type: EventHandLimit, Player: p.ID, Data: map[string]any{
			"hand": len(p.Hand), "discard": n,
		}})
		g.log.Debug("hand limit reached", zap.Int("player", p.ID), zap.Int("discard", n))
		return s, nil
	}
	return g.infectAndAdvance(s)
}

func (g *Game) applyDiscard(p *Player, action Action) ([]Event, error) {
	if g.Phase != PhaseDiscard {
		return nil, ErrWrongPhase.WithData("phase", g.Phase.String())
	}
	if p.OverLimit() == 0 {
		return nil, ErrHandWithinLimit.WithData("hand", len(p.Hand))
	}
	c, ok := p.RemoveFromHand(action.Card)
	if !ok {
		return nil, ErrCardNotInHand.WithData("card", action.Card)
	}
	g.PlayerDeck.Discard(c)

	s := g.pending
	mark := len(s.Events)
	s.PendingDiscard = p.OverLimit()
	s.Events = append(s.Events, Event{Type: EventCardDiscarded, Player: p.ID, Data: map[string]any{
		"card": c.String(), "remaining": s.PendingDiscard,
	}})
	if s.PendingDiscard > 0 {
		return s.Events[mark:], nil
	}

	g.pending = nil
	s, err := g.infectAndAdvance(s)
	return s.Events[mark:], err
}

// infectAndAdvance runs the infection step and hands the turn to the next
// player. An exhausted infection deck ends the step early without a loss.
func (g *Game) infectAndAdvance(s *TurnSummary) (*TurnSummary, error) {
	g.setPhase(s, PhaseInfecting)
	rate := g.InfectionRate()
	for i := 0; i < rate; i++ {
		cards, err := g.Infection.Draw(1)
		if err != nil {
			s.Events = append(s.Events, Event{Type: EventInfectionDeckEmpty, Data: map[string]any{
				"step": "infection", "skipped": rate - i,
			}})
			break
		}
		c := cards[0]
		g.Infection.Discard(c)
		s.Infected = append(s.Infected, c)
		events, err := g.Disease.Infect(c.City, c.Color, 1)
		s.Events = append(s.Events, events...)
		if err != nil {
			return g.lose(s, err)
		}
	}
	g.advance(s)
	return s, nil
}

// advance passes the turn to the next player id, wrapping after the last.
func (g *Game) advance(s *TurnSummary) {
	g.Current = g.Current%len(g.Players) + 1
	g.Turn++
	next := g.CurrentPlayer()
	next.ActionsLeft = ActionsPerTurn
	s.NextPlayer = next.ID
	g.setPhase(s, PhaseActing)
	s.Events = append(s.Events, Event{Type: EventTurnStart, Player: next.ID, Data: map[string]any{
		"turn": g.Turn,
	}})
	g.log.Debug("turn started", zap.Int("turn", g.Turn), zap.Int("player", next.ID))
}

func (g *Game) setPhase(s *TurnSummary, phase GamePhase) {
	g.Phase = phase
	s.Events = append(s.Events, Event{Type: EventPhaseChange, Data: map[string]any{"phase": phase.String()}})
}

func (g *Game) lose(s *TurnSummary, err error) (*TurnSummary, error) {
	g.pending = nil
	s.Events = append(s.Events, g.finish(ResultLost, err))
	return s, err
}

func cardNames(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
