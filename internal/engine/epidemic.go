package engine

const (
	// MaxRatePosition is the last step of the infection rate track.
	MaxRatePosition = 7
	// EpidemicCubes is how many cubes the bottom infection card receives.
	EpidemicCubes = 3
)

var infectionRates = [MaxRatePosition]int{2, 2, 2, 3, 3, 4, 4}

// InfectionRateAt returns the infection rate at a 1-based track position,
// clamped to the ends of the track.
func InfectionRateAt(pos int) int {
	pos = min(max(pos, 1), MaxRatePosition)
	return infectionRates[pos-1]
}

// resolveEpidemic runs the three epidemic steps in order: raise the rate,
// infect the bottom infection card with EpidemicCubes, then shuffle the
// infection discard pile back on top of the deck. The epidemic card itself
// leaves the game.
func (g *Game) resolveEpidemic() ([]Event, error) {
	g.Epidemics++
	events := []Event{{Type: EventEpidemic, Player: g.Current, Data: map[string]any{
		"count": g.Epidemics,
	}}}

	if g.RatePosition < MaxRatePosition {
		g.RatePosition++
	}
	events = append(events, Event{Type: EventInfectionRateUp, Data: map[string]any{
		"position": g.RatePosition, "rate": g.InfectionRate(),
	}})

	bottom, err := g.Infection.DrawBottom()
	if err != nil {
		events = append(events, Event{Type: EventInfectionDeckEmpty, Data: map[string]any{"step": "epidemic"}})
	} else {
		g.Infection.Discard(bottom)
		infected, err := g.Disease.Infect(bottom.City, bottom.Color, EpidemicCubes)
		events = append(events, infected...)
		if err != nil {
			return events, err
		}
	}

	g.Infection.ReshuffleDiscardOntoTop()
	events = append(events, Event{Type: EventIntensified, Data: map[string]any{
		"deck": g.Infection.Len(),
	}})
	return events, nil
}
