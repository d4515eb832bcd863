package engine

// PublicViewData is a snapshot of everything on the table.
type PublicViewData struct {
	Phase          string                    `json:"phase"`
	Turn           int                       `json:"turn"`
	Current        int                       `json:"current"`
	InfectionRate  int                       `json:"infection_rate"`
	RatePosition   int                       `json:"rate_position"`
	Outbreaks      int                       `json:"outbreaks"`
	Epidemics      int                       `json:"epidemics"`
	Difficulty     int                       `json:"difficulty"`
	Cures          map[string]CureStatus     `json:"cures"`
	Supply         map[string]int            `json:"supply"`
	Cubes          map[string]map[string]int `json:"cubes"`
	Stations       []string                  `json:"stations"`
	PlayerDeck     int                       `json:"player_deck"`
	PlayerDiscard  int                       `json:"player_discard"`
	InfectionDeck  int                       `json:"infection_deck"`
	InfectionPile  []string                  `json:"infection_discard"`
	Players        []PlayerData              `json:"players"`
	PendingDiscard int                       `json:"pending_discard,omitempty"`
	Outcome        *Outcome                  `json:"outcome,omitempty"`
}

// PlayerData is one player's part of the snapshot. Hands are open in this
// cooperative game, so they are included.
type PlayerData struct {
	ID          int      `json:"id"`
	Role        string   `json:"role"`
	Location    string   `json:"location"`
	Hand        []string `json:"hand"`
	ActionsLeft int      `json:"actions_left"`
	IsCurrent   bool     `json:"is_current"`
}

func (g *Game) PublicView() PublicViewData {
	pv := PublicViewData{
		Phase:          g.Phase.String(),
		Turn:           g.Turn,
		Current:        g.Current,
		InfectionRate:  g.InfectionRate(),
		RatePosition:   g.RatePosition,
		Outbreaks:      g.Disease.Outbreaks(),
		Epidemics:      g.Epidemics,
		Difficulty:     g.Difficulty,
		Cures:          make(map[string]CureStatus, NumColors),
		Supply:         make(map[string]int, NumColors),
		Cubes:          make(map[string]map[string]int),
		Stations:       g.StationCities(),
		PlayerDeck:     g.PlayerDeck.Len(),
		PlayerDiscard:  g.PlayerDeck.DiscardLen(),
		InfectionDeck:  g.Infection.Len(),
		PendingDiscard: g.PendingDiscards(),
		Outcome:        g.Outcome,
	}

	for _, c := range AllColors() {
		pv.Cures[c.String()] = g.Disease.Status(c)
		pv.Supply[c.String()] = g.Disease.Supply(c)
	}
	for city, counts := range g.Disease.Board() {
		m := make(map[string]int)
		for _, c := range AllColors() {
			if counts[c] > 0 {
				m[c.String()] = counts[c]
			}
		}
		pv.Cubes[city] = m
	}
	for _, c := range g.Infection.DiscardPile() {
		pv.InfectionPile = append(pv.InfectionPile, c.City)
	}
	for _, p := range g.Players {
		pv.Players = append(pv.Players, PlayerData{
			ID:          p.ID,
			Role:        p.Role.String(),
			Location:    p.Location,
			Hand:        cardNames(p.Hand),
			ActionsLeft: p.ActionsLeft,
			IsCurrent:   p.ID == g.Current,
		})
	}
	return pv
}
