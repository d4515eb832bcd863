package engine

// CureCards is the number of same-colored city cards a cure costs.
const CureCards = 5

// Every apply* method validates everything before it mutates anything, so a
// returned error leaves the game exactly as it was.

func (g *Game) destination(p *Player, name string) (*City, error) {
	c, ok := g.Graph.City(name)
	if !ok {
		return nil, ErrUnknownCity.WithData("city", name)
	}
	if c.Name == p.Location {
		return nil, ErrSameCity.WithData("city", c.Name)
	}
	return c, nil
}

func (g *Game) move(p *Player, to, mode string) []Event {
	from := p.Location
	p.Location = to
	return []Event{{Type: EventMoved, Player: p.ID, Data: map[string]any{
		"from": from, "to": to, "mode": mode,
	}}}
}

// discardFromHand moves the first card named name to the player discard pile.
func (g *Game) discardFromHand(p *Player, name string) Card {
	c, _ := p.RemoveFromHand(name)
	g.PlayerDeck.Discard(c)
	return c
}

func (g *Game) applyDrive(p *Player, action Action) ([]Event, error) {
	to, err := g.destination(p, action.City)
	if err != nil {
		return nil, err
	}
	if !g.Graph.Connected(p.Location, to.Name) {
		return nil, ErrNotConnected.WithData("from", p.Location).WithData("to", to.Name)
	}
	return g.move(p, to.Name, "drive"), nil
}

func (g *Game) applyDirectFlight(p *Player, action Action) ([]Event, error) {
	to, err := g.destination(p, action.City)
	if err != nil {
		return nil, err
	}
	if !p.HasCityCard(to.Name) {
		return nil, ErrCardNotInHand.WithData("card", to.Name)
	}
	g.discardFromHand(p, to.Name)
	return g.move(p, to.Name, "direct_flight"), nil
}

func (g *Game) applyCharterFlight(p *Player, action Action) ([]Event, error) {
	to, err := g.destination(p, action.City)
	if err != nil {
		return nil, err
	}
	if !p.HasCityCard(p.Location) {
		return nil, ErrCardNotInHand.WithData("card", p.Location)
	}
	g.discardFromHand(p, p.Location)
	return g.move(p, to.Name, "charter_flight"), nil
}

func (g *Game) applyShuttleFlight(p *Player, action Action) ([]Event, error) {
	to, err := g.destination(p, action.City)
	if err != nil {
		return nil, err
	}
	if !g.HasStation(p.Location) {
		return nil, ErrNoResearchStation.WithData("city", p.Location)
	}
	if !g.HasStation(to.Name) {
		return nil, ErrNoResearchStation.WithData("city", to.Name)
	}
	return g.move(p, to.Name, "shuttle_flight"), nil
}

func (g *Game) applyBuildStation(p *Player, action Action) ([]Event, error) {
	here := p.Location
	if !p.HasCityCard(here) {
		return nil, ErrCardNotInHand.WithData("card", here)
	}
	if g.HasStation(here) {
		return nil, ErrStationExists.WithData("city", here)
	}
	relocate := ""
	if g.StationCount() >= MaxStations {
		if action.From == "" {
			return nil, ErrStationLimit.WithData("stations", g.StationCount())
		}
		from, ok := g.Graph.City(action.From)
		if !ok {
			return nil, ErrUnknownCity.WithData("city", action.From)
		}
		if !g.HasStation(from.Name) {
			return nil, ErrNoResearchStation.WithData("city", from.Name)
		}
		relocate = from.Name
	}

	if relocate != "" {
		delete(g.Stations, relocate)
	}
	g.Stations[here] = true
	g.discardFromHand(p, here)
	data := map[string]any{"city": here, "stations": g.StationCount()}
	if relocate != "" {
		data["moved_from"] = relocate
	}
	return []Event{{Type: EventStationBuilt, Player: p.ID, Data: data}}, nil
}

func (g *Game) applyTreat(p *Player, action Action) ([]Event, error) {
	city, _ := g.Graph.City(p.Location)
	color := city.Color
	if action.Color != nil {
		color = *action.Color
	}
	eradicated, err := g.Disease.Remove(p.Location, color)
	if err != nil {
		return nil, err
	}
	events := []Event{{Type: EventTreated, Player: p.ID, Data: map[string]any{
		"city": p.Location, "color": color.String(), "left": g.Disease.Cubes(p.Location, color),
	}}}
	if eradicated {
		events = append(events, Event{Type: EventEradicated, Player: p.ID, Data: map[string]any{
			"color": color.String(),
		}})
	}
	return events, nil
}

func (g *Game) applyShare(p *Player, action Action) ([]Event, error) {
	other := g.GetPlayer(action.Other)
	if other == nil {
		return nil, ErrUnknownPlayer.WithData("player", action.Other)
	}
	if other.ID == p.ID {
		return nil, ErrInvalidAction.WithData("reason", "cannot share with yourself")
	}
	var from, to *Player
	switch action.Direction {
	case ShareGive:
		from, to = p, other
	case ShareTake:
		from, to = other, p
	default:
		return nil, ErrInvalidAction.WithData("direction", string(action.Direction))
	}
	if p.Location != other.Location {
		return nil, ErrNotSameLocation.WithData("player", p.Location).WithData("other", other.Location)
	}
	card, ok := from.RemoveFromHand(action.Card)
	if !ok {
		return nil, ErrCardNotInHand.WithData("card", action.Card).WithData("holder", from.ID)
	}
	to.Hand = append(to.Hand, card)
	return []Event{{Type: EventCardShared, Player: p.ID, Data: map[string]any{
		"card": card.String(), "from": from.ID, "to": to.ID,
	}}}, nil
}

func (g *Game) applyCure(p *Player, action Action) ([]Event, error) {
	if action.Color == nil || !action.Color.Valid() {
		return nil, ErrInvalidAction.WithData("reason", "cure needs a color")
	}
	color := *action.Color
	if !g.HasStation(p.Location) {
		return nil, ErrNoResearchStation.WithData("city", p.Location)
	}
	if g.Disease.Status(color) != Uncured {
		return nil, ErrAlreadyCured.WithData("color", color.String())
	}
	if len(action.Cards) != CureCards {
		return nil, ErrCureCards.WithData("given", len(action.Cards))
	}
	seen := make(map[string]bool, CureCards)
	for _, name := range action.Cards {
		name = NormalizeName(name)
		if seen[name] {
			return nil, ErrCureCards.WithData("duplicate", name)
		}
		seen[name] = true
		c, ok := g.Graph.City(name)
		if !ok || c.Color != color {
			return nil, ErrCureCards.WithData("card", name).WithData("color", color.String())
		}
		if !p.HasCityCard(name) {
			return nil, ErrCardNotInHand.WithData("card", name)
		}
	}

	for name := range seen {
		g.discardFromHand(p, name)
	}
	status, err := g.Disease.DiscoverCure(color)
	if err != nil {
		return nil, err
	}
	events := []Event{{Type: EventCureDiscovered, Player: p.ID, Data: map[string]any{
		"color": color.String(),
	}}}
	if status == Eradicated {
		events = append(events, Event{Type: EventEradicated, Player: p.ID, Data: map[string]any{
			"color": color.String(),
		}})
	}
	if g.Disease.AllCured() {
		events = append(events, g.finish(ResultWon, ErrGameWon))
	}
	return events, nil
}
