package engine

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

const (
	MinPlayers    = 2
	MaxPlayers    = 4
	MinDifficulty = 4
	MaxDifficulty = 6
	MaxStations   = 6
)

// initialInfections is the setup infection: three cities at each severity.
var initialInfections = []struct{ cities, cubes int }{
	{3, 3},
	{3, 2},
	{3, 1},
}

// HandSize returns the number of cards dealt to each player at setup.
func HandSize(players int) int {
	switch players {
	case 2:
		return 4
	case 3:
		return 3
	default:
		return 2
	}
}

// NewGame sets up a game on graph for the given number of players and
// epidemic cards. It returns an ErrSetup-family error on invalid input.
func NewGame(graph *CityGraph, players, difficulty int, opts ...Option) (*Game, error) {
	if players < MinPlayers || players > MaxPlayers {
		return nil, ErrInvalidPlayerCount.WithData("players", players)
	}
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return nil, ErrInvalidDifficulty.WithData("difficulty", difficulty)
	}
	if graph == nil {
		return nil, ErrDataInvalid.WithData("reason", "no city graph")
	}
	o := buildOptions(opts)
	start, ok := graph.City(o.startCity)
	if !ok {
		return nil, ErrUnknownStartCity.WithData("city", o.startCity)
	}
	perHand := HandSize(players)
	if graph.Len() < perHand*players+difficulty || graph.Len() < 9 {
		return nil, ErrNotEnoughCards.WithData("cities", graph.Len())
	}

	g := &Game{
		Graph:        graph,
		Disease:      NewDiseaseState(graph),
		Difficulty:   difficulty,
		StartCity:    start.Name,
		RatePosition: 1,
		Turn:         1,
		Stations:     map[string]bool{},
		rng:          o.rng,
		log:          o.log,
	}

	// Roles: a uniform sample without replacement.
	roles := AllRoles()
	shuffle(g.rng, roles)
	for i := 0; i < players; i++ {
		g.Players = append(g.Players, NewPlayer(i+1, roles[i], start.Name))
		g.log.Info("role assigned", zap.Int("player", i+1), zap.Stringer("role", roles[i]))
	}

	// Deal from city cards plus events; what is left of the city cards
	// becomes the player deck.
	pool := make([]Card, 0, graph.Len()+len(AllEventKinds()))
	for _, name := range graph.Names() {
		c, _ := graph.City(name)
		pool = append(pool, CityCard(c.Name, c.Color))
	}
	for _, k := range AllEventKinds() {
		pool = append(pool, EventCard(k))
	}
	shuffle(g.rng, pool)
	for i, p := range g.Players {
		p.Hand = append([]Card(nil), pool[i*perHand:(i+1)*perHand]...)
		g.log.Debug("hand dealt", zap.Int("player", p.ID), zap.Stringers("cards", p.Hand))
	}
	var remaining []Card
	for _, c := range pool[players*perHand:] {
		if c.IsCity() {
			remaining = append(remaining, c)
		} else {
			g.SetAside = append(g.SetAside, c)
		}
	}

	g.Current = firstPlayer(g.Players, graph)
	g.log.Info("first player chosen", zap.Int("player", g.Current))

	// Infection deck and the nine starting infections.
	infection := make([]InfectionCard, 0, graph.Len())
	for _, name := range graph.Names() {
		c, _ := graph.City(name)
		infection = append(infection, InfectionCard{City: c.Name, Color: c.Color})
	}
	g.Infection = NewDeck(g.rng, infection)
	g.Infection.Shuffle()
	for _, step := range initialInfections {
		cards, err := g.Infection.Draw(step.cities)
		if err != nil {
			return nil, ErrNotEnoughCards.WithCause(err)
		}
		for _, c := range cards {
			events, err := g.Disease.Infect(c.City, c.Color, step.cubes)
			if err != nil {
				return nil, err
			}
			g.Setup = append(g.Setup, events...)
		}
		g.Infection.Discard(cards...)
		g.log.Info("cities infected", zap.Int("cubes", step.cubes), zap.Stringers("cities", cards))
	}

	g.Stations[start.Name] = true
	g.PlayerDeck = BuildPlayerDeck(g.rng, remaining, difficulty)
	g.log.Debug("player deck built",
		zap.Int("cards", g.PlayerDeck.Len()),
		zap.Int("epidemics", difficulty),
		zap.Int("set_aside", len(g.SetAside)))

	g.Phase = PhaseActing
	g.Setup = append(g.Setup, Event{Type: EventGameStart, Player: g.Current, Data: map[string]any{
		"players": players, "difficulty": difficulty, "start": start.Name,
	}})
	return g, nil
}

// firstPlayer picks the player holding the most populous city card; ties go
// to the lowest id.
func firstPlayer(players []*Player, graph *CityGraph) int {
	best, bestPop := players[0].ID, -1
	for _, p := range players {
		if pop := p.MaxPopulation(graph); pop > bestPop {
			best, bestPop = p.ID, pop
		}
	}
	return best
}

// Partition splits cards into n contiguous chunks whose sizes differ by at
// most one.
func Partition[T any](cards []T, n int) [][]T {
	out := make([][]T, n)
	for i := 0; i < n; i++ {
		lo, hi := i*len(cards)/n, (i+1)*len(cards)/n
		out[i] = append([]T(nil), cards[lo:hi]...)
	}
	return out
}

// BuildPlayerDeck partitions cards into difficulty chunks, adds one epidemic
// card to each, shuffles every chunk on its own and stacks them in order.
func BuildPlayerDeck(rng *rand.Rand, cards []Card, difficulty int) *Deck[Card] {
	var deck []Card
	for _, chunk := range Partition(cards, difficulty) {
		chunk = append(chunk, EpidemicCard())
		shuffle(rng, chunk)
		deck = append(deck, chunk...)
	}
	return NewDeck(rng, deck)
}
