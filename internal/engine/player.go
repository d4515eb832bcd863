package engine

const (
	ActionsPerTurn = 4
	HandLimit      = 7
)

// Player holds one player's state.
type Player struct {
	ID          int    `json:"id"`
	Role        Role   `json:"role"`
	Location    string `json:"location"`
	Hand        []Card `json:"hand"`
	ActionsLeft int    `json:"actions_left"`
}

func NewPlayer(id int, role Role, location string) *Player {
	return &Player{
		ID:          id,
		Role:        role,
		Location:    NormalizeName(location),
		ActionsLeft: ActionsPerTurn,
	}
}

// HandIndex returns the position of the first card named name, or -1.
func (p *Player) HandIndex(name string) int {
	for i, c := range p.Hand {
		if c.Matches(name) {
			return i
		}
	}
	return -1
}

// HasCityCard reports whether the hand holds the city card for city.
func (p *Player) HasCityCard(city string) bool {
	city = NormalizeName(city)
	for _, c := range p.Hand {
		if c.IsCity() && c.City == city {
			return true
		}
	}
	return false
}

// RemoveFromHand removes the first card named name from hand, returns true if found.
func (p *Player) RemoveFromHand(name string) (Card, bool) {
	i := p.HandIndex(name)
	if i < 0 {
		return Card{}, false
	}
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return c, true
}

// OverLimit is how many cards must be discarded to reach HandLimit.
func (p *Player) OverLimit() int {
	return max(0, len(p.Hand)-HandLimit)
}

// MaxPopulation returns the largest population among the city cards in hand,
// or 0 when the hand holds no city card.
func (p *Player) MaxPopulation(graph *CityGraph) int {
	best := 0
	for _, c := range p.Hand {
		if !c.IsCity() {
			continue
		}
		if city, ok := graph.City(c.City); ok && city.Population > best {
			best = city.Population
		}
	}
	return best
}
