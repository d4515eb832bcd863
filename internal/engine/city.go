package engine

import (
	"sort"
	"strings"
)

// CityRow is one record handed over by a data loader.
type CityRow struct {
	Name        string
	Color       Color
	Population  int
	Connections []string
}

// City is the immutable part of a board location.
type City struct {
	Name       string `json:"name"`
	Color      Color  `json:"color"`
	Population int    `json:"population"`
	neighbors  []string
}

// Neighbors returns the names of directly connected cities, sorted.
func (c *City) Neighbors() []string {
	out := make([]string, len(c.neighbors))
	copy(out, c.neighbors)
	return out
}

// CityGraph is the board topology. It never changes after NewCityGraph.
type CityGraph struct {
	cities map[string]*City
	names  []string // load order
}

// NewCityGraph validates rows and builds the graph. Connections are treated
// as undirected even when the data lists them on one side only.
func NewCityGraph(rows []CityRow) (*CityGraph, error) {
	if len(rows) == 0 {
		return nil, ErrDataInvalid.WithData("reason", "no cities")
	}
	g := &CityGraph{cities: make(map[string]*City, len(rows))}
	for i, r := range rows {
		name := NormalizeName(r.Name)
		if name == "" {
			return nil, ErrDataInvalid.WithData("row", i).WithData("reason", "empty city name")
		}
		if !r.Color.Valid() {
			return nil, ErrDataInvalid.WithData("city", name).WithData("reason", "invalid color")
		}
		if r.Population < 0 {
			return nil, ErrDataInvalid.WithData("city", name).WithData("reason", "negative population")
		}
		if _, dup := g.cities[name]; dup {
			return nil, ErrDataInvalid.WithData("city", name).WithData("reason", "duplicate city")
		}
		g.cities[name] = &City{Name: name, Color: r.Color, Population: r.Population}
		g.names = append(g.names, name)
	}

	adj := make(map[string]map[string]bool, len(rows))
	for _, r := range rows {
		from := NormalizeName(r.Name)
		for _, c := range r.Connections {
			to := NormalizeName(c)
			if to == "" {
				continue
			}
			if _, ok := g.cities[to]; !ok {
				return nil, ErrDataInvalid.WithData("city", from).
					WithData("connection", to).
					WithData("reason", "connection to unknown city")
			}
			if to == from {
				return nil, ErrDataInvalid.WithData("city", from).WithData("reason", "city connected to itself")
			}
			link(adj, from, to)
			link(adj, to, from)
		}
	}
	for name, set := range adj {
		ns := make([]string, 0, len(set))
		for n := range set {
			ns = append(ns, n)
		}
		sort.Strings(ns)
		g.cities[name].neighbors = ns
	}
	return g, nil
}

func link(adj map[string]map[string]bool, a, b string) {
	if adj[a] == nil {
		adj[a] = make(map[string]bool)
	}
	adj[a][b] = true
}

// NormalizeName is the key form of a city name: trimmed, lower case, single spaces.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// City looks a city up by name.
func (g *CityGraph) City(name string) (*City, bool) {
	c, ok := g.cities[NormalizeName(name)]
	return c, ok
}

func (g *CityGraph) Has(name string) bool {
	_, ok := g.City(name)
	return ok
}

// Neighbors returns the connected city names, or nil for an unknown city.
func (g *CityGraph) Neighbors(name string) []string {
	c, ok := g.City(name)
	if !ok {
		return nil
	}
	return c.Neighbors()
}

// Connected reports whether a and b share an edge.
func (g *CityGraph) Connected(a, b string) bool {
	c, ok := g.City(a)
	if !ok {
		return false
	}
	b = NormalizeName(b)
	i := sort.SearchStrings(c.neighbors, b)
	return i < len(c.neighbors) && c.neighbors[i] == b
}

// Names returns every city name in load order.
func (g *CityGraph) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

func (g *CityGraph) Len() int {
	return len(g.names)
}
