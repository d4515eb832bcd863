package shell

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"pandemic/internal/engine"
	"pandemic/internal/protocol"
)

func describe(e engine.Event) string {
	var b strings.Builder
	if e.Player != 0 {
		fmt.Fprintf(&b, "[p%d] ", e.Player)
	}
	b.WriteString(strings.ReplaceAll(string(e.Type), "_", " "))
	b.WriteString(formatData(e.Data))
	return b.String()
}

// formatData renders a data map as sorted key=value pairs.
func formatData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var b strings.Builder
	for _, k := range keys {
		v := data[k]
		if ss, ok := v.([]string); ok {
			v = strings.Join(ss, ",")
		}
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	return b.String()
}

func outcomeLine(o *engine.Outcome) string {
	if o.Result == engine.ResultWon {
		return fmt.Sprintf("*** all diseases cured on turn %d: you win ***", o.Turn)
	}
	return fmt.Sprintf("*** game lost on turn %d (%s) ***", o.Turn, o.Code)
}

// query answers status, hand, connections and city.
func (s *Shell) query(ctx context.Context, topic, arg string) error {
	if topic == protocol.MsgStatus {
		r, err := s.hub.View(ctx)
		if err != nil {
			return err
		}
		if r.Err != nil {
			return r.Err
		}
		s.emit(protocol.MsgState, r.View, func() {
			for _, l := range statusLines(r.View) {
				fmt.Fprintln(s.out, l)
			}
		})
		return nil
	}

	var lines []string
	err := s.hub.Inspect(ctx, func(g *engine.Game) error {
		var err error
		switch topic {
		case protocol.MsgHand:
			lines, err = handLines(g, arg)
		case protocol.MsgConnections:
			lines, err = connectionLines(g, arg)
		case protocol.MsgCity:
			lines, err = cityLines(g, arg)
		default:
			err = ErrUnknownCommand.WithData("command", topic)
		}
		return err
	})
	if err != nil {
		return err
	}
	s.emit(protocol.MsgInfo, protocol.InfoMsg{Topic: topic, Lines: lines}, func() {
		for _, l := range lines {
			fmt.Fprintln(s.out, l)
		}
	})
	return nil
}

func statusLines(v *engine.PublicViewData) []string {
	lines := []string{
		fmt.Sprintf("turn %d, phase %s, player %d to play", v.Turn, v.Phase, v.Current),
		fmt.Sprintf("infection rate %d (track %d/%d), outbreaks %d/%d, epidemics %d/%d",
			v.InfectionRate, v.RatePosition, engine.MaxRatePosition, v.Outbreaks, engine.OutbreakLimit, v.Epidemics, v.Difficulty),
	}
	var cures, supply []string
	for _, c := range engine.AllColors() {
		cures = append(cures, fmt.Sprintf("%s %s", c, v.Cures[c.String()]))
		supply = append(supply, fmt.Sprintf("%s %d", c, v.Supply[c.String()]))
	}
	lines = append(lines,
		"cures: "+strings.Join(cures, ", "),
		"supply: "+strings.Join(supply, ", "),
		"stations: "+strings.Join(v.Stations, ", "),
		fmt.Sprintf("player deck %d (discard %d), infection deck %d (discard %d)",
			v.PlayerDeck, v.PlayerDiscard, v.InfectionDeck, len(v.InfectionPile)),
	)
	for _, p := range v.Players {
		mark := " "
		if p.IsCurrent {
			mark = "*"
		}
		lines = append(lines, fmt.Sprintf("%s player %d %s in %s, %d actions, hand: %s",
			mark, p.ID, p.Role, p.Location, p.ActionsLeft, strings.Join(p.Hand, ", ")))
	}
	cities := make([]string, 0, len(v.Cubes))
	for city := range v.Cubes {
		cities = append(cities, city)
	}
	slices.Sort(cities)
	for _, city := range cities {
		lines = append(lines, fmt.Sprintf("  %s: %s", city, cubeText(v.Cubes[city])))
	}
	return lines
}

func cubeText(counts map[string]int) string {
	var parts []string
	for _, c := range engine.AllColors() {
		if n := counts[c.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}

func cityCubes(g *engine.Game, city string) string {
	counts := g.Disease.CityCubes(city)
	m := make(map[string]int, len(counts))
	for _, c := range engine.AllColors() {
		m[c.String()] = counts[c]
	}
	return cubeText(m)
}

// handLines shows the current player's hand, or player arg's.
func handLines(g *engine.Game, arg string) ([]string, error) {
	p := g.CurrentPlayer()
	if arg != "" {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return nil, ErrUsage.WithData("usage", "hand [player]")
		}
		if p = g.GetPlayer(id); p == nil {
			return nil, engine.ErrUnknownPlayer.WithData("player", id)
		}
	}
	lines := []string{fmt.Sprintf("player %d (%s), %d/%d cards:", p.ID, p.Role, len(p.Hand), engine.HandLimit)}
	for _, c := range p.Hand {
		switch {
		case c.IsCity():
			lines = append(lines, fmt.Sprintf("  %s (%s)", c.City, c.Color))
		default:
			lines = append(lines, fmt.Sprintf("  %s [event]", c))
		}
	}
	return lines, nil
}

// connectionLines lists the neighbours of city, or of the current
// player's city when none is given.
func connectionLines(g *engine.Game, arg string) ([]string, error) {
	name := arg
	if name == "" {
		name = g.CurrentPlayer().Location
	}
	city, ok := g.Graph.City(name)
	if !ok {
		return nil, engine.ErrUnknownCity.WithData("city", arg)
	}
	lines := []string{"connections from " + city.Name + ":"}
	for _, n := range city.Neighbors() {
		lines = append(lines, neighborLine(g, n))
	}
	return lines, nil
}

func neighborLine(g *engine.Game, name string) string {
	c, _ := g.Graph.City(name)
	line := fmt.Sprintf("  %s (%s)", c.Name, c.Color)
	if cubes := cityCubes(g, c.Name); cubes != "" {
		line += " cubes: " + cubes
	}
	if g.HasStation(c.Name) {
		line += " [station]"
	}
	return line
}

func cityLines(g *engine.Game, arg string) ([]string, error) {
	c, ok := g.Graph.City(arg)
	if !ok {
		return nil, engine.ErrUnknownCity.WithData("city", arg)
	}
	lines := []string{fmt.Sprintf("%s: %s, population %d", c.Name, c.Color, c.Population)}
	if cubes := cityCubes(g, c.Name); cubes != "" {
		lines = append(lines, "cubes: "+cubes)
	}
	if g.HasStation(c.Name) {
		lines = append(lines, "research station")
	}
	var here []string
	for _, p := range g.Players {
		if p.Location == c.Name {
			here = append(here, fmt.Sprintf("player %d (%s)", p.ID, p.Role))
		}
	}
	if len(here) > 0 {
		lines = append(lines, "players: "+strings.Join(here, ", "))
	}
	lines = append(lines, "connections: "+strings.Join(c.Neighbors(), ", "))
	return lines, nil
}
