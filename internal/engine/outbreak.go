package engine

// Infect places count cubes of color on city. A city already holding
// MaxCubesPerCity cubes of that color outbreaks instead; otherwise the
// placement is clamped so a city never holds more than MaxCubesPerCity.
//
// The returned error is ErrSupplyExhausted or ErrOutbreakLimit when a loss
// condition is hit; events up to that point are still returned.
func (d *DiseaseState) Infect(city string, color Color, count int) ([]Event, error) {
	c, ok := d.graph.City(city)
	if !ok {
		return nil, ErrUnknownCity.WithData("city", city)
	}
	if !color.Valid() || count <= 0 {
		return nil, ErrInvalidAction.WithData("color", int(color)).WithData("count", count)
	}
	if d.cures[color] == Eradicated {
		return []Event{{Type: EventInfectionPrevented, Data: map[string]any{
			"city": c.Name, "color": color.String(),
		}}}, nil
	}

	cur := d.cubes[c.Name][color]
	if cur >= MaxCubesPerCity {
		return d.outbreak(c.Name, color)
	}
	add := min(count, MaxCubesPerCity-cur)
	if err := d.place(c.Name, color, add); err != nil {
		return nil, err
	}
	return []Event{{Type: EventInfected, Data: map[string]any{
		"city": c.Name, "color": color.String(), "cubes": add, "total": cur + add,
	}}}, nil
}

// outbreak resolves a chain reaction starting at origin. Cities are visited
// through a FIFO worklist; a city enters the visited set when it is queued, so
// it outbreaks at most once per chain and receives no cubes from the chain
// afterwards, however many paths lead to it.
func (d *DiseaseState) outbreak(origin string, color Color) ([]Event, error) {
	var events []Event
	visited := map[string]bool{origin: true}
	queue := []string{origin}

	for len(queue) > 0 {
		city := queue[0]
		queue = queue[1:]

		d.outbreaks++
		events = append(events, Event{Type: EventOutbreak, Data: map[string]any{
			"city": city, "color": color.String(), "outbreaks": d.outbreaks,
		}})
		if d.outbreaks >= OutbreakLimit {
			return events, ErrOutbreakLimit.WithData("outbreaks", d.outbreaks).WithData("city", city)
		}

		for _, n := range d.graph.Neighbors(city) {
			if visited[n] {
				continue
			}
			cur := d.cubes[n][color]
			if cur >= MaxCubesPerCity {
				visited[n] = true
				queue = append(queue, n)
				continue
			}
			if err := d.place(n, color, 1); err != nil {
				return events, err
			}
			events = append(events, Event{Type: EventInfected, Data: map[string]any{
				"city": n, "color": color.String(), "cubes": 1, "total": cur + 1, "from": city,
			}})
		}
	}
	return events, nil
}
