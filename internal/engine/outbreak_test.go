package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
)

// ringRows builds n cities c00..c(n-1) joined in a cycle, colors rotating.
func ringRows(n int) []CityRow {
	rows := make([]CityRow, n)
	for i := range rows {
		rows[i] = CityRow{
			Name:        fmt.Sprintf("c%02d", i),
			Color:       Color(i % NumColors),
			Population:  (i + 1) * 1000,
			Connections: []string{fmt.Sprintf("c%02d", (i+1)%n)},
		}
	}
	return rows
}

func mustGraph(t *testing.T, rows []CityRow) *CityGraph {
	t.Helper()
	g, err := NewCityGraph(rows)
	if err != nil {
		t.Fatalf("NewCityGraph: %v", err)
	}
	return g
}

func fill(t *testing.T, d *DiseaseState, city string, color Color, n int) {
	t.Helper()
	if err := d.place(city, color, n); err != nil {
		t.Fatalf("place %s: %v", city, err)
	}
}

func countType(events []Event, typ EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func TestOutbreakCycleVisitsEachCityOnce(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	for _, name := range []string{"c00", "c01", "c02", "c03"} {
		fill(t, d, name, ColorRed, MaxCubesPerCity)
	}

	events, err := d.Infect("c00", ColorRed, 1)
	if err != nil {
		t.Fatalf("Infect: %v", err)
	}
	if d.Outbreaks() != 4 {
		t.Fatalf("expected 4 outbreaks, got %d", d.Outbreaks())
	}
	if n := countType(events, EventOutbreak); n != 4 {
		t.Errorf("expected 4 outbreak events, got %d", n)
	}
	if n := countType(events, EventInfected); n != 0 {
		t.Errorf("no cube should be placed, got %d infected events", n)
	}
	if d.Supply(ColorRed) != InitialSupply-12 {
		t.Errorf("supply changed during the chain: %d", d.Supply(ColorRed))
	}
}

func TestOutbreakSpreadsToNeighbors(t *testing.T) {
	// c00 - c01 - c02 (line), plus c00 - c02 closing a triangle.
	rows := []CityRow{
		{Name: "c00", Color: ColorBlue, Connections: []string{"c01", "c02"}},
		{Name: "c01", Color: ColorBlue, Connections: []string{"c02"}},
		{Name: "c02", Color: ColorBlue},
		{Name: "c03", Color: ColorBlue, Connections: []string{"c02"}},
	}
	d := NewDiseaseState(mustGraph(t, rows))
	fill(t, d, "c00", ColorBlue, 3)
	fill(t, d, "c01", ColorBlue, 3)
	fill(t, d, "c02", ColorBlue, 1)

	if _, err := d.Infect("c00", ColorBlue, 1); err != nil {
		t.Fatalf("Infect: %v", err)
	}
	// c00 outbreaks, chains into c01; c02 gets one cube from each.
	if d.Outbreaks() != 2 {
		t.Errorf("expected 2 outbreaks, got %d", d.Outbreaks())
	}
	if got := d.Cubes("c02", ColorBlue); got != 3 {
		t.Errorf("c02: expected 3 cubes, got %d", got)
	}
	if got := d.Cubes("c03", ColorBlue); got != 0 {
		t.Errorf("c03 is two steps away and should be clean, got %d", got)
	}
}

func TestInfectClampsWithoutOutbreak(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	fill(t, d, "c01", ColorYellow, 2)

	events, err := d.Infect("c01", ColorYellow, 3)
	if err != nil {
		t.Fatalf("Infect: %v", err)
	}
	if d.Cubes("c01", ColorYellow) != 3 {
		t.Errorf("expected 3 cubes, got %d", d.Cubes("c01", ColorYellow))
	}
	if d.Outbreaks() != 0 || countType(events, EventOutbreak) != 0 {
		t.Error("a partial overflow must not outbreak")
	}
	if d.Supply(ColorYellow) != InitialSupply-3 {
		t.Errorf("supply: expected %d, got %d", InitialSupply-3, d.Supply(ColorYellow))
	}
}

func TestOutbreakLimit(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	d.outbreaks = OutbreakLimit - 1
	fill(t, d, "c00", ColorBlue, 3)

	_, err := d.Infect("c00", ColorBlue, 1)
	if !errors.Is(err, ErrOutbreakLimit) {
		t.Fatalf("expected ErrOutbreakLimit, got %v", err)
	}
	if !IsLoss(err) {
		t.Error("outbreak limit should be a loss")
	}
}

func TestSupplyExhausted(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	d.supply[ColorRed] = 0

	_, err := d.Infect("c03", ColorRed, 1)
	if !errors.Is(err, ErrSupplyExhausted) {
		t.Fatalf("expected ErrSupplyExhausted, got %v", err)
	}
	if d.Cubes("c03", ColorRed) != 0 {
		t.Error("no cube should be placed")
	}
}

func TestEradicatedColorIsNotPlaced(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	status, err := d.DiscoverCure(ColorBlack)
	if err != nil {
		t.Fatalf("DiscoverCure: %v", err)
	}
	if status != Eradicated {
		t.Fatalf("a cure with no cubes on the board should eradicate, got %s", status)
	}
	events, err := d.Infect("c02", ColorBlack, 3)
	if err != nil {
		t.Fatalf("Infect: %v", err)
	}
	if d.Cubes("c02", ColorBlack) != 0 || countType(events, EventInfectionPrevented) != 1 {
		t.Errorf("eradicated color placed cubes: %+v", events)
	}
}

func TestTreatLastCubeEradicates(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(4)))
	fill(t, d, "c00", ColorBlue, 1)
	if status, _ := d.DiscoverCure(ColorBlue); status != Cured {
		t.Fatalf("expected Cured, got %s", status)
	}
	eradicated, err := d.Remove("c00", ColorBlue)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !eradicated || d.Status(ColorBlue) != Eradicated {
		t.Errorf("removing the last cube of a cured color should eradicate it")
	}
	if _, err := d.Remove("c00", ColorBlue); !errors.Is(err, ErrNoCubes) {
		t.Errorf("expected ErrNoCubes, got %v", err)
	}
}

func TestCubesStayInRange(t *testing.T) {
	d := NewDiseaseState(mustGraph(t, ringRows(8)))
	rng := rand.New(rand.NewPCG(7, 11))
	names := d.graph.Names()

	for step := 0; step < 2000; step++ {
		city := names[rng.IntN(len(names))]
		color := Color(rng.IntN(NumColors))
		var err error
		if rng.IntN(3) == 0 {
			_, err = d.Remove(city, color)
			if errors.Is(err, ErrNoCubes) {
				err = nil
			}
		} else {
			_, err = d.Infect(city, color, 1+rng.IntN(3))
		}
		for _, n := range names {
			for _, c := range AllColors() {
				if got := d.Cubes(n, c); got < 0 || got > MaxCubesPerCity {
					t.Fatalf("step %d: %s has %d %s cubes", step, n, got, c)
				}
			}
		}
		if IsLoss(err) {
			return
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}
