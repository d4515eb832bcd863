package engine

const (
	MaxCubesPerCity = 3
	InitialSupply   = 24
	OutbreakLimit   = 8
)

// DiseaseState holds the cubes on the board, the cube supply, cure progress
// and the outbreak counter.
type DiseaseState struct {
	graph     *CityGraph
	cubes     map[string]*[NumColors]int
	supply    [NumColors]int
	cures     [NumColors]CureStatus
	outbreaks int
}

func NewDiseaseState(graph *CityGraph) *DiseaseState {
	d := &DiseaseState{
		graph: graph,
		cubes: make(map[string]*[NumColors]int, graph.Len()),
	}
	for _, name := range graph.Names() {
		d.cubes[name] = &[NumColors]int{}
	}
	for _, c := range AllColors() {
		d.supply[c] = InitialSupply
	}
	return d
}

// Cubes returns the number of color cubes in city (0 for unknown cities).
func (d *DiseaseState) Cubes(city string, color Color) int {
	counts, ok := d.cubes[NormalizeName(city)]
	if !ok || !color.Valid() {
		return 0
	}
	return counts[color]
}

// CityCubes returns all four counts for a city.
func (d *DiseaseState) CityCubes(city string) [NumColors]int {
	if counts, ok := d.cubes[NormalizeName(city)]; ok {
		return *counts
	}
	return [NumColors]int{}
}

func (d *DiseaseState) Supply(color Color) int {
	return d.supply[color]
}

// OnBoard returns how many cubes of color are on the board.
func (d *DiseaseState) OnBoard(color Color) int {
	return InitialSupply - d.supply[color]
}

func (d *DiseaseState) Status(color Color) CureStatus {
	return d.cures[color]
}

func (d *DiseaseState) Outbreaks() int {
	return d.outbreaks
}

// AllCured reports the win condition: no color is left uncured.
func (d *DiseaseState) AllCured() bool {
	for _, s := range d.cures {
		if s == Uncured {
			return false
		}
	}
	return true
}

// DiscoverCure marks color cured, or eradicated straight away when none of its
// cubes are on the board.
func (d *DiseaseState) DiscoverCure(color Color) (CureStatus, error) {
	if !color.Valid() {
		return Uncured, ErrInvalidAction.WithData("color", int(color))
	}
	if d.cures[color] != Uncured {
		return d.cures[color], ErrAlreadyCured.WithData("color", color.String())
	}
	d.cures[color] = Cured
	if d.OnBoard(color) == 0 {
		d.cures[color] = Eradicated
	}
	return d.cures[color], nil
}

// Remove takes one cube of color off city and returns it to the supply. It
// reports whether that eradicated the disease.
func (d *DiseaseState) Remove(city string, color Color) (bool, error) {
	counts, ok := d.cubes[NormalizeName(city)]
	if !ok {
		return false, ErrUnknownCity.WithData("city", city)
	}
	if !color.Valid() || counts[color] == 0 {
		return false, ErrNoCubes.WithData("city", city).WithData("color", color.String())
	}
	counts[color]--
	d.supply[color]++
	if d.cures[color] == Cured && d.OnBoard(color) == 0 {
		d.cures[color] = Eradicated
		return true, nil
	}
	return false, nil
}

// Board returns the non-zero cube counts keyed by city.
func (d *DiseaseState) Board() map[string][NumColors]int {
	out := make(map[string][NumColors]int)
	for name, counts := range d.cubes {
		if *counts != ([NumColors]int{}) {
			out[name] = *counts
		}
	}
	return out
}

// place adds n cubes without any capacity check; callers clamp n first.
func (d *DiseaseState) place(city string, color Color, n int) error {
	if d.supply[color] < n {
		return ErrSupplyExhausted.WithData("color", color.String()).
			WithData("city", city).
			WithData("needed", n).
			WithData("left", d.supply[color])
	}
	d.supply[color] -= n
	d.cubes[city][color] += n
	return nil
}
