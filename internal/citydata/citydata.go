// Package citydata loads the board: city names, home colors, populations and
// connections. The standard 48-city board is embedded.
package citydata

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"pandemic/internal/engine"
)

//go:embed cities.csv
var defaultCSV []byte

const fieldsPerRow = 4

// Parse reads city rows from CSV: name, color, population and a quoted,
// comma-separated list of connected cities. A leading header row (first
// field "name" or "city") is skipped. Malformed rows fail with
// engine.ErrDataInvalid.
func Parse(r io.Reader) ([]engine.CityRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fieldsPerRow
	cr.TrimLeadingSpace = true

	var rows []engine.CityRow
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, engine.ErrDataInvalid.WithData("line", line).WithCause(err)
		}
		if line == 1 && isHeader(rec[0]) {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, engine.ErrDataInvalid.WithData("line", line).WithCause(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isHeader(first string) bool {
	first = engine.NormalizeName(first)
	return first == "name" || first == "city"
}

func parseRow(rec []string) (engine.CityRow, error) {
	color, err := engine.ParseColor(rec[1])
	if err != nil {
		return engine.CityRow{}, err
	}
	pop, err := strconv.Atoi(strings.TrimSpace(rec[2]))
	if err != nil {
		return engine.CityRow{}, err
	}
	var conns []string
	for _, c := range strings.Split(rec[3], ",") {
		if c = strings.TrimSpace(c); c != "" {
			conns = append(conns, c)
		}
	}
	return engine.CityRow{Name: rec[0], Color: color, Population: pop, Connections: conns}, nil
}

// Load parses r and builds the city graph.
func Load(r io.Reader) (*engine.CityGraph, error) {
	rows, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return engine.NewCityGraph(rows)
}

func LoadFile(path string) (*engine.CityGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, engine.ErrDataInvalid.WithData("path", path).WithCause(err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded standard board.
func Default() (*engine.CityGraph, error) {
	return Load(bytes.NewReader(defaultCSV))
}

// Graph loads path when it is set and the embedded board otherwise.
func Graph(path string) (*engine.CityGraph, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}
