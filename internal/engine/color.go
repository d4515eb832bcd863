package engine

import "strings"

// Color is one of the four disease colors. Every city has a home color.
type Color int

const (
	ColorBlue Color = iota
	ColorYellow
	ColorBlack
	ColorRed
)

// NumColors is the number of disease colors; per-color state uses fixed arrays of this size.
const NumColors = 4

var colorNames = [NumColors]string{
	ColorBlue:   "blue",
	ColorYellow: "yellow",
	ColorBlack:  "black",
	ColorRed:    "red",
}

func (c Color) String() string {
	if c.Valid() {
		return colorNames[c]
	}
	return "unknown"
}

func (c Color) Valid() bool {
	return c >= 0 && c < NumColors
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseColor accepts a color name in any case.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return 0, ErrInvalidAction.WithData("color", s)
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// AllColors returns the four colors in index order.
func AllColors() []Color {
	return []Color{ColorBlue, ColorYellow, ColorBlack, ColorRed}
}

// CureStatus tracks progress against one disease.
type CureStatus int

const (
	Uncured CureStatus = iota
	Cured
	Eradicated
)

var cureNames = map[CureStatus]string{
	Uncured:    "uncured",
	Cured:      "cured",
	Eradicated: "eradicated",
}

func (s CureStatus) String() string {
	if n, ok := cureNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s CureStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
