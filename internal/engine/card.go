package engine

import "strings"

// CardKind tags the variants of a player card.
type CardKind int

const (
	CardCity CardKind = iota
	CardEvent
	CardEpidemic
)

var cardKindNames = map[CardKind]string{
	CardCity:     "city",
	CardEvent:    "event",
	CardEpidemic: "epidemic",
}

func (k CardKind) String() string {
	if s, ok := cardKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k CardKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// EventKind names the five event cards.
type EventKind int

const (
	GovernmentGrant EventKind = iota + 1
	ResilientPopulation
	OneQuietNight
	Airlift
	Forecast
)

var eventKindNames = map[EventKind]string{
	GovernmentGrant:     "government grant",
	ResilientPopulation: "resilient population",
	OneQuietNight:       "one quiet night",
	Airlift:             "airlift",
	Forecast:            "forecast",
}

func (k EventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// AllEventKinds returns the fixed set of event cards.
func AllEventKinds() []EventKind {
	return []EventKind{
		GovernmentGrant, ResilientPopulation, OneQuietNight,
		Airlift, Forecast,
	}
}

// ParseEventKind matches an event card name in any case.
func ParseEventKind(s string) (EventKind, bool) {
	s = NormalizeName(s)
	for k, name := range eventKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Card is a player card. Which fields are meaningful depends on Kind:
// City and Color for CardCity, Event for CardEvent, nothing for CardEpidemic.
type Card struct {
	Kind  CardKind  `json:"kind"`
	City  string    `json:"city,omitempty"`
	Color Color     `json:"color"`
	Event EventKind `json:"event,omitempty"`
}

func CityCard(name string, color Color) Card {
	return Card{Kind: CardCity, City: NormalizeName(name), Color: color}
}

func EventCard(kind EventKind) Card {
	return Card{Kind: CardEvent, Event: kind}
}

func EpidemicCard() Card {
	return Card{Kind: CardEpidemic}
}

func (c Card) IsCity() bool     { return c.Kind == CardCity }
func (c Card) IsEpidemic() bool { return c.Kind == CardEpidemic }

func (c Card) String() string {
	switch c.Kind {
	case CardCity:
		return c.City
	case CardEvent:
		return c.Event.String()
	case CardEpidemic:
		return "epidemic"
	default:
		return "unknown card"
	}
}

// Matches reports whether the card is named by s (a city or event name).
func (c Card) Matches(s string) bool {
	return strings.EqualFold(c.String(), NormalizeName(s))
}

// InfectionCard is a card of the infection deck: a city and its color.
type InfectionCard struct {
	City  string `json:"city"`
	Color Color  `json:"color"`
}

func (c InfectionCard) String() string {
	return c.City
}
