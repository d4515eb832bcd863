package engine

// ActionType identifies player actions sent to Game.Apply.
type ActionType string

const (
	ActionDrive         ActionType = "drive"
	ActionDirectFlight  ActionType = "direct_flight"
	ActionCharterFlight ActionType = "charter_flight"
	ActionShuttleFlight ActionType = "shuttle_flight"
	ActionBuildStation  ActionType = "build_research_station"
	ActionTreat         ActionType = "treat_disease"
	ActionShare         ActionType = "share_knowledge"
	ActionCure          ActionType = "discover_cure"
	ActionDiscard       ActionType = "discard"  // hand limit; costs no action
	ActionEndTurn       ActionType = "end_turn" // draw + infect, then next player
)

// ShareDirection says which way a card moves in share_knowledge.
type ShareDirection string

const (
	ShareGive ShareDirection = "give"
	ShareTake ShareDirection = "take"
)

// Action is a player's action input.
type Action struct {
	Type ActionType `json:"type"`
	// Params depend on Type:
	// drive, direct/charter/shuttle flight: City (destination)
	// build_research_station: From (station to relocate, only when all are in play)
	// treat_disease: Color (nil means the city's home color)
	// share_knowledge: Direction, Other, Card
	// discover_cure: Color, Cards
	// discard: Card
	City      string         `json:"city,omitempty"`
	From      string         `json:"from,omitempty"`
	Color     *Color         `json:"color,omitempty"`
	Direction ShareDirection `json:"direction,omitempty"`
	Other     int            `json:"other,omitempty"`
	Card      string         `json:"card,omitempty"`
	Cards     []string       `json:"cards,omitempty"`
}

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventGameStart          EventType = "game_start"
	EventMoved              EventType = "moved"
	EventStationBuilt       EventType = "station_built"
	EventTreated            EventType = "treated"
	EventCardShared         EventType = "card_shared"
	EventCureDiscovered     EventType = "cure_discovered"
	EventEradicated         EventType = "eradicated"
	EventCardsDrawn         EventType = "cards_drawn"
	EventEpidemic           EventType = "epidemic"
	EventInfectionRateUp    EventType = "infection_rate_up"
	EventIntensified        EventType = "intensified"
	EventInfected           EventType = "infected"
	EventInfectionPrevented EventType = "infection_prevented"
	EventOutbreak           EventType = "outbreak"
	EventInfectionDeckEmpty EventType = "infection_deck_empty"
	EventHandLimit          EventType = "hand_limit"
	EventCardDiscarded      EventType = "card_discarded"
	EventTurnEnd            EventType = "turn_end"
	EventTurnStart          EventType = "turn_start"
	EventPhaseChange        EventType = "phase_change"
	EventGameWon            EventType = "game_won"
	EventGameLost           EventType = "game_lost"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type   EventType      `json:"type"`
	Player int            `json:"player,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}
