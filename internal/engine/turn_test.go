package engine

import (
	"errors"
	"testing"
)

func newRingGame(t *testing.T, players int) *Game {
	t.Helper()
	g, err := NewGame(mustGraph(t, ringRows(24)), players, 4, WithSeed(42), WithStartCity("c00"))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func cityCards(g *Game, names ...string) []Card {
	out := make([]Card, len(names))
	for i, n := range names {
		c, _ := g.Graph.City(n)
		out[i] = CityCard(c.Name, c.Color)
	}
	return out
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, 0, len(events))
	for _, e := range events {
		if e.Type != EventPhaseChange {
			out = append(out, e.Type)
		}
	}
	return out
}

func TestInfectionRateTrack(t *testing.T) {
	want := []int{2, 2, 2, 2, 3, 3, 4, 4, 4}
	for pos := 0; pos <= 8; pos++ {
		if got := InfectionRateAt(pos); got != want[pos] {
			t.Errorf("position %d: expected rate %d, got %d", pos, want[pos], got)
		}
	}
}

func TestEpidemicOrder(t *testing.T) {
	g := newRingGame(t, 2)
	g.Disease = NewDiseaseState(g.Graph)
	g.Infection = NewDeck(g.rng, []InfectionCard{{City: "c05", Color: ColorYellow}})

	events, err := g.resolveEpidemic()
	if err != nil {
		t.Fatalf("resolveEpidemic: %v", err)
	}
	want := []EventType{EventEpidemic, EventInfectionRateUp, EventInfected, EventIntensified}
	got := eventTypes(events)
	if len(got) != len(want) {
		t.Fatalf("expected events %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, got)
		}
	}
	if g.RatePosition != 2 {
		t.Errorf("rate position: expected 2, got %d", g.RatePosition)
	}
	if n := g.Disease.Cubes("c05", ColorYellow); n != EpidemicCubes {
		t.Errorf("expected %d cubes on c05, got %d", EpidemicCubes, n)
	}
	if g.Infection.Len() != 1 || g.Infection.DiscardLen() != 0 {
		t.Errorf("discard should be back on the deck: deck=%d discard=%d",
			g.Infection.Len(), g.Infection.DiscardLen())
	}
}

func TestEpidemicReshufflesOnTop(t *testing.T) {
	g := newRingGame(t, 2)
	before := g.Infection.Len()
	discarded := g.Infection.DiscardPile()
	bottom := g.Infection.Cards()[before-1]

	if _, err := g.resolveEpidemic(); err != nil && !IsLoss(err) {
		t.Fatalf("resolveEpidemic: %v", err)
	}
	top := g.Infection.Peek(len(discarded) + 1)
	onTop := map[string]bool{}
	for _, c := range top {
		onTop[c.City] = true
	}
	for _, c := range append(discarded, bottom) {
		if !onTop[c.City] {
			t.Errorf("%s should be among the top cards after intensify", c.City)
		}
	}
	if g.Infection.Len() != before+len(discarded) {
		t.Errorf("deck size: expected %d, got %d", before+len(discarded), g.Infection.Len())
	}
}

func TestRatePositionSaturates(t *testing.T) {
	g := newRingGame(t, 2)
	g.RatePosition = MaxRatePosition
	if _, err := g.resolveEpidemic(); err != nil && !IsLoss(err) {
		t.Fatalf("resolveEpidemic: %v", err)
	}
	if g.RatePosition != MaxRatePosition {
		t.Errorf("rate position should stay at %d, got %d", MaxRatePosition, g.RatePosition)
	}
}

func TestBuildPlayerDeckPartitions(t *testing.T) {
	g := newRingGame(t, 2)
	for _, tc := range []struct{ cards, difficulty int }{{48, 4}, {37, 6}, {20, 5}} {
		cards := make([]Card, tc.cards)
		for i := range cards {
			cards[i] = CityCard("x", ColorBlue)
		}
		deck := BuildPlayerDeck(g.rng, cards, tc.difficulty).Cards()
		if len(deck) != tc.cards+tc.difficulty {
			t.Fatalf("%+v: expected %d cards, got %d", tc, tc.cards+tc.difficulty, len(deck))
		}
		lo := 0
		for i, chunk := range Partition(cards, tc.difficulty) {
			hi := lo + len(chunk) + 1
			epidemics := 0
			for _, c := range deck[lo:hi] {
				if c.IsEpidemic() {
					epidemics++
				}
			}
			if epidemics != 1 {
				t.Errorf("%+v: block %d holds %d epidemics", tc, i, epidemics)
			}
			lo = hi
		}
	}
}

func TestPartitionSizes(t *testing.T) {
	parts := Partition(make([]int, 37), 6)
	total := 0
	for _, p := range parts {
		if len(p) < 6 || len(p) > 7 {
			t.Errorf("chunk size %d out of range", len(p))
		}
		total += len(p)
	}
	if total != 37 {
		t.Errorf("expected 37 cards across chunks, got %d", total)
	}
}

func TestHandLimitIsAPendingDecision(t *testing.T) {
	g := newRingGame(t, 2)
	p := g.CurrentPlayer()
	other := g.Current%2 + 1
	p.Hand = cityCards(g, "c00", "c01", "c02", "c03", "c04", "c05", "c06")
	g.PlayerDeck = NewDeck(g.rng, cityCards(g, "c10", "c11", "c12"))
	infectionBefore := g.Infection.Len()

	s, err := g.EndTurn()
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if s.PendingDiscard != 2 || g.Phase != PhaseDiscard || g.PendingDiscards() != 2 {
		t.Fatalf("expected 2 pending discards in Discard phase, got %d (%s)", s.PendingDiscard, g.Phase)
	}
	if g.Infection.Len() != infectionBefore {
		t.Fatal("infection must wait for the discard")
	}
	if _, err := g.Apply(p.ID, Action{Type: ActionDrive, City: "c01"}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("drive while discarding: expected ErrWrongPhase, got %v", err)
	}
	if _, err := g.Apply(other, Action{Type: ActionDiscard, Card: "c10"}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("discard by the other player: expected ErrNotYourTurn, got %v", err)
	}
	if _, err := g.Apply(p.ID, Action{Type: ActionDiscard, Card: "c20"}); !errors.Is(err, ErrCardNotInHand) {
		t.Errorf("expected ErrCardNotInHand, got %v", err)
	}
	if _, err := g.EndTurn(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("second EndTurn: expected ErrWrongPhase, got %v", err)
	}

	if _, err := g.Apply(p.ID, Action{Type: ActionDiscard, Card: "c10"}); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if g.Phase != PhaseDiscard || g.PendingDiscards() != 1 {
		t.Fatalf("expected one more discard, phase %s pending %d", g.Phase, g.PendingDiscards())
	}
	events, err := g.Apply(p.ID, Action{Type: ActionDiscard, Card: "C03"})
	if err != nil {
		t.Fatalf("discard: %v", err)
	}
	if len(p.Hand) != HandLimit {
		t.Errorf("hand should be at the limit, got %d", len(p.Hand))
	}
	if g.Phase != PhaseActing || g.Current != other {
		t.Errorf("turn should pass to %d, got %d in %s", other, g.Current, g.Phase)
	}
	if g.Infection.Len() != infectionBefore-g.InfectionRate() {
		t.Errorf("infection step did not run: deck %d", g.Infection.Len())
	}
	if events[0].Type != EventCardDiscarded || events[len(events)-1].Type != EventTurnStart {
		t.Errorf("unexpected events %v", eventTypes(events))
	}
	if g.PlayerDeck.DiscardLen() != 2 {
		t.Errorf("discarded cards should go to the player discard pile, got %d", g.PlayerDeck.DiscardLen())
	}
}

func TestDiscardOutsideHandLimit(t *testing.T) {
	g := newRingGame(t, 2)
	if _, err := g.Apply(g.Current, Action{Type: ActionDiscard, Card: "c00"}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("expected ErrWrongPhase, got %v", err)
	}
}

func TestEpidemicDrawnDuringTurn(t *testing.T) {
	g := newRingGame(t, 2)
	g.PlayerDeck = NewDeck(g.rng, append([]Card{EpidemicCard()}, cityCards(g, "c20", "c21")...))
	hand := len(g.CurrentPlayer().Hand)

	s, err := g.EndTurn()
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if s.Epidemics != 1 || g.Epidemics != 1 || g.RatePosition != 2 {
		t.Errorf("epidemic not resolved: summary %d, game %d, rate position %d", s.Epidemics, g.Epidemics, g.RatePosition)
	}
	if len(s.Drawn) != 1 || len(g.GetPlayer(s.Player).Hand) != hand+1 {
		t.Errorf("the epidemic must not take a hand slot")
	}
	if g.PlayerDeck.Len() != 1 {
		t.Errorf("expected 1 card left, got %d", g.PlayerDeck.Len())
	}
}

func TestInfectionDeckRunsOut(t *testing.T) {
	g := newRingGame(t, 2)
	g.Infection = NewDeck(g.rng, []InfectionCard{{City: "c07", Color: ColorRed}})
	g.PlayerDeck = NewDeck(g.rng, cityCards(g, "c20", "c21"))

	s, err := g.EndTurn()
	if err != nil {
		t.Fatalf("an empty infection deck is not a loss: %v", err)
	}
	if len(s.Infected) != 1 || countType(s.Events, EventInfectionDeckEmpty) != 1 {
		t.Errorf("expected one infection then an empty-deck event: %v", eventTypes(s.Events))
	}
	if g.Over() || g.Phase != PhaseActing {
		t.Errorf("game should go on, phase %s", g.Phase)
	}
}

func TestTurnOrderWraps(t *testing.T) {
	g := newRingGame(t, 3)
	g.Current = 3
	g.PlayerDeck = NewDeck(g.rng, cityCards(g, "c20", "c21"))
	turn := g.Turn

	s, err := g.EndTurn()
	if err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if g.Current != 1 || s.NextPlayer != 1 {
		t.Errorf("expected player 1 after player 3, got %d", g.Current)
	}
	if g.Turn != turn+1 || g.CurrentPlayer().ActionsLeft != ActionsPerTurn {
		t.Errorf("turn %d actions %d", g.Turn, g.CurrentPlayer().ActionsLeft)
	}
}

func TestStationRelocation(t *testing.T) {
	g := newRingGame(t, 2)
	for _, c := range []string{"c10", "c11", "c12", "c13", "c14"} {
		g.Stations[c] = true
	}
	p := g.CurrentPlayer()
	p.Location = "c05"
	p.Hand = cityCards(g, "c05")

	_, err := g.Apply(p.ID, Action{Type: ActionBuildStation})
	if !errors.Is(err, ErrStationLimit) {
		t.Fatalf("expected ErrStationLimit with %d stations, got %v", g.StationCount(), err)
	}
	if _, err := g.Apply(p.ID, Action{Type: ActionBuildStation, From: "c20"}); !errors.Is(err, ErrNoResearchStation) {
		t.Errorf("relocating from a city without a station: got %v", err)
	}
	if len(p.Hand) != 1 || p.ActionsLeft != ActionsPerTurn {
		t.Fatal("failed builds must not change anything")
	}

	if _, err := g.Apply(p.ID, Action{Type: ActionBuildStation, From: "c10"}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if g.StationCount() != MaxStations || !g.HasStation("c05") || g.HasStation("c10") {
		t.Errorf("station not relocated: %v", g.StationCities())
	}
	if len(p.Hand) != 0 || p.ActionsLeft != ActionsPerTurn-1 {
		t.Errorf("hand %d actions %d", len(p.Hand), p.ActionsLeft)
	}
}

func TestLossStopsTheTurn(t *testing.T) {
	g := newRingGame(t, 2)
	top := g.Infection.Peek(1)[0]
	g.Disease = NewDiseaseState(g.Graph)
	g.Disease.outbreaks = OutbreakLimit - 1
	fill(t, g.Disease, top.City, top.Color, MaxCubesPerCity)
	g.PlayerDeck = NewDeck(g.rng, cityCards(g, "c20", "c21"))
	current := g.Current

	s, err := g.EndTurn()
	if !errors.Is(err, ErrOutbreakLimit) {
		t.Fatalf("expected ErrOutbreakLimit, got %v", err)
	}
	if !g.Over() || g.Won() || g.Outcome.Code != "OUTBREAK_LIMIT" {
		t.Errorf("unexpected outcome %+v", g.Outcome)
	}
	if g.Current != current || s.NextPlayer != 0 {
		t.Error("turn must not advance after a loss")
	}
	if countType(s.Events, EventGameLost) != 1 {
		t.Errorf("expected a game_lost event: %v", eventTypes(s.Events))
	}
}
