package shell_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"pandemic/internal/citydata"
	"pandemic/internal/engine"
	"pandemic/internal/protocol"
	"pandemic/internal/session"
	"pandemic/internal/shell"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line  string
		check func(shell.Command) bool
	}{
		{"drive  New   York", func(c shell.Command) bool {
			return c.Kind == shell.KindAction && c.Action.Type == engine.ActionDrive && c.Action.City == "New York"
		}},
		{"DIRECT tokyo", func(c shell.Command) bool { return c.Action.Type == engine.ActionDirectFlight }},
		{"charter paris", func(c shell.Command) bool { return c.Action.Type == engine.ActionCharterFlight }},
		{"shuttle miami", func(c shell.Command) bool { return c.Action.Type == engine.ActionShuttleFlight }},
		{"build", func(c shell.Command) bool {
			return c.Action.Type == engine.ActionBuildStation && c.Action.From == ""
		}},
		{"build from hong kong", func(c shell.Command) bool { return c.Action.From == "hong kong" }},
		{"treat", func(c shell.Command) bool { return c.Action.Type == engine.ActionTreat && c.Action.Color == nil }},
		{"treat Black", func(c shell.Command) bool { return *c.Action.Color == engine.ColorBlack }},
		{"give 2 st petersburg", func(c shell.Command) bool {
			a := c.Action
			return a.Type == engine.ActionShare && a.Direction == engine.ShareGive && a.Other == 2 && a.Card == "st petersburg"
		}},
		{"take 3 lima", func(c shell.Command) bool { return c.Action.Direction == engine.ShareTake }},
		{"cure blue atlanta, new york,paris , london, madrid", func(c shell.Command) bool {
			a := c.Action
			return a.Type == engine.ActionCure && *a.Color == engine.ColorBlue &&
				len(a.Cards) == 5 && a.Cards[1] == "new york" && a.Cards[2] == "paris"
		}},
		{"discard one quiet night", func(c shell.Command) bool { return c.Action.Card == "one quiet night" }},
		{"end", func(c shell.Command) bool { return c.Action.Type == engine.ActionEndTurn }},
		{"new", func(c shell.Command) bool { return c.Kind == shell.KindNewGame && c.NewGame.Players == 0 }},
		{"new 3 5 99", func(c shell.Command) bool {
			return c.NewGame.Players == 3 && c.NewGame.Difficulty == 5 && c.NewGame.Seed == 99
		}},
		{"connections", func(c shell.Command) bool { return c.Kind == shell.KindQuery && c.Topic == "connections" }},
		{"city hong kong", func(c shell.Command) bool { return c.Topic == "city" && c.Arg == "hong kong" }},
		{"help", func(c shell.Command) bool { return c.Kind == shell.KindHelp }},
		{"exit", func(c shell.Command) bool { return c.Kind == shell.KindQuit }},
	}
	for _, tt := range tests {
		c, err := shell.Parse(tt.line)
		if err != nil {
			t.Fatalf("%q: %v", tt.line, err)
		}
		if !tt.check(c) {
			t.Errorf("%q: unexpected command %+v", tt.line, c)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"fly paris", shell.ErrUnknownCommand},
		{"drive", shell.ErrUsage},
		{"build paris", shell.ErrUsage},
		{"give two paris", shell.ErrUsage},
		{"give 2", shell.ErrUsage},
		{"cure blue", shell.ErrUsage},
		{"new two", shell.ErrUsage},
		{"new 2 4 1 9", shell.ErrUsage},
		{"city", shell.ErrUsage},
		{"treat purple", engine.ErrInvalidAction},
		{"cure green a,b,c,d,e", engine.ErrInvalidAction},
	}
	for _, tt := range tests {
		if _, err := shell.Parse(tt.line); !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.line, tt.want, err)
		}
	}
}

func TestParseEnvelope(t *testing.T) {
	c, err := shell.ParseEnvelope(`{"type":"new_game","payload":{"players":"3","difficulty":6}}`)
	if err != nil || c.Kind != shell.KindNewGame || c.NewGame.Players != 3 || c.NewGame.Difficulty != 6 {
		t.Errorf("new_game: %+v %v", c, err)
	}
	c, err = shell.ParseEnvelope(`{"type":"city","payload":{"arg":"lagos"}}`)
	if err != nil || c.Kind != shell.KindQuery || c.Arg != "lagos" {
		t.Errorf("city: %+v %v", c, err)
	}
	c, err = shell.ParseEnvelope(`{"type":"shuttle_flight","payload":{"city":"miami"}}`)
	if err != nil || c.Action.Type != engine.ActionShuttleFlight || c.Action.City != "miami" {
		t.Errorf("shuttle: %+v %v", c, err)
	}
	if _, err := shell.ParseEnvelope(`{"type":"drive","payload":{"city":1,"speed":3}}`); !errors.Is(err, protocol.ErrBadMessage) {
		t.Errorf("expected ErrBadMessage, got %v", err)
	}
}

func newHub(t *testing.T) *session.Hub {
	t.Helper()
	graph, err := citydata.Default()
	if err != nil {
		t.Fatalf("citydata.Default: %v", err)
	}
	h := session.NewHub(graph, session.Options{})
	go h.Run(context.Background())
	t.Cleanup(h.Close)
	return h
}

func TestTextSession(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New(newHub(t), &out, shell.Options{Players: 2, Difficulty: 4})
	script := strings.Join([]string{
		"status",
		"new 2 4 42",
		"# comment",
		"hand",
		"connections",
		"city atlanta",
		"drive chicago",
		"drive tokyo",
		"fly",
		"quit",
		"status",
	}, "\n")
	if err := sh.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"error: no game in progress",
		"new game ",
		"(seed 42): 2 players, difficulty 4",
		"game start",
		"/7 cards:",
		"connections from atlanta:",
		"  chicago (blue)",
		"atlanta: blue, population",
		"research station",
		"moved from=atlanta mode=drive to=chicago",
		"3 actions left",
		"error: cities are not connected",
		"error: unknown command; type help command=fly",
		"bye",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output is missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "bye") != 1 {
		t.Error("nothing runs after quit")
	}
}

func TestJSONSession(t *testing.T) {
	var out bytes.Buffer
	sh := shell.New(newHub(t), &out, shell.Options{
		JSON:       true,
		Prompt:     "> ",
		HideEvents: []string{"phase_change"},
		Players:    2,
		Difficulty: 4,
	})
	script := strings.Join([]string{
		`{"type":"new_game","payload":{"seed":5}}`,
		`{"type":"drive","payload":{"city":"washington"}}`,
		`{"type":"end_turn"}`,
		`{"type":"connections"}`,
		`treat purple`,
		`status`,
	}, "\n")
	if err := sh.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var types []string
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var env protocol.Envelope
		if err := json.Unmarshal(sc.Bytes(), &env); err != nil {
			t.Fatalf("line %q is not an envelope: %v", sc.Text(), err)
		}
		types = append(types, env.Type)
		if env.Type == protocol.MsgEvent {
			var e engine.Event
			if err := json.Unmarshal(env.Payload, &e); err != nil {
				t.Fatal(err)
			}
			if e.Type == engine.EventPhaseChange {
				t.Error("phase_change events are hidden")
			}
		}
	}
	if len(types) == 0 || types[0] != protocol.MsgGameCreated {
		t.Fatalf("expected game_created first, got %v", types)
	}
	for _, want := range []string{protocol.MsgTurn, protocol.MsgEvent, protocol.MsgInfo, protocol.MsgError, protocol.MsgState} {
		if !contains(types, want) {
			t.Errorf("no %s message in %v", want, types)
		}
	}
	if types[len(types)-1] != protocol.MsgBye {
		t.Errorf("expected bye at end of input, got %v", types)
	}
}

func TestHubGone(t *testing.T) {
	graph, err := citydata.Default()
	if err != nil {
		t.Fatal(err)
	}
	h := session.NewHub(graph, session.Options{})
	go h.Run(context.Background())
	h.Close()

	sh := shell.New(h, &bytes.Buffer{}, shell.Options{})
	quit, err := sh.Exec(context.Background(), "status")
	if !quit || !errors.Is(err, session.ErrClosed) {
		t.Errorf("expected quit with ErrClosed, got %v %v", quit, err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
