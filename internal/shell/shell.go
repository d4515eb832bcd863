// Package shell is the hot-seat command line in front of a session hub.
package shell

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"pandemic/internal/engine"
	"pandemic/internal/protocol"
	"pandemic/internal/session"
)

// Options configure a Shell. Players, Difficulty and Seed fill in whatever a
// "new" command leaves out.
type Options struct {
	JSON       bool
	Prompt     string
	HideEvents []string
	Players    int
	Difficulty int
	Seed       uint64
	Logger     *zap.Logger
}

type Shell struct {
	hub  *session.Hub
	out  io.Writer
	opts Options
	hide map[engine.EventType]bool
	log  *zap.Logger
}

func New(hub *session.Hub, out io.Writer, opts Options) *Shell {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Shell{
		hub:  hub,
		out:  out,
		opts: opts,
		hide: make(map[engine.EventType]bool, len(opts.HideEvents)),
		log:  opts.Logger.Named("shell"),
	}
	for _, e := range opts.HideEvents {
		s.hide[engine.EventType(strings.TrimSpace(e))] = true
	}
	return s
}

// Run reads commands from in until quit, end of input or ctx is done. It
// only returns an error when the hub is gone or reading fails.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		s.prompt()
		if !sc.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := s.Exec(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	s.bye()
	return nil
}

func (s *Shell) prompt() {
	if !s.opts.JSON && s.opts.Prompt != "" {
		fmt.Fprint(s.out, s.opts.Prompt)
	}
}

// Exec runs one input line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	var (
		cmd Command
		err error
	)
	if s.opts.JSON && strings.HasPrefix(line, "{") {
		cmd, err = ParseEnvelope(line)
	} else {
		cmd, err = Parse(line)
	}
	if err != nil {
		s.log.Debug("unparsed input", zap.String("line", line), zap.Error(err))
		s.showError(err)
		return false, nil
	}
	s.log.Debug("command", zap.String("line", line), zap.Int("kind", int(cmd.Kind)))

	switch cmd.Kind {
	case KindHelp:
		s.help()
	case KindQuit:
		s.bye()
		return true, nil
	case KindNewGame:
		err = s.newGame(ctx, cmd.NewGame)
	case KindAction:
		err = s.act(ctx, cmd.Action)
	case KindQuery:
		err = s.query(ctx, cmd.Topic, cmd.Arg)
	}
	if errors.Is(err, session.ErrClosed) {
		return true, err
	}
	if err != nil {
		s.showError(err)
	}
	return false, nil
}

func (s *Shell) newGame(ctx context.Context, msg protocol.NewGameMsg) error {
	if msg.Players == 0 {
		msg.Players = s.opts.Players
	}
	if msg.Difficulty == 0 {
		msg.Difficulty = s.opts.Difficulty
	}
	if msg.Seed == 0 {
		msg.Seed = s.opts.Seed
	}
	r, err := s.hub.NewGame(ctx, msg.Players, msg.Difficulty, msg.Seed)
	if err != nil {
		return err
	}
	if r.Err != nil {
		return r.Err
	}
	created := protocol.GameCreated{GameID: r.GameID, Seed: r.Seed}
	s.emit(protocol.MsgGameCreated, created, func() {
		fmt.Fprintf(s.out, "new game %s (seed %d): %d players, difficulty %d\n",
			created.GameID, created.Seed, msg.Players, msg.Difficulty)
	})
	s.events(r.Events)
	for _, p := range r.View.Players {
		s.text("  player %d: %s, hand %s\n", p.ID, p.Role, strings.Join(p.Hand, ", "))
	}
	s.turn(r.View)
	return nil
}

func (s *Shell) act(ctx context.Context, a engine.Action) error {
	r, err := s.hub.Act(ctx, 0, a)
	if err != nil {
		return err
	}
	if r.Err != nil && !engine.IsLoss(r.Err) {
		return r.Err
	}
	s.events(r.Events)
	s.turn(r.View)
	return nil
}

func (s *Shell) events(events []engine.Event) {
	for _, e := range events {
		if s.hide[e.Type] {
			continue
		}
		s.emit(protocol.MsgEvent, e, func() {
			fmt.Fprintf(s.out, "  %s\n", describe(e))
		})
	}
}

// turn reports what happens next: the outcome, a pending discard, or whose
// turn it is.
func (s *Shell) turn(v *engine.PublicViewData) {
	if v.Outcome != nil {
		s.emit(protocol.MsgState, v, func() {
			fmt.Fprintln(s.out, outcomeLine(v.Outcome))
		})
		return
	}
	p := v.Players[v.Current-1]
	msg := protocol.TurnMsg{
		Player:      p.ID,
		Role:        p.Role,
		Location:    p.Location,
		ActionsLeft: p.ActionsLeft,
		Phase:       v.Phase,
		Discard:     v.PendingDiscard,
	}
	s.emit(protocol.MsgTurn, msg, func() {
		if msg.Discard > 0 {
			fmt.Fprintf(s.out, "player %d must discard %d: %s\n", msg.Player, msg.Discard, strings.Join(p.Hand, ", "))
			return
		}
		fmt.Fprintf(s.out, "player %d (%s) in %s, %d actions left\n", msg.Player, msg.Role, msg.Location, msg.ActionsLeft)
	})
}

func (s *Shell) showError(err error) {
	msg := protocol.NewErrorMsg(err)
	s.emit(protocol.MsgError, msg, func() {
		fmt.Fprintf(s.out, "error: %s%s\n", msg.Message, formatData(msg.Data))
	})
}

func (s *Shell) bye() {
	s.emit(protocol.MsgBye, struct{}{}, func() { fmt.Fprintln(s.out, "bye") })
}

func (s *Shell) help() {
	s.emit(protocol.MsgInfo, protocol.InfoMsg{Topic: "help", Lines: helpLines}, func() {
		for _, l := range helpLines {
			fmt.Fprintln(s.out, l)
		}
	})
}

// emit writes payload as a JSON envelope in JSON mode and calls text otherwise.
func (s *Shell) emit(typ string, payload any, text func()) {
	if !s.opts.JSON {
		text()
		return
	}
	env, err := protocol.NewEnvelope(typ, payload)
	if err != nil {
		s.log.Error("encode envelope", zap.String("type", typ), zap.Error(err))
		return
	}
	if err := json.NewEncoder(s.out).Encode(env); err != nil {
		s.log.Warn("write envelope", zap.Error(err))
	}
}

func (s *Shell) text(format string, args ...any) {
	if !s.opts.JSON {
		fmt.Fprintf(s.out, format, args...)
	}
}

var helpLines = []string{
	"new [players] [difficulty] [seed]  start a game",
	"drive|direct|charter|shuttle <city> move the current player",
	"build [from <city>]                 build a research station here",
	"treat [color]                       remove one cube here",
	"give|take <player> <card>           share the card of the city you are in",
	"cure <color> <card>, <card>, ...    discover a cure at a research station",
	"discard <card>                      discard down to the hand limit",
	"end                                 draw, infect and pass the turn",
	"status | hand [player]              show the table or a hand",
	"connections [city] | city <name>    show the board",
	"help | quit",
}
