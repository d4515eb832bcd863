package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pandemic/internal/engine"
	"pandemic/internal/errx"
	"pandemic/internal/logs"
)

var (
	ErrNoGame  = errx.NewBiz("NO_GAME", "no game in progress")
	ErrClosed  = errx.NewSys("SESSION_CLOSED", "session is closed")
	ErrTimeout = errx.NewSys("SESSION_TIMEOUT", "command timed out")
)

type CommandKind int

const (
	CmdNewGame CommandKind = iota
	CmdAct
	CmdView
	CmdInspect
)

var commandNames = map[CommandKind]string{
	CmdNewGame: "new_game",
	CmdAct:     "act",
	CmdView:    "view",
	CmdInspect: "inspect",
}

func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is one request to the hub. Which fields matter depends on Kind.
type Command struct {
	Kind CommandKind

	// CmdNewGame
	Players    int
	Difficulty int
	Seed       uint64 // 0 draws a fresh seed, reported back in Reply.Seed

	// CmdAct. Player 0 acts for whoever's turn it is.
	Player int
	Action engine.Action

	// CmdInspect runs Inspect on the hub goroutine with read access to the game.
	Inspect func(*engine.Game) error
}

// Reply is the hub's answer to a Command.
type Reply struct {
	GameID string
	Seed   uint64
	Events []engine.Event
	View   *engine.PublicViewData
	Err    error
}

type request struct {
	ctx   context.Context
	cmd   Command
	reply chan Reply
}

// Options configure a Hub.
type Options struct {
	StartCity      string
	CommandTimeout time.Duration
	QueueSize      int
	Logger         *zap.Logger
}

// Hub owns one game at a time. Every command is applied by the Run
// goroutine, in the order it was queued, so the game never sees two
// callers at once.
type Hub struct {
	graph   *engine.CityGraph
	opts    Options
	log     *zap.Logger
	game    *engine.Game
	gameID  string
	seed    uint64
	started time.Time

	incoming chan request
	quit     chan struct{}
	done     chan struct{}
}

func NewHub(graph *engine.CityGraph, opts Options) *Hub {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 5 * time.Second
	}
	if opts.StartCity == "" {
		opts.StartCity = engine.DefaultStartCity
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Hub{
		graph:    graph,
		opts:     opts,
		log:      opts.Logger.Named("session"),
		incoming: make(chan request, opts.QueueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes commands until ctx is cancelled or Close is called.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case req := <-h.incoming:
			if req.ctx.Err() != nil {
				// the caller gave up while the command was queued
				continue
			}
			req.reply <- h.handle(req.cmd)
		case <-ctx.Done():
			return
		case <-h.quit:
			return
		}
	}
}

// Close stops Run and waits for it to return.
func (h *Hub) Close() {
	select {
	case <-h.quit:
	default:
		close(h.quit)
	}
	<-h.done
}

// Submit queues cmd and waits for its reply, bounded by the command timeout.
// Engine errors come back in Reply.Err; the returned error is only set when
// the command could not be run at all.
func (h *Hub) Submit(ctx context.Context, cmd Command) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, h.opts.CommandTimeout)
	defer cancel()

	req := request{ctx: ctx, cmd: cmd, reply: make(chan Reply, 1)}
	select {
	case h.incoming <- req:
	case <-ctx.Done():
		return Reply{}, h.fail(cmd, ErrTimeout.WithData("stage", "queue").WithCause(ctx.Err()))
	case <-h.done:
		return Reply{}, ErrClosed
	}

	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return Reply{}, h.fail(cmd, ErrTimeout.WithData("stage", "reply").WithCause(ctx.Err()))
	case <-h.done:
		return Reply{}, ErrClosed
	}
}

func (h *Hub) fail(cmd Command, err *errx.Error) error {
	logs.ReportError(h.log, cmd.Kind.String(), err, zap.Duration("timeout", h.opts.CommandTimeout))
	return err
}

// NewGame replaces the current game with a fresh one.
func (h *Hub) NewGame(ctx context.Context, players, difficulty int, seed uint64) (Reply, error) {
	return h.Submit(ctx, Command{Kind: CmdNewGame, Players: players, Difficulty: difficulty, Seed: seed})
}

// Act applies action for player (0 for the current player).
func (h *Hub) Act(ctx context.Context, player int, action engine.Action) (Reply, error) {
	return h.Submit(ctx, Command{Kind: CmdAct, Player: player, Action: action})
}

func (h *Hub) View(ctx context.Context) (Reply, error) {
	return h.Submit(ctx, Command{Kind: CmdView})
}

// Inspect runs fn against the game on the hub goroutine. fn must not keep
// references to the game or mutate it.
func (h *Hub) Inspect(ctx context.Context, fn func(*engine.Game) error) error {
	r, err := h.Submit(ctx, Command{Kind: CmdInspect, Inspect: fn})
	if err != nil {
		return err
	}
	return r.Err
}

func (h *Hub) handle(cmd Command) Reply {
	switch cmd.Kind {
	case CmdNewGame:
		return h.handleNewGame(cmd)
	case CmdAct:
		return h.handleAct(cmd)
	case CmdView:
		if h.game == nil {
			return Reply{Err: ErrNoGame}
		}
		return h.reply(nil, nil)
	case CmdInspect:
		if h.game == nil {
			return Reply{Err: ErrNoGame}
		}
		return Reply{GameID: h.gameID, Seed: h.seed, Err: cmd.Inspect(h.game)}
	default:
		return Reply{Err: engine.ErrInvalidAction.WithData("command", int(cmd.Kind))}
	}
}

func (h *Hub) handleNewGame(cmd Command) Reply {
	seed := cmd.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	id := uuid.NewString()
	log := h.log.With(zap.String("game", id))

	g, err := engine.NewGame(h.graph, cmd.Players, cmd.Difficulty,
		engine.WithSeed(seed),
		engine.WithStartCity(h.opts.StartCity),
		engine.WithLogger(log.Named("engine")),
	)
	if err != nil {
		logs.ReportRejected(h.log, CmdNewGame.String(), err,
			zap.Int("players", cmd.Players), zap.Int("difficulty", cmd.Difficulty))
		return Reply{Err: err}
	}
	if h.game != nil && !h.game.Over() {
		h.log.Info("game abandoned", zap.String("game", h.gameID), zap.Int("turn", h.game.Turn))
	}
	h.game, h.gameID, h.seed, h.started = g, id, seed, time.Now()
	log.Info("game created",
		zap.Int("players", cmd.Players),
		zap.Int("difficulty", cmd.Difficulty),
		zap.Uint64("seed", seed))
	return h.reply(g.Setup, nil)
}

func (h *Hub) handleAct(cmd Command) Reply {
	if h.game == nil {
		return Reply{Err: ErrNoGame}
	}
	player := cmd.Player
	if player == 0 {
		player = h.game.Current
	}
	events, err := h.game.Apply(player, cmd.Action)
	log := h.log.With(zap.String("game", h.gameID), zap.Int("player", player))
	switch {
	case err == nil:
		log.Debug("action applied", zap.String("action", string(cmd.Action.Type)), zap.Int("events", len(events)))
	case engine.IsIllegalAction(err) || errors.Is(err, engine.ErrGameOver):
		logs.ReportRejected(log, string(cmd.Action.Type), err)
		return h.reply(nil, err)
	}
	if h.game.Over() {
		log.Info("game over",
			zap.String("result", h.game.Outcome.Result.String()),
			zap.String("code", h.game.Outcome.Code),
			zap.Int("turn", h.game.Turn),
			zap.Duration("played", time.Since(h.started)))
	}
	return h.reply(events, err)
}

func (h *Hub) reply(events []engine.Event, err error) Reply {
	pv := h.game.PublicView()
	return Reply{GameID: h.gameID, Seed: h.seed, Events: events, View: &pv, Err: err}
}
