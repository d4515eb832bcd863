package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pandemic/internal/citydata"
	"pandemic/internal/config"
	"pandemic/internal/logs"
	"pandemic/internal/session"
	"pandemic/internal/shell"
)

const defaultConfig = "configs/pandemic.yml"

func main() {
	configPath := flag.String("config", defaultConfig, "config file")
	players := flag.Int("players", 0, "players for new games (2-4)")
	difficulty := flag.Int("difficulty", 0, "epidemic cards (4-6)")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one")
	jsonOut := flag.Bool("json", false, "read and write JSON envelopes")
	level := flag.String("log-level", "", "debug, info, warn or error")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	path := *configPath
	if !set["config"] {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	loader, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if set["players"] {
		cfg.Game.Players = *players
	}
	if set["difficulty"] {
		cfg.Game.Difficulty = *difficulty
	}
	if set["seed"] {
		cfg.Game.Seed = *seed
	}
	if set["json"] {
		cfg.Shell.JSON = *jsonOut
	}
	if set["log-level"] {
		cfg.Log.Level = *level
	}

	log := logs.Init("pandemic", cfg.Log, os.Stderr)
	defer logs.Sync()

	loader.OnChange(func(c config.Config) {
		if set["log-level"] {
			return
		}
		logs.SetLevel(c.Log.Level)
		log.Info("log level reloaded", zap.String("level", logs.Level().String()))
	})
	loader.Watch(func(err error) {
		logs.ReportError(log, "config_reload", err, zap.String("path", path))
	})

	if err := run(cfg, log); err != nil {
		logs.ReportError(log, "run", err)
		logs.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	graph, err := citydata.Graph(cfg.Game.CityData)
	if err != nil {
		return err
	}
	log.Info("board loaded", zap.Int("cities", graph.Len()), zap.String("source", cfg.Game.CityData))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := session.NewHub(graph, session.Options{
		StartCity:      cfg.Game.StartCity,
		CommandTimeout: cfg.Session.CommandTimeout,
		QueueSize:      cfg.Session.QueueSize,
		Logger:         log,
	})
	go hub.Run(ctx)
	defer hub.Close()

	sh := shell.New(hub, os.Stdout, shell.Options{
		JSON:       cfg.Shell.JSON,
		Prompt:     cfg.Shell.Prompt,
		HideEvents: cfg.Shell.HideEvents,
		Players:    cfg.Game.Players,
		Difficulty: cfg.Game.Difficulty,
		Seed:       cfg.Game.Seed,
		Logger:     log,
	})

	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx, os.Stdin) }()
	select {
	case err := <-done:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("interrupted")
		return nil
	}
}
