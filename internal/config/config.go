package config

import "time"

// Config is the whole runtime configuration.
type Config struct {
	Game    GameConfig    `yaml:"game" mapstructure:"game"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	Shell   ShellConfig   `yaml:"shell" mapstructure:"shell"`
}

type GameConfig struct {
	Players    int    `yaml:"players" mapstructure:"players"`
	Difficulty int    `yaml:"difficulty" mapstructure:"difficulty"` // epidemic cards, 4-6
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`             // 0 picks a random seed
	StartCity  string `yaml:"start_city" mapstructure:"start_city"`
	CityData   string `yaml:"city_data" mapstructure:"city_data"` // CSV path; empty uses the built-in board
}

type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type SessionConfig struct {
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`
	QueueSize      int           `yaml:"queue_size" mapstructure:"queue_size"`
}

type ShellConfig struct {
	JSON       bool     `yaml:"json" mapstructure:"json"`
	Prompt     string   `yaml:"prompt" mapstructure:"prompt"`
	HideEvents []string `yaml:"hide_events" mapstructure:"hide_events"`
}

var defaults = map[string]any{
	"game.players":            2,
	"game.difficulty":         4,
	"game.seed":               0,
	"game.start_city":         "atlanta",
	"game.city_data":          "",
	"log.file":                "",
	"log.max_size":            10,
	"log.max_backups":         3,
	"log.max_age":             7,
	"log.compress":            false,
	"log.level":               "warn",
	"log.dev":                 false,
	"session.command_timeout": "5s",
	"session.queue_size":      16,
	"shell.json":              false,
	"shell.prompt":            "> ",
	"shell.hide_events":       []string{"phase_change"},
}
