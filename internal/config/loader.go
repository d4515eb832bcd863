package config

import (
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"pandemic/internal/errx"
)

// EnvPrefix prefixes environment overrides: PANDEMIC_GAME_PLAYERS=3.
const EnvPrefix = "PANDEMIC"

var (
	ErrConfig   = errx.NewSys("CONFIG_ERROR", "configuration error")
	ErrNotFound = ErrConfig.Sub("CONFIG_NOT_FOUND", "config file not found")
	ErrRead     = ErrConfig.Sub("CONFIG_READ", "read config file")
	ErrDecode   = ErrConfig.Sub("CONFIG_DECODE", "decode config")
)

// Loader owns a viper instance and the last decoded Config.
type Loader struct {
	v    *viper.Viper
	path string

	mu       sync.RWMutex
	conf     Config
	onChange []func(Config)
}

// Load reads path (if non-empty) on top of the defaults and the PANDEMIC_*
// environment. A missing file is an error when a path was given.
func Load(path string) (*Loader, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if !fileExist(path) {
			return nil, ErrNotFound.WithData("path", path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, ErrRead.WithData("path", path).WithCause(err)
		}
	}

	l := &Loader{v: v, path: path}
	conf, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.conf = conf
	return l, nil
}

func (l *Loader) decode() (Config, error) {
	var c Config
	err := l.v.Unmarshal(&c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, ErrDecode.WithCause(err)
	}
	return c, nil
}

// Config returns the current configuration.
func (l *Loader) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conf
}

// OnChange registers fn to run with the new Config after each reload.
func (l *Loader) OnChange(fn func(Config)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// Watch reloads the file whenever it changes. It is a no-op without a file.
// A reload that fails to decode keeps the previous Config and is passed to
// onErr.
func (l *Loader) Watch(onErr func(error)) {
	if l.path == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := l.reload(); err != nil && onErr != nil {
			onErr(err)
		}
	})
	l.v.WatchConfig()
}

func (l *Loader) reload() error {
	conf, err := l.decode()
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.conf = conf
	hooks := append([]func(Config){}, l.onChange...)
	l.mu.Unlock()
	for _, fn := range hooks {
		fn(conf)
	}
	return nil
}

func fileExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
