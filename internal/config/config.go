// Package config holds the server settings, read from flags with
// environment overrides.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr string
	// AllowOrigins is the comma separated CORS and websocket origin list.
	AllowOrigins        string
	LogLevel            string
	TimeControl         time.Duration
	MaxPlies            int
	MatchmakingInterval time.Duration
	BotSeed             int64
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		LogLevel:            "info",
		TimeControl:         10 * time.Minute,
		MaxPlies:            1000,
		MatchmakingInterval: time.Second,
		BotSeed:             time.Now().UnixNano(),
	}
}

// Load parses args into a Config, then applies RAYCHESS_* environment
// variables on top.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "allowed origins, comma separated")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	fs.DurationVar(&cfg.TimeControl, "time-control", cfg.TimeControl, "clock per side, 0 for untimed")
	fs.IntVar(&cfg.MaxPlies, "max-plies", cfg.MaxPlies, "draw after this many plies, 0 for no cap")
	fs.DurationVar(&cfg.MatchmakingInterval, "match-interval", cfg.MatchmakingInterval, "matchmaking tick")
	fs.Int64Var(&cfg.BotSeed, "bot-seed", cfg.BotSeed, "seed for random bots")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("RAYCHESS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("RAYCHESS_ORIGINS"); v != "" {
		c.AllowOrigins = v
	}
	if v := getenv("RAYCHESS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("RAYCHESS_TIME_CONTROL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: RAYCHESS_TIME_CONTROL: %v", ErrInvalidConfig, err)
		}
		c.TimeControl = d
	}
	if v := getenv("RAYCHESS_MAX_PLIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: RAYCHESS_MAX_PLIES: %v", ErrInvalidConfig, err)
		}
		c.MaxPlies = n
	}
	if v := getenv("RAYCHESS_MATCH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: RAYCHESS_MATCH_INTERVAL: %v", ErrInvalidConfig, err)
		}
		c.MatchmakingInterval = d
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	case c.TimeControl < 0:
		return fmt.Errorf("%w: negative time control", ErrInvalidConfig)
	case c.MaxPlies < 0:
		return fmt.Errorf("%w: negative ply cap", ErrInvalidConfig)
	case c.MatchmakingInterval <= 0:
		return fmt.Errorf("%w: matchmaking interval must be positive", ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to the fiber logger level.
func (c Config) Level() (log.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info", "":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return log.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
}

// Origins splits AllowOrigins.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
