package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	CanvasWidth  int           `envconfig:"CANVAS_WIDTH" default:"800"`
	CanvasHeight int           `envconfig:"CANVAS_HEIGHT" default:"600"`
	PixelRatio   float64       `envconfig:"PIXEL_RATIO" default:"1"`
	HandleSize   float64       `envconfig:"HANDLE_SIZE" default:"10"`
	MoveInterval time.Duration `envconfig:"MOVE_INTERVAL" default:"0s"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"24h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects sizes and ratios the engine cannot work with.
func (c *Config) Validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.CanvasWidth, c.CanvasHeight)
	}
	if c.PixelRatio <= 0 {
		return fmt.Errorf("config: pixel ratio %v must be positive", c.PixelRatio)
	}
	if c.HandleSize <= 0 {
		return fmt.Errorf("config: handle size %v must be positive", c.HandleSize)
	}
	if c.MoveInterval < 0 {
		return fmt.Errorf("config: move interval %v must not be negative", c.MoveInterval)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Origins splits AllowedOrigins into its comma separated entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() slog.Level {
	l, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return l, nil
}
