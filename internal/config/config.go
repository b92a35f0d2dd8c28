// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/CaBe71/Card-Matching-Game/engine"
)

// Config holds every CARDMATCH_* setting.
type Config struct {
	LogLevel       string `env:"CARDMATCH_LOG_LEVEL"        envDefault:"info"`
	LogFormat      string `env:"CARDMATCH_LOG_FORMAT"       envDefault:"text"`
	UndoDepth      int    `env:"CARDMATCH_UNDO_DEPTH"       envDefault:"50"`
	Relocation     string `env:"CARDMATCH_RELOCATION"       envDefault:"recycle"`
	Seed           uint64 `env:"CARDMATCH_SEED"             envDefault:"0"`
	LevelsDir      string `env:"CARDMATCH_LEVELS_DIR"       envDefault:"levels"`
	Level          int    `env:"CARDMATCH_LEVEL"            envDefault:"1"`
	Difficulty     int    `env:"CARDMATCH_DIFFICULTY"       envDefault:"0"`
	BottomFromHand bool   `env:"CARDMATCH_BOTTOM_FROM_HAND" envDefault:"true"`
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the process environment only.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated and bounded fields.
func (c Config) Validate() error {
	if _, err := parseRelocation(c.Relocation); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CARDMATCH_LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("CARDMATCH_LOG_FORMAT: unknown format %q", c.LogFormat)
	}
	if c.UndoDepth < 0 {
		return fmt.Errorf("CARDMATCH_UNDO_DEPTH: must not be negative, got %d", c.UndoDepth)
	}
	if c.Difficulty < 0 || c.Difficulty > 3 {
		return fmt.Errorf("CARDMATCH_DIFFICULTY: want 0..3, got %d", c.Difficulty)
	}
	return nil
}

func parseRelocation(s string) (engine.Relocation, error) {
	switch strings.ToLower(s) {
	case "", "recycle":
		return engine.RelocateRecycle, nil
	case "discard":
		return engine.RelocateDiscard, nil
	default:
		return 0, fmt.Errorf("CARDMATCH_RELOCATION: unknown policy %q", s)
	}
}

// Rules maps the settings onto engine rules. A zero undo depth keeps the
// engine default.
func (c Config) Rules() engine.Rules {
	r := engine.DefaultRules()
	if c.UndoDepth > 0 {
		r.UndoDepth = c.UndoDepth
	}
	if reloc, err := parseRelocation(c.Relocation); err == nil {
		r.Relocation = reloc
	}
	r.BottomFromHand = c.BottomFromHand
	return r
}

// Logger builds a logrus logger from the log settings.
func (c Config) Logger() *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
