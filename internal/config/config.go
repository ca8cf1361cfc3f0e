// Package config loads calculator settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"nickandperla.net/scicalc/internal/buffer"
	"nickandperla.net/scicalc/internal/eval"
	"nickandperla.net/scicalc/internal/store"
)

// History backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// DefaultResetDelay is how long the error marker stays before the buffer
// resets itself.
const DefaultResetDelay = 1500 * time.Millisecond

// Config holds calculator settings.
type Config struct {
	AngleMode       string `yaml:"angle_mode"`
	Notation        string `yaml:"notation"`
	HistoryCapacity int    `yaml:"history_capacity"`
	HistoryBackend  string `yaml:"history_backend"`
	ResetDelay      string `yaml:"reset_delay"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AngleMode:       eval.Degrees.String(),
		Notation:        buffer.Plain.String(),
		HistoryCapacity: store.DefaultCapacity,
		HistoryBackend:  BackendMemory,
		ResetDelay:      DefaultResetDelay.String(),
	}
}

// Load reads path over the defaults. Fields absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every field holds a recognized value.
func (c Config) Validate() error {
	if _, ok := eval.ParseAngleMode(c.AngleMode); !ok {
		return fmt.Errorf("unknown angle_mode %q (use deg or rad)", c.AngleMode)
	}
	if _, ok := buffer.ParseNotation(c.Notation); !ok {
		return fmt.Errorf("unknown notation %q (use plain or scientific)", c.Notation)
	}
	if c.HistoryCapacity < 0 {
		return fmt.Errorf("history_capacity must not be negative, got %d", c.HistoryCapacity)
	}
	switch strings.ToLower(c.HistoryBackend) {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown history_backend %q (use memory or sqlite)", c.HistoryBackend)
	}
	if _, err := c.Delay(); err != nil {
		return err
	}
	return nil
}

// Angle returns the configured angle mode.
func (c Config) Angle() eval.AngleMode {
	m, _ := eval.ParseAngleMode(c.AngleMode)
	return m
}

// DisplayNotation returns the configured result notation.
func (c Config) DisplayNotation() buffer.Notation {
	n, _ := buffer.ParseNotation(c.Notation)
	return n
}

// Delay returns the error reset delay.
func (c Config) Delay() (time.Duration, error) {
	if c.ResetDelay == "" {
		return DefaultResetDelay, nil
	}
	d, err := time.ParseDuration(c.ResetDelay)
	if err != nil {
		return 0, fmt.Errorf("reset_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("reset_delay must not be negative, got %s", d)
	}
	return d, nil
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
