package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"dialtimer/internal/dial"
)

type Config struct {
	Dial     DialConfig     `yaml:"dial"`
	UI       UIConfig       `yaml:"ui"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

type DialConfig struct {
	FullTime          time.Duration `yaml:"full_time"`
	CurTime           time.Duration `yaml:"cur_time"`
	Countdown         bool          `yaml:"countdown"`
	AllowMoveForward  bool          `yaml:"allow_move_forward"`
	AllowMoveBackward bool          `yaml:"allow_move_backward"`
	Enabled           bool          `yaml:"enabled"`
}

// UIConfig sizes are in terminal columns; a row counts as two columns.
type UIConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	Radius       int           `yaml:"radius"`
	RingWidth    int           `yaml:"ring_width"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File is where logs go. Empty disables logging, the terminal belongs
	// to the UI.
	File string `yaml:"file"`
}

func Default() *Config {
	d := dial.DefaultConfig()
	return &Config{
		Dial: DialConfig{
			FullTime:          time.Duration(d.FullTime) * time.Millisecond,
			CurTime:           0,
			Countdown:         d.Countdown,
			AllowMoveForward:  d.AllowMoveForward,
			AllowMoveBackward: d.AllowMoveBackward,
			Enabled:           d.Enabled,
		},
		UI: UIConfig{
			TickInterval: 50 * time.Millisecond,
			Radius:       12,
			RingWidth:    3,
		},
		Database: DatabaseConfig{
			Path: "dialtimer.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config at path. A missing file is created with the
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Dial.ToDial().Validate(); err != nil {
		return err
	}
	if c.UI.TickInterval <= 0 {
		return fmt.Errorf("%w: tick interval must be positive", dial.ErrInvalidConfiguration)
	}
	if _, err := c.UI.Ring(); err != nil {
		return err
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", dial.ErrInvalidConfiguration)
	}
	return nil
}

// ToDial converts to the dial's millisecond configuration.
func (d DialConfig) ToDial() dial.Config {
	return dial.Config{
		FullTime:          int(d.FullTime / time.Millisecond),
		CurTime:           int(d.CurTime / time.Millisecond),
		Countdown:         d.Countdown,
		AllowMoveForward:  d.AllowMoveForward,
		AllowMoveBackward: d.AllowMoveBackward,
		Enabled:           d.Enabled,
	}
}

// Ring is the hit-test ring for a dial drawn with its top-left corner at
// the origin.
func (u UIConfig) Ring() (dial.Ring, error) {
	r := float64(u.Radius)
	return dial.NewRing(r, r, r, float64(u.RingWidth))
}

// DefaultPath is ~/.dialtimer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dialtimer", "config.yaml"), nil
}
