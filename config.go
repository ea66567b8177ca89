package dotedit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bodgit/dotedit/canvas"
	"github.com/bodgit/dotedit/palette"
)

// WatchConfig controls Catalog.Watch.
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"` // 0 = default (500ms)
}

// Debounce returns how long a file must be quiet before it is imported.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMS > 0 {
		return time.Duration(w.DebounceMS) * time.Millisecond
	}
	return 500 * time.Millisecond
}

// Config holds editor and catalog settings.
type Config struct {
	Database     string      `toml:"database"`
	HistoryLimit int         `toml:"history_limit"` // 0 = unlimited
	Width        int         `toml:"width"`
	Height       int         `toml:"height"`
	Dither       bool        `toml:"dither"`
	Palette      []string    `toml:"palette"`
	Watch        WatchConfig `toml:"watch"`

	palette palette.Palette
}

// DefaultConfig returns the settings used when no configuration file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Database: "dotedit.db",
		Width:    16,
		Height:   16,
		palette:  palette.Default(),
	}
}

// LoadConfig reads a TOML configuration file over the defaults. A missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !canvas.ValidDimensions(c.Width, c.Height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, c.Width, c.Height)
	}

	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}

	switch len(c.Palette) {
	case 0:
		c.palette = palette.Default()
	case palette.Size:
		for i, s := range c.Palette {
			color, err := palette.ParseHex(s)
			if err != nil {
				return fmt.Errorf("palette entry %d: %w", i, err)
			}
			c.palette[i] = color
		}
	default:
		return fmt.Errorf("%w: have %d colors, expected %d", ErrInvalidPalette, len(c.Palette), palette.Size)
	}

	return nil
}

// DefaultPalette returns the palette given to new canvases.
func (c *Config) DefaultPalette() palette.Palette {
	if c.palette == (palette.Palette{}) {
		return palette.Default()
	}
	return c.palette
}
