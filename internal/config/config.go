// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/viewport"
)

// Config is the root configuration structure.
type Config struct {
	Viewport ViewportConfig `toml:"viewport"`
	Recalc   RecalcConfig   `toml:"recalc"`
	Log      LogConfig      `toml:"log"`
}

// ViewportConfig holds the grid geometry.
type ViewportConfig struct {
	CellWidth    float64 `toml:"cell_width"`
	CellHeight   float64 `toml:"cell_height"`
	OverscanRows int     `toml:"overscan_rows"`
	OverscanCols int     `toml:"overscan_cols"`
	TotalRows    int     `toml:"total_rows"`
	TotalCols    int     `toml:"total_cols"`
}

// RecalcConfig holds recalculation settings.
type RecalcConfig struct {
	// MaxPasses caps a recalculation. 0 picks the formula count plus one.
	MaxPasses int `toml:"max_passes"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LevelOrDefault returns the configured level or "info" if unset.
func (l LogConfig) LevelOrDefault() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viewport.DefaultOptions()
	return &Config{
		Viewport: ViewportConfig{
			CellWidth:    v.CellWidth,
			CellHeight:   v.CellHeight,
			OverscanRows: v.OverscanRows,
			OverscanCols: v.OverscanCols,
			TotalRows:    v.TotalRows,
			TotalCols:    v.TotalCols,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads configuration from a TOML file over the defaults and applies
// environment variable overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if err := c.viewportOptions().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("viewport: %w", err))
	}
	if c.Recalc.MaxPasses < 0 {
		errs = append(errs, fmt.Errorf("recalc.max_passes=%d must not be negative", c.Recalc.MaxPasses))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Level parses the log level.
func (c *Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.Log.LevelOrDefault()))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level=%q is invalid: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// GridOptions maps the configuration onto grid options.
func (c *Config) GridOptions(logger zerolog.Logger) gridcalc.Options {
	return gridcalc.Options{
		Viewport:  c.viewportOptions(),
		MaxPasses: c.Recalc.MaxPasses,
		Logger:    logger,
	}
}

func (c *Config) viewportOptions() viewport.Options {
	return viewport.Options{
		CellWidth:    c.Viewport.CellWidth,
		CellHeight:   c.Viewport.CellHeight,
		OverscanRows: c.Viewport.OverscanRows,
		OverscanCols: c.Viewport.OverscanCols,
		TotalRows:    c.Viewport.TotalRows,
		TotalCols:    c.Viewport.TotalCols,
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	for _, setter := range []struct {
		env   string
		apply func(string) error
	}{
		{"GRIDCALC_LOG_LEVEL", func(v string) error {
			if v != "" {
				cfg.Log.Level = v
			}
			return nil
		}},
		{"GRIDCALC_MAX_PASSES", func(v string) error {
			if v == "" {
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("GRIDCALC_MAX_PASSES=%q is not an integer", v)
			}
			cfg.Recalc.MaxPasses = n
			return nil
		}},
	} {
		if err := setter.apply(os.Getenv(setter.env)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
