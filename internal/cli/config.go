package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mapvis/pkg/cache"
	"github.com/matzehuels/mapvis/pkg/errors"
	"github.com/matzehuels/mapvis/pkg/pipeline"
	"github.com/matzehuels/mapvis/pkg/render/svg"
	"github.com/matzehuels/mapvis/pkg/render/term"
	"github.com/matzehuels/mapvis/pkg/series"
	"github.com/matzehuels/mapvis/pkg/ui"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultAddr is the preview server address.
const DefaultAddr = "localhost:8080"

// Config is the user configuration file.
//
//	[series]
//	scale = 2000
//	chart_width = 500
//	chart_height = 300
//
//	[legend]
//	position = "bottom-left"
//
//	[render]
//	width = 1200
//	height = 800
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = "localhost:8080"
type Config struct {
	Series SeriesConfig `toml:"series"`
	Legend LegendConfig `toml:"legend"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// SeriesConfig holds series chart defaults.
type SeriesConfig struct {
	Scale       float64 `toml:"scale"`
	ChartWidth  int     `toml:"chart_width"`
	ChartHeight int     `toml:"chart_height"`
}

// LegendConfig holds legend defaults.
type LegendConfig struct {
	Position ui.Position `toml:"position"`
}

// RenderConfig holds output sizes.
type RenderConfig struct {
	Width    float64 `toml:"width"`
	Height   float64 `toml:"height"`
	PNGScale float64 `toml:"png_scale"`
	Columns  int     `toml:"columns"`
	Rows     int     `toml:"rows"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	// Scope namespaces keys within any backend, e.g. one per project.
	Scope string `toml:"scope"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Series: SeriesConfig{
			Scale:       series.DefaultScale,
			ChartWidth:  series.DefaultWidth,
			ChartHeight: series.DefaultHeight,
		},
		Legend: LegendConfig{Position: ui.BottomLeft},
		Render: RenderConfig{
			Width:    svg.DefaultWidth,
			Height:   svg.DefaultHeight,
			PNGScale: pipeline.DefaultPNGScale,
			Columns:  term.DefaultColumns,
			Rows:     term.DefaultRows,
		},
		Cache:  CacheConfig{Backend: CacheFile, Prefix: cache.DefaultRedisPrefix},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// LoadConfig reads path over the defaults. An empty path reads the default
// location, where a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := decodeConfig(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

func decodeConfig(data string, cfg *Config) error {
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Legend.Position != "" && !c.Legend.Position.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown legend position %q", c.Legend.Position)
	}
	return nil
}

// Options converts the configuration into pipeline defaults.
func (c Config) Options() pipeline.Options {
	return pipeline.Options{
		Scale:          c.Series.Scale,
		ChartWidth:     c.Series.ChartWidth,
		ChartHeight:    c.Series.ChartHeight,
		LegendPosition: c.Legend.Position,
		Width:          c.Render.Width,
		Height:         c.Render.Height,
		PNGScale:       c.Render.PNGScale,
		Columns:        c.Render.Columns,
		Rows:           c.Render.Rows,
	}
}

// Encode writes the configuration as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return b.String(), nil
}

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := c.Config.Encode()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
