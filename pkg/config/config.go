// Package config loads tracegrid settings from a TOML file.
//
// Every field has a default, so a config file only lists what it changes:
//
//	[geometry]
//	line = 0.3
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
// Unknown keys are rejected to catch typos.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tracegrid/pkg/align"
	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/export"
	"github.com/matzehuels/tracegrid/pkg/geometry"
	"github.com/matzehuels/tracegrid/pkg/grid"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
)

// Default values.
const (
	DefaultTracebackColor = sink.DefaultTracebackColor
	DefaultFlowColor      = sink.DefaultFlowColor
	DefaultDashArray      = sink.DefaultDashArray
	DefaultStrokeWidth    = sink.DefaultStrokeWidth

	DefaultCacheBackend = CacheFile
	DefaultCacheTTL     = 24 * time.Hour
	DefaultRedisAddr    = "localhost:6379"

	DefaultServerAddr = "localhost:8080"
	DefaultSessionTTL = 2 * time.Hour
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Geometry geometry.Fractions `toml:"geometry"`
	Overlay  Overlay            `toml:"overlay"`
	Grid     Grid               `toml:"grid"`
	Export   Export             `toml:"export"`
	Cache    Cache              `toml:"cache"`
	Server   Server             `toml:"server"`
}

// Overlay styles the long lines.
type Overlay struct {
	TracebackColor string  `toml:"traceback_color"`
	FlowColor      string  `toml:"flow_color"`
	DashArray      string  `toml:"dash_array"`
	StrokeWidth    float64 `toml:"stroke_width"`
}

// Style converts the section into a render style.
func (o Overlay) Style() sink.Style {
	return sink.Style{
		TracebackColor: o.TracebackColor,
		FlowColor:      o.FlowColor,
		DashArray:      o.DashArray,
		StrokeWidth:    o.StrokeWidth,
	}
}

// Grid sizes the rendered tables in pixels.
type Grid struct {
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	TableGap   float64 `toml:"table_gap"`
	Margin     float64 `toml:"margin"`
}

// LayoutOptions converts the section into layout options.
func (g Grid) LayoutOptions() []grid.Option {
	return []grid.Option{
		grid.WithCellSize(g.CellWidth, g.CellHeight),
		grid.WithTableGap(g.TableGap),
		grid.WithMargin(g.Margin),
	}
}

// Export configures CSV export.
type Export struct {
	Filename          string `toml:"filename"`
	Directory         string `toml:"directory"`
	SwapInfinitySigns bool   `toml:"swap_infinity_signs"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

// Server configures the HTTP session server.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration in Go notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Geometry: geometry.DefaultFractions(),
		Overlay: Overlay{
			TracebackColor: DefaultTracebackColor,
			FlowColor:      DefaultFlowColor,
			DashArray:      DefaultDashArray,
			StrokeWidth:    DefaultStrokeWidth,
		},
		Grid: Grid{
			CellWidth:  grid.DefaultCellWidth,
			CellHeight: grid.DefaultCellHeight,
			TableGap:   grid.DefaultTableGap,
			Margin:     grid.DefaultMargin,
		},
		Export: Export{
			Filename:          export.DefaultFilename,
			Directory:         ".",
			SwapInfinitySigns: true,
		},
		Cache: Cache{
			Backend:   DefaultCacheBackend,
			RedisAddr: DefaultRedisAddr,
			TTL:       Duration{DefaultCacheTTL},
		},
		Server: Server{
			Addr:       DefaultServerAddr,
			SessionTTL: Duration{DefaultSessionTTL},
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := errors.ValidateFraction("geometry.line", c.Geometry.Line); err != nil {
		return err
	}
	if err := errors.ValidateFraction("geometry.head_penetration", c.Geometry.HeadPenetration); err != nil {
		return err
	}
	if c.Grid.CellWidth <= 0 || c.Grid.CellHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid cell size must be positive, got %gx%g",
			c.Grid.CellWidth, c.Grid.CellHeight)
	}
	if c.Grid.TableGap < 0 || c.Grid.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid gap and margin cannot be negative")
	}
	if c.Overlay.StrokeWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "overlay.stroke_width must be positive")
	}
	if err := errors.ValidateExportFilename(c.Export.Filename); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 || c.Server.SessionTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "durations cannot be negative")
	}
	return nil
}

// Codec returns the infinity codec selected by the export section.
func (e Export) Codec() align.Codec {
	return align.Codec{SwapSigns: e.SwapInfinitySigns}
}
