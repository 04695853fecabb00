package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/tracegrid/pkg/errors"
	"github.com/matzehuels/tracegrid/pkg/render/sink"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracegrid.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Geometry.Line != 0.25 || !cfg.Export.SwapInfinitySigns {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[geometry]
line = 0.3

[grid]
cell_width = 80

[export]
filename = "dp.csv"
swap_infinity_signs = false

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"

[server]
session_ttl = "30m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"geometry.line", cfg.Geometry.Line, 0.3},
		{"geometry.head_penetration", cfg.Geometry.HeadPenetration, 0.1},
		{"grid.cell_width", cfg.Grid.CellWidth, 80.0},
		{"grid.cell_height", cfg.Grid.CellHeight, 32.0},
		{"export.filename", cfg.Export.Filename, "dp.csv"},
		{"export.swap_infinity_signs", cfg.Export.SwapInfinitySigns, false},
		{"cache.backend", cfg.Cache.Backend, CacheRedis},
		{"cache.redis_addr", cfg.Cache.RedisAddr, "cache:6379"},
		{"cache.ttl", cfg.Cache.TTL.Duration, 90 * time.Minute},
		{"server.addr", cfg.Server.Addr, DefaultServerAddr},
		{"server.session_ttl", cfg.Server.SessionTTL.Duration, 30 * time.Minute},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if cfg.Export.Codec().SwapSigns {
		t.Error("Codec() should follow swap_infinity_signs")
	}
}

func TestOverlayStyle(t *testing.T) {
	if got, want := Default().Overlay.Style(), sink.DefaultStyle(); got != want {
		t.Errorf("Default().Overlay.Style() = %+v, want %+v", got, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[geometry\nline = 1", errors.ErrCodeInvalidConfig},
		{"unknown key", "[grid]\ncell_depth = 3", errors.ErrCodeInvalidConfig},
		{"fraction range", "[geometry]\nline = 1.5", errors.ErrCodeInvalidConfig},
		{"backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidConfig},
		{"filename", "[export]\nfilename = \"../x.csv\"", errors.ErrCodeInvalidConfig},
		{"duration", "[cache]\nttl = \"soon\"", errors.ErrCodeInvalidConfig},
		{"cell size", "[grid]\ncell_height = 0", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
