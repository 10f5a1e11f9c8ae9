package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ferrors "github.com/matzehuels/familytree/pkg/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[render]
appearance = "detailed"
formats = ["svg", "dot"]

[cache]
backend = "redis"

[cache.redis]
addr = "redis:6379"
db = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Appearance != "detailed" {
		t.Errorf("appearance = %q", cfg.Render.Appearance)
	}
	if len(cfg.Render.Formats) != 2 {
		t.Errorf("formats = %v", cfg.Render.Formats)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Cache.Redis)
	}
	// Untouched keys keep their defaults.
	if cfg.Render.Name != "family_tree" || cfg.Cache.Redis.Prefix != "familytree:" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "[render]\ncolour = \"red\"\n", "unknown keys: render.colour"},
		{"bad toml", "[render\n", "parse"},
		{"bad appearance", "[render]\nappearance = \"fancy\"\n", "fancy"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "memcached"},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", "soon"},
		{"bad rankdir", "[render]\nrankdir = \"XY\"\n", "XY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFindPrefersWorkingDir(t *testing.T) {
	work := t.TempDir()
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Chdir(work)

	if got := Find(); got != "" {
		t.Fatalf("Find() = %q with no files", got)
	}

	if err := os.MkdirAll(filepath.Join(xdg, "familytree"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, filepath.Join(xdg, "familytree"), "")
	if got := Find(); got != filepath.Join(xdg, "familytree", FileName) {
		t.Errorf("Find() = %q, want user config", got)
	}

	writeConfig(t, work, "")
	if got := Find(); got != FileName {
		t.Errorf("Find() = %q, want %q", got, FileName)
	}

	cfg, path, err := LoadDefault()
	if err != nil || path != FileName {
		t.Fatalf("LoadDefault = %q, %v", path, err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestTTLDuration(t *testing.T) {
	tests := []struct {
		ttl     string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"90m", 90 * time.Minute, false},
		{"-1h", 0, true},
		{"tomorrow", 0, true},
	}
	for _, tt := range tests {
		got, err := CacheConfig{TTL: tt.ttl}.TTLDuration()
		if (err != nil) != tt.wantErr {
			t.Errorf("TTLDuration(%q) error = %v, wantErr %v", tt.ttl, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("TTLDuration(%q) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, want string
	}{
		{"~", home},
		{"~/trees", filepath.Join(home, "trees")},
		{"/tmp/x", "/tmp/x"},
		{"~other", "~other"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
