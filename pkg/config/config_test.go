package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raymyers/tinyc/pkg/logger"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		division  string
		depth     int
		level     string
		format    string
		errSubstr string
	}{
		{
			name:     "toml",
			file:     "tinyc.toml",
			content:  "division = \"trunc\"\nmax_call_depth = 50\n\n[log]\nlevel = \"debug\"\nformat = \"json\"\n",
			division: "trunc", depth: 50, level: "debug", format: "json",
		},
		{
			name:     "yaml",
			file:     "tinyc.yaml",
			content:  "division: trunc\nmax_call_depth: 0\nlog:\n  level: info\n",
			division: "trunc", depth: 0, level: "info", format: "text",
		},
		{
			name:     "yml extension",
			file:     "tinyc.yml",
			content:  "log:\n  format: json\n",
			division: "floor", depth: 10000, level: "warn", format: "json",
		},
		{
			name:     "missing keys keep defaults",
			file:     "empty.toml",
			content:  "",
			division: "floor", depth: 10000, level: "warn", format: "text",
		},
		{
			name:      "bad division",
			file:      "bad.toml",
			content:   "division = \"round\"\n",
			errSubstr: "unknown division mode",
		},
		{
			name:      "negative depth",
			file:      "bad.yaml",
			content:   "max_call_depth: -1\n",
			errSubstr: "must not be negative",
		},
		{
			name:      "bad level",
			file:      "bad.yaml",
			content:   "log:\n  level: loud\n",
			errSubstr: "unknown log level",
		},
		{
			name:      "bad format",
			file:      "bad.toml",
			content:   "[log]\nformat = \"xml\"\n",
			errSubstr: "unknown log format",
		},
		{
			name:      "syntax error",
			file:      "broken.toml",
			content:   "division = \n",
			errSubstr: "failed to parse config",
		},
		{
			name:      "unsupported extension",
			file:      "tinyc.ini",
			content:   "division=floor\n",
			errSubstr: "unsupported config format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if tt.errSubstr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
					t.Fatalf("expected error containing %q, got %v", tt.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Division != tt.division {
				t.Errorf("Division = %q, want %q", cfg.Division, tt.division)
			}
			if cfg.MaxCallDepth != tt.depth {
				t.Errorf("MaxCallDepth = %d, want %d", cfg.MaxCallDepth, tt.depth)
			}
			if cfg.Log.Level != tt.level {
				t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, tt.level)
			}
			if cfg.Log.Format != tt.format {
				t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, tt.format)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Division != "floor" {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	path := writeConfig(t, "env.toml", "division = \"trunc\"\n")
	t.Setenv(EnvVar, path)
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Division != "trunc" {
		t.Errorf("Division = %q, want trunc", cfg.Division)
	}
}

func TestTranslations(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	opts, err := cfg.InterpOptions()
	if err != nil {
		t.Fatalf("InterpOptions() error = %v", err)
	}
	if len(opts) != 2 {
		t.Errorf("expected 2 options, got %d", len(opts))
	}

	lc, err := cfg.LoggerConfig()
	if err != nil {
		t.Fatalf("LoggerConfig() error = %v", err)
	}
	if lc.Level != logger.LevelDebug || lc.Format != "json" {
		t.Errorf("unexpected logger config %+v", lc)
	}

	cfg.Division = "sideways"
	if _, err := cfg.InterpOptions(); err == nil {
		t.Error("expected an error for a bad division")
	}
}
