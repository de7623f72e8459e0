package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/eugenenazirov/fragmentation-analyzer/internal/sizes"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "BLOCK_SIZES", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if want := []int{100, 500, 200, 300, 600}; !slices.Equal(cfg.InitialBlockSizes, want) {
		t.Fatalf("expected default block sizes %v, got %v", want, cfg.InitialBlockSizes)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("BLOCK_SIZES", "[10, 20, 30]")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "3.5")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if want := []int{10, 20, 30}; !slices.Equal(cfg.InitialBlockSizes, want) {
		t.Fatalf("unexpected block sizes: %v", cfg.InitialBlockSizes)
	}
	if cfg.LogLevel != "debug" || cfg.RateLimitRPS != 3.5 {
		t.Fatalf("unexpected env overrides: %+v", cfg)
	}
}

func TestLoadRejectsInvalidEnvironmentBlocks(t *testing.T) {
	clearEnv(t)
	t.Setenv("BLOCK_SIZES", "10, zero")

	if _, err := Load(nil); !errors.Is(err, sizes.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("BLOCK_SIZES", "1, 2")

	path := writeYAML(t, `
port: "7100"
block_sizes: [40, 50]
write_timeout: 3s
enable_request_logging: false
log_level: warn
rate_limit:
  rps: 0
  burst: 4
`)

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "7100" {
		t.Fatalf("expected YAML port to win over env, got %s", cfg.Port)
	}
	if !slices.Equal(cfg.InitialBlockSizes, []int{40, 50}) {
		t.Fatalf("expected YAML block sizes, got %v", cfg.InitialBlockSizes)
	}
	if cfg.WriteTimeout != 3*time.Second || cfg.EnableRequestLogging || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected YAML settings: %+v", cfg)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 4 {
		t.Fatalf("unexpected rate limit: %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	port, blocks, level := "7200", "300KB 400KB", "error"
	cfg, err = Load(&CLIOverrides{ConfigFile: path, Port: &port, BlockSizesStr: &blocks, LogLevel: &level})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "7200" || cfg.LogLevel != "error" {
		t.Fatalf("expected CLI overrides to win, got %+v", cfg)
	}
	if !slices.Equal(cfg.InitialBlockSizes, []int{300, 400}) {
		t.Fatalf("expected CLI block sizes, got %v", cfg.InitialBlockSizes)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")}); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeYAML(t, "idle_timeout: soon\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for invalid duration")
		}
	})

	t.Run("bad block flag", func(t *testing.T) {
		raw := "[1.5]"
		if _, err := Load(&CLIOverrides{BlockSizesStr: &raw}); !errors.Is(err, sizes.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-positive YAML block", func(t *testing.T) {
		path := writeYAML(t, "block_sizes: [10, 0]\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); !errors.Is(err, sizes.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("bad log level", func(t *testing.T) {
		level := "chatty"
		if _, err := Load(&CLIOverrides{LogLevel: &level}); err == nil {
			t.Fatalf("expected error for invalid log level")
		}
	})
}
