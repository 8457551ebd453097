package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/astrium/natal/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
				convey.So(cfg.MaxRecentLimit, convey.ShouldEqual, 100)
				convey.So(cfg.ElementDominantPct, convey.ShouldEqual, 45)
				convey.So(cfg.ModalityDominantPct, convey.ShouldEqual, 60)
				convey.So(cfg.PolarityDominantPct, convey.ShouldEqual, 70)
				convey.So(cfg.LackingPct, convey.ShouldEqual, 10)
				convey.So(cfg.StrictGrandTrines, convey.ShouldBeFalse)
				convey.So(cfg.IncludeAngleAspects, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			// Set environment variables
			_ = os.Setenv("NATAL_ADDR", ":8080")
			_ = os.Setenv("NATAL_QUEUE_SIZE", "5000")
			_ = os.Setenv("NATAL_WORKER_COUNT", "16")
			_ = os.Setenv("NATAL_DEDUPE_SIZE", "25000")
			_ = os.Setenv("NATAL_MAX_RECENT_LIMIT", "50")
			_ = os.Setenv("NATAL_STRICT_GRAND_TRINES", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 25000)
				convey.So(cfg.MaxRecentLimit, convey.ShouldEqual, 50)
				convey.So(cfg.StrictGrandTrines, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2048
worker_count: 24
shard_count: 16
orb_overrides:
  trine: 6
  conjunction: 8
element_dominant_pct: 40
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NATAL_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.ShardCount, convey.ShouldEqual, 16)
				convey.So(cfg.OrbOverrides["trine"], convey.ShouldEqual, 6)
				convey.So(cfg.OrbOverrides["conjunction"], convey.ShouldEqual, 8)
				convey.So(cfg.ElementDominantPct, convey.ShouldEqual, 40)

				convey.Convey("And untouched fields keep their defaults", func() {
					convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
					convey.So(cfg.MaxRecentLimit, convey.ShouldEqual, 100)
				})
			})
		})

		convey.Convey("When env vars override the YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2048
`
			tmpFile := createTempConfigFile(t, yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("NATAL_CONFIG", tmpFile)
			_ = os.Setenv("NATAL_ADDR", ":7070")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env has the higher precedence", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("NATAL_CONFIG", "/nonexistent/natal.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with the load sentinel", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When the config is invalid", func() {
			convey.Convey("And the queue size is non-positive", func() {
				_ = os.Setenv("NATAL_QUEUE_SIZE", "0")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})

			convey.Convey("And an orb override is non-positive", func() {
				yamlContent := `
orb_overrides:
  trine: -2
`
				tmpFile := createTempConfigFile(t, yamlContent)
				defer func() { _ = os.Remove(tmpFile) }()

				_ = os.Setenv("NATAL_CONFIG", tmpFile)
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})

			convey.Convey("And the recent limit is non-positive", func() {
				_ = os.Setenv("NATAL_MAX_RECENT_LIMIT", "-1")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

// clearConfigEnvVars removes every NATAL_* variable the tests set.
func clearConfigEnvVars() {
	vars := []string{
		"NATAL_CONFIG",
		"NATAL_ADDR",
		"NATAL_QUEUE_SIZE",
		"NATAL_WORKER_COUNT",
		"NATAL_DEDUPE_SIZE",
		"NATAL_SHARD_COUNT",
		"NATAL_MAX_RECENT_LIMIT",
		"NATAL_STRICT_GRAND_TRINES",
		"NATAL_INCLUDE_ANGLE_ASPECTS",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

// createTempConfigFile writes a YAML config to a temp file and returns its path.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "natal-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp config: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp config: %v", err)
	}
	return tmpFile.Name()
}
