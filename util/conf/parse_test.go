package conf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zaptest"
)

type testRuntimeConfig struct {
	Command    string            `conf:"command"`
	Streams    string            `conf:"streams"`
	MaxWorkers int               `conf:"max_workers"`
	Env        map[string]string `conf:"env"`
}

type testConfig struct {
	LogLevel string            `conf:"log_level"`
	Runtime  testRuntimeConfig `conf:"runtime"`
}

var testDefaults = DefaultConfig{
	"log_level":       "info",
	"runtime.command": "./target/release/harbor",
	"runtime.streams": "capture",
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse[testConfig](ParseOptions{
		Defaults:  testDefaults,
		EnvPrefix: "HARBOR_SHIM_TEST_",
		Log:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./target/release/harbor", cfg.Runtime.Command)
	assert.Equal(t, "capture", cfg.Runtime.Streams)
}

func TestParse_Env(t *testing.T) {
	t.Setenv("HARBOR_SHIM_TEST_RUNTIME__COMMAND", "/usr/bin/harbor")
	t.Setenv("HARBOR_SHIM_TEST_RUNTIME__ENV__HARBOR_HOME", "/tmp/harbor")

	cfg, err := Parse[testConfig](ParseOptions{
		Defaults:  testDefaults,
		EnvPrefix: "HARBOR_SHIM_TEST_",
		Log:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/harbor", cfg.Runtime.Command)
	assert.Equal(t, map[string]string{"harbor_home": "/tmp/harbor"}, cfg.Runtime.Env)
}

func TestParse_Files(t *testing.T) {
	tests := map[string]string{
		"config.json": `{"log_level":"debug","runtime":{"command":"harbor","max_workers":3}}`,
		"config.yaml": "log_level: debug\nruntime:\n  command: harbor\n  max_workers: 3\n",
		"config.yml":  "log_level: debug\nruntime:\n  command: harbor\n  max_workers: 3\n",
		"config.env":  "LOG_LEVEL=debug\nRUNTIME__COMMAND=harbor\nRUNTIME__MAX_WORKERS=3\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Parse[testConfig](ParseOptions{
				Defaults:  testDefaults,
				EnvPrefix: "HARBOR_SHIM_TEST_",
				FileName:  writeFile(t, name, content),
				Log:       zaptest.NewLogger(t),
			})
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, "harbor", cfg.Runtime.Command)
			assert.Equal(t, 3, cfg.Runtime.MaxWorkers)
			assert.Equal(t, "capture", cfg.Runtime.Streams)
		})
	}
}

func TestParse_FileUnsupportedFormat(t *testing.T) {
	_, err := Parse[testConfig](ParseOptions{
		FileName: writeFile(t, "config.toml", ""),
		Log:      zaptest.NewLogger(t),
	})
	assert.ErrorContains(t, err, "unsupported config file format")
}

func TestParse_FileMissing(t *testing.T) {
	_, err := Parse[testConfig](ParseOptions{
		FileName: filepath.Join(t.TempDir(), "config.json"),
		Log:      zaptest.NewLogger(t),
	})
	assert.Error(t, err)
}

func TestParse_CliFlags(t *testing.T) {
	var cfg testConfig

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "command"},
			&cli.IntFlag{Name: "max-workers"},
			&cli.StringFlag{Name: "log-level"},
			&cli.StringSliceFlag{Name: "env"},
		},
		Action: func(ctx *cli.Context) error {
			var err error
			cfg, err = Parse[testConfig](ParseOptions{
				Cli: ctx,
				CliMap: map[string]string{
					"command":     "runtime.command",
					"max-workers": "runtime.max_workers",
					"env":         "",
				},
				Defaults:  testDefaults,
				EnvPrefix: "HARBOR_SHIM_TEST_",
				Log:       zaptest.NewLogger(t),
			})
			return err
		},
	}

	err := app.RunContext(context.Background(), []string{
		"app",
		"--command", "harbor",
		"--max-workers", "2",
		"--log-level", "warn",
		"--env", "A=B",
	})
	require.NoError(t, err)

	assert.Equal(t, "harbor", cfg.Runtime.Command)
	assert.Equal(t, 2, cfg.Runtime.MaxWorkers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Nil(t, cfg.Runtime.Env)
}

func TestTransformEnv(t *testing.T) {
	assert.Equal(t, "runtime.command", transformEnv("RUNTIME__COMMAND", ""))
	assert.Equal(t, "runtime.max_workers", transformEnv("SHIM_RUNTIME__MAX_WORKERS", "SHIM_"))
}
