package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"todoList/internal/config"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"), nil)

	require.NoError(t, err)
	assert.Equal(t, config.ModeAsk, cfg.App.Mode)
	assert.Equal(t, "localhost:8080", cfg.GetServerAddr())
	assert.False(t, cfg.Server.Concurrent)
	assert.Equal(t, int64(64), cfg.Server.MaxConnections)
	assert.Equal(t, 10*time.Second, cfg.Server.ConnTimeout)
	assert.Equal(t, "content-length", cfg.Server.BodyMode)
	assert.Equal(t, 1<<20, cfg.Server.MaxBodyBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Seed.Enabled)
	assert.True(t, cfg.Worker.Enabled)
	assert.Equal(t, time.Minute, cfg.Worker.OverdueInterval)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
app:
  mode: server
server:
  host: 0.0.0.0
  port: 9090
  concurrent: true
  max_connections: 8
  conn_timeout: 3s
  body_mode: lines
logging:
  development: false
  level: debug
seed:
  file: seed.yml
worker:
  overdue_interval: 30s
`)

	cfg, err := config.Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, config.ModeServer, cfg.App.Mode)
	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.True(t, cfg.Server.Concurrent)
	assert.Equal(t, int64(8), cfg.Server.MaxConnections)
	assert.Equal(t, 3*time.Second, cfg.Server.ConnTimeout)
	assert.Equal(t, "lines", cfg.Server.BodyMode)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "seed.yml", cfg.Seed.File)
	assert.Equal(t, 30*time.Second, cfg.Worker.OverdueInterval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("TODO_SERVER_PORT", "7070")
	t.Setenv("TODO_APP_MODE", "console")

	cfg, err := config.Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, config.ModeConsole, cfg.App.Mode)
}

func TestLoad_ModeFlagWins(t *testing.T) {
	t.Setenv("TODO_APP_MODE", "console")
	flags := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	flags.String("mode", "", "")
	require.NoError(t, flags.Parse([]string{"--mode", "server"}))

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"), flags)

	require.NoError(t, err)
	assert.Equal(t, config.ModeServer, cfg.App.Mode)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown mode", "app:\n  mode: gui\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad body mode", "server:\n  body_mode: chunked\n"},
		{"bad level", "logging:\n  level: loud\n"},
		{"zero interval", "worker:\n  overdue_interval: 0s\n"},
		{"zero max connections", "server:\n  max_connections: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content), nil)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoad_BrokenYAML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "server: [unclosed\n"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
