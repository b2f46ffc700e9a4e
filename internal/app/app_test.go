package app_test

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"todoList/internal/app"
	"todoList/internal/config"
	"todoList/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"), nil)
	require.NoError(t, err)
	cfg.App.Mode = mode
	cfg.Logging.Level = "error"
	cfg.Worker.OverdueInterval = 10 * time.Millisecond
	return cfg
}

func newApp(t *testing.T, cfg *config.Config, input string) (*app.App, *bytes.Buffer) {
	t.Helper()
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	out := &bytes.Buffer{}
	a := app.New(cfg, app.WithIO(strings.NewReader(input), out), app.WithClock(func() time.Time { return now }))
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(a.Shutdown)
	return a, out
}

func TestRun_AskPicksConsole(t *testing.T) {
	a, out := newApp(t, testConfig(t, config.ModeAsk), "1\n1\n2\n0\n0\n")

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Choose a mode:")
	assert.Contains(t, out.String(), "firstName='Alice'")
	assert.Contains(t, out.String(), "firstName='Charlie'")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRun_AskInvalidFallsBackToConsole(t *testing.T) {
	a, out := newApp(t, testConfig(t, config.ModeAsk), "x\n")

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Invalid choice. Starting the console.")
	assert.Contains(t, out.String(), "MAIN MENU")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestRun_ConsoleWithoutSeed(t *testing.T) {
	cfg := testConfig(t, config.ModeConsole)
	cfg.Seed.Enabled = false
	a, out := newApp(t, cfg, "1\n2\n0\n0\n")

	require.NoError(t, a.Run(context.Background()))

	assert.NotContains(t, out.String(), "Choose a mode:")
	assert.Contains(t, out.String(), "No users found.")
}

func TestInit_SeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - first_name: Dana
tasks:
  - title: Write report
    owner: Dana
    due_date: "2024-03-01"
`), 0o600))

	cfg := testConfig(t, config.ModeConsole)
	cfg.Seed.File = path
	a, out := newApp(t, cfg, "2\n8\n0\n0\n")

	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Overdue tasks:\n- DatedTask{")
	assert.Contains(t, out.String(), "title='Write report'")
}

func TestInit_BadSeedFile(t *testing.T) {
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	path := filepath.Join(t.TempDir(), "seed.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
tasks:
  - title: Orphan
    owner: Nobody
`), 0o600))

	cfg := testConfig(t, config.ModeConsole)
	cfg.Seed.File = path
	a := app.New(cfg, app.WithIO(strings.NewReader(""), io.Discard))
	t.Cleanup(a.Shutdown)

	err := a.Init(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply seed")
}

func TestServe_AnswersUntilCancelled(t *testing.T) {
	a, _ := newApp(t, testConfig(t, config.ModeServer), "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.Serve(ctx, ln)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = io.WriteString(conn, "GET /users HTTP/1.1\r\nHost: localhost\r\n\r\n")
	require.NoError(t, err)
	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	conn.Close()

	assert.True(t, strings.HasPrefix(string(resp), "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, string(resp), "Alice")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
