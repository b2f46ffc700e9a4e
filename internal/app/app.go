// Package app wires the store, services and front ends together and runs
// the selected mode.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"
	"todoList/internal/config"
	"todoList/internal/console"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/middleware"
	"todoList/internal/render"
	"todoList/internal/repository/inmemory"
	"todoList/internal/seed"
	"todoList/internal/server"
	"todoList/internal/service"
	"todoList/internal/wire"
	"todoList/internal/worker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	in        *bufio.Reader
	out       io.Writer
	clock     func() time.Time
	store     *inmemory.Store
	users     *service.UserService
	tasks     *service.TaskService
	listener  *server.Listener
	worker    *worker.OverdueWorker
	shutdowns []func()
}

type Option func(*App)

// WithIO replaces stdin and stdout for the mode prompt and the console.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = bufio.NewReader(in)
		a.out = out
	}
}

func WithClock(clock func() time.Time) Option {
	return func(a *App) {
		a.clock = clock
	}
}

func New(cfg *config.Config, options ...Option) *App {
	a := &App{
		config:    cfg,
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		clock:     time.Now,
		shutdowns: make([]func(), 0),
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	a.store = inmemory.NewStore()
	a.users = service.NewUserService(a.store)
	a.tasks = service.NewTaskService(a.store, service.WithClock(a.clock))

	if err := a.seed(ctx); err != nil {
		return err
	}

	renderer, err := render.New(render.WithClock(a.clock))
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}

	router := middleware.Chain(handlers.NewRouter(a.users, a.tasks),
		middleware.Recover,
		middleware.RequestID,
		middleware.Logging,
	)

	a.listener = server.New(server.Config{
		Addr:           a.config.GetServerAddr(),
		Concurrent:     a.config.Server.Concurrent,
		MaxConnections: a.config.Server.MaxConnections,
		ConnTimeout:    a.config.Server.ConnTimeout,
		BodyMode:       wire.BodyMode(a.config.Server.BodyMode),
		MaxBodyBytes:   a.config.Server.MaxBodyBytes,
	}, router, renderer)

	if a.config.Worker.Enabled {
		a.worker = worker.NewOverdueWorker(a.tasks, a.config.Worker.OverdueInterval, 0)
	}

	logger.Info("App: initialized", zap.String("mode", a.config.App.Mode))
	return nil
}

func (a *App) seed(ctx context.Context) error {
	if !a.config.Seed.Enabled {
		return nil
	}

	data := seed.Default()
	if a.config.Seed.File != "" {
		loaded, err := seed.LoadFile(a.config.Seed.File)
		if err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
		data = loaded
	}

	if err := seed.Apply(ctx, a.users, a.tasks, data, a.clock()); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	return nil
}

// Run starts the configured mode. In ask mode the user picks one on the
// input; anything but "2" means the console.
func (a *App) Run(ctx context.Context) error {
	mode := a.config.App.Mode
	if mode == config.ModeAsk {
		var err error
		if mode, err = a.askMode(); err != nil {
			return err
		}
	}

	switch mode {
	case config.ModeServer:
		return a.RunServer(ctx)
	default:
		return a.RunConsole(ctx)
	}
}

func (a *App) askMode() (string, error) {
	fmt.Fprint(a.out, "Choose a mode:\n1. Console\n2. Web server\nYour choice: ")

	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read mode: %w", err)
	}

	switch strings.TrimSpace(line) {
	case "1":
		return config.ModeConsole, nil
	case "2":
		return config.ModeServer, nil
	default:
		fmt.Fprintln(a.out, "Invalid choice. Starting the console.")
		return config.ModeConsole, nil
	}
}

func (a *App) RunConsole(ctx context.Context) error {
	logger.Info("App: console mode")
	return console.New(a.in, a.out, a.users, a.tasks).Run(ctx)
}

func (a *App) RunServer(ctx context.Context) error {
	addr := a.config.GetServerAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	fmt.Fprintf(a.out, "Server listening on http://%s\n", ln.Addr())
	return a.Serve(ctx, ln)
}

// Serve runs the listener on ln and the overdue worker until ctx is done or
// one of them fails.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	logger.Info("App: server mode", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.listener.Serve(gctx, ln)
	})
	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Start(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server mode: %w", err)
	}
	return nil
}

// Shutdown runs the registered hooks in reverse order.
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
