// Package server accepts connections and answers one request per
// connection.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
	"todoList/internal/apperr"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/middleware"
	"todoList/internal/wire"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	DefaultMaxConnections = 64
	maxAcceptDelay        = time.Second

	fallbackPage = "<html><body><h1>Error</h1><p>internal error</p><a href=\"/\">Back to home</a></body></html>"
)

type Renderer interface {
	Render(res handlers.Result) (string, error)
}

type Config struct {
	Addr string
	// Concurrent serves each connection on its own goroutine, at most
	// MaxConnections at a time. Otherwise connections are served one by one.
	Concurrent     bool
	MaxConnections int64
	ConnTimeout    time.Duration
	BodyMode       wire.BodyMode
	MaxBodyBytes   int
}

type Listener struct {
	cfg      Config
	handler  handlers.Handler
	renderer Renderer
	parser   wire.Parser
	sem      *semaphore.Weighted
	wg       sync.WaitGroup
}

func New(cfg Config, handler handlers.Handler, renderer Renderer) *Listener {
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}
	return &Listener{
		cfg:      cfg,
		handler:  handler,
		renderer: renderer,
		parser:   wire.NewParser(cfg.BodyMode, cfg.MaxBodyBytes),
		sem:      semaphore.NewWeighted(cfg.MaxConnections),
	}
}

func (l *Listener) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.cfg.Addr, err)
	}
	return l.Serve(ctx, ln)
}

// Serve accepts on ln until ctx is cancelled. Accept failures are logged and
// the loop goes on. In concurrent mode it waits for in-flight connections
// before returning.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	logger.Info("Listener: started",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("concurrent", l.cfg.Concurrent),
		zap.String("body_mode", string(l.parser.Mode)))

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()
	defer l.wg.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logger.Info("Listener: stopped", zap.String("addr", ln.Addr().String()))
				return nil
			}

			delay = nextDelay(delay)
			logger.Error("Listener: accept failed", err, zap.Duration("retry_in", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0

		if !l.cfg.Concurrent {
			l.serveConn(ctx, conn)
			continue
		}

		if err := l.sem.Acquire(ctx, 1); err != nil {
			conn.Close()
			continue
		}
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			defer l.sem.Release(1)
			l.serveConn(ctx, conn)
		}()
	}
}

func nextDelay(prev time.Duration) time.Duration {
	if prev == 0 {
		return 5 * time.Millisecond
	}
	if prev *= 2; prev > maxAcceptDelay {
		return maxAcceptDelay
	}
	return prev
}

func (l *Listener) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	start := time.Now()

	if l.cfg.ConnTimeout > 0 {
		if err := conn.SetReadDeadline(start.Add(l.cfg.ConnTimeout)); err != nil {
			logger.Error("Listener: set read deadline", err)
			return
		}
	}
	logger.ConnInfo(conn, "Listener: connection accepted")

	req, err := l.parser.Parse(bufio.NewReader(conn))
	var res handlers.Result
	switch {
	case err == nil:
		ctx = middleware.WithClientIP(ctx, conn.RemoteAddr().String())
		res = l.handler.Handle(ctx, req)
	case errors.Is(err, apperr.ErrMalformedRequest):
		logger.Warn("Listener: malformed request",
			zap.String("client_ip", conn.RemoteAddr().String()),
			zap.String("message", apperr.Message(err)))
		res = handlers.ErrorResult(err)
	default:
		logger.Error("Listener: read request", err, zap.String("client_ip", conn.RemoteAddr().String()))
		return
	}

	status := wire.StatusOK
	if res.Failed() {
		status = wire.StatusBadRequest
	}

	body, err := l.renderer.Render(res)
	if err != nil {
		logger.Error("Listener: render page", err, zap.String("view", string(res.View)))
		status, body = wire.StatusBadRequest, fallbackPage
	}

	// The read deadline may already have ended a lines-mode body; the
	// response gets its own budget.
	if l.cfg.ConnTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(l.cfg.ConnTimeout)); err != nil {
			logger.Error("Listener: set write deadline", err)
			return
		}
	}

	if err := wire.WriteResponse(conn, status, body); err != nil {
		logger.Error("Listener: write response", err, zap.String("client_ip", conn.RemoteAddr().String()))
		return
	}
	logger.Debug("Listener: connection served",
		zap.Int("status", status),
		zap.Duration("ms", time.Since(start)))
}
