package middleware

import (
	"context"
	"fmt"
	"time"
	"todoList/internal/handlers"
	"todoList/internal/logger"
	"todoList/internal/wire"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIdKey contextKey = "request_id"
	ClientIPKey  contextKey = "client_ip"

	RequestIDHeader = "X-Request-ID"
)

type Middleware func(next handlers.Handler) handlers.Handler

// Chain wraps h so that the first middleware is the outermost.
func Chain(h handlers.Handler, mws ...Middleware) handlers.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func RequestID(next handlers.Handler) handlers.Handler {
	return handlers.HandlerFunc(func(ctx context.Context, req *wire.Request) handlers.Result {
		requestId := req.Header(RequestIDHeader)
		if requestId == "" {
			requestId = uuid.New().String()
		}

		ctx = context.WithValue(ctx, RequestIdKey, requestId)
		return next.Handle(ctx, req)
	})
}

func Logging(next handlers.Handler) handlers.Handler {
	return handlers.HandlerFunc(func(ctx context.Context, req *wire.Request) handlers.Result {
		start := time.Now()
		requestId := GetRequestID(ctx)

		logger.Info(
			"HTTP_IN: request started",
			zap.String("request_id", requestId),
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("content_length", req.ContentLength),
			zap.String("client_ip", GetClientIP(ctx)),
		)

		res := next.Handle(ctx, req)

		status := wire.StatusOK
		logLevel := zap.InfoLevel
		if res.Failed() {
			status = wire.StatusBadRequest
			logLevel = zap.WarnLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: request finished",
			zap.String("request_id", requestId),
			zap.Int("status", status),
			zap.String("view", string(res.View)),
			zap.Duration("ms", time.Since(start)),
		)
		return res
	})
}

// Recover converts a panic in next into an error result.
func Recover(next handlers.Handler) handlers.Handler {
	return handlers.HandlerFunc(func(ctx context.Context, req *wire.Request) (res handlers.Result) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("internal error: %v", r)
				logger.Error("HTTP: handler panic", err,
					zap.String("request_id", GetRequestID(ctx)),
					zap.String("method", req.Method),
					zap.String("path", req.Path),
					zap.Stack("stack"))
				res = handlers.ErrorResult(err)
			}
		}()
		return next.Handle(ctx, req)
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey, ip)
}

func GetClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return ""
}
