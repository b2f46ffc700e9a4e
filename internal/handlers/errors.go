package handlers

import (
	"todoList/internal/apperr"
	"todoList/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// handleError logs err at a level matching its business code and converts
// it into an error result. Errors never escape the router.
func handleError(operation string, err error) Result {
	code, ok := apperr.CodeOf(err)
	if !ok {
		logger.Error("Router: internal error", err, zap.String("operation", operation))
		return ErrorResult(err)
	}

	logger.Log(levelFor(code), "Router: business error",
		zap.String("operation", operation),
		zap.String("error_code", string(code)),
		zap.String("message", apperr.Message(err)))
	return ErrorResult(err)
}

func levelFor(code apperr.Code) zapcore.Level {
	switch code {
	case apperr.CodeNotFound, apperr.CodeValidation:
		return zap.InfoLevel
	case apperr.CodeMalformedRequest, apperr.CodeUnsupported:
		return zap.WarnLevel
	default:
		return zap.ErrorLevel
	}
}
