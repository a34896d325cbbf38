// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hausbuch Contributors

// Package errutil bridges structured oops errors and slog.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it is an oops error.
// For oops errors the message, code, and context map are emitted as
// attributes; standard errors log their error string.
func LogError(logger *slog.Logger, msg string, err error) {
	logWith(logger, slog.LevelError, msg, err)
}

// LogWarn is LogError at warning level, for absorbed faults that exclude a
// single unit of work without failing the operation.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logWith(logger, slog.LevelWarn, msg, err)
}

func logWith(logger *slog.Logger, level slog.Level, msg string, err error) {
	attrs := []any{"error", err}
	if oopsErr, ok := oops.AsOops(err); ok {
		attrs = []any{"error", oopsErr.Error()}
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Log(context.Background(), level, msg, attrs...)
}
