// Copyright (c) 2026 Qumran. All rights reserved.

package postgres

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/tracelog"
)

// NewTracer forwards pgx query traces into logger.
//
// Bound arguments are dropped so that user input never reaches the logs;
// successful statements are logged at Debug, failures at Error.
func NewTracer(logger *slog.Logger) *tracelog.TraceLog {
	return &tracelog.TraceLog{
		Logger: tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
			attrs := make([]slog.Attr, 0, len(data))
			for key, value := range data {
				switch key {
				case "args", "pid":
				default:
					attrs = append(attrs, slog.Any(key, value))
				}
			}

			sort.Slice(attrs, func(i, j int) bool {
				return attrs[i].Key < attrs[j].Key
			})

			logger.LogAttrs(ctx, slogLevel(level), "pgx_"+strings.ToLower(msg), attrs...)
		}),
		LogLevel: tracelog.LogLevelDebug,
	}
}

func slogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug, tracelog.LogLevelInfo:
		return slog.LevelDebug
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
