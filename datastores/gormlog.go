package datastores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger forwards gorm logs to a [slog.Logger].
// Queries are traced at debug level, slow ones at warn and failing ones at error.
type gormLogger struct {
	logger *slog.Logger
	level  gormlogger.LogLevel
}

func newGormLogger(logger *slog.Logger) *gormLogger {
	return &gormLogger{logger: logger, level: gormlogger.Info}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{logger: l.logger, level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	dur := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		query, rows := fc()
		l.logger.LogAttrs(ctx, slog.LevelError, "query failed",
			slog.String("sql", query), slog.Int64("rows", rows), slog.Duration("dur", dur), slog.Any("err", err))
	case dur > slowQueryThreshold && l.level >= gormlogger.Warn:
		query, rows := fc()
		l.logger.LogAttrs(ctx, slog.LevelWarn, "slow query",
			slog.String("sql", query), slog.Int64("rows", rows), slog.Duration("dur", dur))
	case l.level >= gormlogger.Info && l.logger.Enabled(ctx, slog.LevelDebug):
		query, rows := fc()
		l.logger.LogAttrs(ctx, slog.LevelDebug, "query",
			slog.String("sql", query), slog.Int64("rows", rows), slog.Duration("dur", dur))
	}
}
