package datastores

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLoggerTrace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	tests := []struct {
		name  string
		level slog.Level
		mode  gormlogger.LogLevel
		begin time.Duration
		err   error
		want  string
	}{
		{name: "debug query", level: slog.LevelDebug, mode: gormlogger.Info, want: "level=DEBUG msg=query sql=\"SELECT 1\""},
		{name: "query hidden above debug", level: slog.LevelInfo, mode: gormlogger.Info, want: ""},
		{name: "slow query", level: slog.LevelInfo, mode: gormlogger.Info, begin: time.Second, want: "level=WARN msg=\"slow query\""},
		{name: "failure", level: slog.LevelInfo, mode: gormlogger.Info, err: errors.New("boom"), want: "level=ERROR msg=\"query failed\""},
		{name: "record not found", level: slog.LevelInfo, mode: gormlogger.Info, err: gorm.ErrRecordNotFound, want: ""},
		{name: "silent", level: slog.LevelDebug, mode: gormlogger.Silent, err: errors.New("boom"), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newGormLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level}))).LogMode(tt.mode)
			l.Trace(context.Background(), time.Now().Add(-tt.begin), sql, tt.err)
			if tt.want == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.want)
			}
		})
	}
}
