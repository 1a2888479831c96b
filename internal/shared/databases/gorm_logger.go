package databases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"server-runner/internal/shared/loggers"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogger sends gorm's messages through the app's zerolog logger so the output stays JSON.
type gormLogger struct {
	logger loggers.Logger
	level  gormlogger.LogLevel
}

// NewGormLogger returns a gorm logger at Warn level: failed and slow statements only.
func NewGormLogger(logger loggers.Logger) gormlogger.Interface {
	return &gormLogger{
		logger: logger.With().Str(loggers.FieldComponent, "gorm").Logger(),
		level:  gormlogger.Warn,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var event *zerolog.Event
	msg := "sql executed"
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		event = l.logger.Error().Err(err)
		msg = "sql failed"
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		event = l.logger.Warn()
		msg = "slow sql"
	case l.level >= gormlogger.Info:
		event = l.logger.Debug()
	default:
		return
	}

	sql, rows := fc()
	event.
		Str(loggers.FieldSQL, sql).
		Int64(loggers.FieldRows, rows).
		Dur(loggers.FieldDuration, elapsed).
		Msg(msg)
}
