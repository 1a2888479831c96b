package loggers

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/juju/lumberjack/v2"
	"github.com/rs/zerolog"
)

// Logger is a wrapper around zerolog.Logger for convenience.
type Logger = zerolog.Logger

// RotatingFileOptions describes a size-rotated log file.
type RotatingFileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

// New creates a new zerolog logger based on the provided log level string.
// Output always goes to stdout; extra writers (e.g. a rotating file) receive the same events.
// Returns an error if the log level string cannot be parsed.
func New(level string, extraWriters ...io.Writer) (Logger, error) {
	zerologLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var out io.Writer = os.Stdout
	if len(extraWriters) > 0 {
		writers := append([]io.Writer{os.Stdout}, extraWriters...)
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).
		Level(zerologLevel).
		With().
		Timestamp().
		Caller().
		Logger()

	return logger, nil
}

// NewRotatingFile returns a writer that rotates the file once it grows past MaxSizeMB.
func NewRotatingFile(opts RotatingFileOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
	}
}

// Ctx extracts a logger from the context.
// Returns a no-op logger if no logger is found in context.
var Ctx = func(ctx context.Context) *Logger {
	return zerolog.Ctx(ctx)
}
