package serverlogs

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"server-runner/internal/shared/loggers"

	"github.com/hpcloud/tail"
)

// maxLineBytes bounds a single log line. Longer lines fail the read.
const maxLineBytes = 1024 * 1024

//go:generate mockgen -source=log_reader.go -destination=./mocks/log_reader_mock.go -package=mocks
type LogReader interface {
	// Lines returns the whole log, or only its last limit lines when limit > 0.
	Lines(ctx context.Context, limit int) ([]string, error)
	// Follow calls fn for every line appended after the call, until ctx is done or fn fails.
	Follow(ctx context.Context, fn func(line string) error) error
}

type fileLogReader struct {
	path string
	poll bool
}

func NewFileLogReader(path string) LogReader {
	return &fileLogReader{path: path}
}

func (r *fileLogReader) Lines(ctx context.Context, limit int) ([]string, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errLogFileNotFound(err)
		}
		return nil, errInternalLogReadFailed(err)
	}
	defer f.Close()

	lines, err := readLines(ctx, f, limit)
	if err != nil {
		return nil, errInternalLogReadFailed(err)
	}
	return lines, nil
}

// readLines keeps at most limit lines in a ring so large logs are read in constant memory.
func readLines(ctx context.Context, rd io.Reader, limit int) ([]string, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		ring  []string
		next  int
		total int
	)
	for scanner.Scan() {
		if total%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		total++
		if limit <= 0 || len(ring) < limit {
			ring = append(ring, scanner.Text())
			continue
		}
		ring[next] = scanner.Text()
		next = (next + 1) % limit
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if next == 0 {
		if ring == nil {
			return []string{}, nil
		}
		return ring, nil
	}
	out := make([]string, 0, len(ring))
	out = append(out, ring[next:]...)
	return append(out, ring[:next]...), nil
}

func (r *fileLogReader) Follow(ctx context.Context, fn func(line string) error) error {
	t, err := tail.TailFile(r.path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      r.poll,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errInternalLogReadFailed(err)
	}
	defer t.Cleanup()
	defer func() { _ = t.Stop() }()

	metricActiveFollowers.Inc()
	defer metricActiveFollowers.Dec()

	logger := loggers.Ctx(ctx)
	logger.Debug().Str("file", r.path).Msg("following server log")

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Str("file", r.path).Msg("stopped following server log")
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				if err := t.Err(); err != nil {
					return errInternalLogReadFailed(err)
				}
				return nil
			}
			if line.Err != nil {
				return errInternalLogReadFailed(line.Err)
			}
			if err := fn(line.Text); err != nil {
				return err
			}
		}
	}
}
