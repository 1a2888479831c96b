package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"server-runner/internal/serverlogs"
	"server-runner/internal/shared/loggers"
)

const defaultLogLines = 100

type logsResponse struct {
	Logs []string `json:"logs"`
}

type serverLogHandler struct {
	logReader serverlogs.LogReader
}

func newServerLogHandler(logReader serverlogs.LogReader) *serverLogHandler {
	return &serverLogHandler{logReader: logReader}
}

// lines serves GET /logs?lines=N. lines=0 returns the whole file.
func (h *serverLogHandler) lines(w http.ResponseWriter, r *http.Request) error {
	limit, err := intQueryParam(r, "lines", defaultLogLines)
	if err != nil {
		return err
	}

	logs, err := h.logReader.Lines(r.Context(), limit)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, logsResponse{Logs: logs})
}

// stream serves GET /logs/stream as server-sent events, one event per appended line,
// until the client goes away.
func (h *serverLogHandler) stream(w http.ResponseWriter, r *http.Request) error {
	rc := http.NewResponseController(w)
	// streams outlive the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set(headerContentType, contentTypeEventStream)
	w.Header().Set(headerCacheControl, "no-cache")
	w.Header().Set(headerConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return err
	}

	metricLogStreamsActive.Inc()
	defer metricLogStreamsActive.Dec()

	err := h.logReader.Follow(r.Context(), func(line string) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", strings.TrimRight(line, "\r\n")); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err != nil {
		// headers are gone already, so the error can only be logged
		loggers.Ctx(r.Context()).Warn().Err(err).Msg("log stream ended")
	}
	return nil
}

// intQueryParam parses a non-negative integer query parameter, returning def when absent.
func intQueryParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidQueryParam(name, err)
	}
	if n < 0 {
		return 0, errInvalidQueryParam(name, nil)
	}
	return n, nil
}
