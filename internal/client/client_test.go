package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"server-runner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok", 5*time.Second)
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"username": "tomo", "password": "pw"}, body)

		_, _ = io.WriteString(w, `{"token":"signed","expirationTime":"2024-08-28T00:34:27Z"}`)
	})

	result, err := c.Login(context.Background(), "tomo", "pw")
	require.NoError(t, err)
	assert.Equal(t, "signed", result.Token)
	assert.Equal(t, time.Date(2024, 8, 28, 0, 34, 27, 0, time.UTC), result.ExpirationTime)
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"requestId":"req-1","errorCategory":"resource_conflict","errorCode":"BAK_1004","errorDescription":"another backup operation is running"}`)
	})

	_, err := c.CreateBackup(context.Background(), "finger")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "BAK_1004", apiErr.Code)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.Contains(t, err.Error(), "BAK_1004")
}

func TestClient_APIErrorWithoutEnvelope(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Status(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Error())
}

func TestClient_RequestShapes(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, query, body, auth string
	}
	var (
		mu  sync.Mutex
		got []seen
	)
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, seen{r.Method, r.URL.Path, r.URL.RawQuery, string(raw), r.Header.Get("Authorization")})
		mu.Unlock()

		switch r.URL.Path {
		case "/backup":
			if r.Method == http.MethodGet {
				_, _ = io.WriteString(w, `{"backups":[{"fileName":"a_20240827_003427.zip","sizeBytes":1}]}`)
				return
			}
			_, _ = io.WriteString(w, `{"fileName":"server_20240827_003427.zip"}`)
		case "/backup/history":
			_, _ = io.WriteString(w, `{"history":[{"id":1,"operation":"create"}]}`)
		case "/logs":
			_, _ = io.WriteString(w, `{"logs":["x"]}`)
		case "/sync":
			_, _ = io.WriteString(w, `{"transfers":[]}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	})
	ctx := context.Background()

	_, err := c.CreateBackup(ctx, "")
	require.NoError(t, err)
	list, err := c.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, c.DeleteBackup(ctx, "a_20240827_003427.zip"))
	_, err = c.LoadBackup(ctx, "a_20240827_003427.zip")
	require.NoError(t, err)
	history, err := c.History(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.OperationCreate, history[0].Operation)
	_, err = c.FileHistory(ctx, "a_20240827_003427.zip")
	require.NoError(t, err)
	logs, err := c.Logs(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, logs)
	_, err = c.Sync(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 8)
	assert.Equal(t, seen{"POST", "/backup", "", "", "Bearer tok"}, got[0])
	assert.Equal(t, seen{"GET", "/backup", "", "", "Bearer tok"}, got[1])
	assert.Equal(t, seen{"DELETE", "/backup/delete", "delete=a_20240827_003427.zip", "", "Bearer tok"}, got[2])
	assert.Equal(t, seen{"POST", "/backup/load", "", `{"backup":"a_20240827_003427.zip"}`, "Bearer tok"}, got[3])
	assert.Equal(t, seen{"GET", "/backup/history", "limit=5", "", "Bearer tok"}, got[4])
	assert.Equal(t, seen{"GET", "/backup/history", "file=a_20240827_003427.zip", "", "Bearer tok"}, got[5])
	assert.Equal(t, seen{"GET", "/logs", "lines=10", "", "Bearer tok"}, got[6])
	assert.Equal(t, seen{"POST", "/sync", "", "", "Bearer tok"}, got[7])
}

func TestClient_UploadBackup(t *testing.T) {
	t.Parallel()

	content := []byte("zip bytes")
	path := filepath.Join(t.TempDir(), "world_20240827_003427.zip")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/backup/load", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("file"))

		reader, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		assert.Equal(t, "world_20240827_003427.zip", part.FileName())
		assert.Equal(t, fmt.Sprint(len(content)), part.Header.Get("Content-Length"))
		got, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, content, got)

		_, _ = io.WriteString(w, `{"restored":{"fileName":"world_20240827_003427.zip"},"restoredFiles":2}`)
	})

	result, err := c.UploadBackup(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RestoredFiles)
	assert.Equal(t, "world_20240827_003427.zip", result.Restored.FileName)
}

func TestClient_UploadBackupQuotedFileName(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), `my "best" world.zip`)
	require.NoError(t, os.WriteFile(path, []byte("zip bytes"), 0o644))

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		reader, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		assert.Equal(t, `my "best" world.zip`, part.FileName())
		_, _ = io.WriteString(w, `{"restored":{"fileName":"upload_20240827_003427.zip"}}`)
	})

	_, err := c.UploadBackup(context.Background(), path)
	require.NoError(t, err)
}

func TestUploadPartHeader(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"world_20240827_003427.zip", `a"b.zip`, `back\slash.zip`, `both\"mixed".zip`} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			header := uploadPartHeader(name, 42)
			disposition, params, err := mime.ParseMediaType(header.Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, "form-data", disposition)
			assert.Equal(t, "file", params["name"])
			assert.Equal(t, name, params["filename"])
			assert.Equal(t, "42", header.Get("Content-Length"))
		})
	}
}

func TestClient_UploadBackupMissingFile(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1", "", time.Second)
	_, err := c.UploadBackup(context.Background(), filepath.Join(t.TempDir(), "nope.zip"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClient_FollowLogs(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/logs/stream", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: first\n\n: comment\n\ndata: second\n\n")
	})

	var lines []string
	err := c.FollowLogs(context.Background(), func(line string) { lines = append(lines, line) })
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)
}
