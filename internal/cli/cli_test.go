package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, handler http.HandlerFunc, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--url", srv.URL, "--token", "tok"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestLogin(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login", r.URL.Path)
		_, _ = io.WriteString(w, `{"token":"signed","expirationTime":"2024-08-28T00:34:27Z"}`)
	}, "login", "-u", "tomo", "-p", "pw")

	require.NoError(t, err)
	assert.Contains(t, out, "Token expires 2024-08-28T00:34:27Z")
	assert.Contains(t, out, "export RUNNER_TOKEN=signed")
}

func TestLogin_RequiresFlags(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, "login", "-u", "tomo")
	assert.Error(t, err)
}

func TestBackupCreate(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"fileName":"finger_20240827_003427.zip","sizeBytes":1572864,"checksum":"abc"}`)
	}, "backup", "create", "finger")

	require.NoError(t, err)
	assert.Equal(t, "Created finger_20240827_003427.zip (1.5 MiB, sha256 abc)\n", out)
}

func TestBackupList(t *testing.T) {
	t.Run("entries", func(t *testing.T) {
		out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"backups":[{"fileName":"a_20240827_003427.zip","sizeBytes":2048,"createdAt":"2024-08-27T00:34:27Z"}]}`)
		}, "backup", "list")

		require.NoError(t, err)
		assert.Contains(t, out, "FILE")
		assert.Contains(t, out, "a_20240827_003427.zip")
		assert.Contains(t, out, "2.0 KiB")
	})

	t.Run("empty", func(t *testing.T) {
		out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"backups":[]}`)
		}, "backup", "list")

		require.NoError(t, err)
		assert.Equal(t, "(no backups found)\n", out)
	})
}

func TestBackupLoad(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"restored":{"fileName":"a_20240827_003427.zip"},"snapshot":{"fileName":"mcdata_20240827_003500.zip"},"restoredFiles":4,"containerRestarted":true,"durationNs":1500000000}`)
	}, "backup", "load", "a_20240827_003427.zip")

	require.NoError(t, err)
	assert.Contains(t, out, "Restored a_20240827_003427.zip (4 files, 1.5s)")
	assert.Contains(t, out, "Previous data saved as mcdata_20240827_003500.zip")
	assert.Contains(t, out, "Server restarted")
}

func TestBackupDelete_ReportsAPIError(t *testing.T) {
	_, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a_20240827_003427.zip", r.URL.Query().Get("delete"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"requestId":"r","errorCategory":"not_found","errorCode":"BAK_1001","errorDescription":"backup not found"}`)
	}, "backup", "delete", "a_20240827_003427.zip")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAK_1001")
}

func TestBackupHistory(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"history":[{"id":1,"operation":"create","fileName":"a_20240827_003427.zip","sizeBytes":10,"actor":"tomo","client":"curl","createdAt":"2024-08-27T00:34:27Z"}]}`)
	}, "backup", "history", "-n", "3")

	require.NoError(t, err)
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "tomo (curl)")
}

func TestBackupHistory_ForOneFile(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a_20240827_003427.zip", r.URL.Query().Get("file"))
		assert.Empty(t, r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"history":[{"id":2,"operation":"load","fileName":"a_20240827_003427.zip","actor":"tomo","createdAt":"2024-08-28T10:00:00Z"},{"id":1,"operation":"create","fileName":"a_20240827_003427.zip","actor":"tomo","createdAt":"2024-08-27T00:34:27Z"}]}`)
	}, "backup", "history", "--file", "a_20240827_003427.zip")

	require.NoError(t, err)
	assert.Contains(t, out, "load")
	assert.Contains(t, out, "create")
}

func TestServerCommands(t *testing.T) {
	for _, action := range []string{"start", "stop", "status"} {
		t.Run(action, func(t *testing.T) {
			out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/"+action, r.URL.Path)
				_, _ = io.WriteString(w, `{"name":"minecraft","state":"running","running":true}`)
			}, "server", action)

			require.NoError(t, err)
			assert.Equal(t, "minecraft: running\n", out)
		})
	}
}

func TestLogs(t *testing.T) {
	out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("lines"))
		_, _ = io.WriteString(w, `{"logs":["one","two"]}`)
	}, "logs", "--lines", "2")

	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out)
}

func TestSync(t *testing.T) {
	t.Run("transfers", func(t *testing.T) {
		out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"transfers":[{"fileName":"a_20240827_003427.zip","direction":"download","sizeBytes":1024,"downloadDuration":250000000}]}`)
		}, "sync")

		require.NoError(t, err)
		assert.Contains(t, out, "download")
		assert.Contains(t, out, "250ms")
	})

	t.Run("in sync", func(t *testing.T) {
		out, err := runCLI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"transfers":[]}`)
		}, "sync")

		require.NoError(t, err)
		assert.Equal(t, "Already in sync\n", out)
	})
}
