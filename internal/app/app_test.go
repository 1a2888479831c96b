package app

import (
	"context"
	"path/filepath"
	"testing"

	"server-runner/internal/shared/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *configs.Config {
	t.Helper()
	root := t.TempDir()
	return &configs.Config{
		Server: configs.ServerConfig{Port: 7777, ReadHeaderTimeout: 5, ReadTimeout: 60, WriteTimeout: 60, IdleTimeout: 60},
		Log:    configs.LogConfig{Level: "error", File: filepath.Join(root, "logs", "runner.log"), MaxSizeMB: 1, MaxBackups: 1},
		Auth: configs.AuthConfig{
			AdminUser:       "tomo",
			AdminPassword:   "correct horse",
			JWTSecret:       "0123456789abcdef0123",
			TokenTTLMinutes: 60,
		},
		Backups: configs.BackupsConfig{
			Dir:            filepath.Join(root, "backups"),
			DataDir:        filepath.Join(root, "mcdata"),
			DefaultName:    "server",
			SnapshotPrefix: "mcdata",
			MaxUploadBytes: 1 << 20,
		},
		Containers: configs.ContainersConfig{Name: "minecraft"},
		ServerLogs: configs.ServerLogsConfig{File: filepath.Join(root, "mcdata", "logs", "latest.log")},
		Sync:       configs.SyncConfig{AutoUpload: true, RetryAttempts: 1},
		Database:   configs.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(root, "db", "history.db")},
	}
}

func TestNew_WiresLocalOnlyStack(t *testing.T) {
	cfg := testConfig(t)

	application, err := New(cfg)
	require.NoError(t, err)

	assert.NotNil(t, application.db)
	assert.Nil(t, application.remoteStore)
	// auto upload needs a remote store
	assert.Nil(t, application.uploadConsumer)
	assert.DirExists(t, cfg.Backups.DataDir)
	assert.DirExists(t, cfg.Backups.Dir)

	require.NoError(t, application.Shutdown(context.Background()))
}

func TestNew_WithoutHistoryDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database = configs.DatabaseConfig{Driver: "none"}
	cfg.Log.File = ""

	application, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, application.db)

	require.NoError(t, application.Shutdown(context.Background()))
}

func TestNew_RejectsUnknownSyncProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sync.Provider = "ftp"
	cfg.Sync.Bucket = "x"

	_, err := New(cfg)
	assert.Error(t, err)
}
