package syncs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"server-runner/internal/models"
	"server-runner/internal/shared/actors"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/filestorages"
	"server-runner/internal/shared/objectstores"
	objectstoremocks "server-runner/internal/shared/objectstores/mocks"
	"server-runner/internal/shared/svcerrors"
	"server-runner/internal/stores"
	storemocks "server-runner/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	bucket   = "world-backups"
	backupA  = "server_20240101_000000.zip"
	backupB  = "server_20240102_000000.zip"
	backupC  = "bebok_20240103_000000.zip"
	notABack = "notes.txt"
)

var syncCfg = configs.SyncConfig{RetryAttempts: 3, RetryDelayMs: 1}

func newLocalStorage(t *testing.T, files map[string]string) (filestorages.FileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	storage, err := filestorages.NewFileStorage(dir)
	require.NoError(t, err)
	return storage, dir
}

func newRemote(t *testing.T) *objectstoremocks.MockRemoteStore {
	t.Helper()
	ctrl := gomock.NewController(t)
	remote := objectstoremocks.NewMockRemoteStore(ctrl)
	remote.EXPECT().Bucket().Return(bucket).AnyTimes()
	return remote
}

func TestSyncService_NotConfigured(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, nil)
	svc := NewSyncService(nil, storage, stores.NewNopBackupHistoryStore(), syncCfg)

	_, err := svc.Sync(context.Background())
	assert.True(t, svcerrors.HasCode(err, codeNotConfigured))

	_, err = svc.Upload(context.Background(), backupA)
	assert.True(t, svcerrors.HasCode(err, codeNotConfigured))
}

func TestSyncService_Sync_TwoWay(t *testing.T) {
	t.Parallel()

	storage, dir := newLocalStorage(t, map[string]string{
		backupA:  "local-a",
		backupB:  "local-b",
		"junk":   "ignored",
		notABack: "ignored",
	})
	remote := newRemote(t)

	remote.EXPECT().EnsureBucket(gomock.Any()).Return(true, nil)
	remote.EXPECT().List(gomock.Any()).Return([]objectstores.ObjectInfo{
		{Key: backupB, Size: 7},
		{Key: backupC, Size: 8},
		{Key: notABack, Size: 1},
	}, nil)
	remote.EXPECT().Open(gomock.Any(), backupC).Return(io.NopCloser(strings.NewReader("remote-c")), int64(8), nil)
	remote.EXPECT().Upload(gomock.Any(), backupA, gomock.Any(), int64(7)).
		DoAndReturn(func(_ context.Context, _ string, r io.Reader, _ int64) error {
			body, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, "local-a", string(body))
			return nil
		})

	svc := NewSyncService(remote, storage, stores.NewNopBackupHistoryStore(), syncCfg)
	records, err := svc.Sync(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.TransferDownload, records[0].Direction)
	assert.Equal(t, backupC, records[0].FileName)
	assert.Equal(t, int64(8), records[0].SizeBytes)
	assert.Equal(t, bucket, records[0].Bucket)

	assert.Equal(t, models.TransferUpload, records[1].Direction)
	assert.Equal(t, backupA, records[1].FileName)
	assert.False(t, records[1].DateAccessed.IsZero())

	downloaded, err := os.ReadFile(filepath.Join(dir, backupC))
	require.NoError(t, err)
	assert.Equal(t, "remote-c", string(downloaded))
}

func TestSyncService_Sync_InSync(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, map[string]string{backupA: "a"})
	remote := newRemote(t)
	remote.EXPECT().EnsureBucket(gomock.Any()).Return(false, nil)
	remote.EXPECT().List(gomock.Any()).Return([]objectstores.ObjectInfo{{Key: backupA, Size: 1}}, nil)

	records, err := NewSyncService(remote, storage, stores.NewNopBackupHistoryStore(), syncCfg).Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestSyncService_Sync_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, nil)
	remote := newRemote(t)
	remote.EXPECT().EnsureBucket(gomock.Any()).Return(false, nil)
	gomock.InOrder(
		remote.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection reset")),
		remote.EXPECT().List(gomock.Any()).Return(nil, errors.New("connection reset")),
		remote.EXPECT().List(gomock.Any()).Return([]objectstores.ObjectInfo{}, nil),
	)

	records, err := NewSyncService(remote, storage, stores.NewNopBackupHistoryStore(), syncCfg).Sync(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSyncService_Sync_AttemptsExhausted(t *testing.T) {
	t.Parallel()

	boom := errors.New("permission denied")
	storage, _ := newLocalStorage(t, nil)
	remote := newRemote(t)
	remote.EXPECT().EnsureBucket(gomock.Any()).Return(false, boom).Times(3)

	_, err := NewSyncService(remote, storage, stores.NewNopBackupHistoryStore(), syncCfg).Sync(context.Background())
	require.Error(t, err)
	assert.True(t, svcerrors.HasCode(err, codeInternalBucketFailed))
	assert.ErrorIs(t, err, boom)
}

func TestSyncService_Sync_AlreadyRunning(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, nil)
	svc := NewSyncService(newRemote(t), storage, stores.NewNopBackupHistoryStore(), syncCfg).(*syncService)

	svc.mu.Lock()
	defer svc.mu.Unlock()

	_, err := svc.Sync(context.Background())
	assert.True(t, svcerrors.HasCode(err, codeAlreadyRunning))
}

func TestSyncService_Upload(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, map[string]string{backupA: "payload"})
	remote := newRemote(t)
	remote.EXPECT().Exists(gomock.Any(), backupA).Return(false, nil)
	remote.EXPECT().Upload(gomock.Any(), backupA, gomock.Any(), int64(7)).Return(nil)

	ctrl := gomock.NewController(t)
	history := storemocks.NewMockBackupHistoryStore(ctrl)
	history.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.HistoryEntry) error {
			assert.Equal(t, models.OperationSyncUp, entry.Operation)
			assert.Equal(t, backupA, entry.FileName)
			assert.Equal(t, "auto-upload", entry.Client)
			assert.Equal(t, bucket, entry.Details["bucket"])
			return nil
		})

	ctx := actors.WithActor(context.Background(), actors.Actor{Name: "admin", Client: "auto-upload"})
	record, err := NewSyncService(remote, storage, history, syncCfg).Upload(ctx, backupA)
	require.NoError(t, err)
	assert.False(t, record.Skipped)
	assert.Equal(t, int64(7), record.SizeBytes)
	assert.Equal(t, models.TransferUpload, record.Direction)
}

func TestSyncService_Upload_SkipsExisting(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, map[string]string{backupA: "payload"})
	remote := newRemote(t)
	remote.EXPECT().Exists(gomock.Any(), backupA).Return(true, nil)

	record, err := NewSyncService(remote, storage, stores.NewNopBackupHistoryStore(), syncCfg).Upload(context.Background(), backupA)
	require.NoError(t, err)
	assert.True(t, record.Skipped)
}

func TestSyncService_Upload_Rejected(t *testing.T) {
	t.Parallel()

	storage, _ := newLocalStorage(t, nil)
	svc := NewSyncService(newRemote(t), storage, stores.NewNopBackupHistoryStore(), syncCfg)

	_, err := svc.Upload(context.Background(), "../etc/passwd")
	assert.True(t, svcerrors.HasCode(err, codeInvalidName))

	_, err = svc.Upload(context.Background(), backupA)
	assert.True(t, svcerrors.HasCode(err, codeBackupNotFound))
}

func TestDiffBackups(t *testing.T) {
	t.Parallel()

	local := []filestorages.FileInfo{{Key: backupB}, {Key: backupA}, {Key: "readme.md"}}
	remote := []objectstores.ObjectInfo{{Key: backupC}, {Key: backupB}, {Key: "folder/" + backupA}}

	download, upload := diffBackups(local, remote)
	require.Len(t, download, 1)
	assert.Equal(t, backupC, download[0].Key)
	require.Len(t, upload, 1)
	assert.Equal(t, backupA, upload[0].Key)
}
