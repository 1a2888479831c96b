package backups

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	containermocks "server-runner/internal/containers/mocks"
	"server-runner/internal/events"
	"server-runner/internal/models"
	"server-runner/internal/shared/actors"
	"server-runner/internal/shared/archives"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/filestorages"
	"server-runner/internal/shared/svcerrors"
	storemocks "server-runner/internal/stores/mocks"
	"server-runner/internal/streams"
	streammocks "server-runner/internal/streams/mocks"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2024, 8, 27, 0, 34, 27, 0, time.UTC)

type testEnv struct {
	svc        *backupService
	backupsDir string
	dataDir    string
	containers *containermocks.MockContainerService
	history    *storemocks.MockBackupHistoryStore
	producer   *streammocks.MockBackupUploadProducer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	root := t.TempDir()
	env := &testEnv{
		backupsDir: filepath.Join(root, "backups"),
		dataDir:    filepath.Join(root, "mcdata"),
	}
	require.NoError(t, os.MkdirAll(env.dataDir, 0o755))

	storage, err := filestorages.NewFileStorage(env.backupsDir)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	env.containers = containermocks.NewMockContainerService(ctrl)
	env.history = storemocks.NewMockBackupHistoryStore(ctrl)
	env.producer = streammocks.NewMockBackupUploadProducer(ctrl)

	cfg := configs.BackupsConfig{
		Dir:            env.backupsDir,
		DataDir:        env.dataDir,
		DefaultName:    "server",
		SnapshotPrefix: "mcdata",
		MaxUploadBytes: 1 << 20,
	}
	env.svc = NewBackupService(cfg, storage, env.history, env.containers, env.producer).(*backupService)
	env.svc.now = func() time.Time { return fixedNow }
	return env
}

func (env *testEnv) writeData(t *testing.T, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(env.dataDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func (env *testEnv) readData(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(env.dataDir, name))
	require.NoError(t, err)
	return string(b)
}

func (env *testEnv) ignoreHistory() {
	env.history.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// zipOf builds an archive of files in memory.
func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func (env *testEnv) storeBackup(t *testing.T, fileName string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(env.backupsDir, fileName), content, 0o644))
}

func TestBackupService_Create(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"server.properties": "motd=hi", "world/level.dat": "level"})

	want := "server_20240827_003427.zip"
	env.history.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.HistoryEntry) error {
			assert.Equal(t, models.OperationCreate, entry.Operation)
			assert.Equal(t, want, entry.FileName)
			assert.Equal(t, "admin", entry.Actor)
			assert.Equal(t, "curl", entry.Client)
			assert.NotEmpty(t, entry.Checksum)
			return nil
		})
	env.producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *events.BackupCreatedEvent) error {
			assert.Equal(t, want, event.FileName)
			assert.Equal(t, "admin", event.Actor)
			return nil
		})

	ctx := actors.WithActor(context.Background(), actors.Actor{Name: "admin", Client: "curl"})
	info, err := env.svc.Create(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, want, info.FileName)
	assert.Equal(t, "server", info.BaseName)
	assert.Equal(t, fixedNow, info.CreatedAt)

	archive, err := os.ReadFile(filepath.Join(env.backupsDir, want))
	require.NoError(t, err)
	sum := sha256.Sum256(archive)
	assert.Equal(t, hex.EncodeToString(sum[:]), info.Checksum)
	assert.Equal(t, int64(len(archive)), info.SizeBytes)

	// extracting the archive gives the data back
	out := t.TempDir()
	stats, err := archives.Extract(context.Background(), filepath.Join(env.backupsDir, want), out)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	level, err := os.ReadFile(filepath.Join(out, "world", "level.dat"))
	require.NoError(t, err)
	assert.Equal(t, "level", string(level))
}

func TestBackupService_Create_QueueFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"a.txt": "a"})
	env.ignoreHistory()
	env.producer.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(errors.New("queue closed"))

	info, err := env.svc.Create(context.Background(), "bebok")
	require.NoError(t, err)
	assert.Equal(t, "bebok_20240827_003427.zip", info.FileName)
}

func TestBackupService_Create_FullUploadQueue(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"a.txt": "a"})
	env.ignoreHistory()

	// no consumer: the partition for "server" fills up and stays full
	producer := streams.NewBackupUploadProducer(streams.NewPartitionedQueue[events.BackupCreatedEvent]())
	for i := 0; ; i++ {
		event := &events.BackupCreatedEvent{FileName: fmt.Sprintf("server_20240101_%06d.zip", i)}
		if err := producer.Produce(context.Background(), event); err != nil {
			require.ErrorIs(t, err, streams.ErrQueueFull)
			break
		}
	}
	env.svc.producer = producer

	done := make(chan error, 1)
	go func() {
		_, err := env.svc.Create(context.Background(), "server")
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("create blocked on a full upload queue")
	}
	assert.FileExists(t, filepath.Join(env.backupsDir, "server_20240827_003427.zip"))

	// the data dir lock is free for the next operation
	require.True(t, env.svc.dataMu.TryLock())
	env.svc.dataMu.Unlock()
}

func TestBackupService_Create_ProducesAfterReleasingLock(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"a.txt": "a"})
	env.ignoreHistory()
	env.producer.EXPECT().Produce(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *events.BackupCreatedEvent) error {
			locked := env.svc.dataMu.TryLock()
			if locked {
				env.svc.dataMu.Unlock()
			}
			assert.True(t, locked, "data dir still locked while queueing the upload")
			return nil
		})

	_, err := env.svc.Create(context.Background(), "server")
	require.NoError(t, err)
}

func TestBackupService_Create_Rejected(t *testing.T) {
	t.Parallel()

	t.Run("invalid name", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Create(context.Background(), "../world")
		assert.True(t, svcerrors.HasCode(err, codeInvalidName))
	})

	t.Run("same second", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeData(t, map[string]string{"a.txt": "a"})
		env.ignoreHistory()
		env.producer.EXPECT().Produce(gomock.Any(), gomock.Any()).Return(nil)

		_, err := env.svc.Create(context.Background(), "server")
		require.NoError(t, err)
		_, err = env.svc.Create(context.Background(), "server")
		assert.True(t, svcerrors.HasCode(err, codeBackupExists))
	})

	t.Run("operation running", func(t *testing.T) {
		env := newTestEnv(t)
		env.svc.dataMu.Lock()
		defer env.svc.dataMu.Unlock()

		_, err := env.svc.Create(context.Background(), "server")
		svcErr, ok := svcerrors.AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, codeOperationRunning, svcErr.Code)
		assert.Equal(t, 409, svcErr.HttpStatusCode)
	})

	t.Run("missing data dir", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.RemoveAll(env.dataDir))

		_, err := env.svc.Create(context.Background(), "server")
		assert.True(t, svcerrors.HasCode(err, codeDataDirMissing))
	})
}

func TestBackupService_List(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, name := range []string{
		"server_20240101_000000.zip",
		"bebok_20240301_120000.zip",
		"world_20240201_000000.tar.gz",
		"notes.txt",
		"server.zip",
	} {
		env.storeBackup(t, name, []byte("x"))
	}

	list, err := env.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "bebok_20240301_120000.zip", list[0].FileName)
	assert.Equal(t, "bebok", list[0].BaseName)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), list[0].CreatedAt)
	assert.Equal(t, "world_20240201_000000.tar.gz", list[1].FileName)
	assert.Equal(t, "server_20240101_000000.zip", list[2].FileName)
	assert.Equal(t, int64(1), list[2].SizeBytes)
}

func TestBackupService_Delete(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	name := "server_20240101_000000.zip"
	env.storeBackup(t, name, []byte("x"))
	env.history.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.HistoryEntry) error {
			assert.Equal(t, models.OperationDelete, entry.Operation)
			assert.Equal(t, name, entry.FileName)
			return nil
		})

	require.NoError(t, env.svc.Delete(context.Background(), name))
	_, err := os.Stat(filepath.Join(env.backupsDir, name))
	assert.True(t, os.IsNotExist(err))

	err = env.svc.Delete(context.Background(), name)
	assert.True(t, svcerrors.HasCode(err, codeBackupNotFound))

	err = env.svc.Delete(context.Background(), "../../etc/passwd")
	assert.True(t, svcerrors.HasCode(err, codeInvalidName))
}

func TestBackupService_Load_RestartsRunningServer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"old.txt": "old world"})
	name := "bebok_20240101_000000.zip"
	env.storeBackup(t, name, zipOf(t, map[string]string{"new.txt": "new world", "world/level.dat": "lvl"}))
	env.ignoreHistory()

	gomock.InOrder(
		env.containers.EXPECT().Status(gomock.Any()).Return(&models.ContainerStatus{Name: "mc", State: "running", Running: true}, nil),
		env.containers.EXPECT().Stop(gomock.Any()).Return(&models.ContainerStatus{Name: "mc", State: "exited"}, nil),
		env.containers.EXPECT().Start(gomock.Any()).Return(&models.ContainerStatus{Name: "mc", State: "running", Running: true}, nil),
	)

	result, err := env.svc.Load(context.Background(), name)
	require.NoError(t, err)

	assert.Equal(t, name, result.Restored.FileName)
	assert.Equal(t, "mcdata_20240827_003427.zip", result.Snapshot.FileName)
	assert.Equal(t, 2, result.RestoredFiles)
	assert.True(t, result.ContainerRestarted)

	assert.Equal(t, "new world", env.readData(t, "new.txt"))
	_, err = os.Stat(filepath.Join(env.dataDir, "old.txt"))
	assert.True(t, os.IsNotExist(err), "old data must be cleared")

	// the snapshot holds the previous data
	out := t.TempDir()
	_, err = archives.Extract(context.Background(), filepath.Join(env.backupsDir, result.Snapshot.FileName), out)
	require.NoError(t, err)
	old, err := os.ReadFile(filepath.Join(out, "old.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old world", string(old))
}

func TestBackupService_Load_StoppedServerStaysStopped(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	name := "server_20240101_000000.zip"
	env.storeBackup(t, name, zipOf(t, map[string]string{"a.txt": "a"}))
	env.ignoreHistory()
	env.containers.EXPECT().Status(gomock.Any()).Return(&models.ContainerStatus{State: models.ContainerStateDisabled}, nil)

	result, err := env.svc.Load(context.Background(), name)
	require.NoError(t, err)
	assert.False(t, result.ContainerRestarted)
	// empty data dir, nothing to snapshot
	assert.Empty(t, result.Snapshot.FileName)
	assert.Equal(t, "a", env.readData(t, "a.txt"))
}

func TestBackupService_Load_UnsafeArchiveRollsBack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.writeData(t, map[string]string{"keep.txt": "precious"})
	name := "evil_20240101_000000.zip"
	env.storeBackup(t, name, zipOf(t, map[string]string{"ok.txt": "ok", "../escape.txt": "pwned"}))
	env.ignoreHistory()

	gomock.InOrder(
		env.containers.EXPECT().Status(gomock.Any()).Return(&models.ContainerStatus{Running: true}, nil),
		env.containers.EXPECT().Stop(gomock.Any()).Return(&models.ContainerStatus{}, nil),
		env.containers.EXPECT().Start(gomock.Any()).Return(&models.ContainerStatus{Running: true}, nil),
	)

	_, err := env.svc.Load(context.Background(), name)
	require.Error(t, err)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeUnsafeArchive, svcErr.Code)
	assert.Equal(t, 400, svcErr.HttpStatusCode)

	assert.Equal(t, "precious", env.readData(t, "keep.txt"))
	_, err = os.Stat(filepath.Join(filepath.Dir(env.dataDir), "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupService_Load_Rejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	_, err := env.svc.Load(context.Background(), "world_20240101_000000.tar.gz")
	assert.True(t, svcerrors.HasCode(err, codeNotRestorable))

	_, err = env.svc.Load(context.Background(), "nope")
	assert.True(t, svcerrors.HasCode(err, codeInvalidName))

	_, err = env.svc.Load(context.Background(), "server_20240101_000000.zip")
	assert.True(t, svcerrors.HasCode(err, codeBackupNotFound))
}

func TestBackupService_LoadUpload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.containers.EXPECT().Status(gomock.Any()).Return(&models.ContainerStatus{State: models.ContainerStateAbsent}, nil)

	var ops []models.HistoryOperation
	env.history.EXPECT().Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.HistoryEntry) error {
			ops = append(ops, entry.Operation)
			return nil
		}).AnyTimes()

	body := zipOf(t, map[string]string{"uploaded.txt": "from client"})
	result, err := env.svc.LoadUpload(context.Background(), "my world.zip", bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)

	assert.Equal(t, "upload_20240827_003427.zip", result.Restored.FileName)
	assert.Equal(t, int64(len(body)), result.Restored.SizeBytes)
	assert.NotEmpty(t, result.Restored.Checksum)
	assert.Equal(t, "from client", env.readData(t, "uploaded.txt"))
	assert.Equal(t, []models.HistoryOperation{models.OperationUpload, models.OperationLoad}, ops)

	_, err = os.Stat(filepath.Join(env.backupsDir, "upload_20240827_003427.zip"))
	assert.NoError(t, err)
}

func TestBackupService_LoadUpload_KeepsValidName(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.ignoreHistory()
	env.containers.EXPECT().Status(gomock.Any()).Return(&models.ContainerStatus{}, nil)

	body := zipOf(t, map[string]string{"a.txt": "a"})
	result, err := env.svc.LoadUpload(context.Background(), "finger_20240827_003427.zip", bytes.NewReader(body), -1)
	require.NoError(t, err)
	assert.Equal(t, "finger_20240827_003427.zip", result.Restored.FileName)

	// uploading the same name again conflicts
	_, err = env.svc.LoadUpload(context.Background(), "finger_20240827_003427.zip", bytes.NewReader(body), -1)
	assert.True(t, svcerrors.HasCode(err, codeBackupExists))
}

func TestBackupService_LoadUpload_TooLarge(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.svc.maxUploadBytes = 16
	body := bytes.Repeat([]byte("z"), 64)

	// declared size
	_, err := env.svc.LoadUpload(context.Background(), "big.zip", bytes.NewReader(body), int64(len(body)))
	assert.True(t, svcerrors.HasCode(err, codeUploadTooLarge))

	// unknown size, detected while streaming
	_, err = env.svc.LoadUpload(context.Background(), "big.zip", bytes.NewReader(body), -1)
	svcErr, ok := svcerrors.AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, codeUploadTooLarge, svcErr.Code)
	assert.Equal(t, 413, svcErr.HttpStatusCode)

	entries, err := os.ReadDir(env.backupsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "oversized upload must not be kept")
}

func TestBackupService_History(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	entries := []*models.HistoryEntry{{ID: 2, Operation: models.OperationLoad}, {ID: 1, Operation: models.OperationCreate}}
	env.history.EXPECT().Recent(gomock.Any(), 10).Return(entries, nil)
	env.history.EXPECT().Recent(gomock.Any(), 5).Return(nil, errors.New("db down"))

	got, err := env.svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = env.svc.History(context.Background(), 5)
	assert.True(t, svcerrors.HasCode(err, codeInternalHistoryFailed))
}

func TestBackupService_FileHistory(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	entries := []*models.HistoryEntry{{ID: 7, Operation: models.OperationLoad, FileName: "server_20240827_003427.zip"}}
	env.history.EXPECT().ForFile(gomock.Any(), "server_20240827_003427.zip").Return(entries, nil)
	env.history.EXPECT().ForFile(gomock.Any(), "bebok_20240827_003427.zip").Return(nil, errors.New("db down"))

	got, err := env.svc.FileHistory(context.Background(), "server_20240827_003427.zip")
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	_, err = env.svc.FileHistory(context.Background(), "bebok_20240827_003427.zip")
	assert.True(t, svcerrors.HasCode(err, codeInternalHistoryFailed))

	_, err = env.svc.FileHistory(context.Background(), "../etc/passwd")
	assert.True(t, svcerrors.HasCode(err, codeInvalidName))
}
