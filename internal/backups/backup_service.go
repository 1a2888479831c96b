package backups

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"server-runner/internal/containers"
	"server-runner/internal/events"
	"server-runner/internal/models"
	"server-runner/internal/shared/actors"
	"server-runner/internal/shared/archives"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/filestorages"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/stores"
	"server-runner/internal/streams"
)

const uploadBaseName = "upload"

const (
	operationCreate = "create"
	operationDelete = "delete"
	operationLoad   = "load"
	operationUpload = "upload"
)

//go:generate mockgen -source=backup_service.go -destination=./mocks/backup_service_mock.go -package=mocks
type BackupService interface {
	// Create archives the data directory as "<name>_<timestamp>.zip". An empty name uses the default.
	Create(ctx context.Context, name string) (*models.BackupInfo, error)
	// List returns the backups on disk, newest first.
	List(ctx context.Context) ([]*models.BackupInfo, error)
	Delete(ctx context.Context, fileName string) error
	// Load replaces the data directory with the content of a stored backup.
	// The previous content is kept as a snapshot backup and the server is stopped around the swap.
	Load(ctx context.Context, fileName string) (*models.LoadResult, error)
	// LoadUpload stores an uploaded archive and then loads it. size may be -1 when unknown.
	LoadUpload(ctx context.Context, fileName string, r io.Reader, size int64) (*models.LoadResult, error)
	History(ctx context.Context, limit int) ([]*models.HistoryEntry, error)
	// FileHistory returns every recorded operation on one backup file, newest first.
	FileHistory(ctx context.Context, fileName string) ([]*models.HistoryEntry, error)
}

type backupService struct {
	storage    filestorages.FileStorage
	history    stores.BackupHistoryStore
	containers containers.ContainerService
	producer   streams.BackupUploadProducer

	dataDir        string
	defaultName    string
	snapshotPrefix string
	maxUploadBytes int64

	// held for the whole of any operation that reads or rewrites the data directory
	dataMu sync.Mutex
	now    func() time.Time
}

func NewBackupService(
	cfg configs.BackupsConfig,
	storage filestorages.FileStorage,
	history stores.BackupHistoryStore,
	containerService containers.ContainerService,
	producer streams.BackupUploadProducer,
) BackupService {
	return &backupService{
		storage:        storage,
		history:        history,
		containers:     containerService,
		producer:       producer,
		dataDir:        cfg.DataDir,
		defaultName:    cfg.DefaultName,
		snapshotPrefix: cfg.SnapshotPrefix,
		maxUploadBytes: cfg.MaxUploadBytes,
		now:            time.Now,
	}
}

func (s *backupService) Create(ctx context.Context, name string) (info *models.BackupInfo, err error) {
	startedAt := time.Now()
	defer func() {
		observeOperation(operationCreate, err)
		metricOperationDuration.WithLabelValues(operationCreate).Observe(time.Since(startedAt).Seconds())
	}()

	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultName
	}
	if !models.IsValidBaseName(name) {
		return nil, errInvalidName(name)
	}

	if !s.dataMu.TryLock() {
		return nil, errOperationRunning()
	}
	info, err = s.archiveDataDir(ctx, name)
	// the data dir is free again once the archive is published
	s.dataMu.Unlock()
	if err != nil {
		return nil, err
	}
	metricArchiveBytes.WithLabelValues(operationCreate).Observe(float64(info.SizeBytes))

	s.recordHistory(ctx, models.OperationCreate, info, nil)

	loggers.Ctx(ctx).Info().
		Str(loggers.FieldBackup, info.FileName).
		Int64(loggers.FieldBytes, info.SizeBytes).
		Dur(loggers.FieldDuration, info.Duration).
		Msg("backup created")

	event := &events.BackupCreatedEvent{
		FileName:  info.FileName,
		SizeBytes: info.SizeBytes,
		CreatedAt: info.CreatedAt,
		Actor:     actors.FromContext(ctx).Name,
	}
	// a full or closed queue only delays the remote copy until the next sync
	if err := s.producer.Produce(ctx, event); err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Str(loggers.FieldBackup, info.FileName).Msg("failed to queue auto-upload")
	}

	return info, nil
}

// archiveDataDir zips the data directory into "<base>_<now>.zip" in the backups directory.
// Callers must hold dataMu.
func (s *backupService) archiveDataDir(ctx context.Context, base string) (*models.BackupInfo, error) {
	if _, err := os.Stat(s.dataDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errDataDirMissing(err)
		}
		return nil, errInternalArchiveFailed(err)
	}

	createdAt := s.now().UTC().Truncate(time.Second)
	fileName := models.NewBackupFileName(base, createdAt)
	startedAt := time.Now()

	pr, pw := io.Pipe()
	compressDone := make(chan error, 1)
	go func() {
		_, err := archives.Compress(ctx, s.dataDir, pw)
		_ = pw.CloseWithError(err)
		compressDone <- err
	}()

	hasher := sha256.New()
	result, putErr := s.storage.Put(ctx, fileName, io.TeeReader(pr, hasher), filestorages.PutOptions{})
	// unblock the compressor if the storage gave up early
	_ = pr.CloseWithError(putErr)
	compressErr := <-compressDone

	if compressErr != nil {
		if result != nil {
			_ = s.storage.Delete(ctx, fileName)
		}
		return nil, errInternalArchiveFailed(compressErr)
	}
	if putErr != nil {
		if errors.Is(putErr, filestorages.ErrFileAlreadyExists) {
			return nil, errBackupExists(fileName, putErr)
		}
		return nil, errInternalStorageFailed(putErr)
	}

	return &models.BackupInfo{
		FileName:  fileName,
		BaseName:  base,
		SizeBytes: result.Size,
		CreatedAt: createdAt,
		Checksum:  hex.EncodeToString(hasher.Sum(nil)),
		Duration:  time.Since(startedAt),
	}, nil
}

func (s *backupService) List(ctx context.Context) ([]*models.BackupInfo, error) {
	files, err := s.storage.List(ctx)
	if err != nil {
		return nil, errInternalStorageFailed(err)
	}

	backups := make([]*models.BackupInfo, 0, len(files))
	for _, f := range files {
		if !models.IsBackupFileName(f.Key) {
			continue
		}
		info := &models.BackupInfo{
			FileName:  f.Key,
			SizeBytes: f.Size,
			CreatedAt: f.ModTime.UTC(),
		}
		if base, ts, err := models.ParseBackupFileName(f.Key); err == nil {
			info.BaseName = base
			info.CreatedAt = ts
		}
		backups = append(backups, info)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].FileName > backups[j].FileName
	})
	return backups, nil
}

func (s *backupService) Delete(ctx context.Context, fileName string) (err error) {
	defer func() { observeOperation(operationDelete, err) }()

	if !models.IsBackupFileName(fileName) {
		return errInvalidName(fileName)
	}

	info, err := s.storage.Stat(ctx, fileName)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return errBackupNotFound(fileName, err)
		}
		return errInternalStorageFailed(err)
	}

	if err := s.storage.Delete(ctx, fileName); err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return errBackupNotFound(fileName, err)
		}
		return errInternalStorageFailed(err)
	}

	s.recordHistory(ctx, models.OperationDelete, &models.BackupInfo{FileName: fileName, SizeBytes: info.Size}, nil)
	loggers.Ctx(ctx).Info().Str(loggers.FieldBackup, fileName).Msg("backup deleted")
	return nil
}

func (s *backupService) Load(ctx context.Context, fileName string) (result *models.LoadResult, err error) {
	startedAt := time.Now()
	defer func() {
		observeOperation(operationLoad, err)
		metricOperationDuration.WithLabelValues(operationLoad).Observe(time.Since(startedAt).Seconds())
	}()

	if !models.IsBackupFileName(fileName) {
		return nil, errInvalidName(fileName)
	}
	if !models.IsRestorable(fileName) {
		return nil, errNotRestorable(fileName)
	}

	if !s.dataMu.TryLock() {
		return nil, errOperationRunning()
	}
	defer s.dataMu.Unlock()

	info, err := s.storage.Stat(ctx, fileName)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, errBackupNotFound(fileName, err)
		}
		return nil, errInternalStorageFailed(err)
	}

	return s.restore(ctx, &models.BackupInfo{FileName: fileName, SizeBytes: info.Size, CreatedAt: info.ModTime.UTC()})
}

func (s *backupService) LoadUpload(ctx context.Context, fileName string, r io.Reader, size int64) (result *models.LoadResult, err error) {
	startedAt := time.Now()
	defer func() {
		observeOperation(operationUpload, err)
		metricOperationDuration.WithLabelValues(operationUpload).Observe(time.Since(startedAt).Seconds())
	}()

	if size > s.maxUploadBytes {
		return nil, errUploadTooLarge(s.maxUploadBytes, nil)
	}

	logger := loggers.Ctx(ctx)
	if !models.IsRestorable(fileName) {
		renamed := models.NewBackupFileName(uploadBaseName, s.now())
		logger.Info().Str("client_file_name", fileName).Str(loggers.FieldBackup, renamed).Msg("renamed uploaded backup")
		fileName = renamed
	}

	if !s.dataMu.TryLock() {
		return nil, errOperationRunning()
	}
	defer s.dataMu.Unlock()

	info, err := s.receiveUpload(ctx, fileName, r, size)
	if err != nil {
		return nil, err
	}
	metricArchiveBytes.WithLabelValues(operationUpload).Observe(float64(info.SizeBytes))
	s.recordHistory(ctx, models.OperationUpload, info, nil)

	return s.restore(ctx, info)
}

func (s *backupService) receiveUpload(ctx context.Context, fileName string, r io.Reader, size int64) (*models.BackupInfo, error) {
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldBackup, fileName).Logger()
	startedAt := time.Now()

	// one byte over the limit is enough to tell an oversized upload apart
	limited := io.LimitReader(r, s.maxUploadBytes+1)
	progress := newProgressReader(limited, size, func(pct int, read int64) {
		logger.Info().Int(loggers.FieldProgress, pct).Int64(loggers.FieldBytes, read).Msg("receiving upload")
	})

	hasher := sha256.New()
	result, err := s.storage.Put(ctx, fileName, io.TeeReader(progress, hasher), filestorages.PutOptions{})
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return nil, errUploadTooLarge(s.maxUploadBytes, err)
		case errors.Is(err, filestorages.ErrFileAlreadyExists):
			return nil, errBackupExists(fileName, err)
		default:
			return nil, errInternalStorageFailed(err)
		}
	}
	if result.Size > s.maxUploadBytes {
		_ = s.storage.Delete(ctx, fileName)
		return nil, errUploadTooLarge(s.maxUploadBytes, nil)
	}

	took := time.Since(startedAt)
	logger.Info().Int64(loggers.FieldBytes, result.Size).Dur(loggers.FieldDuration, took).Msg("upload stored")

	return &models.BackupInfo{
		FileName:  fileName,
		SizeBytes: result.Size,
		CreatedAt: s.now().UTC(),
		Checksum:  hex.EncodeToString(hasher.Sum(nil)),
		Duration:  took,
	}, nil
}

// restore swaps the data directory for the content of backup. Callers must hold dataMu.
//
// Steps: stop the server if it runs, snapshot the current data, clear it, extract the backup,
// start the server again if it was running. A failed extraction puts the snapshot back.
func (s *backupService) restore(ctx context.Context, backup *models.BackupInfo) (*models.LoadResult, error) {
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldBackup, backup.FileName).Logger()
	startedAt := time.Now()

	archivePath, err := s.storage.Path(backup.FileName)
	if err != nil {
		return nil, errInternalStorageFailed(err)
	}

	status, err := s.containers.Status(ctx)
	if err != nil {
		return nil, err
	}
	wasRunning := status.Running
	if wasRunning {
		logger.Info().Msg("stopping server before restore")
		if _, err := s.containers.Stop(ctx); err != nil {
			return nil, err
		}
	}

	result := &models.LoadResult{Restored: *backup}

	snapshot, err := s.snapshotDataDir(ctx)
	if err != nil {
		s.restartIfNeeded(ctx, wasRunning)
		return nil, err
	}
	if snapshot != nil {
		result.Snapshot = *snapshot
	}

	if err := archives.ClearDir(s.dataDir); err != nil {
		s.restartIfNeeded(ctx, wasRunning)
		return nil, errInternalRestoreFailed(err)
	}

	stats, extractErr := archives.Extract(ctx, archivePath, s.dataDir)
	if extractErr != nil {
		logger.Error().Err(extractErr).Msg("extraction failed, putting snapshot back")
		s.rollback(ctx, snapshot)
		s.restartIfNeeded(ctx, wasRunning)
		switch {
		case errors.Is(extractErr, archives.ErrUnsafePath):
			return nil, errUnsafeArchive(extractErr)
		case errors.Is(extractErr, archives.ErrInvalidArchive):
			return nil, errInvalidArchive(extractErr)
		default:
			return nil, errInternalRestoreFailed(extractErr)
		}
	}
	result.RestoredFiles = stats.Files

	if wasRunning {
		logger.Info().Msg("starting server after restore")
		if _, err := s.containers.Start(ctx); err != nil {
			return nil, err
		}
		result.ContainerRestarted = true
	}

	result.Duration = time.Since(startedAt)
	details := map[string]string{}
	if snapshot != nil {
		details["snapshot"] = snapshot.FileName
	}
	s.recordHistory(ctx, models.OperationLoad, backup, details)

	logger.Info().
		Int("files", stats.Files).
		Int64(loggers.FieldBytes, stats.Bytes).
		Dur(loggers.FieldDuration, result.Duration).
		Msg("backup restored")
	return result, nil
}

// snapshotDataDir archives the current data directory. It returns nil when there is nothing to keep.
func (s *backupService) snapshotDataDir(ctx context.Context) (*models.BackupInfo, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errInternalArchiveFailed(err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	snapshot, err := s.archiveDataDir(ctx, s.snapshotPrefix)
	if err != nil {
		return nil, err
	}
	s.recordHistory(ctx, models.OperationSnapshot, snapshot, nil)
	loggers.Ctx(ctx).Info().Str("snapshot", snapshot.FileName).Msg("data directory snapshot taken")
	return snapshot, nil
}

func (s *backupService) rollback(ctx context.Context, snapshot *models.BackupInfo) {
	logger := loggers.Ctx(ctx)
	if err := archives.ClearDir(s.dataDir); err != nil {
		logger.Error().Err(err).Msg("failed to clear data directory for rollback")
		return
	}
	if snapshot == nil {
		return
	}
	path, err := s.storage.Path(snapshot.FileName)
	if err == nil {
		// restore even when the request was cancelled
		_, err = archives.Extract(context.WithoutCancel(ctx), path, s.dataDir)
	}
	if err != nil {
		logger.Error().Err(err).Str("snapshot", snapshot.FileName).Msg("failed to put snapshot back")
	}
}

func (s *backupService) restartIfNeeded(ctx context.Context, wasRunning bool) {
	if !wasRunning {
		return
	}
	if _, err := s.containers.Start(context.WithoutCancel(ctx)); err != nil {
		loggers.Ctx(ctx).Error().Err(err).Msg("failed to restart server")
	}
}

func (s *backupService) History(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, errInternalHistoryFailed(err)
	}
	return entries, nil
}

func (s *backupService) FileHistory(ctx context.Context, fileName string) ([]*models.HistoryEntry, error) {
	if !models.IsBackupFileName(fileName) {
		return nil, errInvalidName(fileName)
	}
	entries, err := s.history.ForFile(ctx, fileName)
	if err != nil {
		return nil, errInternalHistoryFailed(err)
	}
	return entries, nil
}

// recordHistory never fails the operation it describes.
func (s *backupService) recordHistory(ctx context.Context, op models.HistoryOperation, info *models.BackupInfo, details map[string]string) {
	actor := actors.FromContext(ctx)
	entry := &models.HistoryEntry{
		Operation: op,
		FileName:  info.FileName,
		SizeBytes: info.SizeBytes,
		Checksum:  info.Checksum,
		Actor:     actor.Name,
		Client:    actor.Client,
		Duration:  info.Duration,
		Details:   details,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		loggers.Ctx(ctx).Warn().Err(err).Str(loggers.FieldBackup, info.FileName).Msg("failed to record backup history")
	}
}
