package syncs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"server-runner/internal/models"
	"server-runner/internal/shared/actors"
	"server-runner/internal/shared/configs"
	"server-runner/internal/shared/filestorages"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/metrics"
	"server-runner/internal/shared/objectstores"
	"server-runner/internal/stores"

	"github.com/juju/clock"
	"github.com/juju/retry"
)

const minRetryDelay = time.Millisecond

//go:generate mockgen -source=sync_service.go -destination=./mocks/sync_service_mock.go -package=mocks
type SyncService interface {
	// Sync mirrors the backups directory and the remote bucket in both directions.
	// Missing local archives are downloaded first, then missing remote ones are uploaded.
	Sync(ctx context.Context) ([]models.TransferRecord, error)
	// Upload copies one local backup to the bucket unless an object with that name exists.
	Upload(ctx context.Context, fileName string) (*models.TransferRecord, error)
}

type syncService struct {
	remote   objectstores.RemoteStore // nil when no provider is configured
	storage  filestorages.FileStorage
	history  stores.BackupHistoryStore
	attempts int
	delay    time.Duration
	clock    clock.Clock

	mu sync.Mutex
}

func NewSyncService(remote objectstores.RemoteStore, storage filestorages.FileStorage, history stores.BackupHistoryStore, cfg configs.SyncConfig) SyncService {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(cfg.RetryDelayMs) * time.Millisecond
	if delay < minRetryDelay {
		delay = minRetryDelay
	}
	return &syncService{
		remote:   remote,
		storage:  storage,
		history:  history,
		attempts: attempts,
		delay:    delay,
		clock:    clock.WallClock,
	}
}

func (s *syncService) Sync(ctx context.Context) ([]models.TransferRecord, error) {
	if s.remote == nil {
		return nil, errNotConfigured()
	}
	if !s.mu.TryLock() {
		return nil, errAlreadyRunning()
	}
	defer s.mu.Unlock()

	logger := loggers.Ctx(ctx).With().Str(loggers.FieldBucket, s.remote.Bucket()).Logger()
	startedAt := time.Now()

	var created bool
	err := s.withRetry(ctx, "ensure_bucket", func() error {
		var err error
		created, err = s.remote.EnsureBucket(ctx)
		return err
	})
	if err != nil {
		return nil, errInternalBucketFailed(err)
	}
	if created {
		logger.Info().Msg("created remote bucket")
	}

	var remoteObjects []objectstores.ObjectInfo
	err = s.withRetry(ctx, "list", func() error {
		var err error
		remoteObjects, err = s.remote.List(ctx)
		return err
	})
	if err != nil {
		return nil, errInternalListFailed(err)
	}

	localFiles, err := s.storage.List(ctx)
	if err != nil {
		return nil, errInternalListFailed(err)
	}

	toDownload, toUpload := diffBackups(localFiles, remoteObjects)
	logger.Info().
		Int("download_count", len(toDownload)).
		Int("upload_count", len(toUpload)).
		Msg("sync plan ready")

	records := make([]models.TransferRecord, 0, len(toDownload)+len(toUpload))
	for _, obj := range toDownload {
		record, err := s.download(ctx, obj.Key)
		if err != nil {
			return records, err
		}
		records = append(records, *record)
	}
	for _, file := range toUpload {
		record, err := s.upload(ctx, file.Key, file.Size)
		if err != nil {
			return records, err
		}
		records = append(records, *record)
	}

	logger.Info().
		Int("transfers", len(records)).
		Dur(loggers.FieldDuration, time.Since(startedAt)).
		Msg("sync finished")
	return records, nil
}

func (s *syncService) Upload(ctx context.Context, fileName string) (*models.TransferRecord, error) {
	if s.remote == nil {
		return nil, errNotConfigured()
	}
	if !models.IsBackupFileName(fileName) {
		return nil, errInvalidName(fileName)
	}

	info, err := s.storage.Stat(ctx, fileName)
	if err != nil {
		if errors.Is(err, filestorages.ErrFileNotFound) {
			return nil, errBackupNotFound(fileName, err)
		}
		return nil, errInternalTransferFailed("stat", fileName, err)
	}

	var exists bool
	err = s.withRetry(ctx, "exists", func() error {
		var err error
		exists, err = s.remote.Exists(ctx, fileName)
		return err
	})
	if err != nil {
		return nil, errInternalTransferFailed("exists", fileName, err)
	}
	if exists {
		loggers.Ctx(ctx).Info().Str(loggers.FieldBackup, fileName).Msg("backup already in bucket, skipping upload")
		record := models.NewUploadRecord(s.remote.Bucket(), fileName, info.Size, 0, time.Now())
		record.Skipped = true
		return &record, nil
	}

	return s.upload(ctx, fileName, info.Size)
}

func (s *syncService) upload(ctx context.Context, fileName string, size int64) (*models.TransferRecord, error) {
	direction := string(models.TransferUpload)
	startedAt := time.Now()

	err := s.withRetry(ctx, "upload", func() error {
		// reopened per attempt so a retry starts from the first byte
		rc, err := s.storage.Get(ctx, fileName)
		if err != nil {
			return err
		}
		defer rc.Close()
		return s.remote.Upload(ctx, fileName, rc, size)
	})
	if err != nil {
		svcErr := errInternalTransferFailed(direction, fileName, err)
		metricTransferTotal.WithLabelValues(direction, svcErr.Code).Inc()
		return nil, svcErr
	}

	took := time.Since(startedAt)
	record := models.NewUploadRecord(s.remote.Bucket(), fileName, size, took, time.Now())
	s.observe(ctx, record, models.OperationSyncUp, took)
	return &record, nil
}

func (s *syncService) download(ctx context.Context, fileName string) (*models.TransferRecord, error) {
	direction := string(models.TransferDownload)
	startedAt := time.Now()

	var written int64
	err := s.withRetry(ctx, "download", func() error {
		rc, _, err := s.remote.Open(ctx, fileName)
		if err != nil {
			return err
		}
		defer rc.Close()

		result, err := s.storage.Put(ctx, fileName, rc, filestorages.PutOptions{})
		if err != nil {
			return err
		}
		written = result.Size
		return nil
	})
	if err != nil {
		svcErr := errInternalTransferFailed(direction, fileName, err)
		metricTransferTotal.WithLabelValues(direction, svcErr.Code).Inc()
		return nil, svcErr
	}

	took := time.Since(startedAt)
	record := models.NewDownloadRecord(s.remote.Bucket(), fileName, written, took, time.Now())
	s.observe(ctx, record, models.OperationSyncDown, took)
	return &record, nil
}

func (s *syncService) observe(ctx context.Context, record models.TransferRecord, operation models.HistoryOperation, took time.Duration) {
	direction := string(record.Direction)
	metricTransferTotal.WithLabelValues(direction, metrics.ValueNoError).Inc()
	metricTransferBytesTotal.WithLabelValues(direction).Add(float64(record.SizeBytes))
	metricTransferDuration.WithLabelValues(direction).Observe(took.Seconds())

	logger := loggers.Ctx(ctx)
	logger.Info().
		Str(loggers.FieldBackup, record.FileName).
		Str("direction", direction).
		Int64(loggers.FieldBytes, record.SizeBytes).
		Dur(loggers.FieldDuration, took).
		Msg("backup transferred")

	actor := actors.FromContext(ctx)
	entry := &models.HistoryEntry{
		Operation: operation,
		FileName:  record.FileName,
		SizeBytes: record.SizeBytes,
		Actor:     actor.Name,
		Client:    actor.Client,
		Duration:  took,
		Details:   map[string]string{"bucket": record.Bucket},
	}
	if err := s.history.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Str(loggers.FieldBackup, record.FileName).Msg("failed to record sync history")
	}
}

// withRetry runs fn until it succeeds, fails with a fatal error or the attempts run out.
// The last underlying error is returned rather than the retry wrapper.
func (s *syncService) withRetry(ctx context.Context, step string, fn func() error) error {
	err := retry.Call(retry.CallArgs{
		Func:     fn,
		Attempts: s.attempts,
		Delay:    s.delay,
		Clock:    s.clock,
		Stop:     ctx.Done(),
		IsFatalError: func(err error) bool {
			return isFatal(ctx, err)
		},
		NotifyFunc: func(err error, attempt int) {
			metricSyncRetriesTotal.WithLabelValues(step).Inc()
			loggers.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Str("step", step).Msg("remote call failed")
		},
	})
	if err != nil {
		return retry.LastError(err)
	}
	return nil
}

func isFatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, objectstores.ErrObjectNotFound) ||
		errors.Is(err, filestorages.ErrFileNotFound) ||
		errors.Is(err, filestorages.ErrFileAlreadyExists)
}

// diffBackups returns the remote objects missing locally and the local files missing remotely.
// Names that are not backup file names are ignored on both sides. Both lists are sorted by name.
func diffBackups(local []filestorages.FileInfo, remote []objectstores.ObjectInfo) ([]objectstores.ObjectInfo, []filestorages.FileInfo) {
	localNames := make(map[string]struct{}, len(local))
	for _, f := range local {
		if models.IsBackupFileName(f.Key) {
			localNames[f.Key] = struct{}{}
		}
	}
	remoteNames := make(map[string]struct{}, len(remote))
	var toDownload []objectstores.ObjectInfo
	for _, obj := range remote {
		if !models.IsBackupFileName(obj.Key) {
			continue
		}
		remoteNames[obj.Key] = struct{}{}
		if _, ok := localNames[obj.Key]; !ok {
			toDownload = append(toDownload, obj)
		}
	}

	var toUpload []filestorages.FileInfo
	for _, f := range local {
		if !models.IsBackupFileName(f.Key) {
			continue
		}
		if _, ok := remoteNames[f.Key]; !ok {
			toUpload = append(toUpload, f)
		}
	}

	sort.Slice(toDownload, func(i, j int) bool { return toDownload[i].Key < toDownload[j].Key })
	sort.Slice(toUpload, func(i, j int) bool { return toUpload[i].Key < toUpload[j].Key })
	return toDownload, toUpload
}
