package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"server-runner/internal/events"
	"server-runner/internal/shared/actors"
	"server-runner/internal/shared/loggers"
	"server-runner/internal/shared/metrics"
	"server-runner/internal/shared/svcerrors"
	"server-runner/internal/shared/ulid"
	"server-runner/internal/syncs"
)

const autoUploadClient = "auto-upload"

//go:generate mockgen -source=backup_upload_consumer.go -destination=./mocks/backup_upload_consumer_mock.go -package=mocks
type BackupUploadConsumer interface {
	Start(ctx context.Context)
	Stop()
}

type backupUploadConsumer struct {
	queue       *PartitionedQueue[events.BackupCreatedEvent]
	syncService syncs.SyncService

	wg sync.WaitGroup

	logger loggers.Logger
}

func NewBackupUploadConsumer(queue *PartitionedQueue[events.BackupCreatedEvent], syncService syncs.SyncService, logger loggers.Logger) BackupUploadConsumer {
	return &backupUploadConsumer{
		queue:       queue,
		syncService: syncService,
		logger:      logger,
	}
}

// Start spawns 1 worker goroutine per partition.
func (consumer *backupUploadConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		partitionIndex := partitionIndex
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func() {
			defer consumer.wg.Done()

			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}()
	}
}

// Stop closes the queue and waits until the workers have uploaded every buffered event.
// Cancel the Start ctx to give up on the rest.
func (consumer *backupUploadConsumer) Stop() {
	consumer.queue.Close()
	consumer.wg.Wait()
}

func (consumer *backupUploadConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan events.BackupCreatedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			consumer.handle(ctx, partitionIndex, event)
		}
	}
}

func (consumer *backupUploadConsumer) handle(ctx context.Context, partitionIndex int, event events.BackupCreatedEvent) {
	ctx = consumer.logger.With().
		Str(loggers.FieldPartitionId, fmt.Sprintf("%d", partitionIndex)).
		Str(loggers.FieldRequestID, ulid.NewULID()).
		Str(loggers.FieldBackup, event.FileName).
		Logger().WithContext(ctx)
	ctx = actors.WithActor(ctx, actors.Actor{Name: event.Actor, Client: autoUploadClient})

	// keep the worker alive if an upload panics
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("consumer panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}

			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricBackupCreatedConsumedTotal.WithLabelValues(streamBackupCreated, svcErr.Code).Inc()
		}
	}()

	record, err := consumer.syncService.Upload(ctx, event.FileName)
	if err != nil {
		code := svcerrors.NewInternalErrorUndefined(err).Code
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			code = svcErr.Code
		}
		loggers.Ctx(ctx).Error().Err(err).Str(loggers.FieldErrorCode, code).Msg("auto-upload failed")
		metricBackupCreatedConsumedTotal.WithLabelValues(streamBackupCreated, code).Inc()
		return
	}

	loggers.Ctx(ctx).Info().Bool("skipped", record.Skipped).Msg("auto-upload finished")
	metricBackupCreatedConsumedTotal.WithLabelValues(streamBackupCreated, metrics.ValueNoError).Inc()
}
