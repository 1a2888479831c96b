package streams

import (
	"context"

	"server-runner/internal/events"
	"server-runner/internal/shared/metrics"
)

const codeQueueUnavailable = "STR_9000"

// BackupUploadProducer hands new backups to the auto-upload workers.
//
// The partition key is the backup base name, so archives of the same world are uploaded
// in creation order while different worlds upload in parallel.
//
//go:generate mockgen -source=backup_upload_producer.go -destination=./mocks/backup_upload_producer_mock.go -package=mocks
type BackupUploadProducer interface {
	Produce(ctx context.Context, event *events.BackupCreatedEvent) error
}

type backupUploadProducer struct {
	queue *PartitionedQueue[events.BackupCreatedEvent]
}

func NewBackupUploadProducer(queue *PartitionedQueue[events.BackupCreatedEvent]) BackupUploadProducer {
	return &backupUploadProducer{
		queue: queue,
	}
}

func (producer *backupUploadProducer) Produce(ctx context.Context, event *events.BackupCreatedEvent) error {
	if err := producer.queue.Publish(ctx, partitionKey(event.FileName), *event); err != nil {
		metricBackupCreatedProducedTotal.WithLabelValues(streamBackupCreated, codeQueueUnavailable).Inc()
		return err
	}
	metricBackupCreatedProducedTotal.WithLabelValues(streamBackupCreated, metrics.ValueNoError).Inc()
	return nil
}

// partitionKey strips the "_YYYYMMDD_HHMMSS.zip" suffix.
func partitionKey(fileName string) string {
	const suffixLen = len("_20060102_150405.zip")
	if len(fileName) > suffixLen {
		return fileName[:len(fileName)-suffixLen]
	}
	return fileName
}

type nopBackupUploadProducer struct{}

// NewNopBackupUploadProducer is used when auto-upload is off.
func NewNopBackupUploadProducer() BackupUploadProducer {
	return nopBackupUploadProducer{}
}

func (nopBackupUploadProducer) Produce(context.Context, *events.BackupCreatedEvent) error {
	return nil
}
