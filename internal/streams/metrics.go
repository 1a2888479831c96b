package streams

import (
	"server-runner/internal/shared/metrics"
)

var (
	streamBackupCreated = "backup_created"

	metricBackupCreatedProducedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "backup_created_published_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)

	metricBackupCreatedConsumedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubStream,
			Name:      "backup_created_consumed_total",
		},
		[]string{"stream_id", metrics.FieldErrorCode},
	)
)
