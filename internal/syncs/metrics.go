package syncs

import (
	"server-runner/internal/shared/metrics"
)

const labelDirection = "direction"

var (
	metricTransferTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSync,
			Name:      "transfer_total",
		},
		[]string{labelDirection, metrics.FieldErrorCode},
	)

	metricTransferBytesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSync,
			Name:      "transfer_bytes_total",
		},
		[]string{labelDirection},
	)

	metricTransferDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSync,
			Name:      "transfer_duration_seconds",
			Buckets:   metrics.TransferBuckets,
		},
		[]string{labelDirection},
	)

	metricSyncRetriesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSync,
			Name:      "retries_total",
		},
		[]string{"step"},
	)
)
