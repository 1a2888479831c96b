package backups

import (
	"server-runner/internal/shared/metrics"
	"server-runner/internal/shared/svcerrors"
)

const labelOperation = "operation"

var (
	metricOperationTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBackup,
			Name:      "operation_total",
		},
		[]string{labelOperation, metrics.FieldErrorCode},
	)

	metricOperationDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBackup,
			Name:      "operation_duration_seconds",
			Buckets:   metrics.TransferBuckets,
		},
		[]string{labelOperation},
	)

	metricArchiveBytes = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubBackup,
			Name:      "archive_size_bytes",
			// 1 MiB .. 4 GiB
			Buckets: []float64{1 << 20, 16 << 20, 64 << 20, 256 << 20, 1 << 30, 4 << 30},
		},
		[]string{labelOperation},
	)
)

func observeOperation(operation string, err error) {
	code := metrics.ValueNoError
	if err != nil {
		code = svcerrors.NewInternalErrorUndefined(err).Code
		if svcErr, ok := svcerrors.AsServiceError(err); ok {
			code = svcErr.Code
		}
	}
	metricOperationTotal.WithLabelValues(operation, code).Inc()
}
