package containers

import (
	"server-runner/internal/shared/metrics"
	"server-runner/internal/shared/svcerrors"
)

const (
	labelOperation = "operation"

	operationStart = "start"
	operationStop  = "stop"
)

var (
	metricOperationTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubContainer,
			Name:      "operation_total",
		},
		[]string{labelOperation, metrics.FieldErrorCode},
	)

	metricOperationDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubContainer,
			Name:      "operation_duration_seconds",
			Buckets:   metrics.TransferBuckets,
		},
		[]string{labelOperation},
	)
)

func observeOperation(operation string, err error) {
	code := metrics.ValueNoError
	if svcErr, ok := svcerrors.AsServiceError(err); ok {
		code = svcErr.Code
	}
	metricOperationTotal.WithLabelValues(operation, code).Inc()
}
