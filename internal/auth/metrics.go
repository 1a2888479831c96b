package auth

import (
	"server-runner/internal/shared/metrics"
)

var (
	metricLoginTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAuth,
			Name:      "login_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricTokenVerifiedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAuth,
			Name:      "token_verified_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
