package serverlogs

import (
	"server-runner/internal/shared/metrics"
)

var metricActiveFollowers = metrics.NewGauge(
	metrics.GaugeOpts{
		Namespace: metrics.Namespace,
		Subsystem: metrics.SubLogs,
		Name:      "active_followers",
	},
)
