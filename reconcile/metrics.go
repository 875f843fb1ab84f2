package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	acceptedSnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posesync_accepted_snapshots_total",
		Help: "Total number of snapshots accepted by reconcilers",
	})

	staleSnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posesync_stale_snapshots_total",
		Help: "Total number of snapshots dropped for arriving out of order or duplicated",
	})

	warps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posesync_warps_total",
		Help: "Total number of unsmoothed pose corrections",
	})

	evictedSnapshots = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posesync_evicted_snapshots_total",
		Help: "Total number of snapshots evicted from interpolation buffers",
	})

	bufferLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posesync_buffer_length",
		Help:    "Number of buffered snapshots after each accepted update",
		Buckets: prometheus.LinearBuckets(0, 2, 12),
	})
)
