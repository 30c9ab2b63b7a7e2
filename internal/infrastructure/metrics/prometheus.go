// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tunecache"

var (
	// CacheLookupsTotal tracks cache tier lookups.
	// Labels:
	//   - tier: memory, durable
	//   - status: hit, miss, error
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of cache tier lookups",
		},
		[]string{"tier", "status"},
	)

	// ResolutionsTotal tracks resolution outcomes.
	// Labels:
	//   - source: id, mapping, search
	//   - status: resolved, degraded, not_found, error
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Total number of resolution attempts",
		},
		[]string{"source", "status"},
	)

	// PipelineRunsTotal tracks fetch-and-publish pipeline outcomes.
	// Labels:
	//   - status: published, skipped, fetch_failed, upload_failed, persist_failed
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of fetch pipeline runs",
		},
		[]string{"status"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache tier constants.
const (
	TierMemory  = "memory"
	TierDurable = "durable"
)

// Cache lookup status constants.
const (
	CacheStatusHit   = "hit"
	CacheStatusMiss  = "miss"
	CacheStatusError = "error"
)

// Resolution source constants.
const (
	ResolveSourceID      = "id"
	ResolveSourceMapping = "mapping"
	ResolveSourceSearch  = "search"
)

// Resolution status constants.
const (
	ResolveStatusResolved = "resolved"
	ResolveStatusDegraded = "degraded"
	ResolveStatusNotFound = "not_found"
	ResolveStatusError    = "error"
)

// Pipeline status constants.
const (
	PipelinePublished     = "published"
	PipelineSkipped       = "skipped"
	PipelineFetchFailed   = "fetch_failed"
	PipelineUploadFailed  = "upload_failed"
	PipelinePersistFailed = "persist_failed"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
