package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the webhook inbox.
type Metrics struct {
	// SourceCounts maps source name to the number of stored records
	SourceCounts map[string]int64 `json:"source_counts"`

	// StatusCounts maps status name to count of records in that status
	StatusCounts map[string]int64 `json:"status_counts"`

	// Throughput represents records received per time window
	Throughput ThroughputMetrics `json:"throughput"`

	// TotalRecords is the total number of stored records
	TotalRecords int64 `json:"total_records"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// ThroughputMetrics represents records received over different time windows.
type ThroughputMetrics struct {
	// LastMinute is records received in the last 1 minute
	LastMinute int64 `json:"last_minute"`

	// LastFiveMinutes is records received in the last 5 minutes
	LastFiveMinutes int64 `json:"last_five_minutes"`

	// LastFifteenMinutes is records received in the last 15 minutes
	LastFifteenMinutes int64 `json:"last_fifteen_minutes"`
}

// Collector defines the interface for collecting metrics from the inbox.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetSourceCounts returns the number of stored records per source
	GetSourceCounts(ctx context.Context) (map[string]int64, error)

	// GetStatusCounts returns the count of records by status
	GetStatusCounts(ctx context.Context) (map[string]int64, error)

	// GetThroughput returns records received over time windows
	GetThroughput(ctx context.Context) (ThroughputMetrics, error)

	// GetTotalRecords returns the total number of stored records
	GetTotalRecords(ctx context.Context) (int64, error)
}
