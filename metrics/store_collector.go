package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-logger/webhook"
)

// StoreCollector implements the Collector interface over a record store
type StoreCollector struct {
	reader webhook.Reader
	now    func() time.Time
}

// NewStoreCollector creates a collector backed by the record store
func NewStoreCollector(reader webhook.Reader) *StoreCollector {
	return &StoreCollector{
		reader: reader,
		now:    time.Now,
	}
}

// Collect gathers all metrics from the store in one listing pass
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	records, err := c.reader.ListAll(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("listing records: %w", err)
	}

	return Metrics{
		SourceCounts: sourceCounts(records),
		StatusCounts: statusCounts(records),
		Throughput:   throughput(records, c.now()),
		TotalRecords: int64(len(records)),
		Timestamp:    c.now(),
	}, nil
}

// GetSourceCounts returns record counts grouped by source
func (c *StoreCollector) GetSourceCounts(ctx context.Context) (map[string]int64, error) {
	records, err := c.reader.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return sourceCounts(records), nil
}

// GetStatusCounts returns record counts grouped by status
func (c *StoreCollector) GetStatusCounts(ctx context.Context) (map[string]int64, error) {
	records, err := c.reader.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return statusCounts(records), nil
}

// GetThroughput returns records received over the standard time windows
func (c *StoreCollector) GetThroughput(ctx context.Context) (ThroughputMetrics, error) {
	records, err := c.reader.ListAll(ctx)
	if err != nil {
		return ThroughputMetrics{}, fmt.Errorf("listing records: %w", err)
	}
	return throughput(records, c.now()), nil
}

// GetTotalRecords returns the total number of stored records
func (c *StoreCollector) GetTotalRecords(ctx context.Context) (int64, error) {
	records, err := c.reader.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}
	return int64(len(records)), nil
}

func sourceCounts(records []webhook.Record) map[string]int64 {
	counts := make(map[string]int64)
	for _, rec := range records {
		counts[rec.Source]++
	}
	return counts
}

func statusCounts(records []webhook.Record) map[string]int64 {
	counts := map[string]int64{
		"received": 0,
	}
	for _, rec := range records {
		counts[rec.Status.String()]++
	}
	return counts
}

func throughput(records []webhook.Record, now time.Time) ThroughputMetrics {
	var t ThroughputMetrics
	for _, rec := range records {
		age := now.Sub(rec.Timestamp)
		if age <= time.Minute {
			t.LastMinute++
		}
		if age <= 5*time.Minute {
			t.LastFiveMinutes++
		}
		if age <= 15*time.Minute {
			t.LastFifteenMinutes++
		}
	}
	return t
}
