package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/webhook-logger/webhook"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of webhook.Repository
 * Uses Redis Hashes for record storage and a sorted set as the
 * recency index. Every member of the index shares score zero, so the
 * lexicographic member order (which equals chronological order, given
 * how record IDs are derived) drives newest-first listing.
 */

const (
	hashPrefix = "webhook"        // Hash naming: webhook:{record_id}
	indexKey   = "webhooks:index" // Sorted set of record IDs
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

// Append stores a record hash and indexes its ID for recency ordering
func (r *Repository) Append(ctx context.Context, rec webhook.Record) (string, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.ID == "" {
		rec.ID = webhook.NewID(rec.Timestamp)
	}

	headersJSON, err := json.Marshal(rec.Headers)
	if err != nil {
		return "", fmt.Errorf("marshaling headers: %w", err)
	}
	payloadJSON, err := json.Marshal(rec.Payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	fields := map[string]interface{}{
		"id":        rec.ID,
		"timestamp": rec.Timestamp.Format(time.RFC3339Nano),
		"source":    rec.Source,
		"headers":   string(headersJSON),
		"payload":   string(payloadJSON),
		"processed": strconv.FormatBool(rec.Processed),
		"status":    rec.Status.String(),
	}
	if rec.SignatureValid != nil {
		fields["signature_valid"] = strconv.FormatBool(*rec.SignatureValid)
	}

	hashKey := fmt.Sprintf("%s:%s", hashPrefix, rec.ID)
	if err := r.client.HSet(ctx, hashKey, fields).Err(); err != nil {
		return "", fmt.Errorf("storing webhook record: %w", err)
	}

	if err := r.client.ZAdd(ctx, indexKey, redis.Z{Score: 0, Member: rec.ID}).Err(); err != nil {
		return "", fmt.Errorf("indexing webhook record: %w", err)
	}

	return rec.ID, nil
}

// ListAll walks the recency index descending and loads each record
func (r *Repository) ListAll(ctx context.Context) ([]webhook.Record, error) {
	ids, err := r.client.ZRevRangeByLex(ctx, indexKey, &redis.ZRangeBy{
		Min: "-",
		Max: "+",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("reading webhook index: %w", err)
	}

	records := make([]webhook.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := r.get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading webhook %s: %w", id, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// get retrieves a single record hash by ID
func (r *Repository) get(ctx context.Context, id string) (webhook.Record, error) {
	hashKey := fmt.Sprintf("%s:%s", hashPrefix, id)

	data, err := r.client.HGetAll(ctx, hashKey).Result()
	if err != nil {
		return webhook.Record{}, fmt.Errorf("getting webhook record: %w", err)
	}
	if len(data) == 0 {
		return webhook.Record{}, fmt.Errorf("webhook record not found: %s", id)
	}

	timestamp, err := time.Parse(time.RFC3339Nano, data["timestamp"])
	if err != nil {
		return webhook.Record{}, fmt.Errorf("parsing timestamp: %w", err)
	}

	headers := make(map[string]string)
	if headersStr := data["headers"]; headersStr != "" {
		if err := json.Unmarshal([]byte(headersStr), &headers); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling headers: %w", err)
		}
	}

	var payloadValue any
	if payloadStr := data["payload"]; payloadStr != "" {
		if err := json.Unmarshal([]byte(payloadStr), &payloadValue); err != nil {
			return webhook.Record{}, fmt.Errorf("unmarshaling payload: %w", err)
		}
	}

	rec := webhook.Record{
		ID:        data["id"],
		Timestamp: timestamp,
		Source:    data["source"],
		Headers:   headers,
		Payload:   payloadValue,
		Processed: data["processed"] == "true",
		Status:    webhook.NewStatus(data["status"]),
	}
	if sv, ok := data["signature_valid"]; ok {
		valid := sv == "true"
		rec.SignatureValid = &valid
	}

	return rec, nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}
