// Package database also provides the Redis-backed hedge registry. The
// registry records tickers that were hedged in recent runs so that a
// portfolio-scanned position (which has no database row) is not hedged twice
// while the sell order is still settling.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys for hedge tracking
const (
	// HedgedKeyPrefix is the prefix for hedged ticker records
	// Format: hedgebot:hedged:{ticker}
	HedgedKeyPrefix = "hedgebot:hedged"

	// HedgedListKey is the key for the set of all hedged ticker keys
	HedgedListKey = "hedgebot:hedged:list"

	// DefaultHedgeTTL is how long a hedged ticker stays excluded (7 days)
	DefaultHedgeTTL = 7 * 24 * time.Hour
)

// HedgeRecord stores information about an executed hedge
type HedgeRecord struct {
	Ticker            string    `json:"ticker"`
	OrderID           string    `json:"order_id"`
	SoldQuantity      int64     `json:"sold_quantity"`
	RemainingQuantity int64     `json:"remaining_quantity"`
	SellPriceCents    int64     `json:"sell_price_cents"`
	HedgedAt          time.Time `json:"hedged_at"`
}

// HedgeRegistry tracks hedged tickers in Redis with TTL
type HedgeRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewHedgeRegistry creates a new HedgeRegistry. A nil client yields a
// registry that records nothing and excludes nothing (Redis is optional).
func NewHedgeRegistry(client *redis.Client, ttl time.Duration) *HedgeRegistry {
	if ttl <= 0 {
		ttl = DefaultHedgeTTL
	}
	return &HedgeRegistry{client: client, ttl: ttl}
}

// Record marks a ticker as hedged
func (r *HedgeRegistry) Record(ctx context.Context, ticker, orderID string, sold, remaining, priceCents int64) error {
	if r.client == nil {
		return nil
	}

	record := HedgeRecord{
		Ticker:            ticker,
		OrderID:           orderID,
		SoldQuantity:      sold,
		RemainingQuantity: remaining,
		SellPriceCents:    priceCents,
		HedgedAt:          time.Now(),
	}
	key := fmt.Sprintf("%s:%s", HedgedKeyPrefix, ticker)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal hedge record: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store hedge record in Redis: %w", err)
	}

	if err := r.client.SAdd(ctx, HedgedListKey, key).Err(); err != nil {
		log.Printf("[HEDGE-REGISTRY] Warning: Failed to add %s to hedged list: %v", record.Ticker, err)
	}

	log.Printf("[HEDGE-REGISTRY] Recorded hedge for %s (sold %d, %d remaining)",
		record.Ticker, record.SoldQuantity, record.RemainingQuantity)
	return nil
}

// IsHedged reports whether a ticker was hedged within the TTL window.
// Registry errors are reported to the caller; an unreachable Redis must not
// silently allow a duplicate hedge decision to go unlogged.
func (r *HedgeRegistry) IsHedged(ctx context.Context, ticker string) (bool, error) {
	if r.client == nil {
		return false, nil
	}

	key := fmt.Sprintf("%s:%s", HedgedKeyPrefix, ticker)

	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to check hedge registry: %w", err)
	}

	return true, nil
}

// GetHedged returns all hedge records still within the TTL window
func (r *HedgeRegistry) GetHedged(ctx context.Context) ([]HedgeRecord, error) {
	if r.client == nil {
		return nil, nil
	}

	keys, err := r.client.SMembers(ctx, HedgedListKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get hedged keys: %w", err)
	}

	var records []HedgeRecord
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Result()
		if err == redis.Nil {
			// Expired, drop from the index set
			r.client.SRem(ctx, HedgedListKey, key)
			continue
		} else if err != nil {
			log.Printf("[HEDGE-REGISTRY] Warning: Failed to get record for %s: %v", key, err)
			continue
		}

		var record HedgeRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			log.Printf("[HEDGE-REGISTRY] Warning: Failed to unmarshal record for %s: %v", key, err)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
