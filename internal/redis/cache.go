package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusCache caches registration payment/ticket status for the status
// endpoint. The reconciliation engine invalidates entries on every
// transition, so a stale read lasts at most the TTL.
type StatusCache struct {
	client *redis.Client
}

// NewStatusCache creates a new StatusCache.
func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

// StatusCacheTTL bounds staleness between a transition and its invalidation.
const StatusCacheTTL = 30 * time.Second

const statusCachePrefix = "cache:registration:"

// CachedStatus represents a cached registration status.
type CachedStatus struct {
	RegistrationID   string `json:"registration_id"`
	PaymentStatus    string `json:"payment_status"`
	TicketStatus     string `json:"ticket_status"`
	PaymentReference string `json:"payment_reference"`
}

// GetStatus retrieves a registration status from cache.
func (s *StatusCache) GetStatus(ctx context.Context, registrationID string) (*CachedStatus, error) {
	key := statusCachePrefix + registrationID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var status CachedStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetStatus stores a registration status in cache.
func (s *StatusCache) SetStatus(ctx context.Context, status *CachedStatus) error {
	key := statusCachePrefix + status.RegistrationID
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, StatusCacheTTL).Err()
}

// InvalidateStatus removes a registration status from cache.
func (s *StatusCache) InvalidateStatus(ctx context.Context, registrationID string) error {
	key := statusCachePrefix + registrationID
	return s.client.Del(ctx, key).Err()
}
