package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error)
	ReleaseOrderLock(ctx context.Context, orderID string) error
}

// StatusCacheInterface defines the interface for the registration status cache.
type StatusCacheInterface interface {
	GetStatus(ctx context.Context, registrationID string) (*CachedStatus, error)
	SetStatus(ctx context.Context, status *CachedStatus) error
	InvalidateStatus(ctx context.Context, registrationID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface   = (*LockStore)(nil)
	_ StatusCacheInterface = (*StatusCache)(nil)
)
