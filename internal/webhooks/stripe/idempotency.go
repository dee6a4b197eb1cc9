package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkvault/inkvault-backend/pkg/redis"
)

// IdempotencyGuard is a fast-path dedupe marker for webhook deliveries. A
// marker is written only after an event has been handled successfully, so
// its presence always means the work is done; a crash mid-handling leaves no
// marker and the gateway's retry reaches the ledger, whose unique index on
// gateway_event_id stays authoritative.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// Seen reports whether the event id has already been handled.
func (g *IdempotencyGuard) Seen(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	val, err := g.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get idempotency key: %w", err)
	}
	return val != "", nil
}

// Mark records the event id as handled. Call it only after the event's
// effects are durably committed.
func (g *IdempotencyGuard) Mark(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	if _, err := g.store.SetNX(ctx, key, "1", g.ttl); err != nil {
		return fmt.Errorf("set idempotency key: %w", err)
	}
	return nil
}
