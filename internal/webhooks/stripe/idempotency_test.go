package stripewebhook

import (
	"context"
	"testing"
	"time"
)

type stubIdempotencyStore struct {
	keys map[string]bool
}

func (s *stubIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	if s.keys[key] {
		return "1", nil
	}
	return "", nil
}

func (s *stubIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if s.keys == nil {
		s.keys = map[string]bool{}
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "iv:idempotency:" + scope + ":" + id
}

func (s *stubIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func TestIdempotencyGuardSeenOnlyAfterMark(t *testing.T) {
	store := &stubIdempotencyStore{}
	guard, err := NewIdempotencyGuard(store, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}
	ctx := context.Background()

	seen, err := guard.Seen(ctx, "evt_1")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if seen {
		t.Fatal("expected unmarked event to read as unseen")
	}

	if err := guard.Mark(ctx, "evt_1"); err != nil {
		t.Fatalf("mark: %v", err)
	}

	seen, err = guard.Seen(ctx, "evt_1")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !seen {
		t.Fatal("expected marked event to read as seen")
	}

	// Re-marking a delivered event is a no-op, not an error.
	if err := guard.Mark(ctx, "evt_1"); err != nil {
		t.Fatalf("second mark: %v", err)
	}
}

func TestIdempotencyGuardRequiresEventID(t *testing.T) {
	guard, err := NewIdempotencyGuard(&stubIdempotencyStore{}, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("setup guard: %v", err)
	}
	ctx := context.Background()

	if _, err := guard.Seen(ctx, ""); err == nil {
		t.Fatal("expected empty event id to be rejected")
	}
	if err := guard.Mark(ctx, ""); err == nil {
		t.Fatal("expected empty event id to be rejected")
	}
}
