package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"flex_reviews/internal/domain"
)

// ---- fakes ----

type fakePrimary struct {
	payload []map[string]any
	err     error
	calls   int32
}

func (f *fakePrimary) FetchReviews(ctx context.Context) ([]map[string]any, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.payload, f.err
}

type fakeSecondary struct {
	reviews []domain.GoogleReview
	err     error
	lastLoc string
}

func (f *fakeSecondary) FetchReviews(ctx context.Context, locationID string) ([]domain.GoogleReview, error) {
	f.lastLoc = locationID
	return f.reviews, f.err
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	ttl   time.Duration
	dels  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	c.ttl = ttl
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels++
	return nil
}

type fakeSelection struct {
	byLN map[string][]int64
	err  error
}

func (s *fakeSelection) Save(ctx context.Context, ln string, ids []int64) error {
	if s.err != nil {
		return s.err
	}
	if s.byLN == nil {
		s.byLN = map[string][]int64{}
	}
	s.byLN[ln] = ids
	return nil
}

func (s *fakeSelection) Get(ctx context.Context, ln string) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	if ids, ok := s.byLN[ln]; ok {
		return ids, nil
	}
	return []int64{}, nil
}

var errUpstream = errors.New("dial tcp: connection refused")

func clock() time.Time { return fixedNow }
