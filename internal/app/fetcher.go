package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

const primaryCacheKey = "hostaway:reviews"

const (
	ReasonError = "error"
	ReasonEmpty = "empty"
)

// PrimaryResult is always usable: Fallback marks that Reviews is the sample set.
type PrimaryResult struct {
	Reviews  []domain.RawReview
	Fallback bool
	Reason   string
}

type SecondaryResult struct {
	Reviews  []domain.GoogleReview
	Fallback bool
	Reason   string
}

// Fetcher wraps the upstream clients and never fails: any upstream problem is
// replaced by fixed sample data, logged and counted.
type Fetcher struct {
	primary   domain.PrimaryClient
	secondary domain.SecondaryClient
	cache     domain.Cache // optional
	cacheTTL  time.Duration
	now       func() time.Time
	loadLimit time.Duration

	sf singleflight.Group
}

type FetcherOption func(*Fetcher)

// WithCache stores live primary payloads for ttl. A nil cache disables caching.
func WithCache(c domain.Cache, ttl time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// WithLoadTimeout bounds a shared primary load. The load is detached from the
// caller that started it, so this is its only deadline besides the client's own.
func WithLoadTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.loadLimit = d }
}

func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(p domain.PrimaryClient, s domain.SecondaryClient, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{primary: p, secondary: s, now: time.Now, loadLimit: 30 * time.Second}
	for _, o := range opts {
		o(f)
	}
	return f
}

func (f *Fetcher) Now() time.Time { return f.now() }

func (f *Fetcher) FetchPrimaryReviews(ctx context.Context) PrimaryResult {
	if f.cache != nil {
		var cached []domain.RawReview
		ok, err := f.cache.Get(ctx, primaryCacheKey, &cached)
		if err != nil {
			observability.ObserveCache("hostaway", "error")
			log.Warn().Err(err).Str("key", primaryCacheKey).Msg("cache read failed")
		} else if ok && len(cached) > 0 {
			return PrimaryResult{Reviews: cached}
		}
	}

	// Other callers may be waiting on this load; one of them going away must not
	// turn everyone's result into a fallback.
	v, _, _ := f.sf.Do(primaryCacheKey, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.loadLimit)
		defer cancel()
		return f.loadPrimary(lctx), nil
	})
	res := v.(PrimaryResult)

	// Each caller gets its own slice; the collapsed result is shared.
	out := make([]domain.RawReview, len(res.Reviews))
	copy(out, res.Reviews)
	res.Reviews = out
	return res
}

func (f *Fetcher) loadPrimary(ctx context.Context) PrimaryResult {
	payload, err := f.primary.FetchReviews(ctx)
	if err != nil {
		observability.ObserveFallback("hostaway", ReasonError)
		log.Warn().Err(err).Msg("hostaway fetch failed, serving fallback reviews")
		return PrimaryResult{Reviews: fallbackHostaway(), Fallback: true, Reason: ReasonError}
	}

	reviews := mapRawReviews(payload)
	if len(reviews) == 0 {
		observability.ObserveFallback("hostaway", ReasonEmpty)
		log.Warn().Int("payload", len(payload)).Msg("hostaway returned no reviews, serving fallback reviews")
		return PrimaryResult{Reviews: fallbackHostaway(), Fallback: true, Reason: ReasonEmpty}
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, primaryCacheKey, reviews, f.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", primaryCacheKey).Msg("cache write failed")
		}
	}
	return PrimaryResult{Reviews: reviews}
}

// InvalidatePrimary drops the cached primary payload, if any.
func (f *Fetcher) InvalidatePrimary(ctx context.Context) error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Del(ctx, primaryCacheKey)
}

func (f *Fetcher) FetchSecondaryReviews(ctx context.Context, locationID string) SecondaryResult {
	reviews, err := f.secondary.FetchReviews(ctx, locationID)
	if err != nil {
		log.Warn().Err(err).Str("location_id", locationID).Msg("google fetch failed, serving sample reviews")
		observability.ObserveFallback("google", ReasonError)
		return SecondaryResult{Reviews: fallbackGoogle(f.now()), Fallback: true, Reason: ReasonError}
	}
	return SecondaryResult{Reviews: reviews}
}
