package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func TestFetchPrimary_NetworkErrorServesFallback(t *testing.T) {
	f := app.NewFetcher(&fakePrimary{err: errUpstream}, &fakeSecondary{})

	res := f.FetchPrimaryReviews(context.Background())
	if !res.Fallback || res.Reason != app.ReasonError {
		t.Fatalf("expected error fallback, got %+v", res)
	}
	if len(res.Reviews) != 7 {
		t.Fatalf("expected 7 fallback reviews, got %d", len(res.Reviews))
	}
	for i, r := range res.Reviews {
		if r.ID != int64(7453+i) {
			t.Fatalf("fallback[%d] id = %d", i, r.ID)
		}
	}
	if res.Reviews[0].Rating != nil || res.Reviews[0].GuestName != "Shane Finkelstein" {
		t.Fatalf("unexpected first fallback review: %+v", res.Reviews[0])
	}
	if res.Reviews[3].Status != "draft" {
		t.Fatalf("7456 should be a draft")
	}
}

func TestFetchPrimary_EmptyListServesFallback(t *testing.T) {
	f := app.NewFetcher(&fakePrimary{payload: []map[string]any{}}, &fakeSecondary{})

	res := f.FetchPrimaryReviews(context.Background())
	if !res.Fallback || res.Reason != app.ReasonEmpty || len(res.Reviews) != 7 {
		t.Fatalf("expected empty fallback, got %+v", res)
	}
}

func TestFetchPrimary_FallbackIsFreshEachCall(t *testing.T) {
	f := app.NewFetcher(&fakePrimary{err: errUpstream}, &fakeSecondary{})

	first := f.FetchPrimaryReviews(context.Background())
	first.Reviews[0].GuestName = "changed"
	second := f.FetchPrimaryReviews(context.Background())
	if second.Reviews[0].GuestName != "Shane Finkelstein" {
		t.Fatalf("fallback data leaked between calls")
	}
}

func TestFetchPrimary_MapsLoosePayload(t *testing.T) {
	p := &fakePrimary{payload: []map[string]any{
		{
			"id": float64(101), "type": "guest-to-host", "status": "published",
			"rating": "8,5", "publicReview": "Nice",
			"reviewCategory": []any{
				map[string]any{"category": "cleanliness", "rating": float64(9)},
				"junk",
			},
			"submittedAt": "2025-10-01 10:30:00", "guestName": "Ana", "listingName": "Loft",
		},
		{"id": "102", "rating": nil, "submitted_at": float64(1759314600), "guest": map[string]any{"name": "Bo"}},
		{"guestName": "no id"},
	}}
	f := app.NewFetcher(p, &fakeSecondary{})

	res := f.FetchPrimaryReviews(context.Background())
	if res.Fallback {
		t.Fatalf("live payload should not fall back")
	}
	if len(res.Reviews) != 2 {
		t.Fatalf("expected 2 mapped reviews, got %d", len(res.Reviews))
	}
	a, b := res.Reviews[0], res.Reviews[1]
	if a.ID != 101 || a.Rating == nil || *a.Rating != 8.5 || a.PublicReview != "Nice" || a.ListingName != "Loft" {
		t.Fatalf("unexpected first review: %+v", a)
	}
	if len(a.ReviewCategory) != 1 || a.ReviewCategory[0].Category != "cleanliness" {
		t.Fatalf("unexpected categories: %+v", a.ReviewCategory)
	}
	if b.ID != 102 || b.Rating != nil || b.GuestName != "Bo" {
		t.Fatalf("unexpected second review: %+v", b)
	}
	if b.SubmittedAt != "2025-10-01T10:30:00Z" {
		t.Fatalf("epoch submittedAt not converted: %q", b.SubmittedAt)
	}
	if b.ReviewCategory == nil {
		t.Fatalf("categories must default to an empty list")
	}
}

func TestFetchPrimary_CachesLivePayload(t *testing.T) {
	p := &fakePrimary{payload: []map[string]any{{"id": float64(1), "guestName": "Ana"}}}
	cache := &fakeCache{}
	f := app.NewFetcher(p, &fakeSecondary{}, app.WithCache(cache, 5*time.Minute))

	for i := 0; i < 3; i++ {
		res := f.FetchPrimaryReviews(context.Background())
		if res.Fallback || len(res.Reviews) != 1 || res.Reviews[0].GuestName != "Ana" {
			t.Fatalf("call %d: unexpected result %+v", i, res)
		}
	}
	if p.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", p.calls)
	}
	if cache.ttl != 5*time.Minute {
		t.Fatalf("ttl not passed through: %v", cache.ttl)
	}

	if err := f.InvalidatePrimary(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_ = f.FetchPrimaryReviews(context.Background())
	if p.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", p.calls)
	}
}

func TestFetchPrimary_FallbackIsNotCached(t *testing.T) {
	p := &fakePrimary{err: errUpstream}
	cache := &fakeCache{}
	f := app.NewFetcher(p, &fakeSecondary{}, app.WithCache(cache, time.Minute))

	_ = f.FetchPrimaryReviews(context.Background())
	_ = f.FetchPrimaryReviews(context.Background())
	if p.calls != 2 {
		t.Fatalf("fallback must not be cached; upstream calls = %d", p.calls)
	}
	if len(cache.store) != 0 {
		t.Fatalf("cache should be empty, has %d keys", len(cache.store))
	}
}

func TestFetchSecondary_ErrorServesSamplesRelativeToClock(t *testing.T) {
	sec := &fakeSecondary{err: domain.ErrLiveLookupDisabled}
	f := app.NewFetcher(&fakePrimary{}, sec, app.WithClock(clock))

	res := f.FetchSecondaryReviews(context.Background(), "place-1")
	if sec.lastLoc != "place-1" {
		t.Fatalf("location not forwarded: %q", sec.lastLoc)
	}
	if !res.Fallback || len(res.Reviews) != 5 {
		t.Fatalf("expected 5 sample reviews, got %+v", res)
	}
	for i, g := range res.Reviews {
		want := fixedNow.Add(-time.Duration(i+1) * 24 * time.Hour).Unix()
		if g.Time != want {
			t.Fatalf("sample %d time = %d, want %d", i, g.Time, want)
		}
	}
	if res.Reviews[0].AuthorName != "Sarah M." || res.Reviews[0].Rating != 4.5 {
		t.Fatalf("unexpected first sample: %+v", res.Reviews[0])
	}
}

func TestFetchSecondary_LiveReviewsPassThrough(t *testing.T) {
	live := []domain.GoogleReview{{AuthorName: "Zed", Rating: 3, Time: 1}}
	f := app.NewFetcher(&fakePrimary{}, &fakeSecondary{reviews: live})

	res := f.FetchSecondaryReviews(context.Background(), "x")
	if res.Fallback || len(res.Reviews) != 1 || res.Reviews[0].AuthorName != "Zed" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFetchSecondary_NeverSurfacesErrors(t *testing.T) {
	f := app.NewFetcher(&fakePrimary{}, &fakeSecondary{err: errors.New("boom")})
	if res := f.FetchSecondaryReviews(context.Background(), ""); len(res.Reviews) == 0 {
		t.Fatalf("expected samples")
	}
}

// ctxPrimary fails the way an HTTP client does once its context is done.
type ctxPrimary struct{ payload []map[string]any }

func (c ctxPrimary) FetchReviews(ctx context.Context) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.payload, nil
}

func TestFetchPrimary_CanceledCallerDoesNotForceFallback(t *testing.T) {
	f := app.NewFetcher(ctxPrimary{payload: []map[string]any{{"id": float64(1)}}}, &fakeSecondary{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.FetchPrimaryReviews(ctx)
	if res.Fallback || len(res.Reviews) != 1 {
		t.Fatalf("shared load must outlive the caller, got %+v", res)
	}
}

func TestFetchPrimary_LoadTimeoutStillApplies(t *testing.T) {
	slow := &blockingPrimary{}
	f := app.NewFetcher(slow, &fakeSecondary{}, app.WithLoadTimeout(20*time.Millisecond))

	res := f.FetchPrimaryReviews(context.Background())
	if !res.Fallback || res.Reason != app.ReasonError {
		t.Fatalf("expected fallback after load timeout, got %+v", res)
	}
}

type blockingPrimary struct{}

func (blockingPrimary) FetchReviews(ctx context.Context) ([]map[string]any, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
