package app_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func newServices(p *fakePrimary, s *fakeSecondary, sel *fakeSelection) (*app.QueryService, *app.CommandService) {
	f := app.NewFetcher(p, s, app.WithClock(clock))
	return app.NewQueryService(f, sel), app.NewCommandService(f, sel)
}

func TestAllReviews_PrimaryThenSecondary(t *testing.T) {
	q, _ := newServices(&fakePrimary{err: errUpstream}, &fakeSecondary{err: domain.ErrLiveLookupDisabled}, &fakeSelection{})

	res, err := q.AllReviews(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(res.Reviews) != 12 {
		t.Fatalf("expected 7+5 reviews, got %d", len(res.Reviews))
	}
	for i, r := range res.Reviews {
		want := domain.ChannelHostaway
		if i >= 7 {
			want = domain.ChannelGoogle
		}
		if r.Channel != want {
			t.Fatalf("review %d: channel %s, want %s", i, r.Channel, want)
		}
	}
	if res.Reviews[7].ID != 9000 {
		t.Fatalf("first google id = %d", res.Reviews[7].ID)
	}
	if !reflect.DeepEqual(res.Fallback, []domain.Channel{domain.ChannelHostaway, domain.ChannelGoogle}) {
		t.Fatalf("fallback sources: %v", res.Fallback)
	}
}

func TestHostawayReviews_BucketsFallbackAgainstClock(t *testing.T) {
	q, _ := newServices(&fakePrimary{err: errUpstream}, &fakeSecondary{}, &fakeSelection{})

	res, _ := q.HostawayReviews(context.Background())
	got := map[int64]domain.DateBucket{}
	for _, r := range res.Reviews {
		got[r.ID] = r.DateBucket
	}
	// clock is 2025-10-21 12:00 UTC
	if got[7453] != domain.BucketOlder || got[7456] != domain.BucketRecent || got[7457] != domain.BucketPastMonth {
		t.Fatalf("unexpected buckets: %v", got)
	}
}

func TestGoogleReviews_DefaultLocation(t *testing.T) {
	sec := &fakeSecondary{err: domain.ErrLiveLookupDisabled}
	q, _ := newServices(&fakePrimary{}, sec, &fakeSelection{})

	res, err := q.GoogleReviews(context.Background(), "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if sec.lastLoc != app.DefaultLocationID || len(res.Reviews) != 5 {
		t.Fatalf("loc=%q n=%d", sec.lastLoc, len(res.Reviews))
	}
}

func TestSelection_SaveAndRead(t *testing.T) {
	sel := &fakeSelection{}
	q, c := newServices(&fakePrimary{}, &fakeSecondary{}, sel)
	ctx := context.Background()

	if err := c.SaveSelection(ctx, "Loft", []int64{3, 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ids, err := q.Selection(ctx, "Loft")
	if err != nil || !reflect.DeepEqual(ids, []int64{3, 1}) {
		t.Fatalf("ids=%v err=%v", ids, err)
	}

	sel.err = errors.New("store down")
	if err := c.SaveSelection(ctx, "Loft", nil); err == nil {
		t.Fatalf("expected store error to surface")
	}
	if _, err := q.Selection(ctx, "Loft"); err == nil {
		t.Fatalf("expected store error to surface")
	}
}

func TestFeaturedReviews(t *testing.T) {
	const listing = "2B N1 A - 29 Shoreditch Heights"
	sel := &fakeSelection{byLN: map[string][]int64{
		// 7455 belongs to another listing; 9999 does not exist.
		listing: {7458, 7454, 7453, 7455, 9999},
	}}
	q, _ := newServices(&fakePrimary{err: errUpstream}, &fakeSecondary{}, sel)
	ctx := context.Background()

	all, err := q.FeaturedReviews(ctx, listing, "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(ids(all.Reviews), []int64{7453, 7454, 7458}) {
		t.Fatalf("all: %v", ids(all.Reviews))
	}

	pos, _ := q.FeaturedReviews(ctx, listing, app.TabPositive)
	if !reflect.DeepEqual(ids(pos.Reviews), []int64{7454}) {
		t.Fatalf("positive: %v", ids(pos.Reviews))
	}

	recent, _ := q.FeaturedReviews(ctx, listing, app.TabRecent)
	if !reflect.DeepEqual(ids(recent.Reviews), []int64{7454, 7458}) {
		t.Fatalf("recent: %v", ids(recent.Reviews))
	}

	if _, err := q.FeaturedReviews(ctx, listing, "best"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	none, _ := q.FeaturedReviews(ctx, "Unknown", "")
	if len(none.Reviews) != 0 {
		t.Fatalf("expected nothing for an unselected listing")
	}
}

func TestSearchAndStats(t *testing.T) {
	q, _ := newServices(&fakePrimary{err: errUpstream}, &fakeSecondary{err: domain.ErrLiveLookupDisabled}, &fakeSelection{})
	ctx := context.Background()

	res, err := q.Search(ctx, domain.Criteria{Channel: "hostaway", MinRating: ptr(8.0), SortBy: app.SortOverallRating})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !reflect.DeepEqual(ids(res.Reviews), []int64{7454, 7459}) {
		t.Fatalf("search: %v", ids(res.Reviews))
	}

	if _, err := q.Search(ctx, domain.Criteria{SortBy: "nope"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	st, fb, err := q.Stats(ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if st.Total != 12 || st.ChannelCount != 2 || st.PropertyCount != 5 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if len(fb) != 2 {
		t.Fatalf("expected both sources flagged, got %v", fb)
	}
}

func TestRefreshPrimary_DropsCache(t *testing.T) {
	p := &fakePrimary{payload: []map[string]any{{"id": float64(1)}}}
	cache := &fakeCache{}
	f := app.NewFetcher(p, &fakeSecondary{}, app.WithCache(cache, 0))
	c := app.NewCommandService(f, &fakeSelection{})
	ctx := context.Background()

	_ = f.FetchPrimaryReviews(ctx)
	res, err := c.RefreshPrimary(ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p.calls != 2 || cache.dels != 1 || len(res.Reviews) != 1 {
		t.Fatalf("calls=%d dels=%d n=%d", p.calls, cache.dels, len(res.Reviews))
	}
}
