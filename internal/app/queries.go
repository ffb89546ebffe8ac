package app

import (
	"context"
	"fmt"

	"flex_reviews/internal/domain"
)

const (
	TabAll      = "all"
	TabPositive = "positive"
	TabRecent   = "recent"
)

// ReviewsResult carries normalized reviews plus the sources that were replaced by samples.
type ReviewsResult struct {
	Reviews  []domain.NormalizedReview
	Fallback []domain.Channel
}

type QueryService struct {
	fetcher   *Fetcher
	selection domain.SelectionStore
}

func NewQueryService(f *Fetcher, s domain.SelectionStore) *QueryService {
	return &QueryService{fetcher: f, selection: s}
}

func (s *QueryService) HostawayReviews(ctx context.Context) (ReviewsResult, error) {
	res := s.fetcher.FetchPrimaryReviews(ctx)
	out := ReviewsResult{Reviews: Normalize(res.Reviews, domain.ChannelHostaway, s.fetcher.Now())}
	if res.Fallback {
		out.Fallback = append(out.Fallback, domain.ChannelHostaway)
	}
	return out, nil
}

// AllReviews lists primary reviews first, then the default location's reviews.
// IDs may collide across channels; nothing is merged or re-sorted.
func (s *QueryService) AllReviews(ctx context.Context) (ReviewsResult, error) {
	out, err := s.HostawayReviews(ctx)
	if err != nil {
		return ReviewsResult{}, err
	}
	g := s.fetcher.FetchSecondaryReviews(ctx, DefaultLocationID)
	out.Reviews = append(out.Reviews, NormalizeGoogle(g.Reviews, s.fetcher.Now())...)
	if g.Fallback {
		out.Fallback = append(out.Fallback, domain.ChannelGoogle)
	}
	return out, nil
}

// DefaultLocationID is used when no location is given.
const DefaultLocationID = "default"

func (s *QueryService) GoogleReviews(ctx context.Context, locationID string) (SecondaryResult, error) {
	if locationID == "" {
		locationID = DefaultLocationID
	}
	return s.fetcher.FetchSecondaryReviews(ctx, locationID), nil
}

func (s *QueryService) Selection(ctx context.Context, listingName string) ([]int64, error) {
	ids, err := s.selection.Get(ctx, listingName)
	if err != nil {
		return nil, fmt.Errorf("selection %q: %w", listingName, err)
	}
	return ids, nil
}

// Search runs FilterAndSort over AllReviews.
func (s *QueryService) Search(ctx context.Context, c domain.Criteria) (ReviewsResult, error) {
	if err := ValidateCriteria(c); err != nil {
		return ReviewsResult{}, err
	}
	all, err := s.AllReviews(ctx)
	if err != nil {
		return ReviewsResult{}, err
	}
	all.Reviews = FilterAndSort(all.Reviews, c)
	return all, nil
}

func (s *QueryService) Stats(ctx context.Context) (domain.Stats, []domain.Channel, error) {
	all, err := s.AllReviews(ctx)
	if err != nil {
		return domain.Stats{}, nil, err
	}
	return ComputeAggregateStats(all.Reviews), all.Fallback, nil
}

// FeaturedReviews returns the listing's primary reviews that the operator selected for
// publication, in provider order. tab narrows to positive (>= 8) or recent reviews.
func (s *QueryService) FeaturedReviews(ctx context.Context, listingName, tab string) (ReviewsResult, error) {
	switch tab {
	case "", TabAll, TabPositive, TabRecent:
	default:
		return ReviewsResult{}, fmt.Errorf("%w: unknown tab %q", domain.ErrInvalidInput, tab)
	}

	ids, err := s.Selection(ctx, listingName)
	if err != nil {
		return ReviewsResult{}, err
	}
	picked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		picked[id] = struct{}{}
	}

	all, err := s.HostawayReviews(ctx)
	if err != nil {
		return ReviewsResult{}, err
	}
	out := make([]domain.NormalizedReview, 0, len(ids))
	for _, r := range all.Reviews {
		if r.ListingName != listingName {
			continue
		}
		if _, ok := picked[r.ID]; !ok {
			continue
		}
		switch tab {
		case TabPositive:
			if ratingOrZero(r) < positiveThreshold {
				continue
			}
		case TabRecent:
			if r.DateBucket != domain.BucketRecent {
				continue
			}
		}
		out = append(out, r)
	}
	all.Reviews = out
	return all, nil
}
