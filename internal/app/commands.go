package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

type CommandService struct {
	fetcher   *Fetcher
	selection domain.SelectionStore
}

func NewCommandService(f *Fetcher, s domain.SelectionStore) *CommandService {
	return &CommandService{fetcher: f, selection: s}
}

// SaveSelection replaces the listing's published set. IDs are stored as given.
func (s *CommandService) SaveSelection(ctx context.Context, listingName string, ids []int64) error {
	if err := s.selection.Save(ctx, listingName, ids); err != nil {
		return fmt.Errorf("save selection %q: %w", listingName, err)
	}
	log.Info().Str("listing", listingName).Int("count", len(ids)).Msg("selection saved")
	return nil
}

// RefreshPrimary drops any cached primary payload, fetches again and returns the
// normalized result.
func (s *CommandService) RefreshPrimary(ctx context.Context) (ReviewsResult, error) {
	if err := s.fetcher.InvalidatePrimary(ctx); err != nil {
		return ReviewsResult{}, fmt.Errorf("invalidate primary cache: %w", err)
	}
	res := s.fetcher.FetchPrimaryReviews(ctx)
	out := ReviewsResult{Reviews: Normalize(res.Reviews, domain.ChannelHostaway, s.fetcher.Now())}
	if res.Fallback {
		out.Fallback = []domain.Channel{domain.ChannelHostaway}
	}
	log.Info().Int("reviews", len(out.Reviews)).Bool("fallback", res.Fallback).Msg("primary reviews refreshed")
	return out, nil
}
