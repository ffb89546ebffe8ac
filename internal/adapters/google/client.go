// Package google is the secondary (location review) provider. The Places lookup
// is not wired; every call reports ErrLiveLookupDisabled so the caller serves samples.
package google

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

type Client struct {
	base string
	key  string
}

func New(base, key string) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("google places API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{base: base, key: key}, nil
}

func (c *Client) FetchReviews(ctx context.Context, locationID string) ([]domain.GoogleReview, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Debug().Str("location_id", locationID).Str("base", c.base).Msg("google reviews lookup")
	return nil, fmt.Errorf("google place %q: %w", locationID, domain.ErrLiveLookupDisabled)
}
