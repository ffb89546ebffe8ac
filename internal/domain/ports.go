package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidResponse    = errors.New("invalid response from provider")
	ErrUnauthorized       = errors.New("provider: unauthorized")
	ErrLiveLookupDisabled = errors.New("live lookup disabled")
	ErrInvalidInput       = errors.New("invalid input")
)

// PrimaryClient talks to the booking platform. The payload is left loosely typed;
// app maps it into RawReview.
type PrimaryClient interface {
	FetchReviews(ctx context.Context) ([]map[string]any, error)
}

type SecondaryClient interface {
	FetchReviews(ctx context.Context, locationID string) ([]GoogleReview, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// SelectionStore holds the published review IDs per listing name.
// Save replaces the whole list; Get returns an empty list for unknown listings.
type SelectionStore interface {
	Save(ctx context.Context, listingName string, reviewIDs []int64) error
	Get(ctx context.Context, listingName string) ([]int64, error)
}

// Read models

type Criteria struct {
	Search    string
	MinRating *float64
	Category  string
	Channel   string
	Date      string
	SortBy    string
	SortOrder string // asc|desc
}

type PropertyStat struct {
	Name        string  `json:"name"`
	AvgRating   float64 `json:"avgRating"`
	ReviewCount int     `json:"reviewCount"`
}

type Stats struct {
	Total              int            `json:"total"`
	AvgRating          float64        `json:"avgRating"`
	PositivePercentage int            `json:"positivePercentage"`
	NegativePercentage int            `json:"negativePercentage"`
	PropertyCount      int            `json:"propertyCount"`
	ChannelCount       int            `json:"channelCount"`
	RatingDistribution [10]int        `json:"ratingDistribution"`
	TopProperties      []PropertyStat `json:"topProperties"`
}
