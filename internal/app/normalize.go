package app

import (
	"math"
	"time"

	"flex_reviews/internal/domain"
)

const (
	recentWindow    = 30 * 24 * time.Hour
	pastMonthWindow = 90 * 24 * time.Hour

	googleIDBase      = 9000
	googleListingName = "Google Reviews Property"
	googleSubmittedAt = "2006-01-02T15:04:05.000Z"
)

// Accepted submittedAt layouts, tried in order. Zone-less values are read as UTC.
var submittedLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

func parseSubmittedAt(s string) (time.Time, bool) {
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateBucket classifies a submission by its age relative to now.
// Future timestamps count as recent; unparseable ones as older.
func dateBucket(submittedAt string, now time.Time) domain.DateBucket {
	t, ok := parseSubmittedAt(submittedAt)
	if !ok {
		return domain.BucketOlder
	}
	age := now.Sub(t)
	switch {
	case age <= recentWindow:
		return domain.BucketRecent
	case age <= pastMonthWindow:
		return domain.BucketPastMonth
	default:
		return domain.BucketOlder
	}
}

// Normalize tags raw reviews with their channel and date bucket. It is pure: the
// same input and now always give the same output, and raw is left untouched.
func Normalize(raw []domain.RawReview, channel domain.Channel, now time.Time) []domain.NormalizedReview {
	out := make([]domain.NormalizedReview, 0, len(raw))
	for _, r := range raw {
		cs := make([]domain.Category, len(r.ReviewCategory))
		copy(cs, r.ReviewCategory)
		r.ReviewCategory = cs

		var overall *float64
		if r.Rating != nil {
			v := *r.Rating
			overall = &v
		}
		out = append(out, domain.NormalizedReview{
			RawReview:     r,
			Channel:       channel,
			DateBucket:    dateBucket(r.SubmittedAt, now),
			Categories:    append([]domain.Category{}, cs...),
			OverallRating: overall,
		})
	}
	return out
}

// NormalizeGoogle converts location reviews into the common shape.
// The per-category scores are synthesized from the single 0..5 rating and carry
// no real signal; the provider does not report categories.
func NormalizeGoogle(reviews []domain.GoogleReview, now time.Time) []domain.NormalizedReview {
	raw := make([]domain.RawReview, 0, len(reviews))
	for i, g := range reviews {
		score := math.Round(g.Rating * 2)
		rating := g.Rating
		raw = append(raw, domain.RawReview{
			ID:           googleIDBase + int64(i),
			Type:         "google-review",
			Status:       "published",
			Rating:       &rating,
			PublicReview: g.Text,
			ReviewCategory: []domain.Category{
				{Category: "cleanliness", Rating: score},
				{Category: "communication", Rating: score},
				{Category: "value", Rating: score},
			},
			SubmittedAt: time.Unix(g.Time, 0).UTC().Format(googleSubmittedAt),
			GuestName:   g.AuthorName,
			ListingName: googleListingName,
		})
	}
	return Normalize(raw, domain.ChannelGoogle, now)
}
