package app

import (
	"math"
	"sort"

	"flex_reviews/internal/domain"
)

const (
	positiveThreshold = 8.0
	negativeThreshold = 6.0
	topPropertiesMax  = 5
)

// ComputeAggregateStats summarises a review set for the dashboard header.
//
// The average counts reviews without a rating as 0, so it is a lower bound whenever
// host-to-guest reviews are present. Unrated reviews also count as negative.
func ComputeAggregateStats(reviews []domain.NormalizedReview) domain.Stats {
	st := domain.Stats{TopProperties: []domain.PropertyStat{}}
	total := len(reviews)
	if total == 0 {
		return st
	}

	var sum float64
	var pos, neg int
	listings := map[string]struct{}{}
	channels := map[domain.Channel]struct{}{}

	type acc struct {
		name  string
		sum   float64
		count int
	}
	byListing := map[string]*acc{}
	var order []string

	for _, r := range reviews {
		v := ratingOrZero(r)
		sum += v
		switch {
		case r.OverallRating != nil && v >= positiveThreshold:
			pos++
		case r.OverallRating == nil || v < negativeThreshold:
			neg++
		}

		listings[r.ListingName] = struct{}{}
		channels[r.Channel] = struct{}{}

		if r.OverallRating != nil {
			b := int(math.Floor(v))
			if b < 0 {
				b = 0
			}
			if b > 9 {
				b = 9
			}
			st.RatingDistribution[b]++
		}

		a, ok := byListing[r.ListingName]
		if !ok {
			a = &acc{name: r.ListingName}
			byListing[r.ListingName] = a
			order = append(order, r.ListingName)
		}
		a.sum += v
		a.count++
	}

	st.Total = total
	st.AvgRating = sum / float64(total)
	st.PositivePercentage = int(math.Round(100 * float64(pos) / float64(total)))
	st.NegativePercentage = int(math.Round(100 * float64(neg) / float64(total)))
	st.PropertyCount = len(listings)
	st.ChannelCount = len(channels)

	props := make([]domain.PropertyStat, 0, len(order))
	for _, name := range order {
		a := byListing[name]
		props = append(props, domain.PropertyStat{
			Name:        name,
			AvgRating:   a.sum / float64(a.count),
			ReviewCount: a.count,
		})
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].AvgRating > props[j].AvgRating })
	if len(props) > topPropertiesMax {
		props = props[:topPropertiesMax]
	}
	st.TopProperties = props
	return st
}
