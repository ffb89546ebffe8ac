package app

import (
	"fmt"
	"sort"
	"strings"

	"flex_reviews/internal/domain"
)

const (
	SortSubmittedAt   = "submittedAt"
	SortOverallRating = "overallRating"
	SortID            = "id"
	SortGuestName     = "guestName"
	SortListingName   = "listingName"
	SortChannel       = "channel"
	SortDateBucket    = "dateBucket"
	SortType          = "type"
	SortStatus        = "status"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var sortFields = map[string]struct{}{
	SortSubmittedAt: {}, SortOverallRating: {}, SortID: {}, SortGuestName: {}, SortListingName: {},
	SortChannel: {}, SortDateBucket: {}, SortType: {}, SortStatus: {},
}

// ValidateCriteria rejects sort keys and orders FilterAndSort does not know.
func ValidateCriteria(c domain.Criteria) error {
	if c.SortBy != "" {
		if _, ok := sortFields[c.SortBy]; !ok {
			return fmt.Errorf("%w: unknown sortBy %q", domain.ErrInvalidInput, c.SortBy)
		}
	}
	switch c.SortOrder {
	case "", OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("%w: unknown sortOrder %q", domain.ErrInvalidInput, c.SortOrder)
	}
	if c.Date != "" {
		switch domain.DateBucket(c.Date) {
		case domain.BucketRecent, domain.BucketPastMonth, domain.BucketOlder:
		default:
			return fmt.Errorf("%w: unknown date bucket %q", domain.ErrInvalidInput, c.Date)
		}
	}
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}

func ratingOrZero(r domain.NormalizedReview) float64 {
	if r.OverallRating == nil {
		return 0
	}
	return *r.OverallRating
}

// FilterAndSort applies the dashboard filters in a fixed order and then sorts stably.
// Empty criteria fields do not filter. The input slice is never reordered.
func FilterAndSort(reviews []domain.NormalizedReview, c domain.Criteria) []domain.NormalizedReview {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	channel := strings.ToLower(c.Channel)

	out := make([]domain.NormalizedReview, 0, len(reviews))
	for _, r := range reviews {
		if search != "" &&
			!containsFold(r.ListingName, search) &&
			!containsFold(r.GuestName, search) &&
			!containsFold(r.PublicReview, search) {
			continue
		}
		if c.MinRating != nil && ratingOrZero(r) < *c.MinRating {
			continue
		}
		if c.Category != "" && !hasCategory(r.Categories, c.Category) {
			continue
		}
		if channel != "" && !containsFold(string(r.Channel), channel) {
			continue
		}
		if c.Date != "" && string(r.DateBucket) != c.Date {
			continue
		}
		out = append(out, r)
	}

	sortReviews(out, c.SortBy, c.SortOrder)
	return out
}

// hasCategory matches category names case-sensitively, unlike the text search.
func hasCategory(cs []domain.Category, sub string) bool {
	for _, cat := range cs {
		if strings.Contains(cat.Category, sub) {
			return true
		}
	}
	return false
}

// sortKey is a comparable projection of one review. Missing keys always sort last.
type sortKey struct {
	missing bool
	num     float64
	str     string
	isStr   bool
}

func keyOf(r domain.NormalizedReview, field string) sortKey {
	switch field {
	case SortOverallRating:
		if r.OverallRating == nil {
			return sortKey{missing: true}
		}
		return sortKey{num: *r.OverallRating}
	case SortID:
		return sortKey{num: float64(r.ID)}
	case SortGuestName:
		return sortKey{str: strings.ToLower(r.GuestName), isStr: true}
	case SortListingName:
		return sortKey{str: strings.ToLower(r.ListingName), isStr: true}
	case SortChannel:
		return sortKey{str: string(r.Channel), isStr: true}
	case SortDateBucket:
		return sortKey{str: string(r.DateBucket), isStr: true}
	case SortType:
		return sortKey{str: strings.ToLower(r.Type), isStr: true}
	case SortStatus:
		return sortKey{str: strings.ToLower(r.Status), isStr: true}
	default:
		t, ok := parseSubmittedAt(r.SubmittedAt)
		if !ok {
			return sortKey{missing: true}
		}
		return sortKey{num: float64(t.UnixMilli())}
	}
}

func sortReviews(rs []domain.NormalizedReview, field, order string) {
	desc := order != OrderAsc
	keys := make([]sortKey, len(rs))
	for i := range rs {
		keys[i] = keyOf(rs[i], field)
	}
	idx := make([]int, len(rs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.missing || kb.missing {
			return !ka.missing && kb.missing
		}
		if ka.isStr {
			if desc {
				return ka.str > kb.str
			}
			return ka.str < kb.str
		}
		if desc {
			return ka.num > kb.num
		}
		return ka.num < kb.num
	})
	sorted := make([]domain.NormalizedReview, len(rs))
	for i, j := range idx {
		sorted[i] = rs[j]
	}
	copy(rs, sorted)
}
