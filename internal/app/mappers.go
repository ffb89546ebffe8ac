package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

/********** alias registry (single source of truth) **********/

var reviewAliases = map[string][]string{
	"id":           {"id", "reviewId", "review_id"},
	"type":         {"type", "reviewType"},
	"status":       {"status", "reviewStatus"},
	"rating":       {"rating", "overallRating", "score"},
	"text":         {"publicReview", "public_review", "text", "comment"},
	"categories":   {"reviewCategory", "review_category", "categories"},
	"submitted_at": {"submittedAt", "submitted_at", "date", "createdAt"},
	"guest":        {"guestName", "guest_name", "guest.name", "reviewerName"},
	"listing":      {"listingName", "listing_name", "listing.name", "propertyName"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// firstString returns the first non-empty string found under the alias set.
func firstString(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if s, ok := lookupAny(m, p).(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// floatOf accepts float64/int/int64/string like "8,5". JSON null yields nil.
func floatOf(v any) *float64 {
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

func getFloatFlexible(m map[string]any, key string) *float64 {
	for _, p := range reviewAliases[key] {
		if f := floatOf(lookupAny(m, p)); f != nil {
			return f
		}
	}
	return nil
}

func firstInt64Flexible(m map[string]any, key string) (int64, bool) {
	for _, p := range reviewAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return int64(v), true
		case int:
			return int64(v), true
		case int64:
			return v, true
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// submittedAtOf keeps provider strings as-is; numeric epoch seconds become RFC3339.
func submittedAtOf(m map[string]any) string {
	for _, p := range reviewAliases["submitted_at"] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// categoriesOf accepts [{category, rating}] entries; anything else is skipped.
func categoriesOf(m map[string]any) []domain.Category {
	out := []domain.Category{}
	for _, p := range reviewAliases["categories"] {
		raw, ok := lookupAny(m, p).([]any)
		if !ok {
			continue
		}
		for _, it := range raw {
			obj, ok := it.(map[string]any)
			if !ok {
				continue
			}
			name, _ := obj["category"].(string)
			if name == "" {
				name, _ = obj["name"].(string)
			}
			r := floatOf(obj["rating"])
			if name == "" || r == nil {
				continue
			}
			out = append(out, domain.Category{Category: name, Rating: *r})
		}
		return out
	}
	return out
}

/********** reviews mapper **********/

// mapRawReviews turns the loosely typed provider payload into RawReview values.
// Entries without a usable id are dropped.
func mapRawReviews(in []map[string]any) []domain.RawReview {
	out := make([]domain.RawReview, 0, len(in))
	for _, r := range in {
		id, ok := firstInt64Flexible(r, "id")
		if !ok {
			log.Warn().Str("context", "mapRawReviews").Msg("review without id skipped")
			continue
		}
		out = append(out, domain.RawReview{
			ID:             id,
			Type:           firstString(r, "type"),
			Status:         firstString(r, "status"),
			Rating:         getFloatFlexible(r, "rating"),
			PublicReview:   firstString(r, "text"),
			ReviewCategory: categoriesOf(r),
			SubmittedAt:    submittedAtOf(r),
			GuestName:      firstString(r, "guest"),
			ListingName:    firstString(r, "listing"),
		})
	}
	return out
}
