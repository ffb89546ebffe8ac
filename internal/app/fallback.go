package app

import (
	"time"

	"flex_reviews/internal/domain"
)

func f64(v float64) *float64 { return &v }

func cats(kv ...any) []domain.Category {
	out := make([]domain.Category, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, domain.Category{Category: kv[i].(string), Rating: float64(kv[i+1].(int))})
	}
	return out
}

// fallbackHostaway is served whenever the booking platform is unreachable or returns nothing.
// A fresh slice is built on every call so callers may mutate it.
func fallbackHostaway() []domain.RawReview {
	return []domain.RawReview{
		{
			ID: 7453, Type: "host-to-guest", Status: "published", Rating: nil,
			PublicReview:   "Shane and family are wonderful! Would definitely host again :)",
			ReviewCategory: cats("cleanliness", 10, "communication", 10, "respect_house_rules", 10),
			SubmittedAt:    "2020-08-21 22:45:14",
			GuestName:      "Shane Finkelstein",
			ListingName:    "2B N1 A - 29 Shoreditch Heights",
		},
		{
			ID: 7454, Type: "guest-to-host", Status: "published", Rating: f64(9),
			PublicReview:   "Great stay, clean and responsive host.",
			ReviewCategory: cats("cleanliness", 9, "communication", 10, "respect_house_rules", 8),
			SubmittedAt:    "2025-10-01 10:30:00",
			GuestName:      "Alex Johnson",
			ListingName:    "2B N1 A - 29 Shoreditch Heights",
		},
		{
			ID: 7455, Type: "host-to-guest", Status: "published", Rating: nil,
			PublicReview:   "Fantastic guests, left everything spotless.",
			ReviewCategory: cats("cleanliness", 10, "communication", 9),
			SubmittedAt:    "2025-09-15 15:20:45",
			GuestName:      "Maria Lopez",
			ListingName:    "Penthouse Suite - Downtown",
		},
		{
			ID: 7456, Type: "guest-to-host", Status: "draft", Rating: f64(7),
			PublicReview:   "Location was great, but AC was noisy.",
			ReviewCategory: cats("cleanliness", 8, "communication", 7, "respect_house_rules", 10),
			SubmittedAt:    "2025-10-20 08:15:30",
			GuestName:      "John Doe",
			ListingName:    "Penthouse Suite - Downtown",
		},
		{
			ID: 7457, Type: "host-to-guest", Status: "published", Rating: nil,
			PublicReview:   "Reliable and respectful group.",
			ReviewCategory: cats("cleanliness", 9, "communication", 10, "respect_house_rules", 10),
			SubmittedAt:    "2025-08-10 12:00:00",
			GuestName:      "Team Outing",
			ListingName:    "Cozy Apartment - Suburbs",
		},
		{
			ID: 7458, Type: "guest-to-host", Status: "published", Rating: f64(5),
			PublicReview:   "Terrible experience. Property was dirty and amenities were broken.",
			ReviewCategory: cats("cleanliness", 3, "communication", 4, "respect_house_rules", 8),
			SubmittedAt:    "2025-10-15 14:20:00",
			GuestName:      "Disappointed Guest",
			ListingName:    "2B N1 A - 29 Shoreditch Heights",
		},
		{
			ID: 7459, Type: "guest-to-host", Status: "published", Rating: f64(8),
			PublicReview:   "Beautiful place with amazing views. Host was very helpful.",
			ReviewCategory: cats("cleanliness", 9, "communication", 9, "respect_house_rules", 7),
			SubmittedAt:    "2025-10-10 09:30:00",
			GuestName:      "Happy Traveler",
			ListingName:    "Luxury Loft - Waterfront",
		},
	}
}

// fallbackGoogle returns the secondary sample set, dated 1..5 days before now.
func fallbackGoogle(now time.Time) []domain.GoogleReview {
	day := 24 * time.Hour
	at := func(n int) int64 { return now.Add(-time.Duration(n) * day).Unix() }
	return []domain.GoogleReview{
		{AuthorName: "Sarah M.", Rating: 4.5, Text: "Loved staying here! Great location and very clean.", Time: at(1), ProfilePhotoURL: "https://via.placeholder.com/50x50?text=SM"},
		{AuthorName: "Mike T.", Rating: 5, Text: "Perfect for our weekend getaway. Highly recommend!", Time: at(2), ProfilePhotoURL: "https://via.placeholder.com/50x50?text=MT"},
		{AuthorName: "Jennifer K.", Rating: 4, Text: "Amazing views from the penthouse. The place was spacious and modern.", Time: at(3), ProfilePhotoURL: "https://via.placeholder.com/50x50?text=JK"},
		{AuthorName: "David L.", Rating: 5, Text: "Exceptional service and beautiful amenities. Will definitely be back!", Time: at(4), ProfilePhotoURL: "https://via.placeholder.com/50x50?text=DL"},
		{AuthorName: "Emma R.", Rating: 4, Text: "Great place for a family vacation. Kids loved the pool area.", Time: at(5), ProfilePhotoURL: "https://via.placeholder.com/50x50?text=ER"},
	}
}
