package domain

type Channel string

const (
	ChannelHostaway Channel = "hostaway"
	ChannelGoogle   Channel = "google"
)

type DateBucket string

const (
	BucketRecent    DateBucket = "recent"     // submitted within 30 days
	BucketPastMonth DateBucket = "past-month" // 30..90 days ago
	BucketOlder     DateBucket = "older"
)

type Category struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// RawReview is a primary-provider review as received. IDs are only unique per provider.
type RawReview struct {
	ID             int64      `json:"id"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Rating         *float64   `json:"rating"` // 0..10, nullable
	PublicReview   string     `json:"publicReview"`
	ReviewCategory []Category `json:"reviewCategory"`
	SubmittedAt    string     `json:"submittedAt"`
	GuestName      string     `json:"guestName"`
	ListingName    string     `json:"listingName"`
}

// GoogleReview mirrors the Places "reviews" entry. Time is epoch seconds.
type GoogleReview struct {
	AuthorName      string  `json:"author_name"`
	Rating          float64 `json:"rating"` // 0..5, fractional
	Text            string  `json:"text"`
	Time            int64   `json:"time"`
	ProfilePhotoURL string  `json:"profile_photo_url,omitempty"`
}

type NormalizedReview struct {
	RawReview
	Channel       Channel    `json:"channel"`
	DateBucket    DateBucket `json:"dateBucket"`
	Categories    []Category `json:"categories"`
	OverallRating *float64   `json:"overallRating"`
}
