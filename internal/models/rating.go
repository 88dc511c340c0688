package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tier is the named bucket a numeric rating falls into.
type Tier string

// Tiers, best to worst.
const (
	TierPlatinum Tier = "PLATINUM"
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
	TierBronze   Tier = "BRONZE"
)

// Rating bounds. 0 means "not answered" and never contributes to a tier.
const (
	RatingUnanswered = 0
	RatingMin        = 1
	RatingMax        = 4
)

// TierForRating maps a rating value 1..4 to its tier. The second return is
// false for 0 / out-of-range values, which belong to no bucket.
func TierForRating(rating int) (Tier, bool) {
	switch rating {
	case 4:
		return TierPlatinum, true
	case 3:
		return TierGold, true
	case 2:
		return TierSilver, true
	case 1:
		return TierBronze, true
	}
	return "", false
}

// Rating is one answered question flattened out of a feedback snapshot for
// aggregation. Customer and domain are copied from the project at submission
// time so later project edits do not rewrite historical aggregates.
type Rating struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"userId"`
	FeedbackID    primitive.ObjectID `bson:"feedback_id" json:"feedbackId"`
	ProjectID     primitive.ObjectID `bson:"project_id" json:"projectId"`
	SectionTitle  string             `bson:"section_title" json:"sectionTitle"`
	SectionOrder  int                `bson:"section_order" json:"sectionOrder"`
	QuestionText  string             `bson:"question_text" json:"questionText"`
	QuestionOrder int                `bson:"question_order" json:"questionOrder"`
	Customer      string             `bson:"customer,omitempty" json:"customer,omitempty"`
	Domain        string             `bson:"domain,omitempty" json:"domain,omitempty"`
	Rating        int                `bson:"rating" json:"rating"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// RatingDistribution is the per-tier count report. All four fields are always
// present, zero when nothing matched.
type RatingDistribution struct {
	Platinum int64 `json:"PLATINUM"`
	Gold     int64 `json:"GOLD"`
	Silver   int64 `json:"SILVER"`
	Bronze   int64 `json:"BRONZE"`
}

// Add counts one rating value into its tier bucket. Unanswered and
// out-of-range values are ignored.
func (d *RatingDistribution) Add(rating int, count int64) {
	tier, ok := TierForRating(rating)
	if !ok {
		return
	}
	switch tier {
	case TierPlatinum:
		d.Platinum += count
	case TierGold:
		d.Gold += count
	case TierSilver:
		d.Silver += count
	case TierBronze:
		d.Bronze += count
	}
}

// HistoryPoint is one day of the rating history series. Rating is the
// arithmetic mean for that day formatted to two decimal places.
type HistoryPoint struct {
	Date   string `json:"date"`
	Rating string `json:"rating"`
}
