package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RatingFilter narrows the rating match set for reporting queries. A nil
// ProjectIDs slice means "no project restriction"; an empty non-nil slice
// matches nothing (a caller with no visible projects).
type RatingFilter struct {
	ProjectIDs   []primitive.ObjectID
	Customer     string
	Domain       string
	SectionTitle string
}

// FeedbackFilter narrows feedback history queries. Semantics of ProjectIDs
// match RatingFilter.
type FeedbackFilter struct {
	ProjectIDs []primitive.ObjectID
	Event      string
}

// DailyAverage is one $group row of the history aggregation: the calendar
// day (UTC, YYYY-MM-DD) and the mean rating for that day.
type DailyAverage struct {
	Date    string  `bson:"_id"`
	Average float64 `bson:"rating"`
}

// TierCount is one $group row of the distribution aggregation.
type TierCount struct {
	Rating int   `bson:"_id"`
	Count  int64 `bson:"count"`
}
