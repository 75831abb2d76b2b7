// Package queue defines the message payloads exchanged over the broker
// together with the publisher and the background consumer.
package queue

// Rating event actions.
const (
	ActionRated   = "rated"
	ActionUnrated = "unrated"
)

// RatingEvent is published whenever a user rates or unrates a movie. It
// carries enough information for downstream consumers to log or feed
// analytics without querying the primary database.
type RatingEvent struct {
	Action     string `json:"action"` // "rated" or "unrated"
	MovieID    string `json:"movie_id"`
	UserID     string `json:"user_id"`
	Rating     int    `json:"rating,omitempty"` // absent for unrated
	OccurredAt string `json:"occurred_at"`      // RFC 3339, UTC
}
