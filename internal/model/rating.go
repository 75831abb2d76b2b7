package model

// MovieRating is one entry in a user's rating history. The slug is
// joined in from the movies table so that clients can render a link
// without a second lookup.
type MovieRating struct {
	MovieID string
	Slug    string
	Rating  int
}
