package domain

import "time"

// Rating represents a single score submitted for a movie.
type Rating struct {
	ID        int64
	MovieID   int64
	Score     int
	CreatedAt time.Time
}

// RatingAggregate provides average and count for a movie's ratings.
// A movie without ratings has Average 0 and Count 0.
type RatingAggregate struct {
	Average float64
	Count   int64
}
