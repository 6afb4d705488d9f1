package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// RatingsRepository provides helpers for movie ratings.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Create stores a score for a movie. A missing movie yields domain.ErrNotFound.
func (r *RatingsRepository) Create(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	const query = `
        INSERT INTO movie_ratings (movie_id, score)
        VALUES ($1, $2)
        RETURNING id, movie_id, score, created_at
    `

	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, movieID, score).Scan(
		&rating.ID,
		&rating.MovieID,
		&rating.Score,
		&rating.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Rating{}, domain.ErrNotFound
		}
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}

// Aggregate returns the unrounded rating average and count for a movie.
func (r *RatingsRepository) Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(score), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM movie_ratings
        WHERE movie_id = $1
    `

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}
