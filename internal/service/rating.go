package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// AddRating stores a score for a movie. The range check always runs before
// the movie lookup.
func (s *Service) AddRating(ctx context.Context, movieID int64, score int) (domain.Rating, error) {
	s.log.Infow("msg", "rating movie", "movie_id", movieID, "rating", score)

	if err := validateRating(score); err != nil {
		s.log.Warnw("msg", "invalid rating value", "movie_id", movieID, "rating", score)
		return domain.Rating{}, err
	}

	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("add rating: %w", err)
	}
	if !exists {
		s.log.Warnw("msg", "movie not found", "movie_id", movieID)
		return domain.Rating{}, movieNotFound(movieID)
	}

	rating, err := s.ratings.Create(ctx, movieID, score)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warnw("msg", "movie deleted before rating was saved", "movie_id", movieID)
			return domain.Rating{}, movieNotFound(movieID)
		}
		s.log.Errorw("msg", "failed to save rating", "movie_id", movieID, "rating", score, "err", err)
		return domain.Rating{}, fmt.Errorf("add rating: %w", err)
	}

	s.log.Infow("msg", "rating saved", "movie_id", movieID, "rating_id", rating.ID, "rating", score)
	return rating, nil
}

// RatingSummary returns the unrounded aggregate for an existing movie.
func (s *Service) RatingSummary(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	exists, err := s.movies.Exists(ctx, movieID)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("rating summary: %w", err)
	}
	if !exists {
		return domain.RatingAggregate{}, movieNotFound(movieID)
	}

	agg, err := s.ratings.Aggregate(ctx, movieID)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("rating summary: %w", err)
	}
	return agg, nil
}
