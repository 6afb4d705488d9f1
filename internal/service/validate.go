package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

const (
	minScore = 1
	maxScore = 10
)

// ScoreRangeMessage is returned for any score outside [1,10].
const ScoreRangeMessage = "Score must be between 1 and 10"

// validateMovieWrite checks the supplied fields of input. With requireAll set
// (create) title and director_id must be present.
func (s *Service) validateMovieWrite(ctx context.Context, input MovieInput, requireAll bool) error {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if requireAll && input.Title == nil {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if requireAll && input.DirectorID == nil {
		return &ValidationError{Field: "director_id", Message: "director_id is required"}
	}

	if input.DirectorID != nil {
		if _, err := s.directors.GetByID(ctx, *input.DirectorID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &ValidationError{
					Field:   "director_id",
					Message: fmt.Sprintf("Invalid director_id: %d", *input.DirectorID),
				}
			}
			return fmt.Errorf("lookup director %d: %w", *input.DirectorID, err)
		}
	}

	if input.GenreIDs != nil {
		for _, id := range *input.GenreIDs {
			if _, err := s.genres.GetByID(ctx, id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return &ValidationError{
						Field:   "genres",
						Message: fmt.Sprintf("Invalid genre_id: %d", id),
					}
				}
				return fmt.Errorf("lookup genre %d: %w", id, err)
			}
		}
	}
	return nil
}

// validatePaging rejects windows whose offset would not fit in an int.
func validatePaging(page, pageSize int) error {
	if page < 1 {
		return &ValidationError{Field: "page", Message: "Invalid page: must be an integer >= 1"}
	}
	if pageSize < 1 {
		return &ValidationError{Field: "page_size", Message: "Invalid page_size: must be an integer >= 1"}
	}
	if page-1 > math.MaxInt/pageSize {
		return &ValidationError{Field: "page", Message: "Invalid page: out of range"}
	}
	return nil
}

// validateRating runs before any existence check.
func validateRating(score int) error {
	if score < minScore || score > maxScore {
		return &ValidationError{Field: "score", Message: ScoreRangeMessage}
	}
	return nil
}
