package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// Service implements movie listing, detail, mutation and rating operations
// on top of the storage contracts.
type Service struct {
	movies    MovieStore
	ratings   RatingStore
	directors DirectorLookup
	genres    GenreLookup
	log       *log.Helper
}

// New creates a Service. The logger is the only sink the service writes to.
func New(movies MovieStore, ratings RatingStore, directors DirectorLookup, genres GenreLookup, logger log.Logger) *Service {
	if logger == nil {
		logger = log.DefaultLogger
	}
	return &Service{
		movies:    movies,
		ratings:   ratings,
		directors: directors,
		genres:    genres,
		log:       log.NewHelper(log.With(logger, "module", "service")),
	}
}

// ListMovies returns the requested page of movies joined with their rating aggregate.
func (s *Service) ListMovies(ctx context.Context, q ListQuery) (domain.MoviePage, error) {
	if err := validatePaging(q.Page, q.PageSize); err != nil {
		return domain.MoviePage{}, err
	}
	offset := (q.Page - 1) * q.PageSize
	page, err := s.movies.List(ctx, q.Filter, q.PageSize, offset)
	if err != nil {
		return domain.MoviePage{}, fmt.Errorf("list movies: %w", err)
	}
	return page, nil
}

// GetMovie returns a single movie record or a NotFoundError.
func (s *Service) GetMovie(ctx context.Context, id int64) (domain.MovieRecord, error) {
	rec, err := s.movies.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MovieRecord{}, movieNotFound(id)
		}
		return domain.MovieRecord{}, fmt.Errorf("get movie: %w", err)
	}
	return rec, nil
}

// CreateMovie validates input, stores the movie with its genres and returns the fresh record.
func (s *Service) CreateMovie(ctx context.Context, input MovieInput) (domain.MovieRecord, error) {
	if err := s.validateMovieWrite(ctx, input, true); err != nil {
		return domain.MovieRecord{}, err
	}

	params := domain.MovieCreate{
		Title:       strings.TrimSpace(*input.Title),
		ReleaseYear: input.ReleaseYear,
		Cast:        input.Cast,
		DirectorID:  *input.DirectorID,
	}
	if input.GenreIDs != nil {
		params.GenreIDs = *input.GenreIDs
	}

	id, err := s.movies.Create(ctx, params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReference) {
			return domain.MovieRecord{}, staleReference(err)
		}
		return domain.MovieRecord{}, fmt.Errorf("create movie: %w", err)
	}
	s.log.Infow("msg", "movie created", "movie_id", id, "genres", len(params.GenreIDs))

	return s.GetMovie(ctx, id)
}

// UpdateMovie applies the supplied fields of input to movie id.
func (s *Service) UpdateMovie(ctx context.Context, id int64, input MovieInput) (domain.MovieRecord, error) {
	if err := s.validateMovieWrite(ctx, input, false); err != nil {
		return domain.MovieRecord{}, err
	}

	patch := domain.MoviePatch{
		ReleaseYear: input.ReleaseYear,
		Cast:        input.Cast,
		DirectorID:  input.DirectorID,
		GenreIDs:    input.GenreIDs,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		patch.Title = &title
	}

	if err := s.movies.Update(ctx, id, patch); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.MovieRecord{}, movieNotFound(id)
		case errors.Is(err, domain.ErrInvalidReference):
			return domain.MovieRecord{}, staleReference(err)
		}
		return domain.MovieRecord{}, fmt.Errorf("update movie: %w", err)
	}
	s.log.Infow("msg", "movie updated", "movie_id", id, "genres_replaced", input.GenreIDs != nil)

	return s.GetMovie(ctx, id)
}

// DeleteMovie removes a movie together with its associations and ratings.
func (s *Service) DeleteMovie(ctx context.Context, id int64) error {
	deleted, err := s.movies.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if !deleted {
		return movieNotFound(id)
	}
	s.log.Infow("msg", "movie deleted", "movie_id", id)
	return nil
}

// staleReference covers a director or genre removed between validation and write.
func staleReference(err error) *ValidationError {
	var refErr *domain.ReferenceError
	if errors.As(err, &refErr) {
		switch refErr.Field {
		case "director_id":
			return &ValidationError{Field: "director_id", Message: "Referenced director no longer exists"}
		case "genres":
			return &ValidationError{Field: "genres", Message: "Referenced genre no longer exists"}
		}
	}
	return &ValidationError{Field: "reference", Message: "Referenced director or genre no longer exists"}
}
