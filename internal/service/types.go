package service

import (
	"context"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// MovieStore is the storage contract behind the movie listing, detail and mutations.
type MovieStore interface {
	List(ctx context.Context, filter domain.MovieFilter, limit, offset int) (domain.MoviePage, error)
	Get(ctx context.Context, id int64) (domain.MovieRecord, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, params domain.MovieCreate) (int64, error)
	Update(ctx context.Context, id int64, patch domain.MoviePatch) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// RatingStore owns rating rows and their per-movie aggregate.
type RatingStore interface {
	Create(ctx context.Context, movieID int64, score int) (domain.Rating, error)
	Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error)
}

// DirectorLookup resolves director ids. Absence is reported as domain.ErrNotFound.
type DirectorLookup interface {
	GetByID(ctx context.Context, id int64) (domain.Director, error)
}

// GenreLookup resolves genre ids. Absence is reported as domain.ErrNotFound.
type GenreLookup interface {
	GetByID(ctx context.Context, id int64) (domain.Genre, error)
}

// MovieInput is the write payload shared by create and update.
// Nil fields were not supplied by the caller.
type MovieInput struct {
	Title       *string
	ReleaseYear *int
	Cast        *string
	DirectorID  *int64
	GenreIDs    *[]int64
}

// ListQuery selects one page of movies. Page and PageSize are at least 1.
type ListQuery struct {
	Page     int
	PageSize int
	Filter   domain.MovieFilter
}
