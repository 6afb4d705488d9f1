package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
	"github.com/Clark-Hu/movies-api/internal/store"
)

const foreignKeyViolation = "23503"

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies      *MoviesRepository
	MovieGenres *MovieGenresRepository
	Ratings     *RatingsRepository
	Directors   *DirectorsRepository
	Genres      *GenresRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	genres := &MovieGenresRepository{pool: pool}
	return &Repository{
		Movies:      &MoviesRepository{pool: pool, genres: genres},
		MovieGenres: genres,
		Ratings:     &RatingsRepository{pool: pool},
		Directors:   &DirectorsRepository{pool: pool},
		Genres:      &GenresRepository{pool: pool},
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var readOnlySnapshot = pgx.TxOptions{
	IsoLevel:   pgx.RepeatableRead,
	AccessMode: pgx.ReadOnly,
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// referenceFields maps the schema's default foreign-key names to request fields.
var referenceFields = map[string]string{
	"movies_director_id_fkey":    "director_id",
	"movie_genres_genre_id_fkey": "genres",
}

// mapWriteError turns foreign-key violations into *domain.ReferenceError.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return &domain.ReferenceError{
			Field:      referenceFields[pgErr.ConstraintName],
			Constraint: pgErr.ConstraintName,
		}
	}
	return err
}
