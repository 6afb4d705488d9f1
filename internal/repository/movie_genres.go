package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// MovieGenresRepository owns the movie_genres association rows.
type MovieGenresRepository struct {
	pool *pgxpool.Pool
}

// ListByMovie returns the genres linked to a movie ordered by name.
func (r *MovieGenresRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Genre, error) {
	byMovie, err := r.listByMovies(ctx, r.pool, []int64{movieID})
	if err != nil {
		return nil, fmt.Errorf("list genres for movie %d: %w", movieID, err)
	}
	if gs, ok := byMovie[movieID]; ok {
		return gs, nil
	}
	return []domain.Genre{}, nil
}

// Replace swaps the association set of a movie for genreIDs in its own transaction.
func (r *MovieGenresRepository) Replace(ctx context.Context, movieID int64, genreIDs []int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return r.replaceTx(ctx, tx, movieID, genreIDs)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("replace genres for movie %d: %w", movieID, mapWriteError(err))
	}
	return nil
}

// replaceTx locks the movie row, then deletes and re-inserts so the final set
// is exactly genreIDs. A movie deleted concurrently yields domain.ErrNotFound.
func (r *MovieGenresRepository) replaceTx(ctx context.Context, tx pgx.Tx, movieID int64, genreIDs []int64) error {
	var locked int64
	if err := tx.QueryRow(ctx, `SELECT id FROM movies WHERE id = $1 FOR UPDATE`, movieID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, movieID); err != nil {
		return err
	}
	return r.insertTx(ctx, tx, movieID, genreIDs)
}

// insertTx adds associations; duplicate ids collapse to one row.
func (r *MovieGenresRepository) insertTx(ctx context.Context, tx pgx.Tx, movieID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	const query = `
        INSERT INTO movie_genres (movie_id, genre_id)
        SELECT $1, g FROM unnest($2::int8[]) AS g
        ON CONFLICT DO NOTHING
    `
	_, err := tx.Exec(ctx, query, movieID, genreIDs)
	return err
}

func (r *MovieGenresRepository) listByMovies(ctx context.Context, q querier, movieIDs []int64) (map[int64][]domain.Genre, error) {
	const query = `
        SELECT mg.movie_id, g.id, g.name, g.description
        FROM movie_genres mg
        JOIN genres g ON g.id = mg.genre_id
        WHERE mg.movie_id = ANY($1)
        ORDER BY mg.movie_id, g.name, g.id
    `
	rows, err := q.Query(ctx, query, movieIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]domain.Genre, len(movieIDs))
	for rows.Next() {
		var (
			movieID int64
			genre   domain.Genre
		)
		if err := rows.Scan(&movieID, &genre.ID, &genre.Name, &genre.Description); err != nil {
			return nil, err
		}
		out[movieID] = append(out[movieID], genre)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
