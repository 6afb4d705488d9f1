package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// MoviesRepository runs the movie listing, detail and mutation queries.
type MoviesRepository struct {
	pool   *pgxpool.Pool
	genres *MovieGenresRepository
}

// movieSelect joins each movie with its director and the live rating aggregate.
const movieSelect = `
    SELECT m.id,
           m.title,
           m.release_year,
           m.cast_list,
           m.director_id,
           m.created_at,
           m.updated_at,
           d.name,
           COALESCE(agg.average, 0)::float8,
           agg.ratings_count
    FROM movies m
    JOIN directors d ON d.id = m.director_id
    LEFT JOIN LATERAL (
        SELECT AVG(r.score)::float8 AS average,
               COUNT(*)::int8 AS ratings_count
        FROM movie_ratings r
        WHERE r.movie_id = m.id
    ) agg ON true
`

// List returns the total number of movies matching filter and the window
// [offset, offset+limit) of them ordered by ascending id.
func (r *MoviesRepository) List(ctx context.Context, filter domain.MovieFilter, limit, offset int) (domain.MoviePage, error) {
	if limit < 1 || offset < 0 {
		return domain.MoviePage{}, fmt.Errorf("list movies: invalid window limit=%d offset=%d", limit, offset)
	}
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Title != nil && *filter.Title != "" {
		where = append(where, fmt.Sprintf(`m.title ILIKE %s ESCAPE '\'`, arg("%"+escapeLike(*filter.Title)+"%")))
	}
	if filter.ReleaseYear != nil {
		where = append(where, fmt.Sprintf("m.release_year = %s", arg(*filter.ReleaseYear)))
	}
	if filter.Genre != nil && *filter.Genre != "" {
		where = append(where, fmt.Sprintf(`EXISTS (
            SELECT 1 FROM movie_genres mg
            JOIN genres g ON g.id = mg.genre_id
            WHERE mg.movie_id = m.id AND g.name = %s)`, arg(*filter.Genre)))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	page := domain.MoviePage{Items: []domain.MovieRecord{}}
	err := pgx.BeginTxFunc(ctx, r.pool, readOnlySnapshot, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM movies m"+cond, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("count movies: %w", err)
		}
		if page.Total == 0 || int64(offset) >= page.Total {
			return nil
		}

		query := movieSelect + cond + fmt.Sprintf(" ORDER BY m.id ASC LIMIT %s OFFSET %s", arg(limit), arg(offset))
		items, err := r.queryMovieRecords(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		page.Items = items
		return nil
	})
	if err != nil {
		return domain.MoviePage{}, fmt.Errorf("list movies: %w", err)
	}
	return page, nil
}

// Get fetches one movie record by identifier.
func (r *MoviesRepository) Get(ctx context.Context, id int64) (domain.MovieRecord, error) {
	var items []domain.MovieRecord
	err := pgx.BeginTxFunc(ctx, r.pool, readOnlySnapshot, func(tx pgx.Tx) error {
		var err error
		items, err = r.queryMovieRecords(ctx, tx, movieSelect+" WHERE m.id = $1", id)
		return err
	})
	if err != nil {
		return domain.MovieRecord{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	if len(items) == 0 {
		return domain.MovieRecord{}, domain.ErrNotFound
	}
	return items[0], nil
}

// Exists reports whether a movie row with the identifier is present.
func (r *MoviesRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check movie %d: %w", id, err)
	}
	return exists, nil
}

// Create inserts the movie row and one association per genre id in a single transaction.
func (r *MoviesRepository) Create(ctx context.Context, params domain.MovieCreate) (int64, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO movies (title, release_year, cast_list, director_id)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `
		if err := tx.QueryRow(ctx, query, params.Title, params.ReleaseYear, params.Cast, params.DirectorID).Scan(&id); err != nil {
			return err
		}
		return r.genres.insertTx(ctx, tx, id, params.GenreIDs)
	})
	if err != nil {
		return 0, fmt.Errorf("create movie: %w", mapWriteError(err))
	}
	return id, nil
}

// Update applies the supplied fields. When patch.GenreIDs is set the
// association set is replaced inside the same transaction.
func (r *MoviesRepository) Update(ctx context.Context, id int64, patch domain.MoviePatch) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE movies
            SET title = COALESCE($2, title),
                release_year = COALESCE($3, release_year),
                cast_list = COALESCE($4, cast_list),
                director_id = COALESCE($5, director_id),
                updated_at = now()
            WHERE id = $1
            RETURNING id
        `
		var updated int64
		err := tx.QueryRow(ctx, query, id, patch.Title, patch.ReleaseYear, patch.Cast, patch.DirectorID).Scan(&updated)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if patch.GenreIDs == nil {
			return nil
		}
		return r.genres.replaceTx(ctx, tx, id, *patch.GenreIDs)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update movie %d: %w", id, mapWriteError(err))
	}
	return nil
}

// Delete removes the movie; associations and ratings go with it through ON DELETE CASCADE.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movie %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *MoviesRepository) queryMovieRecords(ctx context.Context, q querier, query string, args ...interface{}) ([]domain.MovieRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.MovieRecord, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		rec, err := scanMovieRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
		ids = append(ids, rec.Movie.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// the connection must be free before the genre query runs on the same tx
	rows.Close()
	if len(items) == 0 {
		return items, nil
	}

	genres, err := r.genres.listByMovies(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if gs, ok := genres[items[i].Movie.ID]; ok {
			items[i].Genres = gs
		}
	}
	return items, nil
}

func scanMovieRecord(row pgx.Row) (domain.MovieRecord, error) {
	var rec domain.MovieRecord
	err := row.Scan(
		&rec.Movie.ID,
		&rec.Movie.Title,
		&rec.Movie.ReleaseYear,
		&rec.Movie.Cast,
		&rec.Movie.DirectorID,
		&rec.Movie.CreatedAt,
		&rec.Movie.UpdatedAt,
		&rec.Director.Name,
		&rec.Aggregate.Average,
		&rec.Aggregate.Count,
	)
	if err != nil {
		return domain.MovieRecord{}, err
	}
	rec.Director.ID = rec.Movie.DirectorID
	rec.Genres = []domain.Genre{}
	return rec, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
