package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// DirectorsRepository reads director master data.
type DirectorsRepository struct {
	pool *pgxpool.Pool
}

// GetByID fetches a director, returning domain.ErrNotFound when absent.
func (r *DirectorsRepository) GetByID(ctx context.Context, id int64) (domain.Director, error) {
	var d domain.Director
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM directors WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Director{}, domain.ErrNotFound
		}
		return domain.Director{}, fmt.Errorf("get director %d: %w", id, err)
	}
	return d, nil
}

// Upsert writes a director. A zero ID lets the database assign one; an
// explicit ID is inserted or renamed and the id sequence is moved past it.
func (r *DirectorsRepository) Upsert(ctx context.Context, d domain.Director) (domain.Director, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if d.ID == 0 {
			return tx.QueryRow(ctx, `INSERT INTO directors (name) VALUES ($1) RETURNING id`, d.Name).Scan(&d.ID)
		}
		const query = `
            INSERT INTO directors (id, name) VALUES ($1, $2)
            ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
        `
		if _, err := tx.Exec(ctx, query, d.ID, d.Name); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "directors")
	})
	if err != nil {
		return domain.Director{}, fmt.Errorf("upsert director %q: %w", d.Name, err)
	}
	return d, nil
}

// GenresRepository reads genre master data.
type GenresRepository struct {
	pool *pgxpool.Pool
}

// GetByID fetches a genre, returning domain.ErrNotFound when absent.
func (r *GenresRepository) GetByID(ctx context.Context, id int64) (domain.Genre, error) {
	var g domain.Genre
	err := r.pool.QueryRow(ctx, `SELECT id, name, description FROM genres WHERE id = $1`, id).Scan(&g.ID, &g.Name, &g.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Genre{}, domain.ErrNotFound
		}
		return domain.Genre{}, fmt.Errorf("get genre %d: %w", id, err)
	}
	return g, nil
}

// Upsert writes a genre the same way DirectorsRepository.Upsert writes directors.
func (r *GenresRepository) Upsert(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if g.ID == 0 {
			return tx.QueryRow(ctx, `INSERT INTO genres (name, description) VALUES ($1, $2) RETURNING id`, g.Name, g.Description).Scan(&g.ID)
		}
		const query = `
            INSERT INTO genres (id, name, description) VALUES ($1, $2, $3)
            ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description
        `
		if _, err := tx.Exec(ctx, query, g.ID, g.Name, g.Description); err != nil {
			return err
		}
		return syncSequence(ctx, tx, "genres")
	})
	if err != nil {
		return domain.Genre{}, fmt.Errorf("upsert genre %q: %w", g.Name, err)
	}
	return g, nil
}

// syncSequence only accepts the fixed table names used in this file.
func syncSequence(ctx context.Context, q querier, table string) error {
	query := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))`, table)
	_, err := q.Exec(ctx, query)
	return err
}
