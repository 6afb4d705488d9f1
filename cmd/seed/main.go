package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/Clark-Hu/movies-api/db"
	"github.com/Clark-Hu/movies-api/internal/config"
	"github.com/Clark-Hu/movies-api/internal/domain"
	"github.com/Clark-Hu/movies-api/internal/repository"
	"github.com/Clark-Hu/movies-api/internal/store"
)

type seedFile struct {
	Directors []directorEntry `json:"directors"`
	Genres    []genreEntry    `json:"genres"`
}

type directorEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type genreEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func main() {
	var (
		data    = flag.String("data", "db/seed/sample.json", "path to seed data file")
		migrate = flag.Bool("migrate", true, "apply schema migrations before seeding")
	)
	flag.Parse()

	logger := log.With(log.NewStdLogger(os.Stdout), "ts", log.DefaultTimestamp, "service", "movies-seed")
	helper := log.NewHelper(logger)

	if err := run(logger, *data, *migrate); err != nil {
		helper.Fatalf("seed: %v", err)
	}
}

// run owns every deferred cleanup so a failure still closes the pool before main exits.
func run(logger log.Logger, dataPath string, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	payload, err := loadSeedFile(dataPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	st, err := store.New(ctx, cfg.DBURL, store.Options{
		MaxConns:               2,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer st.Close()

	if migrate {
		if err := st.Migrate(ctx, db.Migrations); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	return seed(ctx, repository.New(st), payload, log.NewHelper(logger))
}

func loadSeedFile(path string) (seedFile, error) {
	var payload seedFile
	file, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("read seed data: %w", err)
	}
	if err := json.Unmarshal(file, &payload); err != nil {
		return payload, fmt.Errorf("parse seed data %s: %w", path, err)
	}
	return payload, nil
}

// seed upserts master data in file order and stops at the first failure.
func seed(ctx context.Context, repo *repository.Repository, payload seedFile, helper *log.Helper) error {
	for _, d := range payload.Directors {
		saved, err := repo.Directors.Upsert(ctx, domain.Director{ID: d.ID, Name: d.Name})
		if err != nil {
			return fmt.Errorf("seed director: %w", err)
		}
		helper.Debugw("msg", "director seeded", "id", saved.ID, "name", saved.Name)
	}
	for _, g := range payload.Genres {
		saved, err := repo.Genres.Upsert(ctx, domain.Genre{ID: g.ID, Name: g.Name, Description: g.Description})
		if err != nil {
			return fmt.Errorf("seed genre: %w", err)
		}
		helper.Debugw("msg", "genre seeded", "id", saved.ID, "name", saved.Name)
	}

	helper.Infow("msg", "seed complete", "directors", len(payload.Directors), "genres", len(payload.Genres))
	return nil
}
