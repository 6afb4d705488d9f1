package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movies-api/internal/domain"
	"github.com/Clark-Hu/movies-api/internal/store/storetest"
)

type testEnv struct {
	ctx        context.Context
	pool       *pgxpool.Pool
	repository *Repository
	director   domain.Director
	genres     map[string]domain.Genre
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()

	ctx := context.Background()
	pool := storetest.NewPool(t, "movies_test")
	env := &testEnv{
		ctx:        ctx,
		pool:       pool,
		repository: NewWithPool(pool),
		genres:     make(map[string]domain.Genre),
	}

	director, err := env.repository.Directors.Upsert(ctx, domain.Director{Name: "Christopher Nolan"})
	if err != nil {
		t.Fatalf("seed director: %v", err)
	}
	env.director = director
	for _, name := range []string{"Drama", "Science Fiction", "Comedy"} {
		g, err := env.repository.Genres.Upsert(ctx, domain.Genre{Name: name})
		if err != nil {
			t.Fatalf("seed genre %s: %v", name, err)
		}
		env.genres[name] = g
	}
	return env
}

func (e *testEnv) genreIDs(names ...string) []int64 {
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		ids = append(ids, e.genres[n].ID)
	}
	return ids
}

func mustCreateMovie(t testing.TB, env *testEnv, title string, year int, genres ...string) int64 {
	t.Helper()
	id, err := env.repository.Movies.Create(env.ctx, domain.MovieCreate{
		Title:       title,
		ReleaseYear: &year,
		DirectorID:  env.director.ID,
		GenreIDs:    env.genreIDs(genres...),
	})
	if err != nil {
		t.Fatalf("create movie %q: %v", title, err)
	}
	return id
}

func mustRate(t testing.TB, env *testEnv, movieID int64, scores ...int) {
	t.Helper()
	for _, s := range scores {
		if _, err := env.repository.Ratings.Create(env.ctx, movieID, s); err != nil {
			t.Fatalf("rate movie %d with %d: %v", movieID, s, err)
		}
	}
}

func TestMoviesRepository_CreateGet(t *testing.T) {
	env := newTestEnv(t)

	cast := "Cillian Murphy"
	year := 2023
	id, err := env.repository.Movies.Create(env.ctx, domain.MovieCreate{
		Title:       "Oppenheimer",
		ReleaseYear: &year,
		Cast:        &cast,
		DirectorID:  env.director.ID,
		GenreIDs:    env.genreIDs("Science Fiction", "Drama", "Drama"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := env.repository.Movies.Get(env.ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Movie.Title != "Oppenheimer" || *rec.Movie.ReleaseYear != 2023 || *rec.Movie.Cast != cast {
		t.Fatalf("movie = %+v", rec.Movie)
	}
	if rec.Director != env.director {
		t.Fatalf("director = %+v, want %+v", rec.Director, env.director)
	}
	if len(rec.Genres) != 2 || rec.Genres[0].Name != "Drama" || rec.Genres[1].Name != "Science Fiction" {
		t.Fatalf("genres = %+v", rec.Genres)
	}
	if rec.Aggregate.Average != 0 || rec.Aggregate.Count != 0 {
		t.Fatalf("aggregate = %+v, want zero", rec.Aggregate)
	}
	if rec.Movie.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not populated")
	}

	if _, err := env.repository.Movies.Get(env.ctx, id+1000); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	exists, err := env.repository.Movies.Exists(env.ctx, id)
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v", exists, err)
	}
	exists, err = env.repository.Movies.Exists(env.ctx, id+1000)
	if err != nil || exists {
		t.Fatalf("exists(missing) = %v, %v", exists, err)
	}
}

func TestMoviesRepository_CreateInvalidReference(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.repository.Movies.Create(env.ctx, domain.MovieCreate{Title: "Ghost", DirectorID: 999999})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("director fk: err = %v, want ErrInvalidReference", err)
	}
	assertReferenceField(t, err, "director_id")

	_, err = env.repository.Movies.Create(env.ctx, domain.MovieCreate{
		Title:      "Ghost Genre",
		DirectorID: env.director.ID,
		GenreIDs:   []int64{999999},
	})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("genre fk: err = %v, want ErrInvalidReference", err)
	}
	assertReferenceField(t, err, "genres")

	page, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("failed create left rows behind: total = %d", page.Total)
	}
}

func TestMoviesRepository_UpdateInvalidReference(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Interstellar", 2014, "Drama")

	missingDirector := int64(999999)
	err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{DirectorID: &missingDirector})
	assertReferenceField(t, err, "director_id")

	missingGenres := []int64{999999}
	err = env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{GenreIDs: &missingGenres})
	assertReferenceField(t, err, "genres")

	err = env.repository.MovieGenres.Replace(env.ctx, id, missingGenres)
	assertReferenceField(t, err, "genres")
}

func assertReferenceField(t *testing.T, err error, field string) {
	t.Helper()
	var refErr *domain.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("err = %v, want *domain.ReferenceError", err)
	}
	if refErr.Field != field {
		t.Fatalf("field = %q (constraint %q), want %q", refErr.Field, refErr.Constraint, field)
	}
}

func TestMoviesRepository_ListRejectsInvalidWindow(t *testing.T) {
	env := newTestEnv(t)
	mustCreateMovie(t, env, "Doodlebug", 1997)

	for _, w := range []struct{ limit, offset int }{{10, -10}, {0, 0}, {-1, 0}} {
		if _, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{}, w.limit, w.offset); err == nil {
			t.Fatalf("limit=%d offset=%d: expected error", w.limit, w.offset)
		}
	}

	page, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{}, 10, 9223372036854775800)
	if err != nil {
		t.Fatalf("list far past end: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 0 {
		t.Fatalf("page = %+v", page)
	}
}

func TestMoviesRepository_ListPagination(t *testing.T) {
	env := newTestEnv(t)

	var want []int64
	for i := 0; i < 7; i++ {
		want = append(want, mustCreateMovie(t, env, fmt.Sprintf("Movie %d", i), 2000+i))
	}

	for size := 1; size <= 8; size++ {
		var got []int64
		for offset := 0; ; offset += size {
			page, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{}, size, offset)
			if err != nil {
				t.Fatalf("list size=%d offset=%d: %v", size, offset, err)
			}
			if page.Total != int64(len(want)) {
				t.Fatalf("total = %d, want %d", page.Total, len(want))
			}
			if len(page.Items) == 0 {
				break
			}
			if len(page.Items) > size {
				t.Fatalf("page larger than limit: %d > %d", len(page.Items), size)
			}
			for _, item := range page.Items {
				got = append(got, item.Movie.ID)
			}
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("size %d: concatenated ids = %v, want %v", size, got, want)
		}
	}

	page, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{}, 10, 100)
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if page.Total != 7 || page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("past end page = %+v", page)
	}
}

func TestMoviesRepository_ListFilters(t *testing.T) {
	env := newTestEnv(t)

	knight := mustCreateMovie(t, env, "The Dark Knight", 2008, "Drama", "Science Fiction")
	city := mustCreateMovie(t, env, "Dark City", 1998, "Science Fiction")
	women := mustCreateMovie(t, env, "Little Women", 2019, "Drama")
	percent := mustCreateMovie(t, env, "100% Fun_Time", 2019, "Comedy")

	str := func(s string) *string { return &s }
	num := func(n int) *int { return &n }

	tests := []struct {
		name   string
		filter domain.MovieFilter
		want   []int64
	}{
		{"no filter", domain.MovieFilter{}, []int64{knight, city, women, percent}},
		{"title case insensitive", domain.MovieFilter{Title: str("dARK")}, []int64{knight, city}},
		{"year", domain.MovieFilter{ReleaseYear: num(2019)}, []int64{women, percent}},
		{"nonexistent year", domain.MovieFilter{ReleaseYear: num(9999)}, nil},
		{"genre", domain.MovieFilter{Genre: str("Science Fiction")}, []int64{knight, city}},
		{"genre is exact", domain.MovieFilter{Genre: str("science")}, nil},
		{"unknown genre", domain.MovieFilter{Genre: str("Western")}, nil},
		{"all filters", domain.MovieFilter{Title: str("dark"), ReleaseYear: num(2008), Genre: str("Drama")}, []int64{knight}},
		{"percent is literal", domain.MovieFilter{Title: str("%")}, []int64{percent}},
		{"underscore is literal", domain.MovieFilter{Title: str("n_t")}, []int64{percent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := env.repository.Movies.List(env.ctx, tt.filter, 10, 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if page.Total != int64(len(tt.want)) {
				t.Fatalf("total = %d, want %d", page.Total, len(tt.want))
			}
			var got []int64
			for _, item := range page.Items {
				got = append(got, item.Movie.ID)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoviesRepository_ListGenreFilterCountsDistinct(t *testing.T) {
	env := newTestEnv(t)

	id := mustCreateMovie(t, env, "Multi", 2001, "Drama", "Comedy", "Science Fiction")
	mustRate(t, env, id, 10, 4)

	page, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{Genre: ptrString("Comedy")}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("page = %+v, want exactly one movie", page)
	}
	item := page.Items[0]
	if len(item.Genres) != 3 {
		t.Fatalf("genres = %+v, genre filter must not trim the genre list", item.Genres)
	}
	if item.Aggregate.Average != 7 || item.Aggregate.Count != 2 {
		t.Fatalf("aggregate = %+v, want 7/2", item.Aggregate)
	}
}

func TestMoviesRepository_Update(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Draft", 2000, "Drama", "Comedy")
	before, _ := env.repository.Movies.Get(env.ctx, id)

	other, err := env.repository.Directors.Upsert(env.ctx, domain.Director{Name: "Greta Gerwig"})
	if err != nil {
		t.Fatalf("seed director: %v", err)
	}
	title := "Final"
	if err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{Title: &title, DirectorID: &other.ID}); err != nil {
		t.Fatalf("update: %v", err)
	}
	rec, _ := env.repository.Movies.Get(env.ctx, id)
	if rec.Movie.Title != "Final" || rec.Director.ID != other.ID || *rec.Movie.ReleaseYear != 2000 {
		t.Fatalf("after update = %+v", rec)
	}
	if len(rec.Genres) != 2 {
		t.Fatalf("genres changed without a genre patch: %+v", rec.Genres)
	}
	if rec.Movie.UpdatedAt.Before(before.Movie.UpdatedAt) {
		t.Fatalf("updated_at moved backwards")
	}

	replacement := env.genreIDs("Science Fiction")
	if err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{GenreIDs: &replacement}); err != nil {
		t.Fatalf("replace genres: %v", err)
	}
	rec, _ = env.repository.Movies.Get(env.ctx, id)
	if len(rec.Genres) != 1 || rec.Genres[0].Name != "Science Fiction" {
		t.Fatalf("genres = %+v", rec.Genres)
	}

	empty := []int64{}
	if err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{GenreIDs: &empty}); err != nil {
		t.Fatalf("clear genres: %v", err)
	}
	genres, err := env.repository.MovieGenres.ListByMovie(env.ctx, id)
	if err != nil {
		t.Fatalf("list genres: %v", err)
	}
	if len(genres) != 0 {
		t.Fatalf("genres = %+v, want none", genres)
	}

	if err := env.repository.Movies.Update(env.ctx, id+1000, domain.MoviePatch{Title: &title}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update missing: err = %v, want ErrNotFound", err)
	}

	bad := []int64{999999}
	err = env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{Title: ptrString("Rolled Back"), GenreIDs: &bad})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("bad genre: err = %v, want ErrInvalidReference", err)
	}
	rec, _ = env.repository.Movies.Get(env.ctx, id)
	if rec.Movie.Title != "Final" {
		t.Fatalf("failed update was not rolled back: %q", rec.Movie.Title)
	}
}

func TestMovieGenresRepository_Replace(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Linked", 2010, "Drama")

	if err := env.repository.MovieGenres.Replace(env.ctx, id, env.genreIDs("Comedy", "Science Fiction", "Comedy")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	genres, err := env.repository.MovieGenres.ListByMovie(env.ctx, id)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(genres) != 2 || genres[0].Name != "Comedy" || genres[1].Name != "Science Fiction" {
		t.Fatalf("genres = %+v", genres)
	}

	if err := env.repository.MovieGenres.Replace(env.ctx, id+1000, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("replace missing movie: err = %v, want ErrNotFound", err)
	}
}

func TestMovieGenresRepository_ConcurrentReplace(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Contended", 2010)
	set := env.genreIDs("Drama", "Comedy")

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := env.repository.MovieGenres.Replace(env.ctx, id, set); err != nil {
				t.Errorf("replace: %v", err)
			}
		}()
	}
	wg.Wait()

	var rows int
	if err := env.pool.QueryRow(env.ctx, `SELECT COUNT(*) FROM movie_genres WHERE movie_id = $1`, id).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != len(set) {
		t.Fatalf("association rows = %d, want %d", rows, len(set))
	}
}

func TestMoviesRepository_UpdateSharesGenreLock(t *testing.T) {
	env := newTestEnv(t)
	if env.repository.Movies.genres != env.repository.MovieGenres {
		t.Fatalf("movies repository does not write through the association store")
	}
	id := mustCreateMovie(t, env, "Interleaved", 2012)
	sets := [][]int64{env.genreIDs("Drama"), env.genreIDs("Comedy", "Science Fiction")}

	const rounds = 6
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		set := sets[i%len(sets)]
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{GenreIDs: &set}); err != nil {
				t.Errorf("update: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if err := env.repository.MovieGenres.Replace(env.ctx, id, set); err != nil {
				t.Errorf("replace: %v", err)
			}
		}()
	}
	wg.Wait()

	genres, err := env.repository.MovieGenres.ListByMovie(env.ctx, id)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(genres) != 1 && len(genres) != 2 {
		t.Fatalf("genres = %+v, want exactly one of the written sets", genres)
	}
	if len(genres) == 2 && (genres[0].Name != "Comedy" || genres[1].Name != "Science Fiction") {
		t.Fatalf("genres = %+v, sets were merged", genres)
	}
}

func TestMoviesRepository_DeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Ephemeral", 2015, "Drama", "Comedy")
	mustRate(t, env, id, 5, 6)

	deleted, err := env.repository.Movies.Delete(env.ctx, id)
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}

	var links, ratings int
	_ = env.pool.QueryRow(env.ctx, `SELECT COUNT(*) FROM movie_genres WHERE movie_id = $1`, id).Scan(&links)
	_ = env.pool.QueryRow(env.ctx, `SELECT COUNT(*) FROM movie_ratings WHERE movie_id = $1`, id).Scan(&ratings)
	if links != 0 || ratings != 0 {
		t.Fatalf("dependent rows survived: links=%d ratings=%d", links, ratings)
	}

	deleted, err = env.repository.Movies.Delete(env.ctx, id)
	if err != nil || deleted {
		t.Fatalf("second delete = %v, %v, want false, nil", deleted, err)
	}
	if _, err := env.repository.Ratings.Create(env.ctx, id, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("rate deleted movie: err = %v, want ErrNotFound", err)
	}
	if err := env.repository.Movies.Update(env.ctx, id, domain.MoviePatch{Title: ptrString("Zombie")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("update deleted movie: err = %v, want ErrNotFound", err)
	}
}

func TestRatingsRepository_CreateAndAggregate(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Rated", 2010)

	rating, err := env.repository.Ratings.Create(env.ctx, id, 8)
	if err != nil {
		t.Fatalf("create rating: %v", err)
	}
	if rating.ID == 0 || rating.MovieID != id || rating.Score != 8 || rating.CreatedAt.IsZero() {
		t.Fatalf("rating = %+v", rating)
	}
	mustRate(t, env, id, 6)

	agg, err := env.repository.Ratings.Aggregate(env.ctx, id)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Average != 7.0 || agg.Count != 2 {
		t.Fatalf("aggregate = %+v, want 7/2", agg)
	}

	mustRate(t, env, id, 7)
	agg, _ = env.repository.Ratings.Aggregate(env.ctx, id)
	rec, _ := env.repository.Movies.Get(env.ctx, id)
	if rec.Aggregate != agg {
		t.Fatalf("record aggregate %+v differs from rating store %+v", rec.Aggregate, agg)
	}

	for _, score := range []int{0, 11} {
		if _, err := env.repository.Ratings.Create(env.ctx, id, score); err == nil {
			t.Fatalf("score %d accepted by check constraint", score)
		}
	}
}

func TestRatingsRepository_AggregateEmpty(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Unrated", 2010)

	agg, err := env.repository.Ratings.Aggregate(env.ctx, id)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Average != 0 || agg.Count != 0 {
		t.Fatalf("aggregate = %+v, want zero", agg)
	}
}

func TestRatingsRepository_ConcurrentCreates(t *testing.T) {
	env := newTestEnv(t)
	id := mustCreateMovie(t, env, "Concurrent Movie", 2010)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := env.repository.Ratings.Create(env.ctx, id, score); err != nil {
				t.Errorf("create rating %d: %v", score, err)
			}
		}(i + 1)
	}
	wg.Wait()

	agg, err := env.repository.Ratings.Aggregate(env.ctx, id)
	if err != nil {
		t.Fatalf("aggregate after concurrent creates: %v", err)
	}
	if agg.Count != workers || agg.Average != 5.5 {
		t.Fatalf("aggregate = %+v, want 5.5/%d", agg, workers)
	}
}

func TestMasterData_UpsertKeepsSequenceAhead(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.repository.Directors.Upsert(env.ctx, domain.Director{ID: 50, Name: "Explicit"}); err != nil {
		t.Fatalf("upsert explicit: %v", err)
	}
	renamed, err := env.repository.Directors.Upsert(env.ctx, domain.Director{ID: 50, Name: "Renamed"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := env.repository.Directors.GetByID(env.ctx, 50)
	if err != nil || got != renamed {
		t.Fatalf("get = %+v, %v", got, err)
	}

	next, err := env.repository.Directors.Upsert(env.ctx, domain.Director{Name: "Auto"})
	if err != nil {
		t.Fatalf("upsert auto: %v", err)
	}
	if next.ID <= 50 {
		t.Fatalf("auto id = %d, sequence not moved past explicit id", next.ID)
	}

	desc := "Stories about feelings"
	g, err := env.repository.Genres.Upsert(env.ctx, domain.Genre{ID: env.genres["Drama"].ID, Name: "Drama", Description: &desc})
	if err != nil {
		t.Fatalf("upsert genre: %v", err)
	}
	fetched, err := env.repository.Genres.GetByID(env.ctx, g.ID)
	if err != nil || fetched.Description == nil || *fetched.Description != desc {
		t.Fatalf("genre = %+v, %v", fetched, err)
	}

	if _, err := env.repository.Directors.GetByID(env.ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing director: err = %v", err)
	}
	if _, err := env.repository.Genres.GetByID(env.ctx, 999999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing genre: err = %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Fatalf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func ptrString(s string) *string { return &s }

func BenchmarkMoviesRepositoryCreate(b *testing.B) {
	env := newTestEnv(b)
	genres := env.genreIDs("Drama", "Comedy")

	for i := 0; i < b.N; i++ {
		_, err := env.repository.Movies.Create(env.ctx, domain.MovieCreate{
			Title:      fmt.Sprintf("Bench Movie %d", i),
			DirectorID: env.director.ID,
			GenreIDs:   genres,
		})
		if err != nil {
			b.Fatalf("create movie: %v", err)
		}
	}
}

func BenchmarkMoviesRepositoryList(b *testing.B) {
	env := newTestEnv(b)
	for i := 0; i < 100; i++ {
		id := mustCreateMovie(b, env, fmt.Sprintf("Bench Movie %d", i), 2000+i%20, "Drama")
		mustRate(b, env, id, i%10+1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.repository.Movies.List(env.ctx, domain.MovieFilter{Genre: ptrString("Drama")}, 20, 40); err != nil {
			b.Fatalf("list: %v", err)
		}
	}
}
