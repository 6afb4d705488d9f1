// Package servicetest provides an in-memory implementation of the service
// storage contracts for unit tests.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

// Memory keeps movies, genres, directors, associations and ratings in maps.
// It mirrors the relational behaviour: foreign keys are checked and deleting
// a movie drops its associations and ratings.
type Memory struct {
	mu           sync.RWMutex
	directors    map[int64]domain.Director
	genres       map[int64]domain.Genre
	movies       map[int64]domain.Movie
	links        map[int64]map[int64]struct{}
	ratings      []domain.Rating
	nextMovieID  int64
	nextRatingID int64
	fail         error
	now          func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		directors: make(map[int64]domain.Director),
		genres:    make(map[int64]domain.Genre),
		movies:    make(map[int64]domain.Movie),
		links:     make(map[int64]map[int64]struct{}),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AddDirector registers director master data.
func (m *Memory) AddDirector(id int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.directors[id] = domain.Director{ID: id, Name: name}
}

// AddGenre registers genre master data.
func (m *Memory) AddGenre(id int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.genres[id] = domain.Genre{ID: id, Name: name}
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// LinkCount returns the number of association rows held for a movie.
func (m *Memory) LinkCount(movieID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.links[movieID])
}

// RatingCount returns the number of rating rows held for a movie.
func (m *Memory) RatingCount(movieID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.ratings {
		if r.MovieID == movieID {
			n++
		}
	}
	return n
}

// Movies exposes the movie contract.
func (m *Memory) Movies() *Movies { return &Movies{m: m} }

// Ratings exposes the rating contract.
func (m *Memory) Ratings() *Ratings { return &Ratings{m: m} }

// Directors exposes the director lookup.
func (m *Memory) Directors() *Directors { return &Directors{m: m} }

// Genres exposes the genre lookup.
func (m *Memory) Genres() *Genres { return &Genres{m: m} }

// Movies implements service.MovieStore.
type Movies struct{ m *Memory }

func (s *Movies) List(_ context.Context, filter domain.MovieFilter, limit, offset int) (domain.MoviePage, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return domain.MoviePage{}, m.fail
	}
	if limit < 1 || offset < 0 {
		return domain.MoviePage{}, fmt.Errorf("list movies: invalid window limit=%d offset=%d", limit, offset)
	}

	ids := make([]int64, 0, len(m.movies))
	for id, movie := range m.movies {
		if m.matches(movie, filter) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	page := domain.MoviePage{Total: int64(len(ids)), Items: []domain.MovieRecord{}}
	if offset >= len(ids) {
		return page, nil
	}
	end := offset + limit
	if end > len(ids) || end < offset {
		end = len(ids)
	}
	for _, id := range ids[offset:end] {
		page.Items = append(page.Items, m.record(id))
	}
	return page, nil
}

func (s *Movies) Get(_ context.Context, id int64) (domain.MovieRecord, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return domain.MovieRecord{}, m.fail
	}
	if _, ok := m.movies[id]; !ok {
		return domain.MovieRecord{}, domain.ErrNotFound
	}
	return m.record(id), nil
}

func (s *Movies) Exists(_ context.Context, id int64) (bool, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return false, m.fail
	}
	_, ok := m.movies[id]
	return ok, nil
}

func (s *Movies) Create(_ context.Context, params domain.MovieCreate) (int64, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	if err := m.checkRefs(&params.DirectorID, params.GenreIDs); err != nil {
		return 0, err
	}

	m.nextMovieID++
	now := m.now()
	movie := domain.Movie{
		ID:          m.nextMovieID,
		Title:       params.Title,
		ReleaseYear: params.ReleaseYear,
		Cast:        params.Cast,
		DirectorID:  params.DirectorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.movies[movie.ID] = movie
	m.setLinks(movie.ID, params.GenreIDs)
	return movie.ID, nil
}

func (s *Movies) Update(_ context.Context, id int64, patch domain.MoviePatch) error {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	movie, ok := m.movies[id]
	if !ok {
		return domain.ErrNotFound
	}
	var genreIDs []int64
	if patch.GenreIDs != nil {
		genreIDs = *patch.GenreIDs
	}
	if err := m.checkRefs(patch.DirectorID, genreIDs); err != nil {
		return err
	}

	if patch.Title != nil {
		movie.Title = *patch.Title
	}
	if patch.ReleaseYear != nil {
		movie.ReleaseYear = patch.ReleaseYear
	}
	if patch.Cast != nil {
		movie.Cast = patch.Cast
	}
	if patch.DirectorID != nil {
		movie.DirectorID = *patch.DirectorID
	}
	movie.UpdatedAt = m.now()
	m.movies[id] = movie
	if patch.GenreIDs != nil {
		m.setLinks(id, genreIDs)
	}
	return nil
}

func (s *Movies) Delete(_ context.Context, id int64) (bool, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return false, m.fail
	}
	if _, ok := m.movies[id]; !ok {
		return false, nil
	}
	delete(m.movies, id)
	delete(m.links, id)
	kept := m.ratings[:0]
	for _, r := range m.ratings {
		if r.MovieID != id {
			kept = append(kept, r)
		}
	}
	m.ratings = kept
	return true, nil
}

// Ratings implements service.RatingStore.
type Ratings struct{ m *Memory }

func (s *Ratings) Create(_ context.Context, movieID int64, score int) (domain.Rating, error) {
	m := s.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Rating{}, m.fail
	}
	if _, ok := m.movies[movieID]; !ok {
		return domain.Rating{}, domain.ErrNotFound
	}
	m.nextRatingID++
	rating := domain.Rating{ID: m.nextRatingID, MovieID: movieID, Score: score, CreatedAt: m.now()}
	m.ratings = append(m.ratings, rating)
	return rating, nil
}

func (s *Ratings) Aggregate(_ context.Context, movieID int64) (domain.RatingAggregate, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return domain.RatingAggregate{}, m.fail
	}
	return m.aggregate(movieID), nil
}

// Directors implements service.DirectorLookup.
type Directors struct{ m *Memory }

func (s *Directors) GetByID(_ context.Context, id int64) (domain.Director, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return domain.Director{}, m.fail
	}
	d, ok := m.directors[id]
	if !ok {
		return domain.Director{}, domain.ErrNotFound
	}
	return d, nil
}

// Genres implements service.GenreLookup.
type Genres struct{ m *Memory }

func (s *Genres) GetByID(_ context.Context, id int64) (domain.Genre, error) {
	m := s.m
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.fail != nil {
		return domain.Genre{}, m.fail
	}
	g, ok := m.genres[id]
	if !ok {
		return domain.Genre{}, domain.ErrNotFound
	}
	return g, nil
}

// The helpers below expect m.mu to be held.

func (m *Memory) matches(movie domain.Movie, filter domain.MovieFilter) bool {
	if filter.Title != nil && *filter.Title != "" &&
		!strings.Contains(strings.ToLower(movie.Title), strings.ToLower(*filter.Title)) {
		return false
	}
	if filter.ReleaseYear != nil && (movie.ReleaseYear == nil || *movie.ReleaseYear != *filter.ReleaseYear) {
		return false
	}
	if filter.Genre != nil && *filter.Genre != "" {
		found := false
		for gid := range m.links[movie.ID] {
			if m.genres[gid].Name == *filter.Genre {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (m *Memory) record(id int64) domain.MovieRecord {
	movie := m.movies[id]
	genres := make([]domain.Genre, 0, len(m.links[id]))
	for gid := range m.links[id] {
		genres = append(genres, m.genres[gid])
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Name != genres[j].Name {
			return genres[i].Name < genres[j].Name
		}
		return genres[i].ID < genres[j].ID
	})
	return domain.MovieRecord{
		Movie:     movie,
		Director:  m.directors[movie.DirectorID],
		Genres:    genres,
		Aggregate: m.aggregate(id),
	}
}

func (m *Memory) aggregate(movieID int64) domain.RatingAggregate {
	var sum, count int64
	for _, r := range m.ratings {
		if r.MovieID == movieID {
			sum += int64(r.Score)
			count++
		}
	}
	if count == 0 {
		return domain.RatingAggregate{}
	}
	return domain.RatingAggregate{Average: float64(sum) / float64(count), Count: count}
}

func (m *Memory) checkRefs(directorID *int64, genreIDs []int64) error {
	if directorID != nil {
		if _, ok := m.directors[*directorID]; !ok {
			return &domain.ReferenceError{Field: "director_id", Constraint: "movies_director_id_fkey"}
		}
	}
	for _, gid := range genreIDs {
		if _, ok := m.genres[gid]; !ok {
			return &domain.ReferenceError{Field: "genres", Constraint: "movie_genres_genre_id_fkey"}
		}
	}
	return nil
}

func (m *Memory) setLinks(movieID int64, genreIDs []int64) {
	set := make(map[int64]struct{}, len(genreIDs))
	for _, gid := range genreIDs {
		set[gid] = struct{}{}
	}
	m.links[movieID] = set
}
