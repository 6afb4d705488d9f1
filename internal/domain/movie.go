package domain

import "time"

// Director is read-only master data referenced by every movie.
type Director struct {
	ID   int64
	Name string
}

// Genre is read-only master data linked to movies through movie_genres.
type Genre struct {
	ID          int64
	Name        string
	Description *string
}

// Movie represents the canonical movie row.
type Movie struct {
	ID          int64
	Title       string
	ReleaseYear *int
	Cast        *string
	DirectorID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovieRecord is a movie joined with its director, genres and live rating aggregate.
type MovieRecord struct {
	Movie     Movie
	Director  Director
	Genres    []Genre
	Aggregate RatingAggregate
}

// MovieFilter holds the conjunctive list filters. Nil fields are not applied.
type MovieFilter struct {
	Title       *string
	ReleaseYear *int
	Genre       *string
}

// MoviePage is one pagination window plus the total number of matching movies.
type MoviePage struct {
	Total int64
	Items []MovieRecord
}

// MovieCreate bundles the fields required to insert a movie and its associations.
type MovieCreate struct {
	Title       string
	ReleaseYear *int
	Cast        *string
	DirectorID  int64
	GenreIDs    []int64
}

// MoviePatch carries a partial update. A non-nil GenreIDs, even when empty,
// replaces the whole association set.
type MoviePatch struct {
	Title       *string
	ReleaseYear *int
	Cast        *string
	DirectorID  *int64
	GenreIDs    *[]int64
}
