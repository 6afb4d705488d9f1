package httpserver

import (
	"math"
	"time"

	"github.com/Clark-Hu/movies-api/internal/domain"
)

type envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *errorBody  `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type directorSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type movieListItem struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	ReleaseYear   *int            `json:"release_year"`
	Director      directorSummary `json:"director"`
	Genres        []string        `json:"genres"`
	AverageRating float64         `json:"average_rating"`
}

type movieDetail struct {
	movieListItem
	Cast         *string   `json:"cast"`
	RatingsCount int64     `json:"ratings_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type paginatedMovies struct {
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalItems int64           `json:"total_items"`
	Items      []movieListItem `json:"items"`
}

type ratingResponse struct {
	ID      int64 `json:"id"`
	MovieID int64 `json:"movie_id"`
	Score   int   `json:"score"`
}

type ratingSummaryResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func toMovieListItem(rec domain.MovieRecord) movieListItem {
	genres := make([]string, 0, len(rec.Genres))
	for _, g := range rec.Genres {
		genres = append(genres, g.Name)
	}
	return movieListItem{
		ID:          rec.Movie.ID,
		Title:       rec.Movie.Title,
		ReleaseYear: rec.Movie.ReleaseYear,
		Director: directorSummary{
			ID:   rec.Director.ID,
			Name: rec.Director.Name,
		},
		Genres:        genres,
		AverageRating: roundToOneDecimal(rec.Aggregate.Average),
	}
}

func toMovieDetail(rec domain.MovieRecord) movieDetail {
	return movieDetail{
		movieListItem: toMovieListItem(rec),
		Cast:          rec.Movie.Cast,
		RatingsCount:  rec.Aggregate.Count,
		UpdatedAt:     rec.Movie.UpdatedAt,
	}
}

func toPaginatedMovies(page domain.MoviePage, pageNum, pageSize int) paginatedMovies {
	items := make([]movieListItem, 0, len(page.Items))
	for _, rec := range page.Items {
		items = append(items, toMovieListItem(rec))
	}
	return paginatedMovies{
		Page:       pageNum,
		PageSize:   pageSize,
		TotalItems: page.Total,
		Items:      items,
	}
}

func toRatingResponse(r domain.Rating) ratingResponse {
	return ratingResponse{ID: r.ID, MovieID: r.MovieID, Score: r.Score}
}

// roundToOneDecimal is display-only; stored aggregates keep full precision.
func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10.0
}
