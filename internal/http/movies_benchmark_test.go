package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv := buildTestServer(b)
	movie := srv.createMovie(b, `{"title":"Benchmark Movie","director_id":1,"genres":[1]}`)
	id := fmt.Sprint(movie.ID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := []byte(fmt.Sprintf(`{"score":%d}`, i%10+1))
		req := httptest.NewRequest(http.MethodPost, "/movies/"+id+"/ratings", bytes.NewReader(payload))
		req = attachIDParam(req, id)
		rec := httptest.NewRecorder()

		srv.handleSubmitRating(rec, req)
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkHandleListMovies(b *testing.B) {
	srv := buildTestServer(b)
	for i := 0; i < 50; i++ {
		srv.createMovie(b, fmt.Sprintf(`{"title":"Movie %d","director_id":1,"genres":[%d]}`, i, i%3+1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/movies?page=2&page_size=20&genre=Drama", nil)
		rec := httptest.NewRecorder()
		srv.handleListMovies(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
