package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movies-api/internal/config"
	"github.com/Clark-Hu/movies-api/internal/domain"
	"github.com/Clark-Hu/movies-api/internal/service"
)

const maxRequestBody = 1 << 20 // 1 MiB

// movieWriteRequest serves both create and update. A missing key and an
// explicit null both decode to nil and mean "not supplied".
type movieWriteRequest struct {
	Title       *string  `json:"title"`
	DirectorID  *int64   `json:"director_id"`
	ReleaseYear *int     `json:"release_year"`
	Cast        *string  `json:"cast"`
	Genres      *[]int64 `json:"genres"`
}

func (req movieWriteRequest) toInput() service.MovieInput {
	return service.MovieInput{
		Title:       req.Title,
		ReleaseYear: req.ReleaseYear,
		Cast:        req.Cast,
		DirectorID:  req.DirectorID,
		GenreIDs:    req.Genres,
	}
}

type ratingRequest struct {
	Score *int `json:"score"`
}

// queryError is a malformed query or path parameter.
type queryError struct {
	msg string
}

func (e *queryError) Error() string { return e.msg }

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	q, err := buildListQuery(r.URL.Query(), s.cfg)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	page, err := s.movies.ListMovies(r.Context(), q)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, toPaginatedMovies(page, q.Page, q.PageSize))
}

// buildListQuery parses paging and filter parameters. Blank filters are ignored.
func buildListQuery(query url.Values, cfg config.Config) (service.ListQuery, error) {
	q := service.ListQuery{Page: 1, PageSize: cfg.DefaultPageSize}
	if q.PageSize < 1 {
		q.PageSize = 10
	}
	maxSize := cfg.MaxPageSize
	if maxSize < q.PageSize {
		maxSize = q.PageSize
	}

	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil || page < 1 {
			return q, &queryError{msg: "Invalid page: must be an integer >= 1"}
		}
		q.Page = page
	}
	if val := strings.TrimSpace(query.Get("page_size")); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil || size < 1 || size > maxSize {
			return q, &queryError{msg: fmt.Sprintf("Invalid page_size: must be an integer between 1 and %d", maxSize)}
		}
		q.PageSize = size
	}
	if q.Page-1 > math.MaxInt/q.PageSize {
		return q, &queryError{msg: fmt.Sprintf("Invalid page: out of range for page_size %d", q.PageSize)}
	}
	if val := strings.TrimSpace(query.Get("title")); val != "" {
		q.Filter.Title = &val
	}
	if val := strings.TrimSpace(query.Get("release_year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return q, &queryError{msg: "Invalid release_year: must be an integer"}
		}
		q.Filter.ReleaseYear = &year
	}
	if val := strings.TrimSpace(query.Get("genre")); val != "" {
		q.Filter.Genre = &val
	}
	return q, nil
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := s.movies.GetMovie(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, toMovieDetail(rec))
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieWriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	rec, err := s.movies.CreateMovie(r.Context(), req.toInput())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%d", rec.Movie.ID))
	s.respondSuccess(w, http.StatusCreated, toMovieDetail(rec))
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req movieWriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	rec, err := s.movies.UpdateMovie(r.Context(), id, req.toInput())
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, toMovieDetail(rec))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.movies.DeleteMovie(r.Context(), id); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Score == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "score is required")
		return
	}

	rating, err := s.movies.AddRating(r.Context(), id, *req.Score)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusCreated, toRatingResponse(rating))
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	agg, err := s.movies.RatingSummary(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondSuccess(w, http.StatusOK, ratingSummaryResponse{
		Average: roundToOneDecimal(agg.Average),
		Count:   agg.Count,
	})
}

func parseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, &queryError{msg: fmt.Sprintf("Invalid movie id: %q", raw)}
	}
	return id, nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.log.Errorw("msg", "failed to encode response", "err", err)
		}
	}
}

func (s *Server) respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	s.respondJSON(w, status, envelope{Status: "success", Data: data})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, envelope{
		Status: "failure",
		Error:  &errorBody{Code: status, Message: message},
	})
}

// respondServiceError maps service errors onto the failure envelope. Anything
// unclassified is logged and hidden behind a generic 500.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError
	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusUnprocessableEntity, validationErr.Message)
	case errors.As(err, &notFoundErr):
		s.respondError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, domain.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "Resource not found")
	default:
		s.log.Errorw("msg", "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, http.StatusUnprocessableEntity, "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "Request body cannot be empty")
	case errors.As(err, &maxBytesError):
		s.respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		s.respondError(w, http.StatusUnprocessableEntity, "Unknown field "+strings.TrimPrefix(err.Error(), "json: unknown field "))
	default:
		s.respondError(w, http.StatusUnprocessableEntity, "Unable to parse request body")
	}
}
