package httpserver

import (
	"net/url"
	"testing"
)

func FuzzBuildListQuery(f *testing.F) {
	seeds := []string{
		"title=Inception&genre=Drama&release_year=2010",
		"release_year=abc",
		"page=2&page_size=200",
		"page=-5",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		q, err := buildListQuery(values, testPaging)
		if err != nil {
			return
		}
		if q.Page < 1 || q.PageSize < 1 || q.PageSize > testPaging.MaxPageSize {
			t.Fatalf("accepted out-of-range paging %d/%d from %q", q.Page, q.PageSize, raw)
		}
	})
}
