package helpers

import (
	"fmt"
	"net/http"
	"strconv"
)

// MaxPageSize caps the limit query parameter.
const MaxPageSize = 1000

// Page is an optional window over a list. Limit 0 means no limit.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads limit and offset from the query string. Both are optional;
// limit is clamped to MaxPageSize.
func ParsePage(r *http.Request) (Page, error) {
	var p Page
	q := r.URL.Query()
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return Page{}, fmt.Errorf("invalid limit %q", s)
		}
		p.Limit = min(v, MaxPageSize)
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return Page{}, fmt.Errorf("invalid offset %q", s)
		}
		p.Offset = v
	}
	return p, nil
}

// Slice returns the page of items. Out of range offsets yield an empty slice.
func Slice[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
