package helpers

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sheeets/internal/domain"
)

// ParseFilterState builds a FilterState from the query string:
//
//	conference, date|days (ISO dates), tags|vibes, search|q, free, now,
//	time_start, time_end (hours, half-hour steps), friends, itinerary
//
// List parameters accept repeated keys and comma separated values.
func ParseFilterState(r *http.Request) (domain.FilterState, error) {
	q := r.URL.Query()
	f := domain.DefaultFilterState()

	f.Conference = strings.TrimSpace(q.Get("conference"))
	f.Search = strings.TrimSpace(first(q, "search", "q"))
	f.Vibes = listParam(q, "tags", "vibes")
	f.SelectedFriends = listParam(q, "friends")

	f.SelectedDays = listParam(q, "date", "days")
	for _, d := range f.SelectedDays {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return f, fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}

	var err error
	if f.FreeOnly, err = boolParam(q, "free"); err != nil {
		return f, err
	}
	if f.NowMode, err = boolParam(q, "now"); err != nil {
		return f, err
	}
	if f.ItineraryOnly, err = boolParam(q, "itinerary"); err != nil {
		return f, err
	}
	if f.TimeStart, err = hourParam(q, "time_start", 0); err != nil {
		return f, err
	}
	if f.TimeEnd, err = hourParam(q, "time_end", 24); err != nil {
		return f, err
	}
	if f.TimeStart >= f.TimeEnd {
		return f, fmt.Errorf("time_start must be before time_end")
	}
	return f, nil
}

func first(q url.Values, keys ...string) string {
	for _, k := range keys {
		if v := q.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func listParam(q url.Values, keys ...string) []string {
	var out []string
	for _, k := range keys {
		for _, v := range q[k] {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func boolParam(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: want true or false", key, s)
	}
	return v, nil
}

func hourParam(q url.Values, key string, def float64) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 || math.Mod(v*2, 1) != 0 {
		return 0, fmt.Errorf("invalid %s %q: want an hour between 0 and 24 in half-hour steps", key, s)
	}
	return v, nil
}
