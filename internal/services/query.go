package services

import (
	"cmp"
	"slices"

	"sheeets/internal/domain"
)

// ConferenceCounts counts events per conference in first-seen order.
func ConferenceCounts(events []domain.Event) []domain.NameCount {
	var out []domain.NameCount
	idx := make(map[string]int)
	for _, e := range events {
		if i, ok := idx[e.Conference]; ok {
			out[i].Count++
			continue
		}
		idx[e.Conference] = len(out)
		out = append(out, domain.NameCount{Name: e.Conference, Count: 1})
	}
	if out == nil {
		out = []domain.NameCount{}
	}
	return out
}

// TagCounts counts tag usage, most used first, ties by name.
func TagCounts(events []domain.Event) []domain.NameCount {
	counts := make(map[string]int)
	for _, e := range events {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	out := make([]domain.NameCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, domain.NameCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.NameCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// DateCounts counts events per ISO date, ascending. Undated events are left out.
func DateCounts(events []domain.Event) []domain.DateCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.DateISO != "" {
			counts[e.DateISO]++
		}
	}
	out := make([]domain.DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, domain.DateCount{Date: d, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.DateCount) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

// SortByDateTime returns a copy in display order: by date (undated last),
// all-day first, then start time (unparseable last), then name.
func SortByDateTime(events []domain.Event) []domain.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		if c := compareDates(a.DateISO, b.DateISO); c != 0 {
			return c
		}
		if a.IsAllDay != b.IsAllDay {
			if a.IsAllDay {
				return -1
			}
			return 1
		}
		am, aok := ParseTimeMinutes(a.StartTime)
		bm, bok := ParseTimeMinutes(b.StartTime)
		switch {
		case aok && bok:
			if c := cmp.Compare(am, bm); c != 0 {
				return c
			}
		case aok:
			return -1
		case bok:
			return 1
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

func compareDates(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return cmp.Compare(a, b)
}
