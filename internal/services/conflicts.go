package services

import "sheeets/internal/domain"

const unknownDateKey = "unknown"

// DetectConflicts returns the ids of events that overlap another event on
// the same day. All-day events and events missing a start or end time never
// conflict. Touching boundaries (a.end == b.start) do not overlap. An end at
// or before the start runs past midnight.
func DetectConflicts(events []domain.Event) map[string]struct{} {
	type span struct {
		id         string
		start, end int
	}
	byDate := make(map[string][]span)
	for _, e := range events {
		if e.IsAllDay {
			continue
		}
		start, ok := ParseTimeMinutes(e.StartTime)
		if !ok {
			continue
		}
		end, ok := ParseTimeMinutes(e.EndTime)
		if !ok {
			continue
		}
		if end <= start {
			end += 24 * 60
		}
		key := e.DateISO
		if key == "" {
			key = unknownDateKey
		}
		byDate[key] = append(byDate[key], span{id: e.ID, start: start, end: end})
	}

	out := make(map[string]struct{})
	for _, spans := range byDate {
		for i := 0; i < len(spans); i++ {
			for j := i + 1; j < len(spans); j++ {
				a, b := spans[i], spans[j]
				if a.start < b.end && b.start < a.end {
					out[a.id] = struct{}{}
					out[b.id] = struct{}{}
				}
			}
		}
	}
	return out
}
