package services

import (
	"slices"
	"strings"
	"time"

	"sheeets/internal/domain"
)

// FilterInputs is the caller-held state ApplyFilters reads alongside the
// FilterState. Nil sets mean "not supplied".
type FilterInputs struct {
	Itinerary    map[string]struct{}
	FriendEvents map[string]struct{}
	// Now is the current instant in the conference's local time zone.
	Now    time.Time
	Policy domain.NowPolicy
}

// ApplyFilters returns the events matching f, in input order. It never
// mutates events or the inputs.
func ApplyFilters(events []domain.Event, f domain.FilterState, in FilterInputs) []domain.Event {
	days := make(map[string]struct{}, len(f.SelectedDays))
	for _, d := range f.SelectedDays {
		days[d] = struct{}{}
	}
	start, end := f.TimeStart, f.TimeEnd
	if end <= 0 || end > 24 {
		end = 24
	}
	timeWindow := start > 0 || end < 24
	query := strings.ToLower(strings.TrimSpace(f.Search))
	policy := in.Policy
	if policy == (domain.NowPolicy{}) {
		policy = domain.DefaultNowPolicy()
	}

	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if f.Conference != "" && e.Conference != f.Conference {
			continue
		}
		if f.NowMode {
			if !IsHappeningNow(e, in.Now, policy) {
				continue
			}
		} else {
			if len(days) > 0 {
				if _, ok := days[e.DateISO]; !ok {
					continue
				}
			}
			if timeWindow && !e.IsAllDay {
				if h, ok := startHour(e.StartTime); ok && (h < start || h >= end) {
					continue
				}
			}
		}
		if !hasAllTags(e.Tags, f.Vibes) {
			continue
		}
		if f.FreeOnly && !e.IsFree {
			continue
		}
		if f.ItineraryOnly {
			if _, ok := in.Itinerary[e.ID]; !ok {
				continue
			}
		}
		if in.FriendEvents != nil {
			if _, ok := in.FriendEvents[e.ID]; !ok {
				continue
			}
		}
		if query != "" && !strings.Contains(searchText(e), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasAllTags(have, want []string) bool {
	for _, t := range want {
		if !slices.Contains(have, t) {
			return false
		}
	}
	return true
}

func searchText(e domain.Event) string {
	parts := []string{e.Name, e.Organizer, e.Address, e.Note, e.Conference}
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// IsHappeningNow reports whether e is on today's date and running or about
// to start. All-day events and events without a parseable start pass.
// Without an end time, an event counts as running for policy.Tail after start.
// An end earlier than the start is read as running past midnight.
func IsHappeningNow(e domain.Event, now time.Time, policy domain.NowPolicy) bool {
	if e.DateISO != now.Format("2006-01-02") {
		return false
	}
	if e.IsAllDay {
		return true
	}
	start, ok := ParseTimeMinutes(e.StartTime)
	if !ok {
		return true
	}
	cur := now.Hour()*60 + now.Minute()
	lead := int(policy.Lead / time.Minute)
	tail := int(policy.Tail / time.Minute)

	if cur >= start-lead && cur < start {
		return true
	}
	if end, ok := ParseTimeMinutes(e.EndTime); ok {
		if end <= start {
			end += 24 * 60
		}
		return cur >= start && cur <= end
	}
	return cur >= start && cur <= start+tail
}
