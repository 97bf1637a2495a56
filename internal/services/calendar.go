package services

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"sheeets/internal/domain"
)

const calendarProductID = "-//sheeets//itinerary//EN"

// ItineraryCalendar renders events as an iCalendar document. Start and end
// are read in loc; all-day and untimed events become all-day entries. An
// event without an end lasts tail, and an end earlier than the
// start runs past midnight.
func ItineraryCalendar(events []domain.Event, loc *time.Location, tail time.Duration, stamp time.Time) (string, error) {
	if loc == nil {
		loc = time.UTC
	}
	if tail <= 0 {
		tail = domain.DefaultNowPolicy().Tail
	}
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName("Sheeets itinerary")

	for _, e := range events {
		day, err := time.ParseInLocation("2006-01-02", e.DateISO, loc)
		if err != nil {
			continue
		}
		ev := cal.AddEvent(e.ID + "@sheeets")
		ev.SetDtStampTime(stamp.UTC())
		ev.SetSummary(e.Name)
		if e.Address != "" {
			ev.SetLocation(e.Address)
		}
		if e.Link != "" {
			ev.SetURL(e.Link)
		}
		if desc := eventDescription(e); desc != "" {
			ev.SetDescription(desc)
		}

		start, ok := ParseTimeMinutes(e.StartTime)
		if e.IsAllDay || !ok {
			ev.SetAllDayStartAt(day)
			ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
			continue
		}
		startAt := day.Add(time.Duration(start) * time.Minute)
		endAt := startAt.Add(tail)
		if end, ok := ParseTimeMinutes(e.EndTime); ok {
			if end <= start {
				end += 24 * 60
			}
			endAt = day.Add(time.Duration(end) * time.Minute)
		}
		ev.SetStartAt(startAt)
		ev.SetEndAt(endAt)
	}
	out := cal.Serialize()
	if out == "" {
		return "", fmt.Errorf("empty calendar")
	}
	return out, nil
}

func eventDescription(e domain.Event) string {
	var parts []string
	if e.Organizer != "" {
		parts = append(parts, "Hosted by "+e.Organizer)
	}
	if e.Cost != "" {
		parts = append(parts, "Cost: "+e.Cost)
	}
	if len(e.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(e.Tags, ", "))
	}
	if e.Note != "" {
		parts = append(parts, e.Note)
	}
	return strings.Join(parts, "\n")
}
