package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestItineraryCalendar(t *testing.T) {
	loc := time.FixedZone("MST", -7*60*60)
	timed := ev("a", "2026-02-10", "10:00p", "2:00a")
	timed.Name = "Late Night Hack"
	timed.Address = "1 Main St"
	timed.Link = "https://lu.ma/a"
	timed.Organizer = "Acme"
	timed.Tags = []string{"Devs/Builders"}
	noEnd := ev("b", "2026-02-11", "1:00p", "")
	allDay := ev("c", "2026-02-12", domain.AllDay, "")
	undated := ev("d", "", "1:00p", "")
	stamp := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	out, err := ItineraryCalendar([]domain.Event{timed, noEnd, allDay, undated}, loc, 2*time.Hour, stamp)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+calendarProductID)
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"), "undated events are skipped")
	assert.Contains(t, out, "UID:a@sheeets")
	assert.Contains(t, out, "SUMMARY:Late Night Hack")
	assert.Contains(t, out, "DTSTART:20260211T050000Z", "10pm MST")
	assert.Contains(t, out, "DTEND:20260211T090000Z", "2am next day")
	assert.Contains(t, out, "DTSTART:20260211T200000Z")
	assert.Contains(t, out, "DTEND:20260211T220000Z", "no end gets the tail")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20260212")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20260213")
}

func TestEventDescription(t *testing.T) {
	e := domain.Event{Organizer: "Acme", Cost: "$10", Tags: []string{"AI", "DeFi"}, Note: "Bring ID"}
	assert.Equal(t, "Hosted by Acme\nCost: $10\nTags: AI, DeFi\nBring ID", eventDescription(e))
	assert.Equal(t, "", eventDescription(domain.Event{}))
}
