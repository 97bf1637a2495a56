package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestNormalize_carryForwardAllDayAndDuplicates(t *testing.T) {
	rows := []domain.RawRow{
		{Date: "Mon, Feb 10", StartTime: "", Name: "Opening Ceremony"},
		{Date: "", StartTime: "9:00a", Name: "Coffee Chat"},
		{Date: "", StartTime: "9:00a", Name: "Coffee Chat"},
	}
	events := Normalize(rows, "ETHDenver", 2026)
	require.Len(t, events, 3)

	assert.Equal(t, "2026-02-10", events[0].DateISO)
	assert.True(t, events[0].IsAllDay)
	assert.Equal(t, domain.AllDay, events[0].StartTime)
	assert.Equal(t, "", events[0].EndTime)
	assert.False(t, events[0].IsDuplicate)

	for _, e := range events[1:] {
		assert.Equal(t, "2026-02-10", e.DateISO)
		assert.Equal(t, "9:00a", e.StartTime)
		assert.True(t, e.IsDuplicate)
	}
	assert.Equal(t, "evt-eus6fb", events[0].ID)
	assert.Equal(t, "evt-mzuw8t", events[1].ID)
	assert.Equal(t, "evt-mzuw8t-1", events[2].ID)
}

func TestNormalize_skipsHeaderAndNamelessRows(t *testing.T) {
	rows := []domain.RawRow{
		{Date: "Date", StartTime: "Start Time", Name: "Event Name"},
		{Date: "Tue, Feb 11", Name: ""},
		{StartTime: "10:00a", Name: "Breakfast"},
		{Name: "Header"},
		{Name: "  event  "},
	}
	events := Normalize(rows, "ETHDenver", 2026)
	require.Len(t, events, 1)
	assert.Equal(t, "Breakfast", events[0].Name)
	assert.Equal(t, "2026-02-11", events[0].DateISO, "date from nameless row carries forward")
}

func TestNormalize_fields(t *testing.T) {
	rows := []domain.RawRow{{
		Date:      "Feb 12",
		StartTime: " 6:00 PM ",
		EndTime:   "9:00 PM",
		Organizer: " Acme ",
		Name:      "Rooftop Mixer",
		Address:   "123 Main St",
		Cost:      "$0",
		Tags:      "Party/Social, DeFi, , party/social",
		Link:      "https://lu.ma/x",
		Food:      "Yes",
		Bar:       "",
		Note:      "RSVP required",
	}}
	events := Normalize(rows, "ETHDenver", 2026)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "ETHDenver", e.Conference)
	assert.Equal(t, "6:00 PM", e.StartTime)
	assert.Equal(t, "9:00 PM", e.EndTime)
	assert.False(t, e.IsAllDay)
	assert.Equal(t, "Acme", e.Organizer)
	assert.True(t, e.IsFree)
	assert.Equal(t, []string{"Party", "DeFi"}, e.Tags)
	assert.True(t, e.HasFood)
	assert.False(t, e.HasBar)
	assert.Nil(t, e.Lat)
	assert.Nil(t, e.Lng)
}

func TestNormalize_idempotentIDs(t *testing.T) {
	rows := []domain.RawRow{
		{Date: "Feb 10", StartTime: "1:00p", Name: "A"},
		{StartTime: "2:00p", Name: "B"},
	}
	first := Normalize(rows, "ETHDenver", 2026)
	second := Normalize(rows, "ETHDenver", 2026)
	assert.Equal(t, ids(first), ids(second))

	other := Normalize(rows, "EthCC", 2026)
	assert.NotEqual(t, first[0].ID, other[0].ID)
}

func TestEventID(t *testing.T) {
	assert.Equal(t, "evt-eus6fb", EventID("ETHDenver", "Mon, Feb 10", "", "Opening Ceremony"))
	assert.Equal(t, int32(99162322), hashCode("hello"))
	assert.Equal(t, int32(0), hashCode(""))
}

func TestUniquifyIDs(t *testing.T) {
	events := []domain.Event{{ID: "x"}, {ID: "x-1"}, {ID: "x"}, {ID: "x"}, {ID: "y"}}
	UniquifyIDs(events)
	assert.Equal(t, []string{"x", "x-1", "x-2", "x-3", "y"}, ids(events))
}

func TestParseDateISO(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mon, Feb 10", "2026-02-10"},
		{"February 3rd", "2026-02-03"},
		{"10 Feb", "2026-02-10"},
		{"Sat Mar 1", "2026-03-01"},
		{"Sept 9", "2026-09-09"},
		{"Decentralized Day Feb 12", "2026-02-12"},
		{"Marathon 5", ""},
		{"Junebug Jul 4", "2026-07-04"},
		{"feb 30", ""},
		{"Monday", ""},
		{"Feb", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDateISO(tt.in, 2026))
		})
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{"Wellness", "AI"}, ParseTags("Fitness/Wellness, AI/ML"))
	assert.Equal(t, []string{"Networking", "DeFi"}, ParseTags(" Networking ,DeFi,Networking"))
}

func TestIsFreeCost(t *testing.T) {
	for _, s := range []string{"", "free", "FREE", "$0", "0", " Free "} {
		assert.True(t, IsFreeCost(s), s)
	}
	for _, s := range []string{"$10", "Free w/ RSVP", "donation"} {
		assert.False(t, IsFreeCost(s), s)
	}
}

func TestMarkDuplicates(t *testing.T) {
	events := []domain.Event{
		{ID: "1", Name: "A", DateISO: "2026-02-10", StartTime: "1:00p"},
		{ID: "2", Name: "A", DateISO: "2026-02-10", StartTime: "1:00p"},
		{ID: "3", Name: "A", DateISO: "2026-02-11", StartTime: "1:00p"},
	}
	MarkDuplicates(events)
	assert.True(t, events[0].IsDuplicate)
	assert.True(t, events[1].IsDuplicate)
	assert.False(t, events[2].IsDuplicate)
}
