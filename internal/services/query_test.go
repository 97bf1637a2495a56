package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sheeets/internal/domain"
)

func TestConferenceCounts(t *testing.T) {
	events := []domain.Event{{Conference: "ETHDenver"}, {Conference: "EthCC"}, {Conference: "ETHDenver"}}
	assert.Equal(t, []domain.NameCount{{Name: "ETHDenver", Count: 2}, {Name: "EthCC", Count: 1}}, ConferenceCounts(events))
	assert.Equal(t, []domain.NameCount{}, ConferenceCounts(nil))
}

func TestTagCounts(t *testing.T) {
	events := []domain.Event{
		{Tags: []string{"DeFi", "Party"}},
		{Tags: []string{"AI", "Party"}},
		{Tags: []string{"DeFi"}},
		{Tags: []string{"Brunch"}},
	}
	want := []domain.NameCount{
		{Name: "DeFi", Count: 2},
		{Name: "Party", Count: 2},
		{Name: "AI", Count: 1},
		{Name: "Brunch", Count: 1},
	}
	assert.Equal(t, want, TagCounts(events))
}

func TestDateCounts(t *testing.T) {
	events := []domain.Event{{DateISO: "2026-02-11"}, {DateISO: ""}, {DateISO: "2026-02-10"}, {DateISO: "2026-02-11"}}
	want := []domain.DateCount{{Date: "2026-02-10", Count: 1}, {Date: "2026-02-11", Count: 2}}
	assert.Equal(t, want, DateCounts(events))
}

func TestSortByDateTime(t *testing.T) {
	events := []domain.Event{
		{ID: "undated", StartTime: "9:00a"},
		{ID: "d2-late", DateISO: "2026-02-11", StartTime: "6:00p"},
		{ID: "d1-tbd", DateISO: "2026-02-10", StartTime: "TBD"},
		{ID: "d1-b", DateISO: "2026-02-10", StartTime: "1:00p", Name: "B"},
		{ID: "d1-a", DateISO: "2026-02-10", StartTime: "1:00p", Name: "A"},
		{ID: "d1-allday", DateISO: "2026-02-10", StartTime: domain.AllDay, IsAllDay: true},
		{ID: "d1-early", DateISO: "2026-02-10", StartTime: "9:00a"},
	}
	got := SortByDateTime(events)
	assert.Equal(t, []string{"d1-allday", "d1-early", "d1-a", "d1-b", "d1-tbd", "d2-late", "undated"}, ids(got))
	assert.Equal(t, "undated", events[0].ID, "input is not reordered")
}
