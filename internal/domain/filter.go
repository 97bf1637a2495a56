package domain

import "time"

// FilterState is the caller's query over the event set.
type FilterState struct {
	Conference string
	// SelectedDays holds ISO dates; empty means all days.
	SelectedDays []string
	// TimeStart and TimeEnd bound the start hour as [TimeStart, TimeEnd)
	// in half-hour steps over 0..24.
	TimeStart float64
	TimeEnd   float64
	// Vibes must all be present on an event.
	Vibes         []string
	Search        string
	FreeOnly      bool
	ItineraryOnly bool
	NowMode       bool
	// SelectedFriends narrows to events those friends are attending.
	SelectedFriends []string
}

// DefaultFilterState returns a filter that passes every event.
func DefaultFilterState() FilterState {
	return FilterState{TimeStart: 0, TimeEnd: 24}
}

// NowPolicy sets the windows around an event's start used by now mode.
type NowPolicy struct {
	Lead time.Duration
	Tail time.Duration
}

// DefaultNowPolicy is 60 minutes before start and 120 after when no end is known.
func DefaultNowPolicy() NowPolicy {
	return NowPolicy{Lead: 60 * time.Minute, Tail: 120 * time.Minute}
}
