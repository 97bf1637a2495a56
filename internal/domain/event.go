package domain

import (
	"context"
	"time"
)

// AllDay is the canonical start time for events without a listed time.
const AllDay = "All Day"

// Event is one normalized side event.
// swagger:model Event
type Event struct {
	ID          string   `json:"id"`
	Conference  string   `json:"conference"`
	DateISO     string   `json:"dateISO"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	IsAllDay    bool     `json:"isAllDay"`
	Organizer   string   `json:"organizer"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Cost        string   `json:"cost"`
	IsFree      bool     `json:"isFree"`
	Tags        []string `json:"tags"`
	Link        string   `json:"link"`
	HasFood     bool     `json:"hasFood"`
	HasBar      bool     `json:"hasBar"`
	Note        string   `json:"note"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	IsDuplicate bool     `json:"isDuplicate"`
}

// Feed is one conference tab of the source spreadsheet.
type Feed struct {
	Conference string
	GID        string
	Year       int
}

// RawRow is one spreadsheet row after column mapping, before normalization.
// Food and Bar hold the raw cell text; Normalize decides truthiness.
type RawRow struct {
	Date      string
	StartTime string
	EndTime   string
	Organizer string
	Name      string
	Address   string
	Cost      string
	Tags      string
	Link      string
	Food      string
	Bar       string
	Note      string
}

// SourceReader reads every row of a conference tab.
type SourceReader interface {
	ReadFeed(ctx context.Context, feed Feed) ([]RawRow, error)
}

// EventStore persists the materialized event cache.
type EventStore interface {
	// ListEvents returns every cached event ordered by date then start time.
	ListEvents(ctx context.Context) ([]Event, error)
	// ReplaceAll deletes every cached event and inserts events in batches,
	// stamping cachedAt, in a single transaction.
	ReplaceAll(ctx context.Context, events []Event, cachedAt time.Time, batchSize int) error
	// LatestCachedAt returns the most recent cached_at, or ok=false when empty.
	LatestCachedAt(ctx context.Context) (t time.Time, ok bool, err error)
}

// NameCount is a label with an occurrence count.
// swagger:model NameCount
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DateCount is an ISO date with an occurrence count.
// swagger:model DateCount
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CacheStatus describes the materialized event set.
type CacheStatus struct {
	CachedAt  time.Time `json:"cachedAt"`
	Count     int       `json:"count"`
	LastError string    `json:"lastError,omitempty"`
}

// EventService serves the public event queries.
type EventService interface {
	List(ctx context.Context, f FilterState) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Conferences(ctx context.Context) ([]NameCount, error)
	Tags(ctx context.Context) ([]NameCount, error)
	Dates(ctx context.Context) ([]DateCount, error)
	ImageURL(ctx context.Context, id string) (string, error)
	// ListForUser applies f with the caller's itinerary and friends available
	// to the itinerary-only and friend-subset filters.
	ListForUser(ctx context.Context, userID string, f FilterState) ([]Event, error)
}

// EventProvider exposes the current materialized event set.
type EventProvider interface {
	GetEvents(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
}
