package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"sheeets/internal/domain"
)

// eventColumns lists cached_events columns in insert and scan order.
var eventColumns = []string{
	"id", "conference", "date_iso", "start_time", "end_time", "is_all_day",
	"organizer", "name", "address", "cost", "is_free", "tags", "link",
	"has_food", "has_bar", "note", "lat", "lng", "is_duplicate", "cached_at",
}

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns a domain.EventStore backed by the cached_events table.
func NewEventRepository(db *sql.DB) domain.EventStore {
	return &eventRepository{DB: db}
}

func (r *eventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + strings.Join(eventColumns[:len(eventColumns)-1], ", ") + `
		FROM cached_events
		ORDER BY date_iso, start_time, name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		var tags pq.StringArray
		var lat, lng sql.NullFloat64
		if err := rows.Scan(
			&e.ID, &e.Conference, &e.DateISO, &e.StartTime, &e.EndTime, &e.IsAllDay,
			&e.Organizer, &e.Name, &e.Address, &e.Cost, &e.IsFree, &tags, &e.Link,
			&e.HasFood, &e.HasBar, &e.Note, &lat, &lng, &e.IsDuplicate,
		); err != nil {
			return nil, err
		}
		e.Tags = []string(tags)
		if e.Tags == nil {
			e.Tags = []string{}
		}
		if lat.Valid && lng.Valid {
			e.Lat, e.Lng = &lat.Float64, &lng.Float64
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// ReplaceAll swaps the whole cache in one transaction so readers of the
// table never see a partial set.
func (r *eventRepository) ReplaceAll(ctx context.Context, events []domain.Event, cachedAt time.Time, batchSize int) (err error) {
	if batchSize <= 0 {
		batchSize = 500
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cached_events`); err != nil {
		return fmt.Errorf("clear cached events: %w", err)
	}
	for start := 0; start < len(events); start += batchSize {
		end := min(start+batchSize, len(events))
		query, args := buildEventUpsert(events[start:end], cachedAt)
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert cached events %d-%d: %w", start, end, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func buildEventUpsert(batch []domain.Event, cachedAt time.Time) (string, []any) {
	n := len(eventColumns)
	var sb strings.Builder
	sb.WriteString(`INSERT INTO cached_events (`)
	sb.WriteString(strings.Join(eventColumns, ", "))
	sb.WriteString(`) VALUES `)
	args := make([]any, 0, len(batch)*n)
	for i, e := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < n; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*n+j+1)
		}
		sb.WriteString(")")
		args = append(args,
			e.ID, e.Conference, e.DateISO, e.StartTime, e.EndTime, e.IsAllDay,
			e.Organizer, e.Name, e.Address, e.Cost, e.IsFree, pq.Array(e.Tags), e.Link,
			e.HasFood, e.HasBar, e.Note, nullFloat(e.Lat), nullFloat(e.Lng), e.IsDuplicate, cachedAt,
		)
	}
	sb.WriteString(` ON CONFLICT (id) DO UPDATE SET `)
	for j, c := range eventColumns[1:] {
		if j > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s = EXCLUDED.%s", c, c)
	}
	return sb.String(), args
}

func (r *eventRepository) LatestCachedAt(ctx context.Context) (time.Time, bool, error) {
	var t sql.NullTime
	if err := r.DB.QueryRowContext(ctx, `SELECT MAX(cached_at) FROM cached_events`).Scan(&t); err != nil {
		return time.Time{}, false, err
	}
	if !t.Valid {
		return time.Time{}, false, nil
	}
	return t.Time, true, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
