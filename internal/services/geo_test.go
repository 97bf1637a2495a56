package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

type fakeGeocoder struct {
	points map[string]domain.GeoPoint
	err    error
	calls  []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (domain.GeoPoint, bool, error) {
	f.calls = append(f.calls, address)
	if f.err != nil {
		return domain.GeoPoint{}, false, f.err
	}
	p, ok := f.points[address]
	return p, ok, nil
}

func TestGeoResolver_Resolve(t *testing.T) {
	g := &fakeGeocoder{points: map[string]domain.GeoPoint{"123 Main St": {Lat: 39.7, Lng: -104.9}}}
	r := NewGeoResolver(g, time.Hour, testLogger, WithGeocodeInterval(0))

	lat := 1.0
	events := []domain.Event{
		{ID: "a", Address: "123 Main St"},
		{ID: "b", Address: "123  main st"},
		{ID: "c", Address: "Nowhere"},
		{ID: "d", Address: ""},
		{ID: "e", Address: "123 Main St", Lat: &lat, Lng: &lat},
	}
	r.Resolve(context.Background(), events)

	require.NotNil(t, events[0].Lat)
	assert.Equal(t, 39.7, *events[0].Lat)
	assert.Equal(t, -104.9, *events[0].Lng)
	require.NotNil(t, events[1].Lat, "same normalized address reuses the cached point")
	assert.Nil(t, events[2].Lat)
	assert.Nil(t, events[3].Lat)
	assert.Equal(t, 1.0, *events[4].Lat)
	assert.Equal(t, []string{"123 Main St", "Nowhere"}, g.calls)

	// Misses are memoized too.
	r.Resolve(context.Background(), []domain.Event{{ID: "f", Address: "Nowhere"}})
	assert.Len(t, g.calls, 2)
}

func TestGeoResolver_errorsLeaveCoordinatesEmpty(t *testing.T) {
	g := &fakeGeocoder{err: errors.New("boom")}
	r := NewGeoResolver(g, time.Hour, testLogger, WithGeocodeInterval(0))
	events := []domain.Event{{ID: "a", Address: "123 Main St"}}

	r.Resolve(context.Background(), events)
	assert.Nil(t, events[0].Lat)

	// Errors are not cached.
	r.Resolve(context.Background(), events)
	assert.Len(t, g.calls, 2)
}

func TestGeoResolver_capsLookupsPerResolve(t *testing.T) {
	g := &fakeGeocoder{points: map[string]domain.GeoPoint{}}
	r := NewGeoResolver(g, time.Hour, testLogger, WithGeocodeInterval(0), WithGeocodeMaxLookups(2))
	events := []domain.Event{
		{ID: "a", Address: "1 Main"},
		{ID: "b", Address: "2 Main"},
		{ID: "c", Address: "3 Main"},
	}

	r.Resolve(context.Background(), events)
	assert.Equal(t, []string{"1 Main", "2 Main"}, g.calls)

	// Cached addresses don't count against the cap.
	r.Resolve(context.Background(), events)
	assert.Equal(t, []string{"1 Main", "2 Main", "3 Main"}, g.calls)
}

func TestGeoResolver_pacesLookups(t *testing.T) {
	g := &fakeGeocoder{points: map[string]domain.GeoPoint{}}
	r := NewGeoResolver(g, time.Hour, testLogger, WithGeocodeInterval(time.Hour))
	events := []domain.Event{{ID: "a", Address: "1 Main"}, {ID: "b", Address: "2 Main"}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	r.Resolve(ctx, events)

	assert.Equal(t, []string{"1 Main"}, g.calls, "second lookup waits for the interval")
	assert.Less(t, time.Since(start), time.Second)
}
