package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestItineraryService_AddListRemove(t *testing.T) {
	events := []domain.Event{
		ev("late", "2026-02-10", "3:00p", "5:00p"),
		ev("early", "2026-02-10", "2:00p", "4:00p"),
		ev("other", "2026-02-11", "2:00p", "4:00p"),
	}
	repo := newFakeItineraryRepo()
	svc := NewItineraryService(repo, &fakeProvider{events: events}, time.Second)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "u1", "late"))
	require.NoError(t, svc.Add(ctx, "u1", "early"))
	require.NoError(t, svc.Add(ctx, "u1", "early"))
	require.NoError(t, svc.Add(ctx, "u1", "other"))

	view, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"early", "late", "other"}, ids(view.Events))
	assert.Equal(t, []string{"early", "late"}, view.Conflicts)
	assert.Empty(t, view.Missing)

	set, err := svc.IDs(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, set, 3)

	require.NoError(t, svc.Remove(ctx, "u1", "late"))
	assert.ErrorIs(t, svc.Remove(ctx, "u1", "late"), domain.ErrNotFound)

	view, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Conflicts)
}

func TestItineraryService_AddValidatesEvent(t *testing.T) {
	svc := NewItineraryService(newFakeItineraryRepo(), &fakeProvider{}, time.Second)
	assert.ErrorIs(t, svc.Add(context.Background(), "u1", "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Add(context.Background(), "u1", ""), domain.ErrInvalidInput)
}

func TestItineraryService_ListReportsMissing(t *testing.T) {
	repo := newFakeItineraryRepo()
	repo.items["u1"] = []string{"gone", "here"}
	svc := NewItineraryService(repo, &fakeProvider{events: []domain.Event{ev("here", "2026-02-10", "1:00p", "")}}, time.Second)

	view, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"here"}, ids(view.Events))
	assert.Equal(t, []string{"gone"}, view.Missing)
}

func TestItineraryService_emptyViewIsNotNil(t *testing.T) {
	svc := NewItineraryService(newFakeItineraryRepo(), &fakeProvider{}, time.Second)
	view, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, view.Events)
	assert.NotNil(t, view.Conflicts)
	assert.NotNil(t, view.Missing)
}
