package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheeets/internal/domain"
)

func TestRecommendationService_ForUser(t *testing.T) {
	events := []domain.Event{
		ev("saved", "2026-02-10", "1:00p", "", "AI"),
		ev("x", "2026-02-10", "3:00p", "", "AI"),
		ev("y", "2026-02-10", "4:00p", "", "Party"),
	}
	itin := newFakeItineraryRepo()
	itin.items["u1"] = []string{"saved"}
	itin.items["f1"] = []string{"y"}
	friends := NewFriendService(&fakeFriendRepo{friends: map[string][]domain.Friend{"u1": {{UserID: "f1", DisplayName: "F1"}}}}, itin, time.Second)
	svc := NewRecommendationService(&fakeProvider{events: events}, itin, friends, 0, time.Second)

	got, err := svc.ForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "y", got[0].Event.ID)
	assert.Equal(t, 3, got[0].Score)
	assert.Equal(t, "x", got[1].Event.ID)
	assert.Equal(t, 1, got[1].Score)
}

func TestRecommendationService_withoutFriends(t *testing.T) {
	events := []domain.Event{ev("a", "2026-02-10", "1:00p", "")}
	svc := NewRecommendationService(&fakeProvider{events: events}, newFakeItineraryRepo(), nil, 5, time.Second)
	got, err := svc.ForUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{ReasonNoItinerary}, got[0].Reasons)
}
