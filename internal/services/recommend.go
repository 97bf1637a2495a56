package services

import (
	"cmp"
	"slices"

	"sheeets/internal/domain"
)

// DefaultRecommendationLimit caps Recommend results.
const DefaultRecommendationLimit = 20

// friendWeight is the score added per distinct friend attending an event.
const friendWeight = 3

// ReasonNoItinerary marks unranked results for users with nothing saved.
const ReasonNoItinerary = "no_itinerary"

// Recommend ranks events the user has not saved by tag overlap with their
// itinerary plus friendWeight per friend going. Events scoring 0 are left out.
// Ties keep input order. With an empty itinerary the first limit events are
// returned unscored.
func Recommend(all []domain.Event, itineraryIDs map[string]struct{}, friends []domain.FriendItinerary, limit int) []domain.RankedEvent {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	if len(itineraryIDs) == 0 {
		n := min(limit, len(all))
		out := make([]domain.RankedEvent, 0, n)
		for _, e := range all[:n] {
			out = append(out, domain.RankedEvent{Event: e, Score: 0, Reasons: []string{ReasonNoItinerary}})
		}
		return out
	}

	weights := make(map[string]int)
	for _, e := range all {
		if _, saved := itineraryIDs[e.ID]; !saved {
			continue
		}
		for _, t := range e.Tags {
			weights[t]++
		}
	}

	// event id -> friends going, de-duplicated by user id, in friend order.
	going := make(map[string][]domain.Friend)
	for _, f := range friends {
		seen := make(map[string]struct{}, len(f.EventIDs))
		for _, id := range f.EventIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if !slices.ContainsFunc(going[id], func(g domain.Friend) bool { return g.UserID == f.Friend.UserID }) {
				going[id] = append(going[id], f.Friend)
			}
		}
	}

	var ranked []domain.RankedEvent
	for _, e := range all {
		if _, saved := itineraryIDs[e.ID]; saved {
			continue
		}
		score := 0
		var reasons []string
		for _, t := range e.Tags {
			if w := weights[t]; w > 0 {
				score += w
				reasons = appendUnique(reasons, "tag:"+t)
			}
		}
		for _, f := range going[e.ID] {
			score += friendWeight
			name := f.DisplayName
			if name == "" {
				name = f.UserID
			}
			reasons = appendUnique(reasons, "friend:"+name)
		}
		if score == 0 {
			continue
		}
		ranked = append(ranked, domain.RankedEvent{Event: e, Score: score, Reasons: reasons})
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedEvent) int { return cmp.Compare(b.Score, a.Score) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []domain.RankedEvent{}
	}
	return ranked
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
