package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"sheeets/internal/domain"
)

// headerNames are leftover header or template rows in the sheet.
var headerNames = map[string]struct{}{
	"event":      {},
	"events":     {},
	"event name": {},
	"name":       {},
	"start time": {},
	"date":       {},
	"header":     {},
	"organizer":  {},
	"time":       {},
}

// tagAliases folds legacy tag spellings onto the current vocabulary.
// Keys are lowercase.
var tagAliases = map[string]string{
	"fitness/wellness": "Wellness",
	"health/wellness":  "Wellness",
	"fitness":          "Wellness",
	"party/social":     "Party",
	"nightlife":        "Party",
	"ai/ml":            "AI",
	"defi/finance":     "DeFi",
	"brunch/breakfast": "Brunch",
	"devs/builders":    "Devs/Builders",
	"hackathon/devs":   "Devs/Builders",
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var (
	wordRe = regexp.MustCompile(`[A-Za-z]+`)
	dayRe  = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\b`)
)

// ParseDateISO turns free text like "Mon, Feb 10" into "2026-02-10" using
// the given year. It returns "" when no month name and day are present.
func ParseDateISO(text string, year int) string {
	var month time.Month
	monthEnd := -1
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		if m, ok := monthToken(text[loc[0]:loc[1]]); ok {
			month = m
			monthEnd = loc[1]
			break
		}
	}
	if month == 0 {
		return ""
	}
	// Prefer a day number after the month ("Feb 10"), else before ("10 Feb").
	day := 0
	if m := dayRe.FindStringSubmatch(text[monthEnd:]); m != nil {
		day, _ = strconv.Atoi(m[1])
	} else if m := dayRe.FindStringSubmatch(text[:monthEnd]); m != nil {
		day, _ = strconv.Atoi(m[1])
	}
	if day < 1 || day > 31 {
		return ""
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month {
		return ""
	}
	return t.Format("2006-01-02")
}

// monthToken matches a whole word against the month table: the three
// letter abbreviation, "sept", or the full name. "Decentralized" is not
// December.
func monthToken(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return 0, false
	}
	m, ok := months[w[:3]]
	if !ok {
		return 0, false
	}
	if len(w) == 3 || w == "sept" || w == strings.ToLower(m.String()) {
		return m, true
	}
	return 0, false
}

// ParseTags splits a comma separated cell, trims, drops empties, applies the
// alias table and removes repeats. Order is kept.
func ParseTags(cell string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(cell, ",") {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		if alias, ok := tagAliases[strings.ToLower(t)]; ok {
			t = alias
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	return tags
}

// IsFreeCost reports whether a cost cell means free admission.
func IsFreeCost(cost string) bool {
	switch strings.ToLower(strings.TrimSpace(cost)) {
	case "", "0", "$0", "free":
		return true
	}
	return false
}

func isAllDayStart(start string) bool {
	s := strings.TrimSpace(start)
	return s == "" || strings.Contains(strings.ToLower(s), "all day")
}

func isHeaderRow(r domain.RawRow) bool {
	if strings.EqualFold(strings.TrimSpace(r.StartTime), "start time") {
		return true
	}
	_, ok := headerNames[strings.ToLower(strings.TrimSpace(r.Name))]
	return ok
}

// hashCode is the 32-bit rolling hash h = h*31 + c over UTF-16 code units.
func hashCode(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(c)
	}
	return h
}

// EventID derives the stable base id for a row. Re-fetching the same row
// always yields the same id.
func EventID(conference, dateText, startText, name string) string {
	h := int64(hashCode(conference + "|" + dateText + "|" + startText + "|" + name))
	if h < 0 {
		h = -h
	}
	return "evt-" + strconv.FormatInt(h, 36)
}

// Normalize converts sheet rows of one conference tab into events. Rows
// inherit the last non-empty date above them. Header rows and rows without a
// name are dropped. Colliding ids get -1, -2, ... in row order.
func Normalize(rows []domain.RawRow, conference string, year int) []domain.Event {
	events := make([]domain.Event, 0, len(rows))
	currentDate := ""
	for _, r := range rows {
		if isHeaderRow(r) {
			continue
		}
		if d := strings.TrimSpace(r.Date); d != "" {
			currentDate = d
		}
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}

		rawStart := strings.TrimSpace(r.StartTime)
		allDay := isAllDayStart(rawStart)
		start := rawStart
		if allDay {
			start = domain.AllDay
		}
		cost := strings.TrimSpace(r.Cost)

		events = append(events, domain.Event{
			ID:         EventID(conference, currentDate, rawStart, name),
			Conference: conference,
			DateISO:    ParseDateISO(currentDate, year),
			StartTime:  start,
			EndTime:    strings.TrimSpace(r.EndTime),
			IsAllDay:   allDay,
			Organizer:  strings.TrimSpace(r.Organizer),
			Name:       name,
			Address:    strings.TrimSpace(r.Address),
			Cost:       cost,
			IsFree:     IsFreeCost(cost),
			Tags:       ParseTags(r.Tags),
			Link:       strings.TrimSpace(r.Link),
			HasFood:    domain.IsTruthy(r.Food),
			HasBar:     domain.IsTruthy(r.Bar),
			Note:       strings.TrimSpace(r.Note),
		})
	}
	UniquifyIDs(events)
	MarkDuplicates(events)
	return events
}

// UniquifyIDs suffixes repeated ids in place: the first keeps its id, later
// ones get -1, -2, ... in slice order.
func UniquifyIDs(events []domain.Event) {
	used := make(map[string]struct{}, len(events))
	next := make(map[string]int)
	for i := range events {
		base := events[i].ID
		id := base
		if _, taken := used[id]; taken {
			n := next[base]
			for {
				n++
				id = fmt.Sprintf("%s-%d", base, n)
				if _, taken := used[id]; !taken {
					break
				}
			}
			next[base] = n
		}
		used[id] = struct{}{}
		events[i].ID = id
	}
}

// MarkDuplicates flags every event whose (name, date, start time) appears
// more than once in the slice.
func MarkDuplicates(events []domain.Event) {
	key := func(e domain.Event) string {
		return e.Name + "\x00" + e.DateISO + "\x00" + e.StartTime
	}
	counts := make(map[string]int, len(events))
	for _, e := range events {
		counts[key(e)]++
	}
	for i := range events {
		events[i].IsDuplicate = counts[key(events[i])] > 1
	}
}
