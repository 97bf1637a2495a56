package services

import (
	"regexp"
	"strconv"
	"strings"
)

var timeRe = regexp.MustCompile(`(?i)(\d{1,2})(?:[:.](\d{2}))?\s*([ap])?`)

// rangeSeps join the start and end of a range written in one cell.
var rangeSeps = []string{"-", "\u2013", "to"}

// ParseTimeMinutes parses display times such as "12:00p", "6:00 PM",
// "7.30pm", "14:30" or "noon" into minutes after midnight. For a range like
// "9-10pm" the start takes the trailing am/pm. "All Day", "TBD", blanks and
// anything without a recognizable hour return ok=false.
func ParseTimeMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case lower == "" || strings.Contains(lower, "all day") || lower == "tbd":
		return 0, false
	case lower == "noon":
		return 12 * 60, true
	case lower == "midnight":
		return 0, true
	}
	found := timeRe.FindAllStringSubmatchIndex(s, 2)
	if found == nil {
		return 0, false
	}
	m := submatches(s, found[0])
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minute := 0
	if m[2] != "" {
		if minute, err = strconv.Atoi(m[2]); err != nil {
			return 0, false
		}
	}
	meridiem := strings.ToLower(m[3])
	if meridiem == "" && len(found) == 2 && isRangeSep(s[found[0][1]:found[1][0]]) {
		meridiem = rangeMeridiem(hour, submatches(s, found[1]))
	}
	switch meridiem {
	case "p":
		if hour >= 1 && hour <= 11 {
			hour += 12
		}
	case "a":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func submatches(s string, idx []int) []string {
	out := make([]string, len(idx)/2)
	for i := range out {
		if idx[2*i] >= 0 {
			out[i] = s[idx[2*i]:idx[2*i+1]]
		}
	}
	return out
}

func isRangeSep(between string) bool {
	between = strings.ToLower(strings.TrimSpace(between))
	for _, sep := range rangeSeps {
		if between == sep {
			return true
		}
	}
	return false
}

// rangeMeridiem infers the start's am/pm from the end of a range. A start
// later on the 12 hour clock than the end ("11-1pm") is on the other side
// of noon.
func rangeMeridiem(startHour int, end []string) string {
	mer := strings.ToLower(end[3])
	endHour, err := strconv.Atoi(end[1])
	if mer == "" || err != nil || startHour < 1 || startHour > 12 {
		return ""
	}
	if startHour%12 > endHour%12 {
		if mer == "p" {
			return "a"
		}
		return "p"
	}
	return mer
}

// startHour returns the event start as fractional hours.
func startHour(s string) (float64, bool) {
	m, ok := ParseTimeMinutes(s)
	if !ok {
		return 0, false
	}
	return float64(m) / 60, true
}
