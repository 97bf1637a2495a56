package domain

import "strings"

var truthyTokens = map[string]struct{}{
	"true": {}, "yes": {}, "1": {}, "y": {}, "x": {}, "✓": {}, "✔": {},
}

// IsTruthy reports whether s is a spreadsheet checkbox-style yes, ignoring
// case and surrounding space.
func IsTruthy(s string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}
