package github

import "strings"

// SanitizeUsername maps s onto the characters GitHub allows in a login.
// Letters are lowercased and anything outside [a-z0-9-] becomes a dash.
// One leading and one trailing dash are dropped, then double dashes are
// collapsed.
func SanitizeUsername(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, s)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	return strings.ReplaceAll(s, "--", "-")
}
