package domain

import (
	"fmt"
	"strings"
)

// PatternGroup names a class of date-like text removed before comparison.
type PatternGroup string

// Available pattern groups, in the order they are applied.
const (
	// PatternISO matches YYYY-MM-DD.
	PatternISO PatternGroup = "iso"

	// PatternLong matches "Month D, YYYY".
	PatternLong PatternGroup = "long"

	// PatternSlash matches M/D/YYYY and MM/DD/YYYY.
	PatternSlash PatternGroup = "slash"

	// PatternDash matches M-D-YYYY and MM-DD-YYYY.
	PatternDash PatternGroup = "dash"
)

// AllPatternGroups returns every group in application order.
func AllPatternGroups() []PatternGroup {
	return []PatternGroup{PatternISO, PatternLong, PatternSlash, PatternDash}
}

// IsValid returns true if the group is recognised.
func (g PatternGroup) IsValid() bool {
	switch g {
	case PatternISO, PatternLong, PatternSlash, PatternDash:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (g PatternGroup) String() string {
	return string(g)
}

// Description returns a human-readable description of the group.
func (g PatternGroup) Description() string {
	switch g {
	case PatternISO:
		return "ISO dates (2024-01-15)"
	case PatternLong:
		return "Long-form dates (January 15, 2024)"
	case PatternSlash:
		return "Slash dates (1/15/2024)"
	case PatternDash:
		return "Dash dates (1-15-2024)"
	default:
		return "Unknown"
	}
}

// ParsePatternGroups converts names into groups. Names are trimmed and
// case-insensitive; duplicates collapse. An empty list yields all groups.
// The returned slice is always in application order.
func ParsePatternGroups(names []string) ([]PatternGroup, error) {
	if len(names) == 0 {
		return AllPatternGroups(), nil
	}

	seen := make(map[PatternGroup]bool, len(names))
	for _, name := range names {
		g := PatternGroup(strings.ToLower(strings.TrimSpace(name)))
		if g == "" {
			continue
		}
		if !g.IsValid() {
			return nil, fmt.Errorf("unknown pattern group %q: %w", name, ErrInvalidInput)
		}
		seen[g] = true
	}
	if len(seen) == 0 {
		return AllPatternGroups(), nil
	}

	groups := make([]PatternGroup, 0, len(seen))
	for _, g := range AllPatternGroups() {
		if seen[g] {
			groups = append(groups, g)
		}
	}
	return groups, nil
}
