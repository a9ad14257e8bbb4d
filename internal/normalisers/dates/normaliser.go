// Package dates strips volatile date text from markup trees.
//
// Document generators stamp creation and modification dates into the
// markup in several formats. Removing them lets two renderings of the same
// content compare equal. Removal works on the canonical text of the tree,
// so dates inside attribute values and text are both covered, and the
// result is decoded back into a tree to prove the structure survived.
package dates

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/logger"
	"github.com/custodia-labs/docsnap/internal/normalisers/canonical"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const monthNames = `January|February|March|April|May|June|July|August|September|October|November|December`

// matcher removes one class of dates.
type matcher struct {
	group domain.PatternGroup
	regex *regexp.Regexp
}

// matchers lists every class in application order. Each is applied to the
// output of the previous one.
var matchers = []matcher{
	// 2024-01-15. No word boundaries, so the date part of
	// 2024-01-15T10:30:45Z goes too.
	{domain.PatternISO, regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)},

	// January 15, 2024. Word often separates the parts with U+00A0, so
	// Unicode space separators count as whitespace.
	{domain.PatternLong, regexp.MustCompile(`\b(?:` + monthNames + `)[\s\p{Zs}]+\d{1,2},[\s\p{Zs}]+\d{4}\b`)},

	// 1/15/2024, 01/15/2024
	{domain.PatternSlash, regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)},

	// 1-15-2024, 01-15-2024
	{domain.PatternDash, regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)},
}

// Normaliser removes the configured date classes.
type Normaliser struct {
	matchers []matcher
}

// New creates a normaliser for the given groups. No groups means all of
// them. Groups are always applied in the order of domain.AllPatternGroups.
func New(groups ...domain.PatternGroup) (*Normaliser, error) {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	parsed, err := domain.ParsePatternGroups(names)
	if err != nil {
		return nil, err
	}

	enabled := make(map[domain.PatternGroup]bool, len(parsed))
	for _, g := range parsed {
		enabled[g] = true
	}

	n := &Normaliser{}
	for _, m := range matchers {
		if enabled[m.group] {
			n.matchers = append(n.matchers, m)
		}
	}
	return n, nil
}

// Default creates a normaliser applying every group.
func Default() *Normaliser {
	return &Normaliser{matchers: matchers}
}

// Factory adapts New to the signature the snapshot service expects.
func Factory(groups []domain.PatternGroup) (driven.Normaliser, error) {
	return New(groups...)
}

// Groups returns the applied groups in application order.
func (n *Normaliser) Groups() []domain.PatternGroup {
	groups := make([]domain.PatternGroup, len(n.matchers))
	for i, m := range n.matchers {
		groups[i] = m.group
	}
	return groups
}

// StripText removes every configured date class from text.
func (n *Normaliser) StripText(text string) string {
	for _, m := range n.matchers {
		text = m.regex.ReplaceAllLiteralString(text, "")
	}
	return text
}

// Find returns every date removed from text, grouped by class, simulating
// the same sequential removal StripText performs.
func (n *Normaliser) Find(text string) map[domain.PatternGroup][]string {
	found := make(map[domain.PatternGroup][]string)
	for _, m := range n.matchers {
		if hits := m.regex.FindAllString(text, -1); len(hits) > 0 {
			found[m.group] = hits
			text = m.regex.ReplaceAllLiteralString(text, "")
		}
	}
	return found
}

// Normalise serialises node, strips dates, and decodes the result.
func (n *Normaliser) Normalise(node *domain.Node) (*domain.Node, error) {
	if node == nil {
		return nil, fmt.Errorf("nil tree: %w", domain.ErrInvalidInput)
	}

	text := canonical.Serialise(node)
	if logger.IsVerbose() {
		found := n.Find(text)
		for _, group := range n.Groups() {
			if hits := found[group]; len(hits) > 0 {
				logger.Debug("stripping %d %s date(s)", len(hits), group)
			}
		}
	}

	stripped, err := canonical.Decode(n.StripText(text))
	if err != nil {
		return nil, fmt.Errorf("stripping dates: %w", err)
	}
	return stripped, nil
}
