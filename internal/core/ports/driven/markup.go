package driven

import "github.com/custodia-labs/docsnap/internal/core/domain"

// MarkupParser converts markup text into an ordered tree.
// It knows nothing about dates or document semantics.
type MarkupParser interface {
	// Parse returns the root node. Fails with domain.ErrMalformedMarkup.
	Parse(markup string) (*domain.Node, error)
}

// Serialiser renders trees as deterministic canonical text.
type Serialiser interface {
	// Serialise never fails for a valid tree.
	Serialise(node *domain.Node) string
}
