package driven

import "github.com/custodia-labs/docsnap/internal/core/domain"

// Normaliser removes volatile substrings from a tree.
// Implementations must be idempotent for trees without residual volatile text.
type Normaliser interface {
	// Groups returns the pattern groups applied, in application order.
	Groups() []domain.PatternGroup

	// Normalise returns a new tree with volatile text removed.
	// Fails with domain.ErrNormalization if removal corrupted the
	// canonical form.
	Normalise(node *domain.Node) (*domain.Node, error)
}

// NormaliserFactory builds a Normaliser that strips only the given groups.
type NormaliserFactory func(groups []domain.PatternGroup) (Normaliser, error)
