// Package domain defines the core entities for docsnap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: An ordered markup tree parsed from a document part
//   - PatternGroup: A class of volatile date text stripped before comparison
//   - ComparisonResult: The outcome of comparing content against a baseline
//   - ComparisonRecord: A persisted entry in the comparison history
//   - Settings: Typed application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
