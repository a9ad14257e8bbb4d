// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Pipeline Interfaces
//
// One per stage, in the order a document flows through them:
//
//   - ArchiveReader: Extracts the markup part from the document container
//   - MarkupParser: Parses markup text into an ordered tree
//   - Normaliser: Strips volatile date text from a tree
//   - Serialiser: Renders a tree as canonical text
//   - SnapshotStore: Compares canonical text with a stored baseline
//
// # Supporting Interfaces
//
//   - ConfigStore: Application configuration
//   - HistoryStore: Comparison history. Optional; nil disables recording.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
