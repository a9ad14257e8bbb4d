// Package normalisers holds the stages that turn a document container into
// canonical, comparable text. Each subpackage implements one driven port:
//
//   - docx: reads the main markup part out of the zip container
//   - markup: parses markup text into an ordered tree
//   - dates: strips volatile date text from a tree
//   - canonical: renders a tree as deterministic pretty text
//
// Stages are wired together by services.SnapshotService.
package normalisers
