// Package file provides a filesystem implementation of driven.SnapshotStore.
//
// Each baseline is a plain UTF-8 file holding canonical text. Comparison
// creates a missing baseline (and its parent directories) but never
// rewrites an existing one; only Update does that, atomically via a temp
// file and rename in the same directory.
//
// # Concurrency
//
// Comparisons against distinct paths are independent. Callers must not
// compare or update the same path concurrently; creation uses O_EXCL so a
// baseline that appears between the existence check and the write is
// compared instead of overwritten.
package file
