// Package mcp provides an MCP (Model Context Protocol) server adapter for docsnap.
// It lets an agent or test harness extract normalised document content and
// compare documents with their baselines.
package mcp

import "errors"

// ErrMissingSnapshotService is returned when the snapshot service is not provided.
var ErrMissingSnapshotService = errors.New("mcp: snapshot service is required")
