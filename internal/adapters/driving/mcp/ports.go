package mcp

import (
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Snapshot runs extraction and comparison.
	Snapshot driving.SnapshotService

	// History lists recorded comparisons. Optional; the comparison_history
	// tool is only registered when set.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Snapshot == nil {
		return ErrMissingSnapshotService
	}
	return nil
}
