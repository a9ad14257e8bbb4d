package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driving"
)

// defaultHistoryLimit caps comparison_history results when no limit is given.
const defaultHistoryLimit = 20

// ExtractInput is the input schema for the extract_document_content tool.
type ExtractInput struct {
	Path     string   `json:"path" jsonschema:"path to the .docx file"`
	Patterns []string `json:"patterns,omitempty" jsonschema:"date classes to strip: iso, long, slash, dash (default all)"`
}

// ExtractOutput is the output schema for the extract_document_content tool.
type ExtractOutput struct {
	Content  string   `json:"content"`
	Patterns []string `json:"patterns"`
}

// CompareInput is the input schema for the compare_with_snapshot tool.
type CompareInput struct {
	Path         string   `json:"path" jsonschema:"path to the .docx file"`
	SnapshotPath string   `json:"snapshot_path,omitempty" jsonschema:"baseline file (default derived from the document name)"`
	Patterns     []string `json:"patterns,omitempty" jsonschema:"date classes to strip: iso, long, slash, dash (default all)"`
}

// CompareOutput is the output schema for the compare_with_snapshot tool.
type CompareOutput struct {
	Outcome         string `json:"outcome"`
	Success         bool   `json:"success"`
	IsNewSnapshot   bool   `json:"is_new_snapshot"`
	Message         string `json:"message"`
	SnapshotPath    string `json:"snapshot_path"`
	Content         string `json:"content"`
	ExpectedContent string `json:"expected_content,omitempty"`
	Diff            string `json:"diff,omitempty"`
}

// HistoryInput is the input schema for the comparison_history tool.
type HistoryInput struct {
	SnapshotPath string `json:"snapshot_path,omitempty" jsonschema:"only comparisons against this baseline"`
	Outcome      string `json:"outcome,omitempty" jsonschema:"only this outcome: created, matched or mismatched"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of records to return (default 20)"`
}

// HistoryOutput is the output schema for the comparison_history tool.
type HistoryOutput struct {
	Records []HistoryRecordOutput `json:"records"`
	Count   int                   `json:"count"`
}

// HistoryRecordOutput represents a single recorded comparison.
type HistoryRecordOutput struct {
	ID           string `json:"id"`
	DocumentPath string `json:"document_path"`
	SnapshotPath string `json:"snapshot_path"`
	Outcome      string `json:"outcome"`
	ContentHash  string `json:"content_hash"`
	ComparedAt   string `json:"compared_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_document_content",
		Description: "Extract the normalised canonical content of a DOCX document with date fields removed",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "compare_with_snapshot",
		Description: "Compare a DOCX document with its stored baseline. " +
			"Creates the baseline on first use; a mismatch is reported with success=false and a diff",
	}, s.handleCompare)

	if s.ports.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "comparison_history",
			Description: "List recorded snapshot comparisons, newest first",
		}, s.handleHistory)
	}
}

// handleExtract handles the extract_document_content tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	svc, err := s.snapshotService(input.Patterns)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	content, err := svc.ExtractDocumentContent(ctx, input.Path)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		Content:  content,
		Patterns: groupNames(svc.PatternGroups()),
	}, nil
}

// handleCompare handles the compare_with_snapshot tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	svc, err := s.snapshotService(input.Patterns)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	result, err := svc.CompareWithSnapshot(ctx, input.Path, input.SnapshotPath)
	if err != nil {
		return nil, CompareOutput{}, err
	}

	return nil, CompareOutput{
		Outcome:         result.Outcome.String(),
		Success:         result.Success,
		IsNewSnapshot:   result.IsNewSnapshot,
		Message:         result.Message,
		SnapshotPath:    result.SnapshotPath,
		Content:         result.Content,
		ExpectedContent: result.ExpectedContent,
		Diff:            result.Diff,
	}, nil
}

// handleHistory handles the comparison_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	records, err := s.ports.History.List(ctx, domain.HistoryFilter{
		SnapshotPath: input.SnapshotPath,
		Outcome:      domain.Outcome(input.Outcome),
		Limit:        limit,
	})
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Records: make([]HistoryRecordOutput, len(records)),
		Count:   len(records),
	}
	for i := range records {
		output.Records[i] = HistoryRecordOutput{
			ID:           records[i].ID,
			DocumentPath: records[i].DocumentPath,
			SnapshotPath: records[i].SnapshotPath,
			Outcome:      records[i].Outcome.String(),
			ContentHash:  records[i].ContentHash,
			ComparedAt:   records[i].ComparedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return nil, output, nil
}

// snapshotService narrows the service to the requested pattern groups.
func (s *Server) snapshotService(patterns []string) (driving.SnapshotService, error) {
	if len(patterns) == 0 {
		return s.ports.Snapshot, nil
	}
	groups, err := domain.ParsePatternGroups(patterns)
	if err != nil {
		return nil, fmt.Errorf("patterns: %w", err)
	}
	return s.ports.Snapshot.WithPatternGroups(groups)
}

func groupNames(groups []domain.PatternGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.String()
	}
	return names
}
