package domain

// Outcome is the three-way state of a snapshot comparison.
type Outcome string

// Comparison outcomes.
const (
	// OutcomeCreated means no baseline existed and one was written.
	// This is a success, but it is not a passing comparison.
	OutcomeCreated Outcome = "created"

	// OutcomeMatched means content equals the stored baseline byte for byte.
	OutcomeMatched Outcome = "matched"

	// OutcomeMismatched means content differs from the stored baseline.
	OutcomeMismatched Outcome = "mismatched"
)

// IsValid returns true if the outcome is recognised.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeCreated, OutcomeMatched, OutcomeMismatched:
		return true
	default:
		return false
	}
}

// Success returns true unless the outcome is a mismatch.
func (o Outcome) Success() bool {
	return o == OutcomeCreated || o == OutcomeMatched
}

// String returns the string representation.
func (o Outcome) String() string {
	return string(o)
}

// Result messages.
const (
	MessageCreated    = "created"
	MessageMatched    = "snapshot matches baseline"
	MessageMismatched = "snapshot does not match baseline"
)

// ComparisonResult is produced fresh for every comparison and never persisted.
type ComparisonResult struct {
	// Outcome is the tagged comparison state.
	Outcome Outcome

	// Success is false only for mismatches.
	Success bool

	// IsNewSnapshot is true when the baseline was created by this call.
	IsNewSnapshot bool

	// Message is a short human-readable summary.
	Message string

	// Content is the normalised text that was compared.
	Content string

	// ExpectedContent is the stored baseline. Empty when Outcome is created.
	ExpectedContent string

	// Diff is a unified line diff of ExpectedContent against Content.
	// Only set for mismatches; it is diagnostic and never decides Outcome.
	Diff string

	// SnapshotPath is where the baseline lives.
	SnapshotPath string
}

// NewCreatedResult builds the result for a freshly written baseline.
func NewCreatedResult(path, content string) *ComparisonResult {
	return &ComparisonResult{
		Outcome:       OutcomeCreated,
		Success:       true,
		IsNewSnapshot: true,
		Message:       MessageCreated,
		Content:       content,
		SnapshotPath:  path,
	}
}

// NewComparedResult builds the result of comparing content with an
// existing baseline.
func NewComparedResult(path, content, expected string) *ComparisonResult {
	r := &ComparisonResult{
		Outcome:         OutcomeMatched,
		Success:         true,
		Message:         MessageMatched,
		Content:         content,
		ExpectedContent: expected,
		SnapshotPath:    path,
	}
	if content != expected {
		r.Outcome = OutcomeMismatched
		r.Success = false
		r.Message = MessageMismatched
	}
	return r
}

// SnapshotRecord is a persisted baseline.
type SnapshotRecord struct {
	// Path identifies the baseline on storage.
	Path string

	// Content is the normalised text.
	Content string
}
