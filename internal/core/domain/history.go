package domain

import "time"

// ComparisonRecord is one entry in the comparison history.
type ComparisonRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// DocumentPath is the compared document.
	DocumentPath string

	// SnapshotPath is the baseline it was compared against.
	SnapshotPath string

	// Outcome is the comparison state.
	Outcome Outcome

	// ContentHash is the hex SHA-256 of the normalised content.
	ContentHash string

	// ComparedAt is when the comparison ran.
	ComparedAt time.Time
}

// HistoryFilter narrows history listings.
type HistoryFilter struct {
	// SnapshotPath restricts results to one baseline. Empty means all.
	SnapshotPath string

	// Outcome restricts results to one outcome. Empty means all.
	Outcome Outcome

	// Limit caps the number of records. Zero or less means no cap.
	Limit int
}
