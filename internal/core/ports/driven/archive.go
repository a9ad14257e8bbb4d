package driven

import "context"

// ArchiveReader extracts a named part from a document container.
type ArchiveReader interface {
	// ReadEntry returns the entry's content decoded as UTF-8 text.
	// Fails with domain.ErrArchiveOpen when the container cannot be opened
	// and domain.ErrEntryNotFound when the entry is absent.
	ReadEntry(ctx context.Context, archivePath, entryName string) (string, error)
}
