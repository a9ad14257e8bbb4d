// Package docx reads markup parts out of zip-based office documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docsnap/internal/core/domain"
	"github.com/custodia-labs/docsnap/internal/core/ports/driven"
	"github.com/custodia-labs/docsnap/internal/logger"
)

// Ensure Reader implements the interface.
var _ driven.ArchiveReader = (*Reader)(nil)

// utf8BOM is stripped from the start of extracted parts.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader extracts named parts from a document container.
type Reader struct{}

// New creates a new DOCX reader.
func New() *Reader {
	return &Reader{}
}

// SupportedMIMETypes returns the MIME types of containers this reader handles.
func (r *Reader) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-word.document.macroEnabled.12",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.template",
		"application/vnd.oasis.opendocument.text",
	}
}

// SupportedExtensions returns the file extensions of supported containers.
func SupportedExtensions() []string {
	return []string{".docx", ".docm", ".dotx", ".odt"}
}

// IsSupported reports whether path has a supported container extension.
// Office lock files ("~$name.docx") are never supported.
func IsSupported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range SupportedExtensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadEntry opens the container at archivePath and returns the named entry
// decoded as UTF-8. The archive handle is closed before returning.
func (r *Reader) ReadEntry(ctx context.Context, archivePath, entryName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	logger.Debug("opening archive %s", archivePath)
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w: %w", archivePath, domain.ErrArchiveOpen, err)
	}
	defer zr.Close()

	content, err := readEntry(&zr.Reader, entryName)
	if err != nil {
		return "", fmt.Errorf("%s: %w", archivePath, err)
	}
	logger.Debug("read %s (%d bytes)", entryName, len(content))
	return content, nil
}

// ReadEntryFrom reads the named entry from an in-memory container.
func (r *Reader) ReadEntryFrom(content []byte, entryName string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrArchiveOpen, err)
	}
	return readEntry(zr, entryName)
}

// Entries lists the entry names of the container at archivePath.
func (r *Reader) Entries(archivePath string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", archivePath, domain.ErrArchiveOpen, err)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

// readEntry extracts one entry. Zip entry names never start with "/",
// so a leading slash in entryName (as in OPC part names) is ignored.
func readEntry(zr *zip.Reader, entryName string) (string, error) {
	name := strings.TrimPrefix(entryName, "/")

	var file *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			file = f
			break
		}
	}
	if file == nil {
		return "", fmt.Errorf("%s: %w", name, domain.ErrEntryNotFound)
	}

	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening entry %s: %w: %w", name, domain.ErrArchiveOpen, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading entry %s: %w: %w", name, domain.ErrArchiveOpen, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("entry %s is not valid UTF-8: %w", name, domain.ErrMalformedMarkup)
	}
	return string(data), nil
}
