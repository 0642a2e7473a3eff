package driven

import "context"

// Extractor turns a source file into plain text.
//
// A corrupt or unreadable file returns an error wrapping
// domain.ErrExtraction; the ingestion pipeline records it and continues
// with the next document.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	Extract(ctx context.Context, path string) (string, error)

	// ExtractTitle derives a display title from extracted content,
	// falling back to the filename when the content offers none.
	ExtractTitle(content, path string) string

	// SupportedExtensions returns the file extensions this extractor
	// handles, lowercase with leading dot (e.g. ".pdf").
	SupportedExtensions() []string
}
