package pdftotext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corposearch/docqa-cli/internal/core/domain"
	"github.com/corposearch/docqa-cli/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.IsType(t, &Extractor{}, extractor)
}

func TestSupportedExtensions(t *testing.T) {
	extractor := New()
	assert.Equal(t, []string{".pdf"}, extractor.SupportedExtensions())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestExtract_EmptyPath(t *testing.T) {
	extractor := NewWithRunner(&mockRunner{})
	_, err := extractor.Extract(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// writeFakePDF creates a file so the pre-flight stat check passes.
func writeFakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "document.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake pdf content"), 0600))
	return path
}

// TestExtract_WithMockRunner tests extraction with a mocked pdftotext.
func TestExtract_WithMockRunner(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping mock runner test")
	}

	runner := &mockRunner{
		output: []byte("PDF Title\n\nThis is the content of the PDF.\n"),
	}
	extractor := NewWithRunner(runner)

	text, err := extractor.Extract(context.Background(), writeFakePDF(t))
	require.NoError(t, err)
	assert.Contains(t, text, "PDF Title")
	assert.Contains(t, text, "This is the content of the PDF.")
}

// TestExtract_RunnerError tests error handling when pdftotext fails.
func TestExtract_RunnerError(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping runner error test")
	}

	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

// TestExtract_EmptyOutput tests that a PDF with no text is an error.
func TestExtract_EmptyOutput(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping empty output test")
	}

	runner := &mockRunner{output: []byte("   \n\n\f  \n")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), writeFakePDF(t))
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "no extractable text")
}

func TestExtract_MissingFile(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping missing file test")
	}

	extractor := NewWithRunner(&mockRunner{output: []byte("text")})
	_, err := extractor.Extract(context.Background(), "/nonexistent/file.pdf")
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		path     string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			path:     "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			path:     "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			path:     "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  string(make([]byte, 250)) + "\nShort Title\nContent",
			path:     "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, New().ExtractTitle(tc.content, tc.path))
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "collapses blank runs",
			input:    "line one\n\n\n\nline two",
			expected: "line one\n\nline two",
		},
		{
			name:     "form feeds become newlines",
			input:    "page one\fpage two",
			expected: "page one\npage two",
		},
		{
			name:     "trims trailing whitespace per line",
			input:    "padded   \nlayout\t\n",
			expected: "padded\nlayout",
		},
		{
			name:     "whitespace only",
			input:    "  \n \t \n\f",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanText(tc.input))
		})
	}
}
