// Package chunker provides fixed-size sliding-window text splitting.
package chunker

import (
	"fmt"
	"strings"

	"github.com/corposearch/docqa-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Piece is one window of text produced by a Splitter. Offsets are
// character (rune) positions into the input text.
type Piece struct {
	Text  string
	Start int
	End   int
}

// Splitter splits text into overlapping fixed-size passages by sliding a
// window of chunkSize characters, advancing chunkSize-overlap each step.
// Splitting is deterministic: identical input and parameters always yield
// an identical sequence.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter creates a Splitter. The overlap must satisfy
// 0 < overlap < chunkSize.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, chunkSize)
	}
	if overlap <= 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must satisfy 0 < overlap < chunk size, got overlap=%d size=%d",
			domain.ErrConfiguration, overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// ChunkSize returns the configured window size in characters.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int { return s.overlap }

// Split produces the ordered sequence of pieces for text. Empty input
// yields an empty sequence. The final piece may be shorter than the chunk
// size but is never empty; a whitespace-only trailing remainder is dropped.
func (s *Splitter) Split(text string) []Piece {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := s.chunkSize - s.overlap

	pieces := make([]Piece, 0, total/step+1)
	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		if end > total {
			end = total
		}

		window := string(runes[start:end])

		// A short trailing remainder that is pure whitespace carries no
		// searchable content; full-size windows are always kept.
		if start > 0 && end-start < s.chunkSize && strings.TrimSpace(window) == "" {
			break
		}

		pieces = append(pieces, Piece{Text: window, Start: start, End: end})

		if end == total {
			break
		}
	}

	return pieces
}
