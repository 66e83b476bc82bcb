package chunker

import (
	"errors"
	"fmt"
	"strconv"

	"turbobot/internal/domain"
)

// ErrInvalidConfig is returned when chunk size or overlap are out of range.
var ErrInvalidConfig = errors.New("invalid chunker config")

// WindowChunker splits text into fixed-size character windows with overlap.
// Consecutive windows from the same document share `overlap` characters so a
// concept split across a boundary is still whole in at least one chunk.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// NewWindowChunker validates the window parameters before any work starts.
// Overlap must be strictly smaller than the chunk size or chunking would
// never advance.
func NewWindowChunker(chunkSize, overlap int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidConfig, overlap, chunkSize)
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Chunk emits windows [offset, offset+chunkSize) clipped to the document
// length, advancing by chunkSize-overlap each step. The final chunk may be
// shorter; a document shorter than chunkSize yields exactly one chunk.
// Boundaries depend only on the document and the parameters, so repeated
// runs produce identical chunks.
func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	n := len(document.Text)
	if n == 0 {
		return nil, nil
	}
	step := c.chunkSize - c.overlap
	var chunks []domain.Chunk
	for offset, ordinal := 0, 0; offset < n; offset, ordinal = offset+step, ordinal+1 {
		end := offset + c.chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, domain.Chunk{
			ChunkID:    document.ID + ":" + strconv.Itoa(ordinal),
			DocumentID: document.ID,
			SourcePath: document.SourcePath,
			Ordinal:    ordinal,
			Text:       document.Text[offset:end],
			CharStart:  offset,
			CharEnd:    end,
		})
		if end == n {
			break
		}
	}
	return chunks, nil
}
