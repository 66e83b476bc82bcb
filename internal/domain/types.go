package domain

// Document is a single maintenance manual loaded into the system.
// Immutable once loaded; one per manual file.
type Document struct {
	ID         string
	SourcePath string
	Title      string
	Text       string
	Sections   []Section
}

// Section is a heading-delimited region of a manual, used for citation only.
type Section struct {
	Title string
	Text  string
}

// Chunk is a contiguous, bounded-length substring of a document, the unit of
// retrieval. It carries only the document id and source path, never a
// reference back to the Document itself.
type Chunk struct {
	ChunkID    string
	DocumentID string
	SourcePath string
	Ordinal    int
	Text       string
	CharStart  int
	CharEnd    int
}

// Result is a chunk matched against a query, with its cosine score.
// Results are ephemeral: produced per query and never persisted.
type Result struct {
	ChunkID    string
	DocumentID string
	Ordinal    int
	Score      float64
	Text       string
	SourcePath string
}

// Chunker splits documents into retrieval chunks.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}
