package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"turbobot/internal/assembler"
	"turbobot/internal/chunker"
	"turbobot/internal/domain"
	"turbobot/internal/index"
	"turbobot/internal/retriever"
)

var (
	// ErrNotReady is returned for queries issued before initialization
	// completes or after it has failed. Callers may retry after a
	// successful re-initialization.
	ErrNotReady = errors.New("retrieval pipeline not ready")
	// ErrInitializing is returned when Initialize is called while another
	// initialization is still running.
	ErrInitializing = errors.New("initialization already in progress")
)

// State is the lifecycle phase of the pipeline.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Options fix the retrieval configuration at initialization time.
type Options struct {
	ChunkSize       int
	Overlap         int
	Index           index.Params
	DefaultTopK     int
	DefaultMinScore float64
	MaxContextChars int
}

// Stats is the inspection surface for diagnostics.
type Stats struct {
	State           string
	DocumentCount   int
	ChunkCount      int
	VocabularySize  int
	TotalCharacters int
}

// Pipeline owns the load -> chunk -> index lifecycle and exposes the single
// retrieval entry point. After a successful Initialize the index is shared,
// read-only state; queries run concurrently without locking the scoring path.
type Pipeline struct {
	opts Options

	mu         sync.RWMutex
	state      State
	retr       *retriever.Retriever
	ix         *index.Index
	docCount   int
	chunkCount int
	totalChars int
}

// New creates an uninitialized pipeline with a fixed configuration.
func New(opts Options) *Pipeline {
	return &Pipeline{opts: opts}
}

// Initialize chunks every document and builds the term-weight model over the
// full chunk set. It must run to completion before any query is served; a
// build failure leaves the pipeline in the failed state and no partial index
// is ever exposed. Re-initialization from the failed state is permitted.
func (p *Pipeline) Initialize(documents []domain.Document) error {
	p.mu.Lock()
	if p.state == StateInitializing {
		p.mu.Unlock()
		return ErrInitializing
	}
	p.state = StateInitializing
	p.retr = nil
	p.ix = nil
	p.mu.Unlock()

	ix, chunkCount, totalChars, err := p.build(documents)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateFailed
		return err
	}
	p.ix = ix
	p.retr = retriever.New(ix)
	p.docCount = len(documents)
	p.chunkCount = chunkCount
	p.totalChars = totalChars
	p.state = StateReady
	return nil
}

func (p *Pipeline) build(documents []domain.Document) (*index.Index, int, int, error) {
	wc, err := chunker.NewWindowChunker(p.opts.ChunkSize, p.opts.Overlap)
	if err != nil {
		return nil, 0, 0, err
	}
	var chunks []domain.Chunk
	totalChars := 0
	for _, doc := range documents {
		dcs, err := wc.Chunk(doc)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("chunk %s: %w", doc.SourcePath, err)
		}
		chunks = append(chunks, dcs...)
		totalChars += len(doc.Text)
	}
	ix, err := index.Build(chunks, p.opts.Index)
	if err != nil {
		return nil, 0, 0, err
	}
	return ix, len(chunks), totalChars, nil
}

// ready returns the retriever if the pipeline is serving queries.
func (p *Pipeline) ready() (*retriever.Retriever, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != StateReady {
		return nil, fmt.Errorf("%w: state %s", ErrNotReady, p.state)
	}
	return p.retr, nil
}

// RetrieveContext ranks chunks against the query and assembles the selected
// ones into a bounded, source-attributed context block. When nothing clears
// minScore the assembler's empty marker is returned; that is not an error.
func (p *Pipeline) RetrieveContext(query string, topK int, minScore float64) (string, error) {
	results, err := p.Search(query, topK, minScore)
	if err != nil {
		return "", err
	}
	return assembler.Assemble(results, p.opts.MaxContextChars), nil
}

// Search is the diagnostics surface: raw ranked results with scores.
func (p *Pipeline) Search(query string, topK int, minScore float64) ([]domain.Result, error) {
	retr, err := p.ready()
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = p.opts.DefaultTopK
	}
	if minScore < 0 {
		minScore = p.opts.DefaultMinScore
	}
	return retr.Retrieve(query, topK, minScore), nil
}

// State reports the current lifecycle phase.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Stats reports corpus and vocabulary sizes for diagnostics.
func (p *Pipeline) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Stats{
		State:           p.state.String(),
		DocumentCount:   p.docCount,
		ChunkCount:      p.chunkCount,
		TotalCharacters: p.totalChars,
	}
	if p.ix != nil {
		s.VocabularySize = p.ix.VocabularySize()
	}
	return s
}
