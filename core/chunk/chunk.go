// Package chunk implements document chunking and lexical relevance
// ranking. Documents are split into bounded chunks along structural
// boundaries, scored against a query with word-overlap heuristics, and
// the best chunks are selected and formatted into a context string.
package chunk

// Chunk is one bounded piece of a document.
type Chunk struct {
	Source string // originating document filename
	Index  int    // 1-based position within the document
	Total  int    // number of chunks the document was split into
	Text   string // chunk content
	Length int    // len(Text)
}

// ScoredChunk pairs a chunk with its relevance score for one query.
type ScoredChunk struct {
	Chunk
	Score float64
}

// ContextParams controls context assembly for chat prompts.
type ContextParams struct {
	ChunkSize int     // maximum characters per chunk
	MaxChunks int     // maximum chunks included in the context
	Threshold float64 // minimum top score before falling back to per-document coverage
}

// DefaultContextParams returns the tuned defaults for chat context assembly.
func DefaultContextParams() ContextParams {
	return ContextParams{
		ChunkSize: 6000,
		MaxChunks: 3,
		Threshold: DefaultFallbackThreshold,
	}
}

// SearchParams controls document search.
type SearchParams struct {
	ChunkSize  int // maximum characters per chunk
	MaxResults int // maximum hits returned
}

// DefaultSearchParams returns the tuned defaults for search.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		ChunkSize:  4000,
		MaxResults: 5,
	}
}
