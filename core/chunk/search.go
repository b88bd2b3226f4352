package chunk

import (
	"sort"
	"unicode/utf8"
)

// previewLimit bounds the preview excerpt of a search hit.
const previewLimit = 500

// SearchChunk is one search hit.
type SearchChunk struct {
	Source    string // originating document filename
	Index     int    // 1-based chunk position within the document
	Total     int    // total chunks for the document
	CharCount int    // chunk length in characters
	Preview   string // first 500 characters, ellipsized if longer
	Content   string // full chunk text
}

// SearchResult is the outcome of one search call.
type SearchResult struct {
	Query          string
	Chunks         []SearchChunk
	TotalFound     int // chunks with a positive score
	TotalAvailable int // chunks considered
}

// Context is the document context assembled for one chat turn.
type Context struct {
	Text            string // formatted context string
	ChunksProcessed int    // chunks included in the context
	ChunksAvailable int    // chunks considered
	Length          int    // len(Text)
}

// Search chunks the documents, ranks every chunk against the query and
// returns the best hits, highest score first. TotalFound counts every
// positively scored chunk before truncation to MaxResults.
func Search(docs map[string]string, query string, params SearchParams) SearchResult {
	chunks := Assemble(docs, params.ChunkSize)
	scored := Score(chunks, query)

	ranked := make([]ScoredChunk, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	relevant := make([]ScoredChunk, 0, len(ranked))
	for _, ch := range ranked {
		if ch.Score > 0 {
			relevant = append(relevant, ch)
		}
	}

	hits := relevant
	if len(hits) > params.MaxResults {
		hits = hits[:params.MaxResults]
	}

	result := SearchResult{
		Query:          query,
		Chunks:         make([]SearchChunk, 0, len(hits)),
		TotalFound:     len(relevant),
		TotalAvailable: len(chunks),
	}
	for _, ch := range hits {
		result.Chunks = append(result.Chunks, SearchChunk{
			Source:    ch.Source,
			Index:     ch.Index,
			Total:     ch.Total,
			CharCount: ch.Length,
			Preview:   Preview(ch.Text),
			Content:   ch.Text,
		})
	}
	return result
}

// BuildContext chunks the documents, ranks them against the query and
// formats the best chunks into a context string for prompt assembly.
func BuildContext(docs map[string]string, query string, params ContextParams) Context {
	chunks := Assemble(docs, params.ChunkSize)
	scored := Score(chunks, query)
	selected := SelectWithThreshold(scored, params.MaxChunks, params.Threshold)
	text := Format(selected)

	return Context{
		Text:            text,
		ChunksProcessed: len(selected),
		ChunksAvailable: len(chunks),
		Length:          len(text),
	}
}

// Preview returns the first previewLimit bytes of text, backing off to
// a rune boundary, with an ellipsis appended when truncated.
func Preview(text string) string {
	if len(text) <= previewLimit {
		return text
	}
	cut := previewLimit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
