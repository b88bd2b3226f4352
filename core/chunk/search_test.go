package chunk

import (
	"strings"
	"testing"
)

func TestSearchEmptyDocuments(t *testing.T) {
	result := Search(map[string]string{}, "query", DefaultSearchParams())

	if result.TotalFound != 0 || result.TotalAvailable != 0 {
		t.Errorf("Expected zero totals, got found=%d available=%d", result.TotalFound, result.TotalAvailable)
	}
	if len(result.Chunks) != 0 {
		t.Errorf("Expected no hits, got %d", len(result.Chunks))
	}
}

func TestSearchRanksAndTruncates(t *testing.T) {
	docs := map[string]string{
		"cats.txt":  "cat cat cat cat",
		"dogs.txt":  "dogs bark loudly",
		"birds.txt": "birds sing songs about catalog entries",
	}

	result := Search(docs, "cat", SearchParams{ChunkSize: 4000, MaxResults: 2})

	if len(result.Chunks) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Source != "cats.txt" {
		t.Errorf("Best hit should be cats.txt, got %s", result.Chunks[0].Source)
	}
	if result.TotalAvailable != 3 {
		t.Errorf("TotalAvailable = %d, expected 3", result.TotalAvailable)
	}
	// Every nonempty chunk earns at least the length bonus, so all
	// three count as found even though only two are returned.
	if result.TotalFound != 3 {
		t.Errorf("TotalFound = %d, expected 3", result.TotalFound)
	}
	if result.Query != "cat" {
		t.Errorf("Query echo = %q", result.Query)
	}
}

func TestSearchPreview(t *testing.T) {
	long := strings.Repeat("a", 600)
	docs := map[string]string{"long.txt": long, "short.txt": "tiny"}

	result := Search(docs, "aaa", SearchParams{ChunkSize: 4000, MaxResults: 5})

	for _, hit := range result.Chunks {
		switch hit.Source {
		case "long.txt":
			if len(hit.Preview) != 503 || !strings.HasSuffix(hit.Preview, "...") {
				t.Errorf("Long preview = %d chars, expected 500 plus ellipsis", len(hit.Preview))
			}
			if hit.Content != long {
				t.Errorf("Full content must not be truncated")
			}
		case "short.txt":
			if hit.Preview != "tiny" {
				t.Errorf("Short preview = %q, expected full text", hit.Preview)
			}
		}
	}
}

func TestSearchChunkMetadata(t *testing.T) {
	docs := map[string]string{
		"big.txt": strings.TrimSpace(strings.Repeat("data point ", 1500)), // ~16500 chars
	}

	result := Search(docs, "data", SearchParams{ChunkSize: 4000, MaxResults: 10})

	if result.TotalAvailable < 2 {
		t.Fatalf("Expected the document to split, got %d chunks", result.TotalAvailable)
	}
	for _, hit := range result.Chunks {
		if hit.Total != result.TotalAvailable {
			t.Errorf("Hit total %d does not match chunk count %d", hit.Total, result.TotalAvailable)
		}
		if hit.Index < 1 || hit.Index > hit.Total {
			t.Errorf("Hit index %d out of range 1..%d", hit.Index, hit.Total)
		}
		if hit.CharCount != len(hit.Content) {
			t.Errorf("CharCount %d does not match content length %d", hit.CharCount, len(hit.Content))
		}
	}
}

func TestBuildContextScenario(t *testing.T) {
	docs := map[string]string{"a.txt": "The cat sat on the mat."}

	ctx := BuildContext(docs, "Where did the cat sit?", DefaultContextParams())

	if ctx.ChunksProcessed != 1 || ctx.ChunksAvailable != 1 {
		t.Errorf("Expected 1/1 chunks, got %d/%d", ctx.ChunksProcessed, ctx.ChunksAvailable)
	}
	if !strings.Contains(ctx.Text, "a.txt") {
		t.Errorf("Context must name the source document: %q", ctx.Text)
	}
	if !strings.Contains(ctx.Text, "The cat sat on the mat.") {
		t.Errorf("Context must contain the document text: %q", ctx.Text)
	}
	if ctx.Length != len(ctx.Text) {
		t.Errorf("Length %d does not match text length %d", ctx.Length, len(ctx.Text))
	}
}

func TestBuildContextEmptyDocuments(t *testing.T) {
	ctx := BuildContext(map[string]string{}, "anything", DefaultContextParams())

	if ctx.Text != NoContentMessage {
		t.Errorf("Expected the no-content sentinel, got %q", ctx.Text)
	}
	if ctx.ChunksProcessed != 0 || ctx.ChunksAvailable != 0 {
		t.Errorf("Expected truthful zero counts, got %d/%d", ctx.ChunksProcessed, ctx.ChunksAvailable)
	}
}

func TestBuildContextBudget(t *testing.T) {
	docs := map[string]string{
		"a.txt": "cat stories volume one",
		"b.txt": "cat stories volume two",
		"c.txt": "cat stories volume three",
		"d.txt": "cat stories volume four",
	}

	ctx := BuildContext(docs, "cat stories", ContextParams{ChunkSize: 6000, MaxChunks: 3, Threshold: DefaultFallbackThreshold})

	if ctx.ChunksProcessed != 3 {
		t.Errorf("Expected the budget of 3 chunks, got %d", ctx.ChunksProcessed)
	}
	if ctx.ChunksAvailable != 4 {
		t.Errorf("Expected 4 available chunks, got %d", ctx.ChunksAvailable)
	}
}
