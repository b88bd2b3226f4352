package chunk

import (
	"testing"
)

func scoredOf(source string, index int, score float64) ScoredChunk {
	return ScoredChunk{
		Chunk: Chunk{Source: source, Index: index, Total: 1, Text: source, Length: len(source)},
		Score: score,
	}
}

func TestSelectTopChunksByScore(t *testing.T) {
	scored := []ScoredChunk{
		scoredOf("a.txt", 1, 0.5),
		scoredOf("b.txt", 1, 2.0),
		scoredOf("c.txt", 1, 1.0),
	}

	selected := Select(scored, 2)

	if len(selected) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(selected))
	}
	if selected[0].Source != "b.txt" || selected[1].Source != "c.txt" {
		t.Errorf("Expected [b.txt c.txt], got [%s %s]", selected[0].Source, selected[1].Source)
	}
}

func TestSelectAllowsOneDocumentToDominate(t *testing.T) {
	// Above the threshold there is no diversity constraint: a single
	// document may fill the whole budget.
	scored := []ScoredChunk{
		scoredOf("a.txt", 1, 3.0),
		scoredOf("a.txt", 2, 2.5),
		scoredOf("b.txt", 1, 0.5),
	}

	selected := Select(scored, 2)

	if len(selected) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(selected))
	}
	if selected[0].Source != "a.txt" || selected[1].Source != "a.txt" {
		t.Errorf("Expected both chunks from a.txt, got [%s %s]", selected[0].Source, selected[1].Source)
	}
}

func TestSelectFallbackDiversity(t *testing.T) {
	// No chunk reaches the threshold, so each document contributes at
	// most one chunk.
	scored := []ScoredChunk{
		scoredOf("a.txt", 1, 0.05),
		scoredOf("a.txt", 2, 0.04),
		scoredOf("b.txt", 1, 0.03),
		scoredOf("c.txt", 1, 0.02),
	}

	selected := Select(scored, 3)

	if len(selected) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(selected))
	}
	seen := map[string]int{}
	for _, ch := range selected {
		seen[ch.Source]++
	}
	for source, n := range seen {
		if n > 1 {
			t.Errorf("Fallback selected %d chunks from %s, expected at most 1", n, source)
		}
	}
}

func TestSelectBudget(t *testing.T) {
	scored := []ScoredChunk{
		scoredOf("a.txt", 1, 1.0),
		scoredOf("b.txt", 1, 0.9),
	}

	tests := []struct {
		maxChunks int
		expected  int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{10, 2},
	}

	for _, tt := range tests {
		selected := Select(scored, tt.maxChunks)
		if len(selected) != tt.expected {
			t.Errorf("Select with budget %d returned %d chunks, expected %d", tt.maxChunks, len(selected), tt.expected)
		}
	}
}

func TestSelectEmptyInput(t *testing.T) {
	selected := Select(nil, 5)
	if len(selected) != 0 {
		t.Errorf("Expected empty selection, got %d chunks", len(selected))
	}
}

func TestSelectThresholdBoundary(t *testing.T) {
	// A top score exactly at the threshold counts as relevant; the
	// fallback triggers only strictly below it.
	atThreshold := []ScoredChunk{
		scoredOf("a.txt", 1, 0.1),
		scoredOf("a.txt", 2, 0.09),
		scoredOf("b.txt", 1, 0.08),
	}
	selected := Select(atThreshold, 2)
	if selected[0].Source != "a.txt" || selected[1].Source != "a.txt" {
		t.Errorf("At threshold, expected top-score mode [a.txt a.txt], got [%s %s]",
			selected[0].Source, selected[1].Source)
	}

	belowThreshold := []ScoredChunk{
		scoredOf("a.txt", 1, 0.099),
		scoredOf("a.txt", 2, 0.09),
		scoredOf("b.txt", 1, 0.08),
	}
	selected = Select(belowThreshold, 2)
	if selected[0].Source != "a.txt" || selected[1].Source != "b.txt" {
		t.Errorf("Below threshold, expected fallback [a.txt b.txt], got [%s %s]",
			selected[0].Source, selected[1].Source)
	}
}

func TestSelectStableOnEqualScores(t *testing.T) {
	scored := []ScoredChunk{
		scoredOf("a.txt", 1, 1.0),
		scoredOf("b.txt", 1, 1.0),
		scoredOf("c.txt", 1, 1.0),
	}

	selected := Select(scored, 3)

	for i, want := range []string{"a.txt", "b.txt", "c.txt"} {
		if selected[i].Source != want {
			t.Errorf("Position %d: got %s, expected %s (stable order)", i, selected[i].Source, want)
		}
	}
}
