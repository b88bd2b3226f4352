package chunk

import (
	"strings"
	"testing"
)

func TestFormatEmptySelection(t *testing.T) {
	if got := Format(nil); got != NoContentMessage {
		t.Errorf("Format(nil) = %q, expected the no-content sentinel", got)
	}
	if got := Format([]ScoredChunk{}); got != NoContentMessage {
		t.Errorf("Format(empty) = %q, expected the no-content sentinel", got)
	}
}

func TestFormatSingleChunkHeader(t *testing.T) {
	chunks := []ScoredChunk{{
		Chunk: Chunk{Source: "a.txt", Index: 1, Total: 1, Text: "The cat sat on the mat.", Length: 23},
	}}

	got := Format(chunks)

	if !strings.HasPrefix(got, "[Document: a.txt] (23 chars)\n") {
		t.Errorf("Unexpected header: %q", got)
	}
	if !strings.Contains(got, "The cat sat on the mat.") {
		t.Errorf("Chunk text missing from output: %q", got)
	}
	// A single-chunk document gets no part marker.
	if strings.Contains(got, "Part") {
		t.Errorf("Single chunk should not carry a part marker: %q", got)
	}
}

func TestFormatMultiPartHeader(t *testing.T) {
	chunks := []ScoredChunk{{
		Chunk: Chunk{Source: "big.md", Index: 2, Total: 3, Text: "middle section", Length: 14},
	}}

	got := Format(chunks)

	if !strings.Contains(got, "[Document: big.md - Part 2/3] (14 chars)") {
		t.Errorf("Part marker missing or malformed: %q", got)
	}
}

func TestFormatSeparatesBlocks(t *testing.T) {
	chunks := []ScoredChunk{
		{Chunk: Chunk{Source: "a.txt", Index: 1, Total: 1, Text: "first", Length: 5}},
		{Chunk: Chunk{Source: "b.txt", Index: 1, Total: 1, Text: "second", Length: 6}},
	}

	got := Format(chunks)

	separator := "\n\n" + strings.Repeat("=", 60) + "\n\n"
	parts := strings.Split(got, separator)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 blocks separated by a rule, got %d", len(parts))
	}
	if !strings.Contains(parts[0], "a.txt") || !strings.Contains(parts[1], "b.txt") {
		t.Errorf("Blocks out of order: %q", got)
	}
}
