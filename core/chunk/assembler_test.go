package chunk

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssembleEmptyMap(t *testing.T) {
	chunks := Assemble(map[string]string{}, 6000)
	if len(chunks) != 0 {
		t.Errorf("Expected no chunks for an empty document map, got %d", len(chunks))
	}
}

func TestAssembleSmallDocument(t *testing.T) {
	docs := map[string]string{"a.txt": "The cat sat on the mat."}

	chunks := Assemble(docs, 6000)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	ch := chunks[0]
	if ch.Source != "a.txt" || ch.Index != 1 || ch.Total != 1 {
		t.Errorf("Unexpected chunk identity: %+v", ch)
	}
	if ch.Length != 23 || ch.Length != len(ch.Text) {
		t.Errorf("Length = %d, expected 23 == len(text)", ch.Length)
	}
	if ch.Text != docs["a.txt"] {
		t.Errorf("Small document content must pass through unchanged")
	}
}

func TestAssembleEmptyContent(t *testing.T) {
	chunks := Assemble(map[string]string{"empty.txt": ""}, 100)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk for an empty document, got %d", len(chunks))
	}
	if chunks[0].Text != "" || chunks[0].Length != 0 || chunks[0].Total != 1 {
		t.Errorf("Unexpected chunk for empty content: %+v", chunks[0])
	}
}

func TestAssembleLargeDocumentNumbering(t *testing.T) {
	docs := map[string]string{
		"big.txt": strings.TrimSpace(strings.Repeat("word ", 4000)),
	}

	chunks := Assemble(docs, 6000)

	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Index != i+1 {
			t.Errorf("Chunk %d has index %d, expected %d", i, ch.Index, i+1)
		}
		if ch.Total != len(chunks) {
			t.Errorf("Chunk %d has total %d, expected %d", i, ch.Total, len(chunks))
		}
		if ch.Length != len(ch.Text) {
			t.Errorf("Chunk %d length %d does not match its text (%d)", i, ch.Length, len(ch.Text))
		}
		if ch.Length > 6000 {
			t.Errorf("Chunk %d exceeds the chunk size: %d", i, ch.Length)
		}
	}
}

func TestAssembleDeterministicOrder(t *testing.T) {
	docs := map[string]string{
		"zebra.txt": "last by name",
		"alpha.txt": "first by name",
		"mid.txt":   "middle by name",
	}

	first := Assemble(docs, 6000)
	second := Assemble(docs, 6000)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Assemble is not deterministic across calls")
	}
	want := []string{"alpha.txt", "mid.txt", "zebra.txt"}
	for i, ch := range first {
		if ch.Source != want[i] {
			t.Errorf("Position %d: got %s, expected %s", i, ch.Source, want[i])
		}
	}
}
