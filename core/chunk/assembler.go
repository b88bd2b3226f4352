package chunk

import (
	"sort"
)

// Assemble builds the chunk list for a set of documents keyed by
// filename. A document whose content fits chunkSize becomes a single
// chunk with Index 1 of Total 1; larger documents are segmented. The
// map is walked in sorted filename order so output is deterministic.
func Assemble(docs map[string]string, chunkSize int) []Chunk {
	chunks := make([]Chunk, 0, len(docs))
	if len(docs) == 0 {
		return chunks
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		content := docs[name]
		if len(content) <= chunkSize {
			chunks = append(chunks, Chunk{
				Source: name,
				Index:  1,
				Total:  1,
				Text:   content,
				Length: len(content),
			})
			continue
		}

		pieces := Segment(content, chunkSize)
		for i, piece := range pieces {
			chunks = append(chunks, Chunk{
				Source: name,
				Index:  i + 1,
				Total:  len(pieces),
				Text:   piece,
				Length: len(piece),
			})
		}
	}

	return chunks
}
