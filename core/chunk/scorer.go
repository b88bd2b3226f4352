package chunk

import (
	"strings"
)

// punctCutset is trimmed from both ends of every term.
const punctCutset = `.,!?;:"()[]{}`

// Score computes a relevance score for every chunk against the query
// and returns the chunks in input order. The score is the sum of four
// components:
//
//   - exact term overlap between query and chunk, weighted 2.0
//   - partial credit when one term contains the other, capped at 1.0
//   - 0.3 per query term present verbatim in the chunk text, capped at
//     1.0, applied only for multi-word queries
//   - a length bonus of len(text)/10000, capped at 0.2
func Score(chunks []Chunk, query string) []ScoredChunk {
	qTerms := queryTerms(query)
	multiWord := len(strings.Fields(query)) > 1

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, ch := range chunks {
		contentLower := strings.ToLower(ch.Text)
		cTerms := termSet(contentLower)

		score := 0.0

		if len(qTerms) > 0 {
			// Exact overlap between query terms and chunk terms.
			overlap := 0
			for t := range qTerms {
				if _, ok := cTerms[t]; ok {
					overlap++
				}
			}
			score += float64(overlap) / float64(len(qTerms)) * 2.0

			// Partial credit for substring containment in either direction.
			partial := 0.0
			for q := range qTerms {
				for c := range cTerms {
					if strings.Contains(c, q) || strings.Contains(q, c) {
						partial += 0.5
					}
				}
			}
			partial /= float64(len(qTerms))
			if partial > 1.0 {
				partial = 1.0
			}
			score += partial
		}

		// Whole-term presence only counts for multi-word queries.
		if multiWord {
			phrase := 0.0
			for q := range qTerms {
				if strings.Contains(contentLower, q) {
					phrase += 0.3
				}
			}
			if phrase > 1.0 {
				phrase = 1.0
			}
			score += phrase
		}

		// Longer chunks carry slightly more context.
		lengthBonus := float64(len(ch.Text)) / 10000.0
		if lengthBonus > 0.2 {
			lengthBonus = 0.2
		}
		score += lengthBonus

		scored = append(scored, ScoredChunk{Chunk: ch, Score: score})
	}

	return scored
}

// queryTerms extracts scoring terms from a query: whitespace-split
// words longer than two characters, lowercased, with surrounding
// punctuation trimmed. The length filter applies before trimming.
func queryTerms(query string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, word := range strings.Fields(query) {
		if len(word) > 2 {
			terms[strings.Trim(strings.ToLower(word), punctCutset)] = struct{}{}
		}
	}
	return terms
}

// termSet extracts terms from text that is already lowercased.
func termSet(textLower string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, word := range strings.Fields(textLower) {
		if len(word) > 2 {
			terms[strings.Trim(word, punctCutset)] = struct{}{}
		}
	}
	return terms
}
