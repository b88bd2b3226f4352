package chunk

import (
	"regexp"
	"strings"
)

// sentenceEnd matches a run of sentence terminators followed by whitespace.
var sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)

// Segment splits content into pieces of at most chunkSize characters,
// preferring paragraph boundaries, then sentence boundaries, then word
// boundaries. A single word longer than chunkSize is emitted whole, as
// its own oversized piece, rather than being cut mid-word. Content that
// already fits is returned unchanged as a single piece.
func Segment(content string, chunkSize int) []string {
	if len(content) <= chunkSize {
		return []string{content}
	}

	var chunks []string
	current := ""

	for _, para := range strings.Split(content, "\n\n") {
		if len(current)+len(para)+2 > chunkSize {
			// Adding this paragraph would overflow, emit what we have.
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}

			if len(para) > chunkSize {
				// Paragraph does not fit on its own, pack sentences instead.
				temp := ""
				for _, sentence := range splitBySentences(para) {
					if len(temp)+len(sentence)+1 > chunkSize {
						if temp != "" {
							chunks = append(chunks, strings.TrimSpace(temp))
							temp = ""
						}
						if len(sentence) > chunkSize {
							chunks = append(chunks, splitByWords(sentence, chunkSize)...)
						} else {
							temp = sentence
						}
					} else {
						if temp != "" {
							temp += " "
						}
						temp += sentence
					}
				}
				// The remainder may still merge with following paragraphs.
				current = temp
			} else {
				current = para
			}
		} else {
			if current != "" {
				current += "\n\n"
			}
			current += para
		}
	}

	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	return chunks
}

// splitBySentences splits text after each run of sentence punctuation.
// The terminator stays attached to its sentence and surrounding
// whitespace is trimmed. Empty segments are dropped.
func splitBySentences(text string) []string {
	var sentences []string
	prev := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		prev = loc[1]
	}
	// Keep the trailing fragment after the last terminator.
	if s := strings.TrimSpace(text[prev:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// splitByWords packs whitespace-separated words into pieces of at most
// maxSize characters. A word longer than maxSize becomes its own piece.
func splitByWords(text string, maxSize int) []string {
	var chunks []string
	current := ""
	for _, word := range strings.Fields(text) {
		if len(current)+len(word)+1 > maxSize {
			if current != "" {
				chunks = append(chunks, strings.TrimSpace(current))
				current = ""
			}
		}
		if current != "" {
			current += " "
		}
		current += word
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}
