package chunk

import (
	"fmt"
	"strings"
)

// NoContentMessage is the fixed sentinel returned when there is nothing
// to format.
const NoContentMessage = "No relevant document content found."

// blockSeparator visually divides content from different chunks.
var blockSeparator = "\n\n" + strings.Repeat("=", 60) + "\n\n"

// Format renders selected chunks into a single context string. Each
// chunk gets a header naming its source document, its part number when
// the document was split, and its character count. An empty selection
// yields NoContentMessage.
func Format(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return NoContentMessage
	}

	blocks := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		header := fmt.Sprintf("[Document: %s", ch.Source)
		if ch.Total > 1 {
			header += fmt.Sprintf(" - Part %d/%d", ch.Index, ch.Total)
		}
		header += fmt.Sprintf("] (%d chars)", ch.Length)
		blocks = append(blocks, header+"\n"+ch.Text)
	}

	return strings.Join(blocks, blockSeparator)
}
