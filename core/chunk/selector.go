package chunk

import (
	"sort"
)

// DefaultFallbackThreshold is the minimum top score for a result set to
// be considered relevant. Below it, selection switches to fallback mode.
const DefaultFallbackThreshold = 0.1

// Select returns the best maxChunks chunks by score using the default
// fallback threshold.
func Select(scored []ScoredChunk, maxChunks int) []ScoredChunk {
	return SelectWithThreshold(scored, maxChunks, DefaultFallbackThreshold)
}

// SelectWithThreshold sorts chunks by score, highest first, and returns
// the top maxChunks. Sorting is stable so equal scores keep their input
// order. When no chunk reaches threshold the selection falls back to
// taking at most one chunk per source document, in score order, so the
// budget still spreads across the corpus instead of piling onto one
// irrelevant document.
func SelectWithThreshold(scored []ScoredChunk, maxChunks int, threshold float64) []ScoredChunk {
	if maxChunks <= 0 {
		return []ScoredChunk{}
	}

	ranked := make([]ScoredChunk, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) == 0 || ranked[0].Score < threshold {
		// Fallback: one chunk per document until the budget is spent.
		selected := make([]ScoredChunk, 0, maxChunks)
		seen := make(map[string]struct{})
		for _, ch := range ranked {
			if _, ok := seen[ch.Source]; ok {
				continue
			}
			seen[ch.Source] = struct{}{}
			selected = append(selected, ch)
			if len(selected) >= maxChunks {
				break
			}
		}
		return selected
	}

	if len(ranked) > maxChunks {
		ranked = ranked[:maxChunks]
	}
	return ranked
}
