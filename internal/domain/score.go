package domain

import "strings"

// OverlapConfidence scores how well a free-text query matches a block
// document: the fraction of case-folded, whitespace-separated query terms
// that also occur in the document, scaled by 1.5 and capped at 1.0.
//
// Semantic search results are re-scored with this function instead of the
// embedding backend's native distance, which varies by model and is not
// calibrated to a stable [0, 1] scale. Keeping the computation here makes it
// testable without any backend.
func OverlapConfidence(query, document string) float64 {
	queryTerms := strings.Fields(strings.ToLower(query))
	if len(queryTerms) == 0 {
		return 0
	}

	docTerms := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(document)) {
		docTerms[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(queryTerms))
	hits := 0
	for _, t := range queryTerms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := docTerms[t]; ok {
			hits++
		}
	}

	score := float64(hits) / float64(len(seen)) * 1.5
	if score > 1.0 {
		return 1.0
	}
	return score
}
