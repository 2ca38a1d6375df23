package view

import (
	"avanza-scraper/lib/textutil"

	"github.com/antzucaro/matchr"
)

// BestMatch picks the search result whose name is closest to term.
func BestMatch(results map[string]SearchResult, term string) (SearchResult, bool) {
	target := textutil.NormalizeName(term)

	var best SearchResult
	var bestSimilarity float64
	for _, result := range results {
		name := textutil.NormalizeName(result.Name)
		similarity := matchr.JaroWinkler(name, target, false)
		if name == target {
			similarity = 1
		}
		// ties are broken by name so the pick doesn't depend on map order
		if similarity > bestSimilarity ||
			(similarity == bestSimilarity && similarity > 0 && result.Name < best.Name) {
			bestSimilarity = similarity
			best = result
		}
	}

	return best, bestSimilarity > 0
}
