// ABOUTME: Stateless lexical fallback scorer over chunk content
// ABOUTME: Normalized term frequency of stop-worded query terms, renormalized by the max
package index

import (
	"sort"
	"strings"

	"github.com/verso-ai/verso/internal/models"
)

// stopWords are stripped from queries before scoring
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "how": true, "in": true,
	"is": true, "it": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "this": true, "to": true, "was": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "will": true,
	"with": true,
}

// KeywordSearch scores chunks by normalized term frequency of the query's
// surviving terms and returns the top-k descending. Scores are renormalized
// into [0,1] by the maximum. Deterministic and stateless.
func KeywordSearch(query string, chunks []models.Chunk, k int) []models.SearchResult {
	terms := queryTerms(query)
	if len(terms) == 0 || len(chunks) == 0 {
		return nil
	}

	results := make([]models.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		var score float64
		for _, term := range terms {
			count := strings.Count(content, term)
			if count > 0 && chunk.Length > 0 {
				score += float64(count) / float64(chunk.Length)
			}
		}
		if score > 0 {
			results = append(results, models.SearchResult{Chunk: chunk, Score: score})
		}
	}
	if len(results) == 0 {
		return nil
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}

	max := results[0].Score
	for i := range results {
		results[i].Score /= max
	}
	return results
}

// queryTerms tokenizes and strips stop words
func queryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})

	var terms []string
	for _, f := range fields {
		if !stopWords[f] && len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func isWordRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}
