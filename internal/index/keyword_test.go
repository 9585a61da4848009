// ABOUTME: Tests for the keyword fallback scorer
// ABOUTME: Verifies stop-word stripping, term-frequency ranking, and score normalization
package index

import (
	"testing"

	"github.com/verso-ai/verso/internal/models"
)

func TestKeywordSearch_RanksByTermFrequency(t *testing.T) {
	chunks := []models.Chunk{
		chunk("The loan rate is fixed. The rate never changes.", 0),
		chunk("Weather is sunny today with light wind.", 1),
		chunk("One mention of rate buried in a long paragraph about many other unrelated things entirely.", 2),
	}

	results := KeywordSearch("what is the loan rate", chunks, 3)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Chunk.Position != 0 {
		t.Errorf("top chunk position = %d, want 0", results[0].Chunk.Position)
	}
	if results[0].Score != 1 {
		t.Errorf("top score = %f, want 1 after renormalization", results[0].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores increase at %d", i)
		}
		if results[i].Score < 0 || results[i].Score > 1 {
			t.Errorf("score %f out of [0,1]", results[i].Score)
		}
	}
}

func TestKeywordSearch_StopWordsOnlyQuery(t *testing.T) {
	chunks := []models.Chunk{chunk("some content", 0)}

	results := KeywordSearch("what is the", chunks, 3)
	if len(results) != 0 {
		t.Errorf("stop-word-only query returned %d results", len(results))
	}
}

func TestKeywordSearch_EmptyCorpus(t *testing.T) {
	results := KeywordSearch("any query terms", nil, 3)
	if len(results) != 0 {
		t.Errorf("empty corpus returned %d results", len(results))
	}
}

func TestKeywordSearch_NoOverlap(t *testing.T) {
	chunks := []models.Chunk{chunk("completely unrelated material", 0)}

	results := KeywordSearch("quantum flux capacitor", chunks, 3)
	if len(results) != 0 {
		t.Errorf("no-overlap query returned %d results", len(results))
	}
}

func TestKeywordSearch_TopKBound(t *testing.T) {
	var chunks []models.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunk("shared term here", i))
	}

	results := KeywordSearch("shared term", chunks, 4)
	if len(results) != 4 {
		t.Errorf("got %d results, want 4", len(results))
	}
}

func TestKeywordSearch_HyphenatedTerms(t *testing.T) {
	chunks := []models.Chunk{
		chunk("Loan rate at bank X is 5% for 12 months.", 0),
		chunk("Unrelated cooking instructions for pasta.", 1),
	}

	results := KeywordSearch("What is the 12-month rate at bank X?", chunks, 2)
	if len(results) == 0 {
		t.Fatal("expected term overlap on rate/bank")
	}
	if results[0].Chunk.Position != 0 {
		t.Errorf("top chunk position = %d, want 0", results[0].Chunk.Position)
	}
}

func TestKeywordSearch_Deterministic(t *testing.T) {
	chunks := []models.Chunk{
		chunk("alpha beta gamma", 0),
		chunk("beta gamma delta", 1),
	}

	a := KeywordSearch("beta gamma", chunks, 2)
	b := KeywordSearch("beta gamma", chunks, 2)
	if len(a) != len(b) {
		t.Fatalf("result counts differ")
	}
	for i := range a {
		if a[i].Chunk.ID() != b[i].Chunk.ID() || a[i].Score != b[i].Score {
			t.Errorf("result %d differs between runs", i)
		}
	}
}
