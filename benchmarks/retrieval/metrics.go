// ABOUTME: Deterministic retrieval quality metrics for benchmark scenarios
// ABOUTME: Recall and grounding scores computed against ground truth strings
package retrieval

import (
	"fmt"
	"strings"
)

// MetricsCalculator computes retrieval quality scores for benchmark scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// ContextRecall scores how much of the expected ground truth appeared in
// the retrieved chunks. 1.0 means every expected item was retrieved.
func (m *MetricsCalculator) ContextRecall(retrieved []string, expectedItems []string) (float64, string) {
	if len(expectedItems) == 0 {
		return 1.0, "no context retrieval required"
	}

	allContext := strings.ToUpper(strings.Join(retrieved, " "))

	found := 0
	var missing []string
	for _, item := range expectedItems {
		if strings.Contains(allContext, strings.ToUpper(item)) {
			found++
		} else {
			missing = append(missing, item)
		}
	}

	recall := float64(found) / float64(len(expectedItems))
	if recall == 1.0 {
		return 1.0, "all expected items retrieved"
	}
	return recall, fmt.Sprintf("partial recall (%.2f), missing: %v", recall, missing)
}

// Grounding scores whether the retrieved top result carries the expected
// content and none of the forbidden content. Forbidden items catch
// retrieval pulling the wrong document for look-alike queries.
func (m *MetricsCalculator) Grounding(topResult string, expected, forbidden []string) (float64, string) {
	upper := strings.ToUpper(topResult)

	var missing, leaked []string
	for _, want := range expected {
		if !strings.Contains(upper, strings.ToUpper(want)) {
			missing = append(missing, want)
		}
	}
	for _, bad := range forbidden {
		if strings.Contains(upper, strings.ToUpper(bad)) {
			leaked = append(leaked, bad)
		}
	}

	switch {
	case len(missing) == 0 && len(leaked) == 0:
		return 1.0, "top result grounded in expected content"
	case len(missing) > 0 && len(leaked) > 0:
		return 0.0, fmt.Sprintf("missing: %v, forbidden found: %v", missing, leaked)
	case len(missing) > 0:
		return 0.5, fmt.Sprintf("missing expected items: %v", missing)
	default:
		return 0.5, fmt.Sprintf("forbidden items found: %v", leaked)
	}
}
