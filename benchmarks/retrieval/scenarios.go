// ABOUTME: Benchmark scenario definitions with corpus documents and ground truth
// ABOUTME: Small fixed corpora so runs are deterministic and offline
package retrieval

// Scenario is one retrieval benchmark: a corpus, a query, and the ground
// truth the retrieved context must and must not contain.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Corpus      map[string]string // source name -> document text
	Query       string
	GroundTruth GroundTruth
}

// GroundTruth defines expected retrieval outcomes for a scenario
type GroundTruth struct {
	ExpectedContextItems []string // must appear somewhere in retrieved chunks
	ExpectedInTop        []string // must appear in the top-ranked chunk
	ForbiddenInTop       []string // must not appear in the top-ranked chunk
}

// DefaultScenarios returns the built-in benchmark suite
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "rates-lookup",
			Name:        "Named entity rate lookup",
			Description: "A query naming a specific institution must rank that institution's document first.",
			Corpus: map[string]string{
				"bank-x.txt": "The 12-month deposit rate at bank X is 3.4 percent. The same 12-month rate applies to renewals at bank X.",
				"bank-y.txt": "Bank Y offers a 12-month deposit rate of 2.1 percent with monthly interest payout.",
				"fees.txt":   "Wire transfer fees are waived for premium accounts at both institutions.",
			},
			Query: "What is the 12-month rate at bank X?",
			GroundTruth: GroundTruth{
				ExpectedContextItems: []string{"bank X", "3.4 percent"},
				ExpectedInTop:        []string{"bank X"},
				ForbiddenInTop:       []string{"2.1 percent"},
			},
		},
		{
			ID:          "policy-detail",
			Name:        "Policy detail retrieval",
			Description: "A detail buried mid-document must surface for a paraphrased query.",
			Corpus: map[string]string{
				"handbook.txt": "Employees accrue vacation monthly.\n\nRefunds for cancelled training courses are issued within 14 business days to the original payment method.\n\nParking passes renew every January.",
				"misc.txt":     "The cafeteria closes at 3pm on Fridays.",
			},
			Query: "How long do training refunds take?",
			GroundTruth: GroundTruth{
				ExpectedContextItems: []string{"14 business days"},
				ExpectedInTop:        []string{"Refunds", "14 business days"},
				ForbiddenInTop:       []string{"cafeteria"},
			},
		},
		{
			ID:          "multi-doc",
			Name:        "Cross-document recall",
			Description: "Ground truth split across two documents must both be retrieved within top-k.",
			Corpus: map[string]string{
				"spec-a.txt": "Service A exposes its health endpoint on port 8080 and reports readiness within two seconds of startup.",
				"spec-b.txt": "Service B depends on service A and retries its health endpoint three times before declaring an outage.",
				"intro.txt":  "This document set describes the deployment topology of the platform.",
			},
			Query: "How does service B use the health endpoint of service A?",
			GroundTruth: GroundTruth{
				ExpectedContextItems: []string{"port 8080", "three times"},
			},
		},
	}
}
