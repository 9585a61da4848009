// ABOUTME: CLI command to search the corpus without generation
// ABOUTME: Prints scored chunks as a table or JSON
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchCorpusDir string
	searchLimit     int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the corpus",
		Long: `Search the ingested corpus and print the most relevant chunks.

Retrieval only, no model call: useful for checking what grounding
an answer would receive.

Examples:
  verso search --corpus ./docs "refund policy"
  verso search --corpus ./docs --limit 10 --format json "rates"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchCorpusDir, "corpus", "", "Directory of documents to ingest before searching")
	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Ingest(cmd.Context(), searchCorpusDir); err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}

	results := engine.Search(cmd.Context(), args[0])
	if len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No matches for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tSOURCE\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t------\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n",
			r.Score,
			truncate(r.Chunk.ID(), 30),
			truncate(r.Chunk.Content, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}
	return nil
}
