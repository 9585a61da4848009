// ABOUTME: CLI command to answer a single question from the corpus
// ABOUTME: Ingests the given corpus directory, then runs one answer round-trip
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askCorpusDir string

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer one question from the corpus",
		Long: `Answer a single question grounded in the ingested corpus.

The corpus directory is ingested first, then the question is
answered using retrieval plus generation. The command always
prints an answer; when the model is unavailable the answer
degrades to retrieved passages.

Examples:
  verso ask --corpus ./docs "What is the refund policy?"
  verso ask --corpus ./docs --user alice "What did we decide?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askCorpusDir, "corpus", "", "Directory of documents to ingest before answering")
	addIdentityFlags(cmd)
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	if _, err := engine.Ingest(cmd.Context(), askCorpusDir); err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}

	answer, err := engine.Answer(cmd.Context(), args[0], identityFromFlags())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
