// ABOUTME: CLI command to ingest a directory of documents into the corpus index
// ABOUTME: Replaces the current index with chunks from the given directory
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Ingest documents into the corpus",
		Long: `Ingest every supported document under a directory.

Plain text, markdown, and PDF files are chunked, embedded, and
indexed. Unreadable files are skipped with a warning. The index
lives in process memory, so this command is mainly a corpus
check; long-lived sessions (ask, chat, mcp) ingest at startup
via --corpus.

Examples:
  verso ingest ./docs
  verso ingest --format json ~/notes`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	chunks, err := engine.Ingest(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(map[string]any{
			"directory":      args[0],
			"chunks_indexed": chunks,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunk(s) from %s\n", chunks, args[0])
	}
	return nil
}
