// ABOUTME: Interactive chat command with streamed answers over the corpus
// ABOUTME: Reads questions from stdin and prints deltas as they arrive
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCorpusDir string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively over the corpus",
		Long: `Start an interactive question-answering session.

The corpus directory is ingested once at startup. Each question
is answered with streaming output; the conversation history feeds
later answers. Type "exit" or press Ctrl-D to quit.

Examples:
  verso chat --corpus ./docs
  verso chat --corpus ./docs --user alice`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().StringVar(&chatCorpusDir, "corpus", "", "Directory of documents to ingest at startup")
	addIdentityFlags(cmd)
	_ = cmd.MarkFlagRequired("corpus")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	chunks, err := engine.Ingest(cmd.Context(), chatCorpusDir)
	if err != nil {
		return fmt.Errorf("ingesting corpus: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunk(s). Ask away; type \"exit\" to quit.\n\n", chunks)
	}

	who := identityFromFlags()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			fmt.Fprintln(cmd.OutOrStdout())
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			return nil
		}

		stream, err := engine.AnswerStream(cmd.Context(), question, who)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %v\n", err)
			continue
		}
		for chunk := range stream {
			if chunk.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\n[stream interrupted: %v]", chunk.Err)
				break
			}
			fmt.Fprint(cmd.OutOrStdout(), chunk.Content)
		}
		fmt.Fprint(cmd.OutOrStdout(), "\n\n")
	}
}
