// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Execute is the single entry point used by main
package commands

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██╗   ██╗███████╗██████╗ ███████╗ ██████╗
██║   ██║██╔════╝██╔══██╗██╔════╝██╔═══██╗
██║   ██║█████╗  ██████╔╝███████╗██║   ██║
╚██╗ ██╔╝██╔══╝  ██╔══██╗╚════██║██║   ██║
 ╚████╔╝ ███████╗██║  ██║███████║╚██████╔╝
  ╚═══╝  ╚══════╝╚═╝  ╚═╝╚══════╝ ╚═════╝
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verso",
		Short: "Answer questions grounded in your own documents",
		Long: banner + `
Verso ingests a directory of documents and answers questions about
them, grounding every answer in retrieved passages and the recent
conversation. It keeps answering when the model is unavailable by
degrading to deterministic retrieval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewChatCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// configureLogging applies the global verbosity flags to the default logger
func configureLogging() {
	switch {
	case quiet:
		log.SetOutput(io.Discard)
	case verbose:
		log.SetLevel(log.DebugLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
