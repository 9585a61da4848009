// ABOUTME: History maintenance commands for the conversation store
// ABOUTME: Clear a single identity or purge old turns across all identities
package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var purgeAge time.Duration

// NewHistoryCmd creates the history command group
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage stored conversation history",
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Clear history for one identity",
		Long: `Remove all stored turns for the resolved caller identity.

Examples:
  verso history clear --user alice
  verso history clear --session s-123`,
		Args: cobra.NoArgs,
		RunE: runHistoryClear,
	}
	addIdentityFlags(clear)

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Purge turns older than a cutoff",
		Long: `Remove turns older than the given age across all identities.

Examples:
  verso history purge --older-than 720h`,
		Args: cobra.NoArgs,
		RunE: runHistoryPurge,
	}
	purge.Flags().DurationVar(&purgeAge, "older-than", 30*24*time.Hour, "Remove turns older than this duration")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show recent turns for one identity",
		Long: `Print the stored turns for the resolved caller identity,
oldest first.

Examples:
  verso history show --user alice`,
		Args: cobra.NoArgs,
		RunE: runHistoryShow,
	}
	addIdentityFlags(show)

	cmd.AddCommand(show)
	cmd.AddCommand(clear)
	cmd.AddCommand(purge)
	return cmd
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	who := identityFromFlags()
	turns := engine.History(who)
	if len(turns) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No stored turns for %s\n", who.Resolve())
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "WHEN\tROLE\tCONTENT\n")
	for _, turn := range turns {
		fmt.Fprintf(w, "%s\t%s\t%s\n", formatTime(turn.Timestamp), turn.Role, truncate(turn.Content, 70))
	}
	w.Flush()
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	who := identityFromFlags()
	if err := engine.ClearHistory(who); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared history for %s\n", who.Resolve())
	}
	return nil
}

func runHistoryPurge(cmd *cobra.Command, args []string) error {
	if purgeAge <= 0 {
		return fmt.Errorf("--older-than must be positive, got %s", purgeAge)
	}

	engine, err := buildEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	removed, err := engine.PurgeHistory(purgeAge)
	if err != nil {
		return fmt.Errorf("purging history: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d turn(s) older than %s\n", removed, purgeAge)
	}
	return nil
}
