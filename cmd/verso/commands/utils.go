// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Engine construction plus small formatting helpers
package commands

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/verso-ai/verso/internal/config"
	"github.com/verso-ai/verso/internal/core"
	"github.com/verso-ai/verso/internal/models"
)

var (
	identityUser    string
	identityDevice  string
	identitySession string
)

// addIdentityFlags registers the caller identity flags shared by the
// conversational commands.
func addIdentityFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&identityUser, "user", "", "Stable user identifier")
	cmd.Flags().StringVar(&identityDevice, "device", "", "Device identifier")
	cmd.Flags().StringVar(&identitySession, "session", "", "Session identifier")
}

func identityFromFlags() models.Identity {
	return models.Identity{
		UserID:    identityUser,
		DeviceID:  identityDevice,
		SessionID: identitySession,
	}
}

// buildEngine loads configuration and wires a ready answering engine
func buildEngine() (*core.Engine, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return core.Build(cfg, log.Default())
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
