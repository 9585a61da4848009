// ABOUTME: ConversationStore is the append/read collaborator owning history
// ABOUTME: Turns append and read back in per-identity chronological order
package storage

import (
	"errors"
	"time"

	"github.com/verso-ai/verso/internal/models"
)

// ErrNotFound indicates the requested record does not exist
var ErrNotFound = errors.New("record not found")

// ConversationStore persists conversation turns keyed by resolved identity
type ConversationStore interface {
	// Append adds a turn to the identity's history
	Append(identity string, turn *models.Turn) error

	// Recent returns the identity's turns no older than window, oldest first
	Recent(identity string, window time.Duration) ([]models.Turn, error)

	// Clear removes all turns for the identity
	Clear(identity string) error

	// PurgeOlderThan removes turns older than age across all identities,
	// returning the number removed
	PurgeOlderThan(age time.Duration) (int, error)
}
