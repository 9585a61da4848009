// ABOUTME: Turn represents one conversation message owned by an identity
// ABOUTME: Turns are append-only and read back in chronological order
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single conversation message
type Turn struct {
	TurnID    string    `json:"turn_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a new Turn with validation
func NewTurn(role Role, content string) (*Turn, error) {
	if role != RoleUser && role != RoleAssistant {
		return nil, fmt.Errorf("invalid role: %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("turn content cannot be empty")
	}
	return &Turn{
		TurnID:    generateTurnID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}, nil
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
