// ABOUTME: Identity resolves the key scoping a conversation's history
// ABOUTME: Priority order is authenticated user > device > session
package models

// Identity carries the candidate keys for a conversation
type Identity struct {
	UserID    string `json:"user_id,omitempty"`
	DeviceID  string `json:"device_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Resolve returns the highest-priority non-empty key.
// An identity with no keys at all resolves to "anonymous".
func (id Identity) Resolve() string {
	switch {
	case id.UserID != "":
		return "user:" + id.UserID
	case id.DeviceID != "":
		return "device:" + id.DeviceID
	case id.SessionID != "":
		return "session:" + id.SessionID
	}
	return "anonymous"
}
