package domain

import "time"

// AuditEntry records one console action for the admin trail.
type AuditEntry struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	ActorEmail string         `json:"actor_email"`
	ActorRole  string         `json:"actor_role"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
