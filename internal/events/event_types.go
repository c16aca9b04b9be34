package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/storefront/admin-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventSessionEnded        EventType = "session_ended"
	EventOrderMarkedSent     EventType = "order_marked_sent"
	EventProductCreated      EventType = "product_created"
	EventProductUpdated      EventType = "product_updated"
	EventProductDeleted      EventType = "product_deleted"
	EventProductMediaChanged EventType = "product_media_changed"
	EventSaleItemChanged     EventType = "sale_item_changed"
	EventSaleEntityChanged   EventType = "sale_entity_changed"
)

// AllTypes lists every console event, for subscribers that want all of them.
func AllTypes() []EventType {
	return []EventType{
		EventSessionStarted,
		EventSessionEnded,
		EventOrderMarkedSent,
		EventProductCreated,
		EventProductUpdated,
		EventProductDeleted,
		EventProductMediaChanged,
		EventSaleItemChanged,
		EventSaleEntityChanged,
	}
}

// Target types name the backend resource an event touched.
const (
	TargetSession    = "session"
	TargetOrder      = "order"
	TargetProduct    = "product"
	TargetSaleItem   = "sale_item"
	TargetSaleEntity = "sale_entity"
)

// Actor is the console user who caused the event.
type Actor struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ActorFrom copies user, tolerating nil.
func ActorFrom(user *domain.User) Actor {
	if user == nil {
		return Actor{}
	}
	return Actor{Email: user.Email, Role: user.Role}
}

// Event represents something a console user did.
type Event struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Actor      Actor          `json:"actor"`
	Timestamp  time.Time      `json:"timestamp"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, actor Actor, targetType, targetID string, payload map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TargetType: targetType,
		TargetID:   targetID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// AuditEntry converts the event into its persisted form.
func (e Event) AuditEntry() domain.AuditEntry {
	return domain.AuditEntry{
		ID:         e.ID,
		Action:     string(e.Type),
		ActorEmail: e.Actor.Email,
		ActorRole:  e.Actor.Role,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Details:    e.Payload,
		CreatedAt:  e.Timestamp,
	}
}
