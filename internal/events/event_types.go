package events

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventTicketDeleted EventType = "ticket_deleted"
	EventUserAdded     EventType = "user_added"
	EventUserDeleted   EventType = "user_deleted"
)

// Actor identifies who triggered an event. The zero value is the system.
type Actor struct {
	UserID   int64       `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	UserID    int64       `json:"user_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Name     string                `json:"name"`
	Division string                `json:"division"`
	Category domain.TicketCategory `json:"category"`
}

// TicketUpdatedPayload lists the fields an update wrote.
type TicketUpdatedPayload struct {
	Status       *domain.TicketStatus `json:"status,omitempty"`
	PIC          *string              `json:"pic,omitempty"`
	NotesChanged bool                 `json:"notes_changed"`
}

// UserPayload payload.
type UserPayload struct {
	Username string `json:"username,omitempty"`
	Division string `json:"division,omitempty"`
}

type actorKey struct{}

// WithActor attaches the acting user to ctx.
func WithActor(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, actorKey{}, Actor{UserID: user.ID, Username: user.Username, Role: user.Role})
}

// ActorFromContext returns the actor stored by WithActor, or the system actor.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
