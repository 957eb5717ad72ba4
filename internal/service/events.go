package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// publish fills in the event envelope and hands it to dispatcher. Handler
// failures never fail the operation that produced the event.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Actor == (events.Actor{}) {
		event.Actor = events.ActorFromContext(ctx)
	}
	_ = dispatcher.Publish(ctx, event)
}
