package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/ticketfilter"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequestService coordinates ticket workflows.
type RequestService struct {
	tickets    repository.RequestRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo repository.RequestRepository
	Dispatcher  events.Dispatcher
	// Now defaults to time.Now.
	Now func() time.Time
}

// RequestCreateInput describes ticket creation payload.
type RequestCreateInput struct {
	Name     string
	Division string
	Problem  string
	Category domain.TicketCategory
}

// RequestUpdateInput carries the fields an admin may change. Nil fields are
// left untouched.
type RequestUpdateInput struct {
	Status *domain.TicketStatus
	PIC    *string
	Notes  *string
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		tickets:    deps.RequestRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// FetchRequests returns every ticket in the store.
func (s *RequestService) FetchRequests(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// AddRequest submits a new ticket and returns it as the store will show it
// after the next refresh.
func (s *RequestService) AddRequest(ctx context.Context, input RequestCreateInput) (*domain.Ticket, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Division = strings.TrimSpace(input.Division)
	input.Problem = strings.TrimSpace(input.Problem)

	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Division == "" {
		missing = append(missing, "division")
	}
	if input.Problem == "" {
		missing = append(missing, "problem")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("all fields are required", map[string]any{"missing": missing})
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{
			"category": input.Category,
			"allowed":  domain.TicketCategories,
		})
	}

	id, err := s.tickets.Create(ctx, repository.NewTicket{
		Name:     input.Name,
		Division: input.Division,
		Problem:  input.Problem,
		Category: input.Category,
	})
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:        id,
		Timestamp: s.now(),
		Name:      input.Name,
		Division:  input.Division,
		Problem:   input.Problem,
		Category:  input.Category,
		PIC:       domain.DefaultPIC,
		Status:    domain.TicketStatusOpen,
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Name:     ticket.Name,
			Division: ticket.Division,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// UpdateRequest writes the set fields of input. Any status may follow any
// other.
func (s *RequestService) UpdateRequest(ctx context.Context, id int64, input RequestUpdateInput) error {
	update := repository.TicketUpdate{Status: input.Status, PIC: input.PIC, Notes: input.Notes}
	if update.Empty() {
		return apperrors.NewValidationError("nothing to update", nil)
	}
	if update.Status != nil && !update.Status.Valid() {
		return apperrors.NewValidationError("unknown status", map[string]any{
			"status":  *update.Status,
			"allowed": domain.TicketStatuses,
		})
	}

	if err := s.tickets.Update(ctx, id, update); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: id,
		Payload: events.TicketUpdatedPayload{
			Status:       update.Status,
			PIC:          update.PIC,
			NotesChanged: update.Notes != nil,
		},
	})
	return nil
}

// DeleteRequest removes a ticket.
func (s *RequestService) DeleteRequest(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.Event{Type: events.EventTicketDeleted, TicketID: id})
	return nil
}

// Visible fetches the store and applies the user's scope and criteria.
func (s *RequestService) Visible(ctx context.Context, user domain.User, criteria ticketfilter.Criteria) ([]domain.Ticket, error) {
	all, err := s.FetchRequests(ctx)
	if err != nil {
		return nil, err
	}
	return ticketfilter.Visible(all, user, criteria), nil
}

// Stats summarizes tickets for the dashboard.
func (s *RequestService) Stats(tickets []domain.Ticket) ticketfilter.Stats {
	return ticketfilter.Summarize(tickets)
}
