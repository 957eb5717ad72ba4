package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Name     string `json:"name"`
	Division string `json:"division"`
	Problem  string `json:"problem"`
	Category string `json:"category"`
}

// UpdateTicketRequest payload. Omitted fields are left unchanged.
type UpdateTicketRequest struct {
	Status *string `json:"status"`
	PIC    *string `json:"pic"`
	Notes  *string `json:"notes"`
}

// TicketResponse represents one ticket.
type TicketResponse struct {
	ID        int64                 `json:"id"`
	Timestamp time.Time             `json:"timestamp"`
	Name      string                `json:"name"`
	Division  string                `json:"division"`
	Problem   string                `json:"problem"`
	Category  domain.TicketCategory `json:"category"`
	PIC       string                `json:"pic"`
	Status    domain.TicketStatus   `json:"status"`
	Notes     string                `json:"notes"`
	Overdue   bool                  `json:"overdue"`
}

// TicketListMeta accompanies list responses.
type TicketListMeta struct {
	Total         int  `json:"total"`
	ActiveFilters bool `json:"active_filters"`
}

// NewTicketResponse maps a domain ticket. now decides the overdue flag.
func NewTicketResponse(t domain.Ticket, now time.Time) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		Timestamp: t.Timestamp,
		Name:      t.Name,
		Division:  t.Division,
		Problem:   t.Problem,
		Category:  t.Category,
		PIC:       t.PIC,
		Status:    t.Status,
		Notes:     t.Notes,
		Overdue:   t.Overdue(now),
	}
}
