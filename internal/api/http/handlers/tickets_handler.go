package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/ticketfilter"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// TicketsHandler manages the request endpoints.
type TicketsHandler struct {
	service  *service.RequestService
	location *time.Location
}

// NewTicketsHandler constructs handler. Date filters are calendar days in loc.
func NewTicketsHandler(requestService *service.RequestService, loc *time.Location) *TicketsHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TicketsHandler{service: requestService, location: loc}
}

// ListTickets GET /requests.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	criteria, err := h.parseCriteria(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.Visible(c.UserContext(), principal.User, criteria)
	if err != nil {
		return err
	}
	now := time.Now()
	items := make([]dto.TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.NewTicketResponse(t, now))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.TicketListMeta{Total: len(items), ActiveFilters: criteria.Active(principal.User.Role)},
	})
}

// Stats GET /requests/stats. The counts cover what the caller may see.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	criteria, err := h.parseCriteria(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.Visible(c.UserContext(), principal.User, criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.service.Stats(tickets)})
}

// CreateTicket POST /requests. Admins choose the division; everyone else
// files into their own.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !principal.User.IsAdmin() {
		req.Division = principal.User.Division
	}

	ticket, err := h.service.AddRequest(actorContext(c, principal), service.RequestCreateInput{
		Name:     req.Name,
		Division: req.Division,
		Problem:  req.Problem,
		Category: domain.TicketCategory(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(*ticket, time.Now())})
}

// UpdateTicket PATCH /requests/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.RequestUpdateInput{PIC: req.PIC, Notes: req.Notes}
	if req.Status != nil {
		status := domain.TicketStatus(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	if err := h.service.UpdateRequest(actorContext(c, principal), id, input); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DeleteTicket DELETE /requests/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteRequest(actorContext(c, principal), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *TicketsHandler) parseCriteria(c *fiber.Ctx) (ticketfilter.Criteria, error) {
	criteria := ticketfilter.Criteria{
		Search:   c.Query("search"),
		Status:   c.Query("status", ticketfilter.All),
		Division: c.Query("division", ticketfilter.All),
		Location: h.location,
	}
	for _, bound := range []struct {
		key    string
		target **time.Time
	}{
		{key: "start", target: &criteria.Start},
		{key: "end", target: &criteria.End},
	} {
		raw := strings.TrimSpace(c.Query(bound.key))
		if raw == "" {
			continue
		}
		day, err := time.ParseInLocation(dateLayout, raw, h.location)
		if err != nil {
			return criteria, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{bound.key: raw})
		}
		*bound.target = &day
	}
	return criteria, nil
}
