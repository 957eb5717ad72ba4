// Package ticketfilter selects the tickets a user may see and summarizes them
// for the dashboard. Everything here is pure and safe for concurrent use.
package ticketfilter

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// All is the sentinel that disables the status and division filters.
const All = "All"

// Criteria are the user-controlled filters. The zero value shows everything
// the user is allowed to see.
type Criteria struct {
	Search   string
	Status   string
	Division string
	Start    *time.Time
	End      *time.Time
	// Location defines calendar days for Start and End. Nil means time.Local.
	Location *time.Location
}

// Active reports whether any filter differs from its default. The division
// filter only counts for admins, since it is ignored for everyone else.
func (c Criteria) Active(role domain.Role) bool {
	if c.Search != "" || !isAll(c.Status) {
		return true
	}
	if role == domain.RoleAdmin && !isAll(c.Division) {
		return true
	}
	return c.Start != nil || c.End != nil
}

// Visible returns the tickets of all that user may see and that match c,
// in their original order.
func Visible(all []domain.Ticket, user domain.User, c Criteria) []domain.Ticket {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}

	// The term is matched as typed; only the empty string disables search.
	fold := cases.Fold()
	search := fold.String(c.Search)

	var from, until time.Time
	if c.Start != nil {
		from = startOfDay(*c.Start, loc)
	}
	if c.End != nil {
		until = startOfDay(*c.End, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	admin := user.IsAdmin()
	result := make([]domain.Ticket, 0, len(all))
	for _, ticket := range all {
		if !admin && ticket.Division != user.Division {
			continue
		}
		if search != "" &&
			!strings.Contains(fold.String(ticket.Name), search) &&
			!strings.Contains(fold.String(ticket.Problem), search) {
			continue
		}
		if !isAll(c.Status) && string(ticket.Status) != c.Status {
			continue
		}
		if admin && !isAll(c.Division) && ticket.Division != c.Division {
			continue
		}
		if c.Start != nil && ticket.Timestamp.Before(from) {
			continue
		}
		if c.End != nil && ticket.Timestamp.After(until) {
			continue
		}
		result = append(result, ticket)
	}
	return result
}

func isAll(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == All
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
