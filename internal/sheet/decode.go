package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Column keys in priority order. The script emits either the localized
// capitalized sheet headers or their lowercase form.
var (
	ticketIDKeys        = []string{"Id", "id"}
	ticketTimestampKeys = []string{"Timestamp", "timestamp"}
	ticketNameKeys      = []string{"Nama", "nama"}
	ticketDivisionKeys  = []string{"Divisi", "divisi"}
	ticketProblemKeys   = []string{"Masalah", "masalah"}
	ticketCategoryKeys  = []string{"Kategori", "kategori"}
	ticketPICKeys       = []string{"PIC", "pic"}
	ticketStatusKeys    = []string{"Status", "status"}
	ticketNotesKeys     = []string{"Catatan", "catatan", "Notes", "notes"}

	userIDKeys       = []string{"id", "Id"}
	userUsernameKeys = []string{"username", "Username"}
	userNameKeys     = []string{"name", "Name"}
	userRoleKeys     = []string{"role", "Role"}
	userDivisionKeys = []string{"division", "Division"}
	userPasswordKeys = []string{"password", "Password"}
)

var (
	zonedLayouts = []string{time.RFC3339Nano, time.RFC3339}
	// Zone-less stamps are wall-clock time in the sheet's timezone.
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

// DecodeTicket maps one row onto a Ticket. ok is false when the row has no
// usable id or timestamp; such rows are unparseable and get dropped.
// Timestamps without a zone are read in loc (time.Local when nil).
func DecodeTicket(row Row, loc *time.Location) (domain.Ticket, bool) {
	id, ok := parseID(pick(row, ticketIDKeys...))
	if !ok {
		return domain.Ticket{}, false
	}
	ts, ok := parseTimestamp(stringValue(pick(row, ticketTimestampKeys...)), loc)
	if !ok {
		return domain.Ticket{}, false
	}

	return domain.Ticket{
		ID:        id,
		Timestamp: ts,
		Name:      stringValue(pick(row, ticketNameKeys...)),
		Division:  stringValue(pick(row, ticketDivisionKeys...)),
		Problem:   stringValue(pick(row, ticketProblemKeys...)),
		Category:  domain.TicketCategory(stringValue(pick(row, ticketCategoryKeys...))),
		PIC:       stringValue(pick(row, ticketPICKeys...)),
		Status:    domain.ParseTicketStatus(stringValue(pick(row, ticketStatusKeys...))),
		Notes:     stringValue(pick(row, ticketNotesKeys...)),
	}, true
}

// DecodeTickets decodes rows, silently skipping the unparseable ones.
func DecodeTickets(rows []Row, loc *time.Location) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		if ticket, ok := DecodeTicket(row, loc); ok {
			tickets = append(tickets, ticket)
		}
	}
	return tickets
}

// DecodeUser maps one users-sheet row onto a User.
func DecodeUser(row Row) (domain.User, bool) {
	id, ok := parseID(pick(row, userIDKeys...))
	if !ok {
		return domain.User{}, false
	}
	return domain.User{
		ID:       id,
		Username: stringValue(pick(row, userUsernameKeys...)),
		Name:     stringValue(pick(row, userNameKeys...)),
		Role:     domain.ParseRole(stringValue(pick(row, userRoleKeys...))),
		Division: stringValue(pick(row, userDivisionKeys...)),
		Password: stringValue(pick(row, userPasswordKeys...)),
	}, true
}

// DecodeUsers decodes rows, skipping those without an id.
func DecodeUsers(rows []Row) []domain.User {
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		if user, ok := DecodeUser(row); ok {
			users = append(users, user)
		}
	}
	return users
}

// pick returns the value of the first key holding a non-empty value.
func pick(row Row, keys ...string) any {
	for _, key := range keys {
		val, ok := row[key]
		if !ok || val == nil {
			continue
		}
		if s, isString := val.(string); isString && s == "" {
			continue
		}
		return val
	}
	return nil
}

func stringValue(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func parseID(val any) (int64, bool) {
	raw := strings.TrimSpace(stringValue(val))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	for _, layout := range localLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
