package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets. Values are the
// labels stored in the spreadsheet.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Terbuka"
	TicketStatusInProgress TicketStatus = "Sedang Dikerjakan"
	TicketStatusDone       TicketStatus = "Selesai"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusDone}

// TicketCategory classifies the reported problem.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "Perangkat Keras"
	TicketCategorySoftware TicketCategory = "Perangkat Lunak"
	TicketCategoryNetwork  TicketCategory = "Jaringan"
	TicketCategoryOther    TicketCategory = "Lainnya"
)

// TicketCategories lists every category in display order.
var TicketCategories = []TicketCategory{
	TicketCategoryHardware,
	TicketCategorySoftware,
	TicketCategoryNetwork,
	TicketCategoryOther,
}

// DefaultPIC is the person-in-charge of a ticket nobody has picked up yet.
const DefaultPIC = "Belum Ditugaskan"

// OverdueAfter is how long a ticket may stay open before it is flagged.
const OverdueAfter = 48 * time.Hour

// Ticket is one IT support request.
type Ticket struct {
	ID        int64
	Timestamp time.Time
	Name      string
	Division  string
	Problem   string
	Category  TicketCategory
	PIC       string
	Status    TicketStatus
	Notes     string
}

// Overdue reports whether the ticket is still open more than OverdueAfter
// after it was filed.
func (t Ticket) Overdue(now time.Time) bool {
	return t.Status == TicketStatusOpen && now.Sub(t.Timestamp) > OverdueAfter
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// Valid reports whether c is one of the known categories.
func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// ParseTicketStatus maps free text from the store onto a TicketStatus.
// An exact label wins; otherwise keywords are matched case-insensitively
// as substrings, and anything unrecognized falls back to Open.
func ParseTicketStatus(raw string) TicketStatus {
	value := strings.TrimSpace(raw)
	if status := TicketStatus(value); status.Valid() {
		return status
	}

	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "dikerjakan"), strings.Contains(lower, "progress"):
		return TicketStatusInProgress
	case strings.Contains(lower, "selesai"), strings.Contains(lower, "done"):
		return TicketStatusDone
	case strings.Contains(lower, "terbuka"), strings.Contains(lower, "open"):
		return TicketStatusOpen
	}
	return TicketStatusOpen
}
