package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestParseTicketStatus(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  domain.TicketStatus
	}{
		{name: "exact open", input: "Terbuka", want: domain.TicketStatusOpen},
		{name: "exact in progress", input: "Sedang Dikerjakan", want: domain.TicketStatusInProgress},
		{name: "exact done with padding", input: "  Selesai ", want: domain.TicketStatusDone},
		{name: "progress keyword", input: "progress", want: domain.TicketStatusInProgress},
		{name: "progress upper case", input: "PROGRESS", want: domain.TicketStatusInProgress},
		{name: "in progress english", input: "In Progress", want: domain.TicketStatusInProgress},
		{name: "dikerjakan lower", input: "sedang dikerjakan", want: domain.TicketStatusInProgress},
		{name: "done keyword", input: "Done", want: domain.TicketStatusDone},
		{name: "selesai keyword", input: "sudah selesai", want: domain.TicketStatusDone},
		{name: "open keyword", input: "OPEN", want: domain.TicketStatusOpen},
		{name: "unknown text", input: "menunggu vendor", want: domain.TicketStatusOpen},
		{name: "empty", input: "", want: domain.TicketStatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParseTicketStatus(tt.input))
		})
	}
}

func TestTicketCategoryValid(t *testing.T) {
	assert.True(t, domain.TicketCategoryNetwork.Valid())
	assert.False(t, domain.TicketCategory("Printer").Valid())
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, domain.RoleAdmin, domain.ParseRole("admin"))
	assert.Equal(t, domain.RoleRegularUser, domain.ParseRole("Pengguna"))
	assert.Equal(t, domain.RoleRegularUser, domain.ParseRole(""))
}

func TestSameUsername(t *testing.T) {
	assert.True(t, domain.SameUsername("Riset", "riset"))
	assert.False(t, domain.SameUsername("riset", "audit"))
}

func TestTicketOverdue(t *testing.T) {
	filed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status domain.TicketStatus
		now    time.Time
		want   bool
	}{
		{name: "open within two days", status: domain.TicketStatusOpen, now: filed.Add(47 * time.Hour)},
		{name: "open exactly two days", status: domain.TicketStatusOpen, now: filed.Add(domain.OverdueAfter)},
		{name: "open past two days", status: domain.TicketStatusOpen, now: filed.Add(49 * time.Hour), want: true},
		{name: "in progress is never overdue", status: domain.TicketStatusInProgress, now: filed.Add(240 * time.Hour)},
		{name: "done is never overdue", status: domain.TicketStatusDone, now: filed.Add(240 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := domain.Ticket{Timestamp: filed, Status: tt.status}
			assert.Equal(t, tt.want, ticket.Overdue(tt.now))
		})
	}
}
