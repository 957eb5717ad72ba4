package ticketfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestSummarize(t *testing.T) {
	tickets := []domain.Ticket{
		{Division: "Audit", Category: domain.TicketCategoryHardware, Status: domain.TicketStatusOpen},
		{Division: "HR", Category: domain.TicketCategoryNetwork, Status: domain.TicketStatusOpen},
		{Division: "Audit", Category: domain.TicketCategoryHardware, Status: domain.TicketStatusDone},
		{Division: "Marketing", Category: domain.TicketCategorySoftware, Status: domain.TicketStatusOpen},
	}

	stats := Summarize(tickets)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, []Count{
		{Label: "Terbuka", Count: 3},
		{Label: "Sedang Dikerjakan", Count: 0},
		{Label: "Selesai", Count: 1},
	}, stats.ByStatus)
	assert.Equal(t, []Count{
		{Label: "Audit", Count: 2},
		{Label: "HR", Count: 1},
		{Label: "Marketing", Count: 1},
	}, stats.ByDivision)
	assert.Equal(t, Count{Label: "Perangkat Keras", Count: 2}, stats.ByCategory[0])
	assert.Len(t, stats.ByCategory, 3)
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	assert.Zero(t, stats.Total)
	assert.Len(t, stats.ByStatus, 3)
	assert.Empty(t, stats.ByDivision)
	assert.Empty(t, stats.ByCategory)
}
