package ticketfilter

import (
	"sort"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Count is one bar of a dashboard chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes a set of tickets.
type Stats struct {
	Total      int     `json:"total"`
	ByStatus   []Count `json:"by_status"`
	ByDivision []Count `json:"by_division"`
	ByCategory []Count `json:"by_category"`
}

// Summarize counts tickets per status, division and category. Statuses are
// listed in lifecycle order with zeros included; divisions and categories
// are sorted by count descending, then label.
func Summarize(tickets []domain.Ticket) Stats {
	statuses := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	divisions := map[string]int{}
	categories := map[string]int{}
	for _, ticket := range tickets {
		statuses[ticket.Status]++
		divisions[ticket.Division]++
		categories[string(ticket.Category)]++
	}

	byStatus := make([]Count, 0, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		byStatus = append(byStatus, Count{Label: string(status), Count: statuses[status]})
	}

	return Stats{
		Total:      len(tickets),
		ByStatus:   byStatus,
		ByDivision: ranked(divisions),
		ByCategory: ranked(categories),
	}
}

func ranked(counts map[string]int) []Count {
	result := make([]Count, 0, len(counts))
	for label, n := range counts {
		result = append(result, Count{Label: label, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}
