package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository returns a Postgres-backed RequestRepository.
func NewTicketRepository(db DBTX) RequestRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, created_at, name, division, problem, category, pic, status, COALESCE(notes, '')
        FROM tickets ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Create(ctx context.Context, ticket NewTicket) (int64, error) {
	const query = `
        INSERT INTO tickets (name, division, problem, category, pic, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query,
		ticket.Name,
		ticket.Division,
		ticket.Problem,
		string(ticket.Category),
		domain.DefaultPIC,
		string(domain.TicketStatusOpen),
	).Scan(&id)
	return id, err
}

func (r *ticketRepository) Update(ctx context.Context, id int64, update TicketUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Status != nil {
		args = append(args, string(*update.Status))
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.PIC != nil {
		args = append(args, *update.PIC)
		sets = append(sets, fmt.Sprintf("pic=$%d", len(args)))
	}
	if update.Notes != nil {
		args = append(args, *update.Notes)
		sets = append(sets, fmt.Sprintf("notes=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s, updated_at=NOW() WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("request", map[string]any{"id": id})
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("request", map[string]any{"id": id})
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket           domain.Ticket
			createdAt        time.Time
			category, status string
		)
		if err := rows.Scan(
			&ticket.ID,
			&createdAt,
			&ticket.Name,
			&ticket.Division,
			&ticket.Problem,
			&category,
			&ticket.PIC,
			&status,
			&ticket.Notes,
		); err != nil {
			return nil, err
		}
		ticket.Timestamp = createdAt
		ticket.Category = domain.TicketCategory(category)
		ticket.Status = domain.ParseTicketStatus(status)
		result = append(result, ticket)
	}
	return result, rows.Err()
}
