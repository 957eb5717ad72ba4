package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// NewTicket is the submitter-provided part of a ticket. The store assigns
// id, timestamp, status and person-in-charge.
type NewTicket struct {
	Name     string
	Division string
	Problem  string
	Category domain.TicketCategory
}

// TicketUpdate holds the fields an administrator changed. Nil fields are
// left untouched and are not sent to the store.
type TicketUpdate struct {
	Status *domain.TicketStatus
	PIC    *string
	Notes  *string
}

// Empty reports whether the update carries no field at all.
func (u TicketUpdate) Empty() bool {
	return u.Status == nil && u.PIC == nil && u.Notes == nil
}

// NewUser describes an account to create together with its credential.
type NewUser struct {
	ID       int64
	Name     string
	Division string
	Username string
	Password string
	Role     domain.Role
}

// RequestRepository encapsulates ticket persistence.
type RequestRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	Create(ctx context.Context, ticket NewTicket) (int64, error)
	Update(ctx context.Context, id int64, update TicketUpdate) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository encapsulates the user directory.
type UserRepository interface {
	// Authenticate returns nil without error when the credentials do not match.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	// List returns every account, administrators included.
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user NewUser) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// DBTX is the subset of *pgxpool.Pool used by the Postgres repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
