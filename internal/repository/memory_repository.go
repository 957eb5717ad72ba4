package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// MemoryRequestRepository keeps tickets in process memory. It stands in for
// the spreadsheet during local development and tests.
type MemoryRequestRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	now     func() time.Time
}

// NewMemoryRequestRepository returns a repository holding a copy of seed.
func NewMemoryRequestRepository(seed ...domain.Ticket) *MemoryRequestRepository {
	return &MemoryRequestRepository{
		tickets: append([]domain.Ticket(nil), seed...),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRequestRepository) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Ticket(nil), r.tickets...), nil
}

func (r *MemoryRequestRepository) Create(_ context.Context, input NewTicket) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, t := range r.tickets {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	ticket := domain.Ticket{
		ID:        maxID + 1,
		Timestamp: r.now(),
		Name:      input.Name,
		Division:  input.Division,
		Problem:   input.Problem,
		Category:  input.Category,
		PIC:       domain.DefaultPIC,
		Status:    domain.TicketStatusOpen,
	}
	r.tickets = append(r.tickets, ticket)
	return ticket.ID, nil
}

func (r *MemoryRequestRepository) Update(_ context.Context, id int64, update TicketUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tickets {
		if r.tickets[i].ID != id {
			continue
		}
		if update.Status != nil {
			r.tickets[i].Status = *update.Status
		}
		if update.PIC != nil {
			r.tickets[i].PIC = *update.PIC
		}
		if update.Notes != nil {
			r.tickets[i].Notes = *update.Notes
		}
		return nil
	}
	return apperrors.NewNotFound("request", map[string]any{"id": id})
}

func (r *MemoryRequestRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tickets {
		if r.tickets[i].ID == id {
			r.tickets = append(r.tickets[:i], r.tickets[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("request", map[string]any{"id": id})
}

// MemoryUserRepository keeps the directory in process memory. Passwords are
// kept in plaintext, mirroring the spreadsheet contract.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewMemoryUserRepository returns a repository holding a copy of seed.
func NewMemoryUserRepository(seed ...domain.User) *MemoryUserRepository {
	return &MemoryUserRepository{users: append([]domain.User(nil), seed...)}
}

func (r *MemoryUserRepository) Authenticate(_ context.Context, username, password string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if domain.SameUsername(u.Username, username) && u.Password == password {
			found := u
			found.Password = ""
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.User(nil), r.users...), nil
}

func (r *MemoryUserRepository) Create(_ context.Context, input NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var maxID int64
	for _, u := range r.users {
		if domain.SameUsername(u.Username, input.Username) {
			return nil, apperrors.NewConflict("username already exists", map[string]any{"username": input.Username})
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	id := input.ID
	if id <= maxID {
		id = maxID + 1
	}
	role := input.Role
	if role == "" {
		role = domain.RoleRegularUser
	}
	user := domain.User{
		ID:       id,
		Username: input.Username,
		Name:     input.Name,
		Role:     role,
		Division: input.Division,
		Password: input.Password,
	}
	r.users = append(r.users, user)
	created := user
	return &created, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return apperrors.NewNotFound("user", map[string]any{"id": id})
}
