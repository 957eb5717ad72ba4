package repository

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sheet"
)

// SheetRequestRepository reads and writes tickets through the spreadsheet endpoint.
type SheetRequestRepository struct {
	client   *sheet.Client
	location *time.Location
}

// NewSheetRequestRepository builds the repository. loc is the timezone the
// sheet writes zone-less timestamps in.
func NewSheetRequestRepository(client *sheet.Client, loc *time.Location) *SheetRequestRepository {
	return &SheetRequestRepository{client: client, location: loc}
}

func (r *SheetRequestRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	env, err := r.client.List(ctx, "")
	if err != nil {
		return nil, err
	}
	rows, err := env.Rows()
	if err != nil {
		return nil, err
	}
	return sheet.DecodeTickets(rows, r.location), nil
}

func (r *SheetRequestRepository) Create(ctx context.Context, ticket NewTicket) (int64, error) {
	env, err := r.client.Do(ctx, sheet.ActionAddRequest, map[string]any{
		"data": map[string]any{
			"name":     ticket.Name,
			"division": ticket.Division,
			"problem":  ticket.Problem,
			"category": string(ticket.Category),
		},
	})
	if err != nil {
		return 0, err
	}
	return env.IDValue(), nil
}

func (r *SheetRequestRepository) Update(ctx context.Context, id int64, update TicketUpdate) error {
	data := map[string]any{}
	if update.Status != nil {
		data["status"] = string(*update.Status)
	}
	if update.PIC != nil {
		data["pic"] = *update.PIC
	}
	if update.Notes != nil {
		data["notes"] = *update.Notes
	}
	_, err := r.client.Do(ctx, sheet.ActionUpdateRequest, map[string]any{"id": id, "data": data})
	return err
}

func (r *SheetRequestRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, sheet.ActionDeleteRequest, map[string]any{"id": id})
	return err
}

// SheetUserRepository manages the users sheet through the endpoint. The
// script stores and compares passwords itself.
type SheetUserRepository struct {
	client *sheet.Client
}

// NewSheetUserRepository builds the repository.
func NewSheetUserRepository(client *sheet.Client) *SheetUserRepository {
	return &SheetUserRepository{client: client}
}

func (r *SheetUserRepository) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	env, err := r.client.Do(ctx, sheet.ActionLogin, map[string]any{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	if len(env.User) == 0 {
		return nil, nil
	}
	user, ok := sheet.DecodeUser(env.User)
	if !ok {
		return nil, nil
	}
	user.Password = ""
	return &user, nil
}

func (r *SheetUserRepository) List(ctx context.Context) ([]domain.User, error) {
	env, err := r.client.List(ctx, sheet.ActionGetUsers)
	if err != nil {
		return nil, err
	}
	rows, err := env.Rows()
	if err != nil {
		return nil, err
	}
	return sheet.DecodeUsers(rows), nil
}

func (r *SheetUserRepository) Create(ctx context.Context, input NewUser) (*domain.User, error) {
	data := map[string]any{
		"name":     input.Name,
		"division": input.Division,
		"username": input.Username,
		"password": input.Password,
	}
	if input.ID > 0 {
		data["id"] = input.ID
	}
	env, err := r.client.Do(ctx, sheet.ActionAddUser, map[string]any{"data": data})
	if err != nil {
		return nil, err
	}

	created := domain.User{
		ID:       input.ID,
		Username: input.Username,
		Name:     input.Name,
		Division: input.Division,
		Password: input.Password,
	}
	if id := env.IDValue(); id > 0 {
		created.ID = id
	}
	if row, err := env.Object(); err == nil && row != nil {
		if echoed, ok := sheet.DecodeUser(row); ok {
			created.ID = echoed.ID
			if strings.TrimSpace(echoed.Username) != "" {
				created.Username = echoed.Username
			}
			if echoed.Name != "" {
				created.Name = echoed.Name
			}
			if echoed.Division != "" {
				created.Division = echoed.Division
			}
			if echoed.Password != "" {
				created.Password = echoed.Password
			}
		}
	}
	// The script only ever creates division accounts.
	created.Role = domain.RoleRegularUser
	return &created, nil
}

func (r *SheetUserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Do(ctx, sheet.ActionDeleteUser, map[string]any{"id": id})
	return err
}
