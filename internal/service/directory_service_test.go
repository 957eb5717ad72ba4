package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func seedUsers() []domain.User {
	return []domain.User{
		{ID: 1, Username: "admin", Name: "Administrator", Role: domain.RoleAdmin, Password: "admin123"},
		{ID: 2, Username: "marketing", Name: "Divisi Marketing", Role: domain.RoleRegularUser, Division: "Marketing", Password: "m4rketing"},
		{ID: 3, Username: "audit", Name: "Divisi Audit", Role: domain.RoleRegularUser, Division: "Audit", Password: "audit1"},
		{ID: 4, Username: "elektro", Name: "Divisi Éléktro", Role: domain.RoleRegularUser, Division: "Éléktro", Password: "volt99"},
	}
}

type recorder struct {
	events []events.Event
}

func newRecordingDispatcher() (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher(nil)
	rec := &recorder{}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated, events.EventTicketUpdated, events.EventTicketDeleted,
		events.EventUserAdded, events.EventUserDeleted,
	} {
		d.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			rec.events = append(rec.events, e)
			return nil
		})
	}
	return d, rec
}

func newDirectory(t *testing.T) (*service.DirectoryService, *repository.MemoryUserRepository, *recorder) {
	t.Helper()
	repo := repository.NewMemoryUserRepository(seedUsers()...)
	dispatcher, rec := newRecordingDispatcher()
	svc := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:   repo,
		Dispatcher: dispatcher,
		Locale:     language.Indonesian,
	})
	return svc, repo, rec
}

func TestDirectoryService_Login(t *testing.T) {
	svc, _, _ := newDirectory(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, "MARKETING", "m4rketing")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Marketing", user.Division)

	user, err = svc.Login(ctx, "marketing", "M4RKETING")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Login(ctx, "nobody", "whatever")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Login(ctx, "   ", "")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestDirectoryService_ListUsers(t *testing.T) {
	svc, _, _ := newDirectory(t)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)

	names := []string{}
	for _, u := range users {
		assert.False(t, u.IsAdmin())
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Divisi Audit", "Divisi Éléktro", "Divisi Marketing"}, names)
	assert.Equal(t, "audit1", users[0].Password)
}

func TestDirectoryService_AddUser(t *testing.T) {
	tests := []struct {
		name     string
		input    service.NewUserInput
		wantCode string
	}{
		{
			name:  "division account",
			input: service.NewUserInput{Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: "abc123"},
		},
		{
			name:     "five character password",
			input:    service.NewUserInput{Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: "abc12"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "duplicate username any casing",
			input:    service.NewUserInput{Name: "Divisi Audit 2", Division: "Audit", Username: "AUDIT", Password: "abc123"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "blank field",
			input:    service.NewUserInput{Name: "  ", Division: "Riset", Username: "riset", Password: "abc123"},
			wantCode: apperrors.CodeValidation,
		},
		{
			name:     "whitespace password",
			input:    service.NewUserInput{Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: "       "},
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, rec := newDirectory(t)
			before, _ := repo.List(context.Background())

			user, err := svc.AddUser(context.Background(), tt.input)
			after, _ := repo.List(context.Background())

			if tt.wantCode != "" {
				assert.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
				assert.Len(t, after, len(before))
				assert.Empty(t, rec.events)
				return
			}
			require.NoError(t, err)
			assert.Len(t, after, len(before)+1)
			assert.Equal(t, domain.RoleRegularUser, user.Role)
			assert.Equal(t, int64(5), user.ID)
			require.Len(t, rec.events, 1)
			assert.Equal(t, events.EventUserAdded, rec.events[0].Type)
			assert.NotEmpty(t, rec.events[0].ID)
		})
	}
}

func TestDirectoryService_AddUserCountsRunes(t *testing.T) {
	svc, _, _ := newDirectory(t)
	_, err := svc.AddUser(context.Background(), service.NewUserInput{
		Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: strings.Repeat("é", 6),
	})
	assert.NoError(t, err)
}

func TestDirectoryService_AddDivision(t *testing.T) {
	svc, _, _ := newDirectory(t)

	user, err := svc.AddDivision(context.Background(), "  Riset ", "riset", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Divisi Riset", user.Name)
	assert.Equal(t, "Riset", user.Division)

	_, err = svc.AddDivision(context.Background(), " ", "x", "abc123")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestDirectoryService_DeleteUser(t *testing.T) {
	svc, repo, rec := newDirectory(t)
	ctx := context.Background()

	assert.True(t, apperrors.IsCode(svc.DeleteUser(ctx, 1), apperrors.CodeForbidden))
	assert.True(t, apperrors.IsCode(svc.DeleteUser(ctx, 42), apperrors.CodeNotFound))
	assert.Empty(t, rec.events)

	ctx = events.WithActor(ctx, domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin})
	require.NoError(t, svc.DeleteUser(ctx, 3))
	users, _ := repo.List(ctx)
	assert.Len(t, users, 3)
	require.Len(t, rec.events, 1)
	assert.Equal(t, events.EventUserDeleted, rec.events[0].Type)
	assert.Equal(t, "admin", rec.events[0].Actor.Username)
}

func TestDirectoryService_Divisions(t *testing.T) {
	svc, _, _ := newDirectory(t)
	_, err := svc.AddUser(context.Background(), service.NewUserInput{Name: "Audit Dua", Division: "Audit", Username: "audit2", Password: "abc123"})
	require.NoError(t, err)

	divisions, err := svc.Divisions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Audit", "Éléktro", "Marketing"}, divisions)
}

func TestSeedDirectory(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	cfg := config.SeedConfig{
		AdminUsername:    "admin",
		AdminPassword:    "admin123",
		AdminName:        "Administrator",
		Divisions:        []string{"Marketing", "General Affair"},
		DivisionPassword: "changeme",
	}

	require.NoError(t, service.SeedDirectory(context.Background(), repo, cfg, nil))
	users, _ := repo.List(context.Background())
	require.Len(t, users, 3)
	assert.True(t, users[0].IsAdmin())
	assert.Equal(t, "generalaffair", users[2].Username)
	assert.Equal(t, "Divisi General Affair", users[2].Name)

	require.NoError(t, service.SeedDirectory(context.Background(), repo, cfg, nil))
	again, _ := repo.List(context.Background())
	assert.Len(t, again, 3)
}
