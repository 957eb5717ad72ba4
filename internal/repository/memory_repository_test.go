package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestMemoryRequestRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRequestRepository(domain.Ticket{ID: 7, Status: domain.TicketStatusOpen})

	id, err := repo.Create(ctx, repository.NewTicket{
		Name: "Budi", Division: "Audit", Problem: "Printer macet", Category: domain.TicketCategoryHardware,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	created := tickets[1]
	assert.Equal(t, domain.DefaultPIC, created.PIC)
	assert.Equal(t, domain.TicketStatusOpen, created.Status)
	assert.False(t, created.Timestamp.IsZero())

	status := domain.TicketStatusInProgress
	pic := "Andi"
	require.NoError(t, repo.Update(ctx, id, repository.TicketUpdate{Status: &status, PIC: &pic}))

	tickets, _ = repo.List(ctx)
	assert.Equal(t, domain.TicketStatusInProgress, tickets[1].Status)
	assert.Equal(t, "Andi", tickets[1].PIC)
	assert.Empty(t, tickets[1].Notes)

	require.NoError(t, repo.Delete(ctx, 7))
	tickets, _ = repo.List(ctx)
	require.Len(t, tickets, 1)
	assert.Equal(t, id, tickets[0].ID)

	assert.True(t, apperrors.IsCode(repo.Delete(ctx, 7), apperrors.CodeNotFound))
	assert.True(t, apperrors.IsCode(repo.Update(ctx, 99, repository.TicketUpdate{Status: &status}), apperrors.CodeNotFound))
}

func TestMemoryRequestRepository_ListReturnsCopy(t *testing.T) {
	repo := repository.NewMemoryRequestRepository(domain.Ticket{ID: 1, Name: "Budi"})
	tickets, _ := repo.List(context.Background())
	tickets[0].Name = "changed"

	again, _ := repo.List(context.Background())
	assert.Equal(t, "Budi", again[0].Name)
}

func TestMemoryRequestRepository_ConcurrentCreate(t *testing.T) {
	repo := repository.NewMemoryRequestRepository()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(context.Background(), repository.NewTicket{Name: "x", Division: "y", Problem: "z", Category: domain.TicketCategoryOther})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tickets, _ := repo.List(context.Background())
	require.Len(t, tickets, 20)
	seen := map[int64]bool{}
	for _, ticket := range tickets {
		assert.False(t, seen[ticket.ID], "duplicate id %d", ticket.ID)
		seen[ticket.ID] = true
	}
}

func TestMemoryUserRepository_Authenticate(t *testing.T) {
	repo := repository.NewMemoryUserRepository(domain.User{
		ID: 2, Username: "riset", Name: "Divisi Riset", Role: domain.RoleRegularUser, Division: "Riset", Password: "abc123",
	})

	tests := []struct {
		name     string
		username string
		password string
		wantUser bool
	}{
		{name: "exact", username: "riset", password: "abc123", wantUser: true},
		{name: "username is case-insensitive", username: "  RISET ", password: "abc123", wantUser: true},
		{name: "password is case-sensitive", username: "riset", password: "ABC123"},
		{name: "unknown user", username: "audit", password: "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.Authenticate(context.Background(), tt.username, tt.password)
			require.NoError(t, err)
			if !tt.wantUser {
				assert.Nil(t, user)
				return
			}
			require.NotNil(t, user)
			assert.Equal(t, int64(2), user.ID)
			assert.Empty(t, user.Password)
		})
	}
}

func TestMemoryUserRepository_CreateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository(
		domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin, Password: "admin123"},
		domain.User{ID: 4, Username: "audit", Role: domain.RoleRegularUser, Division: "Audit", Password: "x"},
	)

	user, err := repo.Create(ctx, repository.NewUser{ID: 5, Name: "Divisi Riset", Division: "Riset", Username: "riset", Password: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, domain.RoleRegularUser, user.Role)

	_, err = repo.Create(ctx, repository.NewUser{Name: "dup", Division: "Riset", Username: "RISET", Password: "abc123"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))

	stale, err := repo.Create(ctx, repository.NewUser{ID: 2, Name: "Divisi HR", Division: "HR", Username: "hr", Password: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), stale.ID)

	require.NoError(t, repo.Delete(ctx, 4))
	users, _ := repo.List(ctx)
	assert.Len(t, users, 3)
	assert.True(t, apperrors.IsCode(repo.Delete(ctx, 4), apperrors.CodeNotFound))
}
