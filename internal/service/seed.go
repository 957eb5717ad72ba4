package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// SeedDirectory creates the admin and one account per configured division
// when the directory has no admin yet. It is a no-op on later starts.
func SeedDirectory(ctx context.Context, users repository.UserRepository, cfg config.SeedConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	var maxID int64
	for _, u := range existing {
		if u.IsAdmin() {
			return nil
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	accounts := []repository.NewUser{{
		Name:     cfg.AdminName,
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Role:     domain.RoleAdmin,
	}}
	for _, division := range cfg.Divisions {
		division = strings.TrimSpace(division)
		if division == "" {
			continue
		}
		accounts = append(accounts, repository.NewUser{
			Name:     DivisionDisplayName(division),
			Division: division,
			Username: DivisionUsername(division),
			Password: cfg.DivisionPassword,
			Role:     domain.RoleRegularUser,
		})
	}

	for _, account := range accounts {
		if taken(existing, account.Username) {
			continue
		}
		maxID++
		account.ID = maxID
		if _, err := users.Create(ctx, account); err != nil {
			return err
		}
		logger.Info("seeded account", zap.String("username", account.Username), zap.String("role", string(account.Role)))
	}
	return nil
}

// DivisionUsername derives a login name from a division name.
func DivisionUsername(division string) string {
	return strings.ToLower(strings.Join(strings.Fields(division), ""))
}

func taken(users []domain.User, username string) bool {
	for _, u := range users {
		if domain.SameUsername(u.Username, username) {
			return true
		}
	}
	return false
}

// SeedTickets fills an empty request store with demo tickets.
func SeedTickets(ctx context.Context, tickets repository.RequestRepository, divisions []string) error {
	existing, err := tickets.List(ctx)
	if err != nil || len(existing) > 0 || len(divisions) == 0 {
		return err
	}
	samples := []repository.NewTicket{
		{Name: "Budi", Problem: "Laptop tidak bisa menyala", Category: domain.TicketCategoryHardware},
		{Name: "Sari", Problem: "Aplikasi email tidak bisa dibuka", Category: domain.TicketCategorySoftware},
		{Name: "Andi", Problem: "Koneksi Wi-Fi sering terputus", Category: domain.TicketCategoryNetwork},
	}
	for i, sample := range samples {
		sample.Division = strings.TrimSpace(divisions[i%len(divisions)])
		if _, err := tickets.Create(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}
