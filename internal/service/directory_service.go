package service

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const defaultMinPasswordLength = 6

// DirectoryService manages accounts: login, listing and division account
// administration.
type DirectoryService struct {
	users             repository.UserRepository
	dispatcher        events.Dispatcher
	locale            language.Tag
	minPasswordLength int
}

// DirectoryDependencies bundles what the directory needs.
type DirectoryDependencies struct {
	UserRepo          repository.UserRepository
	Dispatcher        events.Dispatcher
	Locale            language.Tag
	MinPasswordLength int
}

// NewUserInput is the payload of AddUser.
type NewUserInput struct {
	Name     string
	Division string
	Username string
	Password string
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	minLen := deps.MinPasswordLength
	if minLen <= 0 {
		minLen = defaultMinPasswordLength
	}
	locale := deps.Locale
	if locale == language.Und {
		locale = language.Indonesian
	}
	return &DirectoryService{
		users:             deps.UserRepo,
		dispatcher:        deps.Dispatcher,
		locale:            locale,
		minPasswordLength: minLen,
	}
}

// Login returns the matching user, or nil when the username is unknown or
// the password does not match.
func (s *DirectoryService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil
	}
	return s.users.Authenticate(ctx, username, password)
}

// ListUsers returns every non-admin account ordered by display name.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.User, 0, len(all))
	for _, u := range all {
		if !u.IsAdmin() {
			result = append(result, u)
		}
	}

	// Collators keep internal buffers and are not safe to share.
	collator := collate.New(s.locale, collate.IgnoreCase)
	sort.SliceStable(result, func(i, j int) bool {
		return collator.CompareString(result[i].Name, result[j].Name) < 0
	})
	return result, nil
}

// AddUser creates a division account. Validation happens before any call to
// the store.
func (s *DirectoryService) AddUser(ctx context.Context, input NewUserInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Division = strings.TrimSpace(input.Division)
	input.Username = strings.TrimSpace(input.Username)

	var missing []string
	if input.Name == "" {
		missing = append(missing, "name")
	}
	if input.Division == "" {
		missing = append(missing, "division")
	}
	if input.Username == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(input.Password) == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("all fields are required", map[string]any{"missing": missing})
	}
	if utf8.RuneCountInString(input.Password) < s.minPasswordLength {
		return nil, apperrors.NewValidationError("password is too short", map[string]any{"min_length": s.minPasswordLength})
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	var maxID int64
	for _, u := range existing {
		if domain.SameUsername(u.Username, input.Username) {
			return nil, duplicateUsername(input.Username)
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	created, err := s.users.Create(ctx, repository.NewUser{
		ID:       maxID + 1,
		Name:     input.Name,
		Division: input.Division,
		Username: input.Username,
		Password: input.Password,
		Role:     domain.RoleRegularUser,
	})
	if apperrors.IsCode(err, apperrors.CodeConflict) {
		return nil, duplicateUsername(input.Username)
	}
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventUserAdded,
		UserID:  created.ID,
		Payload: events.UserPayload{Username: created.Username, Division: created.Division},
	})
	return created, nil
}

// AddDivision creates the account for a new division, named "Divisi <division>".
func (s *DirectoryService) AddDivision(ctx context.Context, division, username, password string) (*domain.User, error) {
	division = strings.TrimSpace(division)
	if division == "" {
		return nil, apperrors.NewValidationError("division name is required", nil)
	}
	return s.AddUser(ctx, NewUserInput{
		Name:     DivisionDisplayName(division),
		Division: division,
		Username: username,
		Password: password,
	})
}

// DeleteUser removes a division account. Admin accounts cannot be removed.
func (s *DirectoryService) DeleteUser(ctx context.Context, id int64) error {
	all, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	var target *domain.User
	for i := range all {
		if all[i].ID == id {
			target = &all[i]
			break
		}
	}
	if target == nil {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if target.IsAdmin() {
		return apperrors.NewForbidden("admin accounts cannot be deleted")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventUserDeleted,
		UserID:  id,
		Payload: events.UserPayload{Username: target.Username, Division: target.Division},
	})
	return nil
}

// Divisions returns the distinct divisions of all accounts, sorted.
func (s *DirectoryService) Divisions(ctx context.Context) ([]string, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	result := []string{}
	for _, u := range all {
		division := strings.TrimSpace(u.Division)
		if division == "" {
			continue
		}
		if _, ok := seen[division]; ok {
			continue
		}
		seen[division] = struct{}{}
		result = append(result, division)
	}
	collate.New(s.locale, collate.IgnoreCase).SortStrings(result)
	return result, nil
}

// DivisionDisplayName is the account name used for a division.
func DivisionDisplayName(division string) string {
	return "Divisi " + strings.TrimSpace(division)
}

func duplicateUsername(username string) error {
	return apperrors.NewValidationError("username already exists", map[string]any{"username": username})
}
