package service

import (
	"context"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService turns directory logins into session tokens.
type AuthService struct {
	directory   *DirectoryService
	tokenMgr    *auth.TokenManager
	revocations auth.Revocations
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	Directory   *DirectoryService
	Revocations auth.Revocations
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	revocations := deps.Revocations
	if revocations == nil {
		revocations = auth.NoopRevocations{}
	}
	return &AuthService{
		directory:   deps.Directory,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revocations: revocations,
	}
}

// Login authenticates an account and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.directory.Login(ctx, username, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid username or password")
	}
	user.Password = ""

	token, exp, err := s.tokenMgr.GenerateToken(*user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout ends the session identified by principal.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || principal.TokenID == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Revocations exposes the denylist for middleware usage.
func (s *AuthService) Revocations() auth.Revocations {
	return s.revocations
}
