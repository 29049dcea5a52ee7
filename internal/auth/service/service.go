// Package service implements credential verification and token issuance.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"donezo_backend/internal/auth/password"
	"donezo_backend/internal/auth/repository"
	"donezo_backend/internal/auth/token"
	"donezo_backend/platform/apperr"
	"donezo_backend/platform/config"
	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/logger"
)

const (
	accessTokenType = "access"

	msgInvalidCredentials = "invalid credentials"
	msgTokenInvalid       = "invalid or expired session"
)

// Service issues access and refresh tokens for professionals and admins.
type Service struct {
	repo repository.AuthRepository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
	now  func() time.Time
}

// New creates the auth service.
func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log, now: time.Now}
}

// SignIn verifies credentials and returns an access JWT plus an opaque
// refresh token. Roles are resolved at sign-in: every account is a
// professional, admin standing comes from admin_users.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("sign_in", email, false, "unknown account")
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "bad password")
		return "", "", apperr.Unauthorized(msgInvalidCredentials)
	}

	access, refresh, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return "", "", err
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return access, refresh, nil
}

// Refresh rotates a refresh token and returns a fresh token pair. The old
// token is revoked whether or not it has expired.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	hash := token.HashSHA256(refreshToken)
	stored, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}

	// A revoked token coming back is either a replay of a rotated token or
	// a stolen one. Either way the session chain is compromised: sign the
	// account out everywhere.
	if stored.RevokedAt != nil {
		if err := s.repo.RevokeAllRefreshTokens(ctx, stored.UserID); err != nil {
			return "", "", apperr.Wrap(apperr.KindInternal, "failed to revoke sessions", err)
		}
		s.log.AuthEvent("refresh", stored.UserID.String(), false, "revoked token reuse")
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to rotate session", err)
	}

	if s.now().After(stored.ExpiresAt) {
		return "", "", apperr.Unauthorized(msgTokenInvalid)
	}

	return s.issueTokens(ctx, stored.UserID)
}

// SignOut revokes a refresh token. Unknown tokens are a no-op.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// CreateAccount registers a professional account, optionally with admin
// standing. There is no public sign-up surface; this backs the seeding CLI.
func (s *Service) CreateAccount(ctx context.Context, email, plainPassword string, fullName *string, admin bool) (repository.User, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, email, hash, fullName)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to create account", err)
	}

	if admin {
		if err := s.repo.GrantAdmin(ctx, user.ID); err != nil {
			return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to grant admin standing", err)
		}
	}

	s.log.AuthEvent("create_account", email, true, "")
	return user, nil
}

// Profile returns the account behind an access token's subject along with
// its current roles.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (repository.User, []string, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return repository.User{}, nil, err
	}

	roles, err := s.resolveRoles(ctx, userID)
	if err != nil {
		return repository.User{}, nil, err
	}

	return user, roles, nil
}

func (s *Service) resolveRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	roles := []string{httpkit.RolePro}
	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to resolve roles", err)
	}
	if isAdmin {
		roles = append(roles, httpkit.RoleAdmin)
	}
	return roles, nil
}

func (s *Service) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, error) {
	roles, err := s.resolveRoles(ctx, userID)
	if err != nil {
		return "", "", err
	}

	access, err := s.signJWT(userID, roles)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to sign token", err)
	}

	refresh, err := token.GenerateRandomToken(48)
	if err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to generate session token", err)
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, userID, token.HashSHA256(refresh), expiresAt); err != nil {
		return "", "", apperr.Wrap(apperr.KindInternal, "failed to persist session", err)
	}

	return access, refresh, nil
}

func (s *Service) signJWT(userID uuid.UUID, roles []string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  accessTokenType,
		"roles": roles,
		"exp":   now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":   now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
