package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/config"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/domain"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/events"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/repository"
	apperrors "github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/pkg/util"
)

const resetSecretBytes = 32

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	Repos      repository.Repositories
	Transactor repository.Transactor
	Throttle   repository.ResetThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// AuthService coordinates registration, login and password flows.
type AuthService struct {
	users       repository.UserRepository
	resets      repository.PasswordResetRepository
	tx          repository.Transactor
	throttle    repository.ResetThrottle
	dispatcher  events.Dispatcher
	tokenMgr    *auth.TokenManager
	passwords   auth.PasswordHasher
	resetTTL    time.Duration
	frontendURL string
	logger      *zap.Logger
	now         func() time.Time
	random      io.Reader
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.Repos.Users,
		resets:      deps.Repos.Resets,
		tx:          deps.Transactor,
		throttle:    deps.Throttle,
		dispatcher:  deps.Dispatcher,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		passwords:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		resetTTL:    cfg.Auth.ResetTTL(),
		frontendURL: strings.TrimRight(cfg.Notification.FrontendURL, "/"),
		logger:      logger,
		now:         time.Now,
		random:      rand.Reader,
	}
}

// Register creates a new account with the given role.
func (s *AuthService) Register(ctx context.Context, name, email, password, rawRole string) (*domain.User, error) {
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": rawRole})
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !s.passwords.Matches(user.PasswordHash, password) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewNotFound("user", map[string]any{"id": actor.UserID})
		}
		return err
	}
	if !s.passwords.Matches(user.PasswordHash, currentPassword) {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// ForgotPassword issues a reset link when the address is known. Unknown or
// throttled addresses succeed silently so callers cannot probe accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.logger.Warn("reset throttle unavailable", zap.Error(err))
		} else if !allowed {
			s.logger.Info("password reset throttled")
			return nil
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil
		}
		return err
	}
	return s.issueReset(ctx, domain.Actor{UserID: user.ID, Role: user.Role}, user)
}

// AdminInitiateReset sends a reset link to the given user on an admin's behalf.
func (s *AuthService) AdminInitiateReset(ctx context.Context, admin domain.Actor, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewNotFound("user", map[string]any{"id": userID})
		}
		return err
	}
	return s.issueReset(ctx, admin, user)
}

func (s *AuthService) issueReset(ctx context.Context, actor domain.Actor, user *domain.User) error {
	secret, tokenHash, err := s.newResetSecret()
	if err != nil {
		return err
	}
	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	err = s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Resets.DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repos.Resets.Create(ctx, token)
	})
	if err != nil {
		return err
	}

	if s.dispatcher != nil {
		evt := events.New(events.EventPasswordResetRequested, actor, s.now(), events.PasswordResetRequestedPayload{
			UserID:    user.ID,
			Email:     user.Email,
			Name:      user.Name,
			ResetURL:  s.resetURL(secret),
			ExpiresAt: token.ExpiresAt,
		})
		if err := s.dispatcher.Publish(ctx, evt); err != nil {
			s.logger.Warn("publish reset event failed", zap.Error(err))
		}
	}
	return nil
}

// ResetPassword consumes a valid reset token and stores the new password.
func (s *AuthService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	token, err := s.resets.GetValidByHash(ctx, hashResetSecret(secret), s.now())
	if err != nil {
		if apperrors.IsNoRows(err) {
			return errInvalidResetToken()
		}
		return err
	}
	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Users.UpdatePassword(ctx, token.UserID, hash); err != nil {
			return err
		}
		// A concurrent reset with the same secret already consumed the token.
		if err := repos.Resets.Delete(ctx, token.ID); err != nil {
			if apperrors.IsNoRows(err) {
				return errInvalidResetToken()
			}
			return err
		}
		return nil
	})
}

func errInvalidResetToken() error {
	return apperrors.NewValidationError("invalid or expired token", nil)
}

// ListUsers returns every account in creation order.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account together with its requests and shifts.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewNotFound("user", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) newResetSecret() (string, string, error) {
	buf := make([]byte, resetSecretBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", "", fmt.Errorf("generate reset token: %w", err)
	}
	secret := hex.EncodeToString(buf)
	return secret, hashResetSecret(secret), nil
}

func (s *AuthService) resetURL(secret string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(secret))
}

func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
