package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthenticator checks the configured back-office account and manages
// its bearer tokens.
type AdminAuthenticator struct {
	username     string
	passwordHash []byte
	tokens       *TokenService
	revocations  RevocationList
	logger       *zap.Logger
}

func NewAdminAuthenticator(cfg config.AdminConfig, tokens *TokenService, revocations RevocationList, logger *zap.Logger) *AdminAuthenticator {
	if cfg.PasswordHash == "" {
		logger.Warn("admin.password_hash is empty, admin login is disabled")
	}
	if revocations == nil {
		revocations = NewInMemoryRevocationList()
	}
	return &AdminAuthenticator{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
		tokens:       tokens,
		revocations:  revocations,
		logger:       logger,
	}
}

// Login returns a token when the credentials match.
func (a *AdminAuthenticator) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	if len(a.passwordHash) == 0 {
		return nil, ErrBadCredentials
	}
	// bcrypt runs even for an unknown username.
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		a.logger.Warn("admin login rejected", zap.String("username", username))
		return nil, ErrBadCredentials
	}

	token, err := a.tokens.Issue(a.username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	a.logger.Info("admin logged in", zap.String("username", a.username))
	return token, nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (a *AdminAuthenticator) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime.
func (a *AdminAuthenticator) Logout(ctx context.Context, claims *Claims) error {
	if err := a.revocations.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}
	a.logger.Info("admin logged out", zap.String("username", claims.Username))
	return nil
}
