package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/store"
	"github.com/spendtrack/spendtrack/pkg/cryptox"
	"github.com/spendtrack/spendtrack/pkg/idx"
	"github.com/spendtrack/spendtrack/pkg/jwtx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

var (
	// ErrInvalidCredentials is the single outward signal for both an
	// unknown username and a wrong password. The two cases are logged
	// distinctly but must be indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already taken")
)

// AuthService verifies submitted credentials and mints bearer tokens. It is
// the only path that ever sees a plaintext password, and it never stores or
// logs one.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Signup creates a new credential record with the default role set.
func (s *AuthService) Signup(ctx context.Context, username, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", "err", err)
		return domain.User{}, fmt.Errorf("signup: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		Roles:        domain.DefaultRoles(),
	}

	// The store's uniqueness constraint is the arbiter here: a pre-check
	// plus insert would race under concurrent signups.
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Warn("signup for existing username", "username", username)
			return domain.User{}, ErrUsernameTaken
		}
		log.Error("failed to create user", "err", err)
		return domain.User{}, fmt.Errorf("signup: %w", err)
	}

	log.Info("user created", "user_id", user.ID, "username", user.Username)
	user.PasswordHash = ""
	return user, nil
}

// Login verifies the credentials and returns a freshly signed access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.AccessToken, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash comparison anyway so the timing matches the
			// wrong-password path.
			cryptox.DummyVerify(password)
			log.Warn("login for unknown username", "username", username)
			return domain.AccessToken{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", "err", err)
		return domain.AccessToken{}, fmt.Errorf("login: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login with wrong password", "username", username)
			return domain.AccessToken{}, ErrInvalidCredentials
		}
		log.Error("stored password hash unusable", "username", username, "err", err)
		return domain.AccessToken{}, fmt.Errorf("login: %w", err)
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.Username, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		log.Error("failed to sign access token", "err", err)
		return domain.AccessToken{}, fmt.Errorf("login: sign token: %w", err)
	}

	log.Info("login succeeded", "user_id", user.ID, "username", user.Username)
	return domain.AccessToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(ttl.Seconds()),
	}, nil
}
