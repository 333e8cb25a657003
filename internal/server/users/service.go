// Package users implements the identity and session store: registration,
// password authentication and session token resolution.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// newID is a seam for tests.
var newID = uuid.NewString

type Service struct {
	repomanager                 repomanager.RepositoryManager
	limiter                     *auth.Limiter
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

func NewService(m repomanager.RepositoryManager, limiter *auth.Limiter, cfg *config.Config) *Service {
	return &Service{
		repomanager:                 m,
		limiter:                     limiter,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates an account. The email is stored trimmed and lower-cased.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = common.NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, maxPasswordLength)
	}

	hash, err := auth.HashSecret(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{ID: newID(), Email: email, PasswordHash: hash}
	user, err = s.repomanager.Users(s.repomanager.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
		}
		return nil, fmt.Errorf("%w: creating user: %v", common.ErrorInternal, err)
	}
	return user, nil
}

// Authenticate checks the credentials and returns a session token. Unknown
// email and wrong password are indistinguishable to the caller. Failures are
// counted per email and client address, so failures from one address do not
// lock the account out for others.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	email = common.NormalizeEmail(email)
	key := "login:" + email
	if addr := auth.ClientAddr(ctx); addr != "" {
		key += "|" + addr
	}
	if !s.limiter.Allow(key) {
		return "", common.ErrTooManyAttempts
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("%w: loading user: %v", common.ErrorInternal, err)
	}

	hash := ""
	if user != nil {
		hash = user.PasswordHash
	}
	if !auth.CompareSecret(hash, password) {
		s.limiter.RecordFailure(key)
		return "", common.ErrInvalidCredentials
	}
	s.limiter.Reset(key)

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Resolve maps a session token to the id of an existing user.
func (s *Service) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrorUnauthorized
	}
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	if _, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("%w: loading user: %v", common.ErrorInternal, err)
	}
	return userID, nil
}
