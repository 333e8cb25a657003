// Package pin implements the lock gate: an optional per-user PIN that
// protects the locked partition of notes and tasks.
package pin

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/auth"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
)

// Grant is returned by a successful verification.
type Grant struct {
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	repomanager                 repomanager.RepositoryManager
	limiter                     *auth.Limiter
	jwtSecret                   []byte
	unlockGrantValidityDuration time.Duration
}

func NewService(m repomanager.RepositoryManager, limiter *auth.Limiter, cfg *config.Config) *Service {
	return &Service{
		repomanager:                 m,
		limiter:                     limiter,
		jwtSecret:                   []byte(cfg.SecretKey),
		unlockGrantValidityDuration: cfg.UnlockGrantValidityDuration,
	}
}

// Status reports whether the user has a PIN.
func (s *Service) Status(ctx context.Context, userID string) (bool, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.HasPin(), nil
}

// SetPin creates or replaces the PIN.
func (s *Service) SetPin(ctx context.Context, userID, pin string) error {
	if !auth.ValidPinFormat(pin) {
		return fmt.Errorf("%w: pin must be 4 to 6 digits", common.ErrInvalidPin)
	}
	hash, err := auth.HashSecret(pin)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return s.setHash(ctx, userID, hash)
}

// VerifyPin checks pin and issues an unlock grant. Bad format, no PIN set
// and mismatch all fail with common.ErrInvalidPin.
func (s *Service) VerifyPin(ctx context.Context, userID, pin string) (*Grant, error) {
	user, err := s.check(ctx, userID, pin)
	if err != nil {
		return nil, err
	}

	stamp := auth.PinStamp(user.PinHash, s.jwtSecret)
	token, expires, err := auth.GenerateUnlockGrant(userID, stamp, s.jwtSecret, s.unlockGrantValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &Grant{Token: token, ExpiresAt: expires}, nil
}

// ClearPin removes the PIN after verifying the current one.
func (s *Service) ClearPin(ctx context.Context, userID, pin string) error {
	if _, err := s.check(ctx, userID, pin); err != nil {
		return err
	}
	return s.setHash(ctx, userID, "")
}

// CheckGrant validates an unlock grant presented by userID. Grants issued
// before the PIN was last set or cleared are refused.
func (s *Service) CheckGrant(ctx context.Context, userID, token string) error {
	if token == "" {
		return common.ErrPinRequired
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPinRequired, err)
	}
	stamp := auth.PinStamp(user.PinHash, s.jwtSecret)
	if err := auth.VerifyUnlockGrant(token, userID, stamp, s.jwtSecret); err != nil {
		return fmt.Errorf("%w: %v", common.ErrPinRequired, err)
	}
	return nil
}

func (s *Service) check(ctx context.Context, userID, pin string) (*models.User, error) {
	key := "pin:" + userID
	if !s.limiter.Allow(key) {
		return nil, common.ErrTooManyAttempts
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash := user.PinHash
	if !auth.ValidPinFormat(pin) {
		hash = ""
	}
	if !auth.CompareSecret(hash, pin) {
		s.limiter.RecordFailure(key)
		return nil, common.ErrInvalidPin
	}
	s.limiter.Reset(key)
	return user, nil
}

func (s *Service) user(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return user, nil
}

func (s *Service) setHash(ctx context.Context, userID, hash string) error {
	if err := s.repomanager.Users(s.repomanager.Conn()).SetPinHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("storing pin: %w", err)
	}
	return nil
}
