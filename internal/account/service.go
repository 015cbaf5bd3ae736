// Package account owns account registration, credential checks and the
// Discord-facing account operations (profile lookup and password reset).
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// CodeGenerator issues link codes for new accounts
type CodeGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// Service defines the interface for account operations
type Service interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	// Authenticate checks credentials. Banned accounts authenticate successfully;
	// callers decide what a banned account may see.
	Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	ProfileByDiscordID(ctx context.Context, discordID string) (*domain.AccountProfile, error)
	ResetPasswordByDiscordID(ctx context.Context, discordID, newPassword string) error
}

// RegisterInput is the signup form
type RegisterInput struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=72,strongpassword"`
}

type resetInput struct {
	DiscordID   string `validate:"required,max=64"`
	NewPassword string `validate:"required,min=6,max=72"`
}

type service struct {
	repo       repository.Account
	codes      CodeGenerator
	validate   *validator.Validate
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// Option configures the service
type Option func(*service)

// WithBcryptCost overrides the hashing work factor
func WithBcryptCost(cost int) Option {
	return func(s *service) {
		s.bcryptCost = cost
	}
}

// NewService creates a new account service
func NewService(repo repository.Account, codes CodeGenerator, opts ...Option) Service {
	s := &service{
		repo:       repo,
		codes:      codes,
		validate:   newValidator(),
		bcryptCost: DefaultBcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates the signup input and creates an unlinked account with a fresh link code
func (s *service) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	log := logger.FromContext(ctx)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	for attempt := 1; attempt <= MaxCreateAttempts; attempt++ {
		code, err := s.codes.Generate(ctx)
		if err != nil {
			return nil, err
		}

		acct, err := s.repo.CreateAccount(ctx, domain.NewAccount{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: string(hash),
			LinkCode:     code,
		})
		if errors.Is(err, domain.ErrDuplicateLinkCode) {
			log.Warn(LogMsgLinkCodeCollision, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Info(LogMsgAccountRegistered, "account_id", acct.ID, "username", acct.Username)
		return acct, nil
	}

	return nil, domain.ErrGenerationExhausted
}

// Authenticate resolves identifier as a username or email and checks the password
func (s *service) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	log := logger.FromContext(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	acct, err := s.repo.FindByCredential(ctx, identifier)
	if errors.Is(err, domain.ErrAccountNotFound) {
		// keep timing comparable to a real mismatch
		_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
		log.Info(LogMsgLoginFailed, "reason", "unknown identifier")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		log.Info(LogMsgLoginFailed, "reason", "password mismatch", "account_id", acct.ID)
		return nil, domain.ErrInvalidCredentials
	}

	return acct, nil
}

// GetAccount returns the current stored state of an account
func (s *service) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.GetAccountByID(ctx, accountID)
}

// ProfileByDiscordID returns the account linked to discordID
func (s *service) ProfileByDiscordID(ctx context.Context, discordID string) (*domain.AccountProfile, error) {
	acct, err := s.repo.FindByExternalID(ctx, discordID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrAccountNotLinked
	}
	if err != nil {
		return nil, err
	}
	return &domain.AccountProfile{
		Username:  acct.Username,
		Email:     acct.Email,
		CreatedAt: acct.CreatedAt,
	}, nil
}

// ResetPasswordByDiscordID re-hashes the password of the account linked to discordID
func (s *service) ResetPasswordByDiscordID(ctx context.Context, discordID, newPassword string) error {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(resetInput{DiscordID: discordID, NewPassword: newPassword}); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	acct, err := s.repo.FindByExternalID(ctx, discordID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		log.Info(LogMsgPasswordResetDenied, "discord_id", discordID, "reason", "not linked")
		return domain.ErrAccountNotLinked
	}
	if err != nil {
		return err
	}
	if acct.IsBanned {
		log.Info(LogMsgPasswordResetDenied, "account_id", acct.ID, "reason", "banned")
		return domain.ErrAccountBanned
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, acct.ID, string(hash)); err != nil {
		return err
	}

	log.Info(LogMsgPasswordReset, "account_id", acct.ID)
	return nil
}

func (s *service) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("pulsehub-dummy-password"), s.bcryptCost)
	})
	return s.dummyHash
}
