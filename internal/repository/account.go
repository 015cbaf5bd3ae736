package repository

import (
	"context"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

// Account defines data access for accounts.
//
// Lookups return domain.ErrAccountNotFound when no row matches. Uniqueness of
// username, email, link code and Discord id is enforced by the store itself.
type Account interface {
	// CreateAccount persists a new unlinked account holding na.LinkCode.
	// Returns ErrDuplicateUsername, ErrDuplicateEmail or ErrDuplicateLinkCode on conflict.
	CreateAccount(ctx context.Context, na domain.NewAccount) (*domain.Account, error)

	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindByCredential matches username OR email, case-insensitive.
	FindByCredential(ctx context.Context, identifier string) (*domain.Account, error)

	// FindByLinkCode matches the exact unconsumed code.
	FindByLinkCode(ctx context.Context, code string) (*domain.Account, error)

	FindByExternalID(ctx context.Context, discordID string) (*domain.Account, error)

	LinkCodeExists(ctx context.Context, code string) (bool, error)

	// ConsumeLinkCode atomically binds discordID and clears the code, but only while
	// the account still holds code and has no Discord id.
	// Returns ErrAlreadyLinked, ErrCodeExpired, ErrDuplicateExternalID or ErrAccountNotFound.
	ConsumeLinkCode(ctx context.Context, accountID, code, discordID string) (*domain.Account, error)

	// SetBanned marks the account banned. Re-banning keeps the first reason and
	// reports changed=false.
	SetBanned(ctx context.Context, accountID, reason string) (acct *domain.Account, changed bool, err error)

	UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error
}
