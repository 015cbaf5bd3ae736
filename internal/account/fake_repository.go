package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// FakeRepository is a stateful in-memory implementation of repository.Account
// for tests. Every method holds one mutex for its whole duration, which gives it
// the same atomicity as the conditional updates in the Postgres store.
type FakeRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account // keyed by account ID

	// Err, when set, is returned by every method to simulate store failures.
	Err error
}

var _ repository.Account = (*FakeRepository)(nil)

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (f *FakeRepository) CreateAccount(ctx context.Context, na domain.NewAccount) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	for _, a := range f.accounts {
		switch {
		case lowerKey(a.Username) == lowerKey(na.Username):
			return nil, domain.ErrDuplicateUsername
		case lowerKey(a.Email) == lowerKey(na.Email):
			return nil, domain.ErrDuplicateEmail
		case a.LinkCode != nil && *a.LinkCode == na.LinkCode:
			return nil, domain.ErrDuplicateLinkCode
		}
	}

	now := time.Now().UTC()
	acct := &domain.Account{
		ID:           uuid.NewString(),
		Username:     na.Username,
		Email:        na.Email,
		PasswordHash: na.PasswordHash,
		LinkCode:     domain.StringPtr(na.LinkCode),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.accounts[acct.ID] = acct
	return acct.Clone(), nil
}

func (f *FakeRepository) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	a, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a.Clone(), nil
}

func (f *FakeRepository) FindByCredential(ctx context.Context, identifier string) (*domain.Account, error) {
	key := lowerKey(identifier)
	return f.find(func(a *domain.Account) bool {
		return lowerKey(a.Username) == key || lowerKey(a.Email) == key
	})
}

func (f *FakeRepository) FindByLinkCode(ctx context.Context, code string) (*domain.Account, error) {
	return f.find(func(a *domain.Account) bool {
		return a.LinkCode != nil && *a.LinkCode == code
	})
}

func (f *FakeRepository) FindByExternalID(ctx context.Context, discordID string) (*domain.Account, error) {
	return f.find(func(a *domain.Account) bool {
		return a.DiscordID != nil && *a.DiscordID == discordID
	})
}

func (f *FakeRepository) find(match func(*domain.Account) bool) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	for _, a := range f.accounts {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *FakeRepository) LinkCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := f.FindByLinkCode(ctx, code)
	if err == domain.ErrAccountNotFound {
		return false, nil
	}
	return err == nil, err
}

func (f *FakeRepository) ConsumeLinkCode(ctx context.Context, accountID, code, discordID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	a, ok := f.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if a.IsLinked() {
		return nil, domain.ErrAlreadyLinked
	}
	if a.LinkCode == nil || *a.LinkCode != code {
		return nil, domain.ErrCodeExpired
	}
	for _, other := range f.accounts {
		if other.DiscordID != nil && *other.DiscordID == discordID {
			return nil, domain.ErrDuplicateExternalID
		}
	}

	a.DiscordID = domain.StringPtr(discordID)
	a.LinkCode = nil
	a.UpdatedAt = time.Now().UTC()
	return a.Clone(), nil
}

func (f *FakeRepository) SetBanned(ctx context.Context, accountID, reason string) (*domain.Account, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, false, f.Err
	}

	a, ok := f.accounts[accountID]
	if !ok {
		return nil, false, domain.ErrAccountNotFound
	}
	if a.IsBanned {
		return a.Clone(), false, nil
	}

	a.IsBanned = true
	a.BanReason = domain.StringPtr(reason)
	a.UpdatedAt = time.Now().UTC()
	return a.Clone(), true, nil
}

func (f *FakeRepository) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}

	a, ok := f.accounts[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// Count returns the number of stored accounts
func (f *FakeRepository) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accounts)
}

// lowerKey mirrors the store's LOWER() comparison.
func lowerKey(s string) string {
	return strings.ToLower(s)
}
