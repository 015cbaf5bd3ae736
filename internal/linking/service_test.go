package linking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/domain"
)

// MockRepository lets tests assert the store is never touched
type MockRepository struct {
	mock.Mock
	*account.FakeRepository
}

func (m *MockRepository) FindByLinkCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func seedAccount(t *testing.T, repo *account.FakeRepository, username, code string) *domain.Account {
	t.Helper()
	acct, err := repo.CreateAccount(context.Background(), domain.NewAccount{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		LinkCode:     code,
	})
	require.NoError(t, err)
	return acct
}

func TestLinkAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and links", func(t *testing.T) {
		repo := account.NewFakeRepository()
		alice := seedAccount(t, repo, "alice", "K7M2X9LP")
		svc := NewService(repo)

		res, err := svc.LinkAccount(ctx, " k7m2x9lp ", "999888777")
		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.Equal(t, alice.ID, res.AccountID)

		stored, err := repo.GetAccountByID(ctx, alice.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.DiscordID)
		assert.Equal(t, "999888777", *stored.DiscordID)
		assert.Nil(t, stored.LinkCode)
	})

	t.Run("code is single use", func(t *testing.T) {
		repo := account.NewFakeRepository()
		seedAccount(t, repo, "alice", "K7M2X9LP")
		svc := NewService(repo)

		_, err := svc.LinkAccount(ctx, "K7M2X9LP", "999888777")
		require.NoError(t, err)

		_, err = svc.LinkAccount(ctx, "K7M2X9LP", "111222333")
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("invalid format never touches the store", func(t *testing.T) {
		repo := &MockRepository{FakeRepository: account.NewFakeRepository()}
		svc := NewService(repo)

		_, err := svc.LinkAccount(ctx, "short", "999")
		assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		repo.AssertNotCalled(t, "FindByLinkCode", mock.Anything, mock.Anything)
	})

	t.Run("unknown code", func(t *testing.T) {
		svc := NewService(account.NewFakeRepository())
		_, err := svc.LinkAccount(ctx, "ZZZZZZZZ", "999")
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("empty discord id", func(t *testing.T) {
		repo := account.NewFakeRepository()
		seedAccount(t, repo, "alice", "K7M2X9LP")
		_, err := NewService(repo).LinkAccount(ctx, "K7M2X9LP", "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("discord id already bound to another account", func(t *testing.T) {
		repo := account.NewFakeRepository()
		seedAccount(t, repo, "alice", "AAAAAAAA")
		seedAccount(t, repo, "bob", "BBBBBBBB")
		svc := NewService(repo)

		_, err := svc.LinkAccount(ctx, "AAAAAAAA", "999")
		require.NoError(t, err)

		_, err = svc.LinkAccount(ctx, "BBBBBBBB", "999")
		assert.ErrorIs(t, err, domain.ErrDuplicateExternalID)
	})

	t.Run("resolved account already linked elsewhere", func(t *testing.T) {
		linked := &domain.Account{ID: "acct-1", Username: "alice", DiscordID: domain.StringPtr("111"), LinkCode: domain.StringPtr("K7M2X9LP")}
		repo := &MockRepository{FakeRepository: account.NewFakeRepository()}
		repo.On("FindByLinkCode", ctx, "K7M2X9LP").Return(linked, nil)

		_, err := NewService(repo).LinkAccount(ctx, "K7M2X9LP", "222")
		assert.ErrorIs(t, err, domain.ErrAlreadyLinked)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		repo := account.NewFakeRepository()
		repo.Err = domain.ErrStoreUnavailable
		_, err := NewService(repo).LinkAccount(ctx, "K7M2X9LP", "999")
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}

func TestLinkAccount_ConcurrentSameCode(t *testing.T) {
	repo := account.NewFakeRepository()
	alice := seedAccount(t, repo, "alice", "K7M2X9LP")
	svc := NewService(repo)

	const attempts = 20
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := svc.LinkAccount(context.Background(), "K7M2X9LP", fmt.Sprintf("discord-%d", i))
			results <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		assert.True(t,
			errors.Is(err, domain.ErrAlreadyLinked) || errors.Is(err, domain.ErrCodeNotFound),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	stored, err := repo.GetAccountByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLinked())
	assert.Nil(t, stored.LinkCode)
}
