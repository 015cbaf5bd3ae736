package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

func createTestAccount(t *testing.T, repo *AccountRepository, username, code string) *domain.Account {
	t.Helper()
	acct, err := repo.CreateAccount(context.Background(), domain.NewAccount{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		LinkCode:     code,
	})
	require.NoError(t, err)
	return acct
}

func TestAccountRepository_CreateAndFind(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	ctx := context.Background()

	acct := createTestAccount(t, repo, "alice", "K7M2X9LP")
	assert.NotEmpty(t, acct.ID)
	require.NotNil(t, acct.LinkCode)
	assert.Equal(t, "K7M2X9LP", *acct.LinkCode)
	assert.Nil(t, acct.DiscordID)
	assert.False(t, acct.IsBanned)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("by username any case", func(t *testing.T) {
		got, err := repo.FindByCredential(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
	})

	t.Run("by email any case", func(t *testing.T) {
		got, err := repo.FindByCredential(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)
	})

	t.Run("by link code", func(t *testing.T) {
		got, err := repo.FindByLinkCode(ctx, "K7M2X9LP")
		require.NoError(t, err)
		assert.Equal(t, acct.ID, got.ID)

		_, err = repo.FindByLinkCode(ctx, "k7m2x9lp")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})

	t.Run("code exists", func(t *testing.T) {
		exists, err := repo.LinkCodeExists(ctx, "K7M2X9LP")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.LinkCodeExists(ctx, "ZZZZZZZZ")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.GetAccountByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		_, err = repo.FindByExternalID(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAccountRepository_Uniqueness(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	ctx := context.Background()

	createTestAccount(t, repo, "alice", "AAAAAAAA")

	_, err := repo.CreateAccount(ctx, domain.NewAccount{Username: "ALICE", Email: "other@example.com", PasswordHash: "h", LinkCode: "BBBBBBBB"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	_, err = repo.CreateAccount(ctx, domain.NewAccount{Username: "bob", Email: "ALICE@example.com", PasswordHash: "h", LinkCode: "CCCCCCCC"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = repo.CreateAccount(ctx, domain.NewAccount{Username: "carol", Email: "carol@example.com", PasswordHash: "h", LinkCode: "AAAAAAAA"})
	assert.ErrorIs(t, err, domain.ErrDuplicateLinkCode)
}

func TestAccountRepository_ConsumeLinkCode(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	ctx := context.Background()

	acct := createTestAccount(t, repo, "alice", "K7M2X9LP")

	linked, err := repo.ConsumeLinkCode(ctx, acct.ID, "K7M2X9LP", "999888777")
	require.NoError(t, err)
	require.NotNil(t, linked.DiscordID)
	assert.Equal(t, "999888777", *linked.DiscordID)
	assert.Nil(t, linked.LinkCode)

	_, err = repo.FindByLinkCode(ctx, "K7M2X9LP")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = repo.ConsumeLinkCode(ctx, acct.ID, "K7M2X9LP", "111222333")
	assert.ErrorIs(t, err, domain.ErrAlreadyLinked)

	t.Run("discord id already bound elsewhere", func(t *testing.T) {
		other := createTestAccount(t, repo, "bob", "BBBBBBBB")
		_, err := repo.ConsumeLinkCode(ctx, other.ID, "BBBBBBBB", "999888777")
		assert.ErrorIs(t, err, domain.ErrDuplicateExternalID)
	})

	t.Run("stale code", func(t *testing.T) {
		other := createTestAccount(t, repo, "carol", "CCCCCCCC")
		_, err := repo.ConsumeLinkCode(ctx, other.ID, "DDDDDDDD", "555")
		assert.ErrorIs(t, err, domain.ErrCodeExpired)
	})
}

func TestAccountRepository_ConsumeLinkCode_Race(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	acct := createTestAccount(t, repo, "alice", "RACE2345")

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	var failures []error

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ConsumeLinkCode(context.Background(), acct.ID, "RACE2345", fmt.Sprintf("discord-%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			failures = append(failures, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range failures {
		assert.True(t, errors.Is(err, domain.ErrAlreadyLinked) || errors.Is(err, domain.ErrCodeExpired), "unexpected error: %v", err)
	}
}

func TestAccountRepository_SetBanned(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	ctx := context.Background()

	acct := createTestAccount(t, repo, "alice", "K7M2X9LP")

	banned, changed, err := repo.SetBanned(ctx, acct.ID, "r1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, banned.IsBanned)
	assert.Equal(t, "r1", banned.BanReasonOr(""))

	again, changed, err := repo.SetBanned(ctx, acct.ID, "r2")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, again.IsBanned)
	assert.Equal(t, "r1", again.BanReasonOr(""))

	_, _, err = repo.SetBanned(ctx, "00000000-0000-0000-0000-000000000000", "r")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_UpdatePasswordHash(t *testing.T) {
	pool := requirePool(t)
	repo := NewAccountRepository(pool, 0)
	ctx := context.Background()

	acct := createTestAccount(t, repo, "alice", "K7M2X9LP")
	require.NoError(t, repo.UpdatePasswordHash(ctx, acct.ID, "new-hash"))

	got, err := repo.GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	err = repo.UpdatePasswordHash(ctx, "00000000-0000-0000-0000-000000000000", "x")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
