package bansync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/domain"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveBanReason(ctx context.Context, guildID, discordID string) (string, error) {
	args := m.Called(ctx, guildID, discordID)
	return args.String(0), args.Error(1)
}

// linkedAccount seeds an account linked to discordID
func linkedAccount(t *testing.T, repo *account.FakeRepository, discordID string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	acct, err := repo.CreateAccount(ctx, domain.NewAccount{Username: "alice", Email: "alice@x.com", PasswordHash: "h", LinkCode: "K7M2X9LP"})
	require.NoError(t, err)
	acct, err = repo.ConsumeLinkCode(ctx, acct.ID, "K7M2X9LP", discordID)
	require.NoError(t, err)
	return acct
}

func TestOnExternalBan(t *testing.T) {
	ctx := context.Background()

	t.Run("no linked account is a no-op", func(t *testing.T) {
		resolver := new(MockResolver)
		svc := NewService(account.NewFakeRepository(), resolver, time.Second, "")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", GuildID: "g"})
		assert.Equal(t, domain.BanOutcomeNoAccount, res.Outcome)
		resolver.AssertNotCalled(t, "ResolveBanReason", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("uses audit reason", func(t *testing.T) {
		repo := account.NewFakeRepository()
		alice := linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		resolver.On("ResolveBanReason", mock.Anything, "g", "999").Return("spamming invites", nil)
		svc := NewService(repo, resolver, time.Second, "")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", GuildID: "g"})
		assert.Equal(t, domain.BanOutcomeBanned, res.Outcome)
		assert.Equal(t, alice.ID, res.AccountID)
		assert.Equal(t, "spamming invites", res.Reason)

		stored, err := repo.GetAccountByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsBanned)
		assert.Equal(t, "spamming invites", stored.BanReasonOr(""))
		resolver.AssertExpectations(t)
	})

	t.Run("hint skips lookup", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		svc := NewService(repo, resolver, time.Second, "")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", ReasonHint: "raid"})
		assert.Equal(t, "raid", res.Reason)
		resolver.AssertNotCalled(t, "ResolveBanReason", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lookup failure falls back to default", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		resolver.On("ResolveBanReason", mock.Anything, "g", "999").Return("", errors.New("missing permissions"))
		svc := NewService(repo, resolver, time.Second, "")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", GuildID: "g"})
		assert.Equal(t, domain.BanOutcomeBanned, res.Outcome)
		assert.Equal(t, domain.DefaultBanReason, res.Reason)
	})

	t.Run("empty lookup uses configured default", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		resolver.On("ResolveBanReason", mock.Anything, "g", "999").Return("", nil)
		svc := NewService(repo, resolver, time.Second, "Banned on Discord")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", GuildID: "g"})
		assert.Equal(t, "Banned on Discord", res.Reason)
	})

	t.Run("slow lookup is bounded", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		resolver.On("ResolveBanReason", mock.Anything, "g", "999").
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return("", context.DeadlineExceeded)
		svc := NewService(repo, resolver, 50*time.Millisecond, "")

		start := time.Now()
		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", GuildID: "g"})
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, domain.BanOutcomeBanned, res.Outcome)
		assert.Equal(t, domain.DefaultBanReason, res.Reason)
	})

	t.Run("repeat ban is idempotent and keeps first reason", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		svc := NewService(repo, nil, time.Second, "")

		first := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", ReasonHint: "r1"})
		second := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999", ReasonHint: "r2"})

		assert.Equal(t, domain.BanOutcomeBanned, first.Outcome)
		assert.Equal(t, domain.BanOutcomeAlreadyBanned, second.Outcome)
		assert.Equal(t, "r1", second.Reason)
	})

	t.Run("store failure is swallowed", func(t *testing.T) {
		repo := account.NewFakeRepository()
		repo.Err = domain.ErrStoreUnavailable
		svc := NewService(repo, nil, time.Second, "")

		res := svc.OnExternalBan(ctx, BanEvent{DiscordID: "999"})
		assert.Equal(t, domain.BanOutcomeFailed, res.Outcome)
	})

	t.Run("panicking resolver is contained", func(t *testing.T) {
		repo := account.NewFakeRepository()
		linkedAccount(t, repo, "999")
		resolver := new(MockResolver)
		resolver.On("ResolveBanReason", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { panic("boom") })
		svc := NewService(repo, resolver, time.Second, "")

		var res Result
		assert.NotPanics(t, func() {
			res = svc.OnExternalBan(ctx, BanEvent{DiscordID: "999"})
		})
		assert.Equal(t, domain.BanOutcomeFailed, res.Outcome)
	})

	t.Run("cancelled caller still bans", func(t *testing.T) {
		repo := account.NewFakeRepository()
		alice := linkedAccount(t, repo, "999")
		svc := NewService(repo, nil, time.Second, "")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res := svc.OnExternalBan(cancelled, BanEvent{DiscordID: "999"})
		assert.Equal(t, domain.BanOutcomeBanned, res.Outcome)

		stored, err := repo.GetAccountByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsBanned)
	})

	t.Run("missing discord id", func(t *testing.T) {
		svc := NewService(account.NewFakeRepository(), nil, time.Second, "")
		assert.Equal(t, domain.BanOutcomeFailed, svc.OnExternalBan(ctx, BanEvent{}).Outcome)
	})
}

func TestBanAccount(t *testing.T) {
	ctx := context.Background()
	repo := account.NewFakeRepository()
	acct, err := repo.CreateAccount(ctx, domain.NewAccount{Username: "bob", Email: "b@x.com", PasswordHash: "h", LinkCode: "BBBBBBBB"})
	require.NoError(t, err)
	svc := NewService(repo, nil, time.Second, "")

	res, err := svc.BanAccount(ctx, acct.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BanOutcomeBanned, res.Outcome)
	assert.Equal(t, domain.DefaultBanReason, res.Reason)

	res, err = svc.BanAccount(ctx, acct.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, domain.BanOutcomeAlreadyBanned, res.Outcome)

	_, err = svc.BanAccount(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
