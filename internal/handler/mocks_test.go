package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/bansync"
	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/linking"
)

// MockAccountService mocks account.Service
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, in account.RegisterInput) (*domain.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ProfileByDiscordID(ctx context.Context, discordID string) (*domain.AccountProfile, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountProfile), args.Error(1)
}

func (m *MockAccountService) ResetPasswordByDiscordID(ctx context.Context, discordID, newPassword string) error {
	args := m.Called(ctx, discordID, newPassword)
	return args.Error(0)
}

// MockLinkingService mocks linking.Service
type MockLinkingService struct {
	mock.Mock
}

func (m *MockLinkingService) LinkAccount(ctx context.Context, code, discordID string) (*linking.LinkResult, error) {
	args := m.Called(ctx, code, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linking.LinkResult), args.Error(1)
}

// MockBanService mocks bansync.Service
type MockBanService struct {
	mock.Mock
}

func (m *MockBanService) OnExternalBan(ctx context.Context, evt bansync.BanEvent) bansync.Result {
	args := m.Called(ctx, evt)
	return args.Get(0).(bansync.Result)
}

func (m *MockBanService) BanAccount(ctx context.Context, accountID, reason string) (bansync.Result, error) {
	args := m.Called(ctx, accountID, reason)
	return args.Get(0).(bansync.Result), args.Error(1)
}

// MockThreatService mocks threatlog.Service
type MockThreatService struct {
	mock.Mock
}

func (m *MockThreatService) Record(ctx context.Context, entry domain.ThreatLogEntry) {
	m.Called(ctx, entry)
}

func (m *MockThreatService) List(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ThreatLogEntry), args.Error(1)
}

func (m *MockThreatService) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}
