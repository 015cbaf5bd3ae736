package threatlog

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/worker"
)

// MockRepository is a mock implementation of repository.ThreatLog
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertThreat(ctx context.Context, entry *domain.ThreatLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) ListThreats(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ThreatLogEntry), args.Error(1)
}

func (m *MockRepository) DeleteThreatsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// InlineQueue runs jobs synchronously on Enqueue
type InlineQueue struct{}

func (InlineQueue) Enqueue(job worker.Job) bool {
	_ = job.Process(context.Background())
	return true
}

// FullQueue rejects every job
type FullQueue struct{}

func (FullQueue) Enqueue(worker.Job) bool {
	return false
}
