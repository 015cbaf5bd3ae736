package repository

import (
	"context"
	"time"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

// ThreatLog defines the append-only storage for anti-abuse decisions
type ThreatLog interface {
	// InsertThreat stores an entry, filling its ID and CreatedAt
	InsertThreat(ctx context.Context, entry *domain.ThreatLogEntry) error

	// ListThreats returns entries matching filter, newest first
	ListThreats(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error)

	// DeleteThreatsBefore removes entries created before cutoff
	DeleteThreatsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
