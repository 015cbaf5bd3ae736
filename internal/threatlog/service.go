// Package threatlog is the append-only audit sink for anti-abuse decisions.
package threatlog

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/metrics"
	"github.com/osse101/PulseHub_Go/internal/repository"
	"github.com/osse101/PulseHub_Go/internal/worker"
)

// Enqueuer runs jobs in the background
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Service handles threat logging
type Service interface {
	// Record queues entry for storage. It never blocks on the database and never
	// returns an error; rejected or failed entries are only logged.
	Record(ctx context.Context, entry domain.ThreatLogEntry)

	// List returns recent entries, newest first
	List(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error)

	// CleanupOldEntries removes entries older than the retention period
	CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo  repository.ThreatLog
	queue Enqueuer
	now   func() time.Time
}

// NewService creates a new threat log service writing through queue
func NewService(repo repository.ThreatLog, queue Enqueuer) Service {
	return &service{repo: repo, queue: queue, now: time.Now}
}

func (s *service) Record(ctx context.Context, entry domain.ThreatLogEntry) {
	log := logger.FromContext(ctx)

	if entry.IP == "" {
		log.Warn(LogMsgThreatRejected, LogFieldReason, entry.Reason, LogFieldError, "missing ip")
		return
	}
	if !entry.Reason.Valid() {
		log.Warn(LogMsgThreatRejected, LogFieldReason, entry.Reason, LogFieldError, "unknown reason")
		return
	}

	entry.UserAgent = truncate(entry.UserAgent, MaxUserAgentLength)
	entry.Fingerprint = truncate(entry.Fingerprint, MaxFingerprintLength)
	entry.Endpoint = truncate(entry.Endpoint, MaxEndpointLength)

	requestID := logger.GetRequestID(ctx)
	job := worker.JobFunc(func(jobCtx context.Context) error {
		if requestID != "" {
			jobCtx = logger.WithRequestID(jobCtx, requestID)
		}
		return s.insert(jobCtx, &entry)
	})

	if !s.queue.Enqueue(job) {
		log.Warn(LogMsgThreatQueueFull, LogFieldReason, entry.Reason, LogFieldIP, entry.IP)
	}
}

func (s *service) insert(ctx context.Context, entry *domain.ThreatLogEntry) error {
	log := logger.FromContext(ctx)

	if err := s.repo.InsertThreat(ctx, entry); err != nil {
		log.Error(LogMsgFailedToRecordThreat, LogFieldReason, entry.Reason, LogFieldError, err)
		return err
	}

	metrics.ThreatsLogged.WithLabelValues(string(entry.Reason)).Inc()
	log.Debug(LogMsgThreatRecorded, LogFieldReason, entry.Reason, LogFieldIP, entry.IP)
	return nil
}

func (s *service) List(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error) {
	if filter.Reason != nil && !filter.Reason.Valid() {
		return nil, fmt.Errorf("%w: unknown threat reason %q", domain.ErrInvalidInput, *filter.Reason)
	}
	return s.repo.ListThreats(ctx, filter)
}

func (s *service) CleanupOldEntries(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("%w: retention days must be positive", domain.ErrInvalidInput)
	}
	cutoff := s.now().Add(-time.Duration(retentionDays) * 24 * time.Hour)
	return s.repo.DeleteThreatsBefore(ctx, cutoff)
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
