package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// ThreatLogRepository implements repository.ThreatLog on PostgreSQL
type ThreatLogRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
	psql    sq.StatementBuilderType
}

var _ repository.ThreatLog = (*ThreatLogRepository)(nil)

// NewThreatLogRepository creates a new threat log repository
func NewThreatLogRepository(db *pgxpool.Pool, timeout time.Duration) *ThreatLogRepository {
	return &ThreatLogRepository{
		db:      db,
		timeout: timeout,
		psql:    sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InsertThreat stores an entry and fills its generated fields
func (r *ThreatLogRepository) InsertThreat(ctx context.Context, entry *domain.ThreatLogEntry) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%s: marshal metadata: %w", ErrMsgFailedToInsertThreat, err)
	}

	var actionTaken *string
	if entry.ActionTaken != "" {
		s := string(entry.ActionTaken)
		actionTaken = &s
	}

	query, args, err := r.psql.
		Insert("threat_logs").
		Columns("ip", "user_agent", "fingerprint", "reason", "action_taken", "endpoint", "account_id", "metadata").
		Values(entry.IP, entry.UserAgent, entry.Fingerprint, string(entry.Reason), actionTaken, entry.Endpoint, sq.Expr("?::uuid", entry.AccountID), metadataJSON).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertThreat, err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return translateError(ErrMsgFailedToInsertThreat, err)
	}
	return nil
}

// ListThreats retrieves entries matching the filter, newest first
func (r *ThreatLogRepository) ListThreats(ctx context.Context, filter domain.ThreatFilter) ([]domain.ThreatLogEntry, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	builder := r.psql.
		Select("id", "ip", "COALESCE(user_agent, '')", "COALESCE(fingerprint, '')", "reason",
			"COALESCE(action_taken, '')", "COALESCE(endpoint, '')", "account_id::text", "metadata", "created_at").
		From("threat_logs").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(clampLimit(filter.Limit)))

	if filter.Reason != nil {
		builder = builder.Where(sq.Eq{"reason": string(*filter.Reason)})
	}
	if filter.IP != nil {
		builder = builder.Where(sq.Eq{"ip": *filter.IP})
	}
	if filter.Since != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *filter.Since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListThreats, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(ErrMsgFailedToListThreats, err)
	}
	defer rows.Close()

	entries := []domain.ThreatLogEntry{}
	for rows.Next() {
		var e domain.ThreatLogEntry
		var reason, action string
		var metadataJSON []byte
		if err := rows.Scan(&e.ID, &e.IP, &e.UserAgent, &e.Fingerprint, &reason, &action,
			&e.Endpoint, &e.AccountID, &metadataJSON, &e.CreatedAt); err != nil {
			return nil, translateError(ErrMsgFailedToListThreats, err)
		}
		e.Reason = domain.ThreatReason(reason)
		e.ActionTaken = domain.ThreatAction(action)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("%s: unmarshal metadata: %w", ErrMsgFailedToListThreats, err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(ErrMsgFailedToListThreats, err)
	}

	return entries, nil
}

// DeleteThreatsBefore removes entries older than cutoff
func (r *ThreatLogRepository) DeleteThreatsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query, args, err := r.psql.Delete("threat_logs").Where(sq.Lt{"created_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteThreats, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, translateError(ErrMsgFailedToDeleteThreats, err)
	}
	return tag.RowsAffected(), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultThreatListLimit
	}
	if limit > MaxThreatListLimit {
		return MaxThreatListLimit
	}
	return limit
}
