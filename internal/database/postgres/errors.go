package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

// translateError maps pgx errors onto the domain taxonomy so callers never see
// driver types. op prefixes errors that stay unclassified.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return uniqueViolation(pgErr)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CrashShutdown,
			pgErr.Code == pgerrcode.TooManyConnections,
			pgErr.Code == pgerrcode.QueryCanceled:
			return fmt.Errorf("%w: %s: %s", domain.ErrStoreUnavailable, op, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		pgconn.Timeout(err) {
		return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func uniqueViolation(pgErr *pgconn.PgError) error {
	switch pgErr.ConstraintName {
	case ConstraintUsername:
		return domain.ErrDuplicateUsername
	case ConstraintEmail:
		return domain.ErrDuplicateEmail
	case ConstraintLinkCode:
		return domain.ErrDuplicateLinkCode
	case ConstraintDiscordID:
		return domain.ErrDuplicateExternalID
	}
	return fmt.Errorf("%w: unique violation on %s", domain.ErrInvalidInput, pgErr.ConstraintName)
}
