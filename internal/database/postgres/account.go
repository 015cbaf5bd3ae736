package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

const accountColumns = `id::text, username, email, password_hash, link_code, discord_id,
	is_banned, ban_reason, created_at, updated_at`

// AccountRepository implements repository.Account on PostgreSQL
type AccountRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

var _ repository.Account = (*AccountRepository)(nil)

// NewAccountRepository creates a new account repository.
// timeout bounds each statement; zero uses DefaultStoreTimeout.
func NewAccountRepository(db *pgxpool.Pool, timeout time.Duration) *AccountRepository {
	return &AccountRepository{db: db, timeout: timeout}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.LinkCode,
		&a.DiscordID,
		&a.IsBanned,
		&a.BanReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts a new unlinked account
func (r *AccountRepository) CreateAccount(ctx context.Context, na domain.NewAccount) (*domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO accounts (username, email, password_hash, link_code)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	acct, err := scanAccount(r.db.QueryRow(ctx, query, na.Username, na.Email, na.PasswordHash, na.LinkCode))
	if err != nil {
		return nil, translateError(ErrMsgFailedToCreateAccount, err)
	}
	return acct, nil
}

// GetAccountByID retrieves an account by its id
func (r *AccountRepository) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if !validAccountID(accountID) {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, `WHERE id = $1`, accountID)
}

// FindByCredential retrieves an account by username or email, ignoring case
func (r *AccountRepository) FindByCredential(ctx context.Context, identifier string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1)
		ORDER BY (LOWER(username) = LOWER($1)) DESC LIMIT 1`, identifier)
}

// FindByLinkCode retrieves the account holding an unconsumed code
func (r *AccountRepository) FindByLinkCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE link_code = $1`, code)
}

// FindByExternalID retrieves the account linked to a Discord id
func (r *AccountRepository) FindByExternalID(ctx context.Context, discordID string) (*domain.Account, error) {
	return r.findOne(ctx, `WHERE discord_id = $1`, discordID)
}

func (r *AccountRepository) findOne(ctx context.Context, where string, args ...any) (*domain.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	acct, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts `+where, args...))
	if err != nil {
		return nil, translateError(ErrMsgFailedToGetAccount, err)
	}
	return acct, nil
}

// LinkCodeExists reports whether any account currently holds code
func (r *AccountRepository) LinkCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE link_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, translateError(ErrMsgFailedToCheckLinkCode, err)
	}
	return exists, nil
}

// ConsumeLinkCode binds discordID to the account in one conditional UPDATE.
// When the precondition no longer holds, the row is re-read to report why.
func (r *AccountRepository) ConsumeLinkCode(ctx context.Context, accountID, code, discordID string) (*domain.Account, error) {
	if !validAccountID(accountID) {
		return nil, domain.ErrAccountNotFound
	}

	opCtx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE accounts
		SET discord_id = $3, link_code = NULL, updated_at = NOW()
		WHERE id = $1 AND link_code = $2 AND discord_id IS NULL
		RETURNING ` + accountColumns

	acct, err := scanAccount(r.db.QueryRow(opCtx, query, accountID, code, discordID))
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, translateError(ErrMsgFailedToConsumeLinkCode, err)
	}

	current, getErr := r.GetAccountByID(ctx, accountID)
	if getErr != nil {
		return nil, getErr
	}
	if current.IsLinked() {
		return nil, domain.ErrAlreadyLinked
	}
	return nil, domain.ErrCodeExpired
}

// SetBanned marks an account banned. The row lock in the CTE makes the
// previous-state read and the update one atomic step.
func (r *AccountRepository) SetBanned(ctx context.Context, accountID, reason string) (*domain.Account, bool, error) {
	if !validAccountID(accountID) {
		return nil, false, domain.ErrAccountNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		WITH prev AS (
			SELECT id, is_banned FROM accounts WHERE id = $1 FOR UPDATE
		)
		UPDATE accounts a
		SET is_banned = TRUE,
		    ban_reason = CASE WHEN prev.is_banned THEN a.ban_reason ELSE $2 END,
		    updated_at = CASE WHEN prev.is_banned THEN a.updated_at ELSE NOW() END
		FROM prev
		WHERE a.id = prev.id
		RETURNING a.id::text, a.username, a.email, a.password_hash, a.link_code, a.discord_id,
		          a.is_banned, a.ban_reason, a.created_at, a.updated_at, prev.is_banned`

	var a domain.Account
	var wasBanned bool
	err := r.db.QueryRow(ctx, query, accountID, reason).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.LinkCode,
		&a.DiscordID,
		&a.IsBanned,
		&a.BanReason,
		&a.CreatedAt,
		&a.UpdatedAt,
		&wasBanned,
	)
	if err != nil {
		return nil, false, translateError(ErrMsgFailedToSetBanned, err)
	}
	return &a, !wasBanned, nil
}

// UpdatePasswordHash replaces the stored credential hash
func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	if !validAccountID(accountID) {
		return domain.ErrAccountNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		accountID, passwordHash)
	if err != nil {
		return translateError(ErrMsgFailedToUpdatePassword, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}
