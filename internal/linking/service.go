// Package linking binds a PulseHub account to a Discord identity by consuming
// the account's one-time link code.
package linking

import (
	"context"
	"errors"
	"strings"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/linkcode"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/metrics"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// Service defines the linking service interface
type Service interface {
	// LinkAccount consumes code on behalf of discordID.
	// Errors: ErrInvalidFormat, ErrInvalidInput, ErrCodeNotFound, ErrCodeExpired,
	// ErrAlreadyLinked, ErrDuplicateExternalID, ErrStoreUnavailable.
	LinkAccount(ctx context.Context, code, discordID string) (*LinkResult, error)
}

// LinkResult confirms a successful link
type LinkResult struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

type service struct {
	repo repository.Account
}

// NewService creates a new linking service
func NewService(repo repository.Account) Service {
	return &service{repo: repo}
}

func (s *service) LinkAccount(ctx context.Context, rawCode, discordID string) (*LinkResult, error) {
	log := logger.FromContext(ctx)

	code, err := linkcode.Validate(rawCode)
	if err != nil {
		recordAttempt(metrics.LinkResultInvalidFormat)
		log.Info(LogMsgLinkRejected, "reason", "invalid format")
		return nil, err
	}

	discordID = strings.TrimSpace(discordID)
	if discordID == "" || len(discordID) > MaxExternalIDLength {
		recordAttempt(metrics.LinkResultError)
		return nil, domain.ErrInvalidInput
	}

	acct, err := s.repo.FindByLinkCode(ctx, code)
	if errors.Is(err, domain.ErrAccountNotFound) {
		recordAttempt(metrics.LinkResultNotFound)
		log.Info(LogMsgLinkRejected, "reason", "code not found", "discord_id", discordID)
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		recordAttempt(metrics.LinkResultError)
		log.Error(LogMsgLinkFailed, "error", err)
		return nil, err
	}

	// The store re-checks this atomically; rejecting early keeps the message precise.
	if acct.IsLinked() && *acct.DiscordID != discordID {
		recordAttempt(metrics.LinkResultAlreadyLinked)
		return nil, domain.ErrAlreadyLinked
	}

	linked, err := s.repo.ConsumeLinkCode(ctx, acct.ID, code, discordID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyLinked), errors.Is(err, domain.ErrDuplicateExternalID):
			recordAttempt(metrics.LinkResultAlreadyLinked)
			log.Info(LogMsgLinkRejected, "reason", err.Error(), "account_id", acct.ID)
		case errors.Is(err, domain.ErrCodeExpired), errors.Is(err, domain.ErrAccountNotFound):
			recordAttempt(metrics.LinkResultNotFound)
			log.Info(LogMsgLinkRejected, "reason", err.Error(), "account_id", acct.ID)
			if errors.Is(err, domain.ErrAccountNotFound) {
				err = domain.ErrCodeNotFound
			}
		default:
			recordAttempt(metrics.LinkResultError)
			log.Error(LogMsgLinkFailed, "account_id", acct.ID, "error", err)
		}
		return nil, err
	}

	recordAttempt(metrics.LinkResultSuccess)
	log.Info(LogMsgLinked, "account_id", linked.ID, "discord_id", discordID)

	return &LinkResult{AccountID: linked.ID, Username: linked.Username}, nil
}

func recordAttempt(result string) {
	metrics.LinkAttempts.WithLabelValues(result).Inc()
}
