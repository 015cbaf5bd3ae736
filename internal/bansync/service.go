// Package bansync mirrors Discord guild bans onto linked PulseHub accounts.
package bansync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/metrics"
	"github.com/osse101/PulseHub_Go/internal/repository"
)

// DefaultLookupTimeout bounds the audit-log reason lookup
const DefaultLookupTimeout = 2 * time.Second

// ReasonResolver looks up the moderation reason recorded for a recent ban.
// Implementations are best-effort; an empty reason means none was found.
type ReasonResolver interface {
	ResolveBanReason(ctx context.Context, guildID, discordID string) (string, error)
}

// BanEvent is one guild-ban notification
type BanEvent struct {
	DiscordID  string
	GuildID    string
	ReasonHint string
}

// Result reports what a ban notification did
type Result struct {
	Outcome   domain.BanOutcome `json:"outcome"`
	AccountID string            `json:"account_id,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}

// Service defines the ban synchronization interface
type Service interface {
	// OnExternalBan never returns an error and never panics; failures are
	// logged and reported as BanOutcomeFailed.
	OnExternalBan(ctx context.Context, evt BanEvent) Result

	// BanAccount is the administrative path through the same idempotent update.
	BanAccount(ctx context.Context, accountID, reason string) (Result, error)
}

type service struct {
	repo          repository.Account
	resolver      ReasonResolver
	lookupTimeout time.Duration
	defaultReason string
}

// NewService creates a ban sync service. resolver may be nil, in which case
// reasons come from the event hint or defaultReason.
func NewService(repo repository.Account, resolver ReasonResolver, lookupTimeout time.Duration, defaultReason string) Service {
	if lookupTimeout <= 0 {
		lookupTimeout = DefaultLookupTimeout
	}
	if strings.TrimSpace(defaultReason) == "" {
		defaultReason = domain.DefaultBanReason
	}
	return &service{
		repo:          repo,
		resolver:      resolver,
		lookupTimeout: lookupTimeout,
		defaultReason: defaultReason,
	}
}

func (s *service) OnExternalBan(ctx context.Context, evt BanEvent) (res Result) {
	log := logger.FromContext(ctx).With("discord_id", evt.DiscordID, "guild_id", evt.GuildID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Ban sync panicked", "panic", fmt.Sprint(r))
			res = Result{Outcome: domain.BanOutcomeFailed}
		}
		metrics.BanEvents.WithLabelValues(string(res.Outcome)).Inc()
	}()

	if strings.TrimSpace(evt.DiscordID) == "" {
		log.Warn("Ban event without discord id")
		return Result{Outcome: domain.BanOutcomeFailed}
	}

	// A disconnecting caller must not abort the update halfway; the store applies its own timeout.
	storeCtx := context.WithoutCancel(ctx)

	acct, err := s.repo.FindByExternalID(storeCtx, evt.DiscordID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		log.Info("Ban event for unlinked Discord user")
		return Result{Outcome: domain.BanOutcomeNoAccount}
	}
	if err != nil {
		log.Error("Ban sync account lookup failed", "error", err)
		return Result{Outcome: domain.BanOutcomeFailed}
	}

	reason := s.resolveReason(ctx, evt)

	banned, changed, err := s.repo.SetBanned(storeCtx, acct.ID, reason)
	if err != nil {
		log.Error("Ban sync update failed", "account_id", acct.ID, "error", err)
		return Result{Outcome: domain.BanOutcomeFailed, AccountID: acct.ID}
	}

	res = Result{
		Outcome:   domain.BanOutcomeBanned,
		AccountID: banned.ID,
		Reason:    banned.BanReasonOr(reason),
	}
	if !changed {
		res.Outcome = domain.BanOutcomeAlreadyBanned
	}
	log.Info("Ban synchronized", "account_id", banned.ID, "outcome", res.Outcome, "reason", res.Reason)
	return res
}

// resolveReason prefers an explicit hint, then the audit log, then the default.
// The lookup is bounded by lookupTimeout and its failures only downgrade the reason.
func (s *service) resolveReason(ctx context.Context, evt BanEvent) string {
	if hint := strings.TrimSpace(evt.ReasonHint); hint != "" {
		return hint
	}
	if s.resolver == nil {
		return s.defaultReason
	}

	lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.lookupTimeout)
	defer cancel()

	reason, err := s.resolver.ResolveBanReason(lookupCtx, evt.GuildID, evt.DiscordID)
	if err != nil {
		logger.FromContext(ctx).Warn("Ban reason lookup failed, using default",
			"discord_id", evt.DiscordID, "error", err)
		return s.defaultReason
	}
	if strings.TrimSpace(reason) == "" {
		return s.defaultReason
	}
	return reason
}

func (s *service) BanAccount(ctx context.Context, accountID, reason string) (Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = s.defaultReason
	}

	banned, changed, err := s.repo.SetBanned(ctx, accountID, reason)
	if err != nil {
		return Result{Outcome: domain.BanOutcomeFailed}, err
	}

	res := Result{Outcome: domain.BanOutcomeBanned, AccountID: banned.ID, Reason: banned.BanReasonOr(reason)}
	if !changed {
		res.Outcome = domain.BanOutcomeAlreadyBanned
	}
	logger.FromContext(ctx).Info("Account banned by admin", "account_id", banned.ID, "outcome", res.Outcome)
	return res, nil
}
