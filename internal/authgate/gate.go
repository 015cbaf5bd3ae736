// Package authgate decides, per request, what a session holder may see.
package authgate

import (
	"context"
	"errors"
	"net/http"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/metrics"
	"github.com/osse101/PulseHub_Go/internal/middleware"
)

// AccountSource loads the current state of an account
type AccountSource interface {
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
}

// SessionStore reads and destroys the caller's session
type SessionStore interface {
	Read(r *http.Request) (string, error)
	Clear(w http.ResponseWriter)
}

// ThreatRecorder receives ban evasion attempts
type ThreatRecorder interface {
	Record(ctx context.Context, entry domain.ThreatLogEntry)
}

// BanPageRenderer writes the ban notice response
type BanPageRenderer func(w http.ResponseWriter, r *http.Request, reason string)

// Decision is the outcome of authorizing one request
type Decision struct {
	State   domain.AuthState
	Account *domain.Account
}

// Gate maps session account ids to auth decisions
type Gate struct {
	accounts AccountSource
	sessions SessionStore
	threats  ThreatRecorder
	banPage  BanPageRenderer
}

// NewGate creates a gate. threats may be nil.
func NewGate(accounts AccountSource, sessions SessionStore, threats ThreatRecorder, banPage BanPageRenderer) *Gate {
	return &Gate{
		accounts: accounts,
		sessions: sessions,
		threats:  threats,
		banPage:  banPage,
	}
}

// Authorize classifies accountID. The account is fetched fresh on every call so
// a ban applied by another process is seen on the very next request.
// A session pointing at a missing account is treated as anonymous.
func (g *Gate) Authorize(ctx context.Context, accountID string) (Decision, error) {
	if accountID == "" {
		return g.decide(Decision{State: domain.AuthAnonymous}), nil
	}

	acct, err := g.accounts.GetAccount(ctx, accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return g.decide(Decision{State: domain.AuthAnonymous}), nil
	}
	if err != nil {
		return Decision{}, err
	}

	switch {
	case acct.IsBanned:
		return g.decide(Decision{State: domain.AuthAuthenticatedBanned, Account: acct}), nil
	case acct.IsLinked():
		return g.decide(Decision{State: domain.AuthAuthenticatedLinked, Account: acct}), nil
	default:
		return g.decide(Decision{State: domain.AuthAuthenticatedUnlinked, Account: acct}), nil
	}
}

func (g *Gate) decide(d Decision) Decision {
	metrics.AuthDecisions.WithLabelValues(string(d.State)).Inc()
	return d
}

// Middleware authorizes every request and stores the Decision in its context.
// Banned callers never reach next: their session is destroyed, the attempt is
// recorded as ban evasion and the ban page is rendered.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		accountID, err := g.sessions.Read(r)
		if err != nil {
			accountID = ""
		}

		decision, err := g.Authorize(ctx, accountID)
		if err != nil {
			log.Error(LogMsgAuthorizeFailed, "error", err)
			http.Error(w, ErrMsgUnavailable, http.StatusServiceUnavailable)
			return
		}

		if accountID != "" && decision.State == domain.AuthAnonymous {
			log.Info(LogMsgStaleSession)
			g.sessions.Clear(w)
		}

		if decision.State == domain.AuthAuthenticatedBanned {
			g.denyBanned(w, r, decision.Account)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithDecision(ctx, decision)))
	})
}

func (g *Gate) denyBanned(w http.ResponseWriter, r *http.Request, acct *domain.Account) {
	logger.FromContext(r.Context()).Warn(LogMsgBannedAccessDeny, "account_id", acct.ID, "path", r.URL.Path)

	g.sessions.Clear(w)

	if g.threats != nil {
		entry := middleware.ThreatEntry(r, domain.ThreatBanEvasion, domain.ThreatActionBlocked)
		entry.AccountID = domain.StringPtr(acct.ID)
		entry.Metadata = map[string]interface{}{"username": acct.Username}
		g.threats.Record(r.Context(), entry)
	}

	g.banPage(w, r, acct.BanReasonOr(domain.DefaultBanNotice))
}

// RequireLinked lets only linked accounts through. Anonymous callers go to the
// login page and unlinked ones to the link page.
func RequireLinked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch FromContext(r.Context()).State {
		case domain.AuthAuthenticatedLinked:
			next.ServeHTTP(w, r)
		case domain.AuthAuthenticatedUnlinked:
			http.Redirect(w, r, PathLink, http.StatusSeeOther)
		default:
			http.Redirect(w, r, PathLogin, http.StatusSeeOther)
		}
	})
}

// RequireUnlinked guards the link page. Linked accounts are sent home.
func RequireUnlinked(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch FromContext(r.Context()).State {
		case domain.AuthAuthenticatedUnlinked:
			next.ServeHTTP(w, r)
		case domain.AuthAuthenticatedLinked:
			http.Redirect(w, r, PathHome, http.StatusSeeOther)
		default:
			http.Redirect(w, r, PathLogin, http.StatusSeeOther)
		}
	})
}
