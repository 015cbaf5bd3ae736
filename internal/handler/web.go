package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/PulseHub_Go/internal/account"
	"github.com/osse101/PulseHub_Go/internal/authgate"
	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/middleware"
	"github.com/osse101/PulseHub_Go/internal/web"
)

// PageRenderer renders an HTML page
type PageRenderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page string, data web.PageData)
}

// SessionIssuer starts and ends browser sessions
type SessionIssuer interface {
	Issue(w http.ResponseWriter, accountID string) error
	Clear(w http.ResponseWriter)
}

// ThreatRecorder receives abuse events
type ThreatRecorder interface {
	Record(ctx context.Context, entry domain.ThreatLogEntry)
}

// WebHandlers serves the server-rendered pages
type WebHandlers struct {
	accounts  account.Service
	sessions  SessionIssuer
	pages     PageRenderer
	threats   ThreatRecorder
	inviteURL string
}

// NewWebHandlers creates the page handlers
func NewWebHandlers(accounts account.Service, sessions SessionIssuer, pages PageRenderer, threats ThreatRecorder, inviteURL string) *WebHandlers {
	return &WebHandlers{
		accounts:  accounts,
		sessions:  sessions,
		pages:     pages,
		threats:   threats,
		inviteURL: inviteURL,
	}
}

// HandleSignupPage handles GET /
func (h *WebHandlers) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.pages.Render(w, r, http.StatusOK, web.PageSignup, web.PageData{Title: "Sign up"})
}

// HandleSignup handles POST /signup
func (h *WebHandlers) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Render(w, r, http.StatusBadRequest, web.PageSignup, web.PageData{Title: "Sign up", Error: ErrMsgInvalidRequestError})
		return
	}

	in := account.RegisterInput{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	form := map[string]string{"username": in.Username, "email": in.Email}

	acct, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		data := web.PageData{Title: "Sign up", Error: msg, Form: form}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			data.Error = "Please fix the highlighted fields."
			data.Fields = FormatValidationError(err)
		}
		if status >= http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error(OpSignup+" failed", "error", err)
		}

		h.pages.Render(w, r, status, web.PageSignup, data)
		return
	}

	if !h.startSession(w, r, acct.ID) {
		return
	}
	http.Redirect(w, r, authgate.PathLink, http.StatusSeeOther)
}

// HandleLoginPage handles GET /login
func (h *WebHandlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}
	h.pages.Render(w, r, http.StatusOK, web.PageLogin, web.PageData{Title: "Log in"})
}

// HandleLogin handles POST /login. Unknown identifiers and wrong passwords get
// the same message. Banned accounts see the ban notice and get no session.
func (h *WebHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.pages.Render(w, r, http.StatusBadRequest, web.PageLogin, web.PageData{Title: "Log in", Error: ErrMsgInvalidRequestError})
		return
	}

	identifier := strings.TrimSpace(r.PostFormValue("identifier"))
	form := map[string]string{"identifier": identifier}

	acct, err := h.accounts.Authenticate(r.Context(), identifier, r.PostFormValue("password"))
	if err != nil {
		status, msg := mapServiceErrorToUserMessage(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error(OpLogin+" failed", "error", err)
		}
		h.pages.Render(w, r, status, web.PageLogin, web.PageData{Title: "Log in", Error: msg, Form: form})
		return
	}

	if acct.IsBanned {
		if h.threats != nil {
			entry := middleware.ThreatEntry(r, domain.ThreatBanEvasion, domain.ThreatActionBlocked)
			entry.AccountID = domain.StringPtr(acct.ID)
			h.threats.Record(r.Context(), entry)
		}
		h.sessions.Clear(w)
		h.RenderBanPage(w, r, acct.BanReasonOr(domain.DefaultBanNotice))
		return
	}

	if !h.startSession(w, r, acct.ID) {
		return
	}
	if acct.IsLinked() {
		http.Redirect(w, r, authgate.PathHome, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, authgate.PathLink, http.StatusSeeOther)
}

// HandleLinkPage handles GET /link. Mount behind authgate.RequireUnlinked.
func (h *WebHandlers) HandleLinkPage(w http.ResponseWriter, r *http.Request) {
	acct := authgate.FromContext(r.Context()).Account
	if acct == nil {
		http.Redirect(w, r, authgate.PathLogin, http.StatusSeeOther)
		return
	}

	var code string
	if acct.LinkCode != nil {
		code = *acct.LinkCode
	}

	h.pages.Render(w, r, http.StatusOK, web.PageLink, web.PageData{
		Title:     "Link Discord",
		Account:   accountView(acct),
		LinkCode:  code,
		InviteURL: h.inviteURL,
	})
}

// HandleHome handles GET /home. Mount behind authgate.RequireLinked.
func (h *WebHandlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	acct := authgate.FromContext(r.Context()).Account
	if acct == nil {
		http.Redirect(w, r, authgate.PathLogin, http.StatusSeeOther)
		return
	}
	h.pages.Render(w, r, http.StatusOK, web.PageHome, web.PageData{Title: "Home", Account: accountView(acct)})
}

// HandleLogout handles POST /logout
func (h *WebHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleNotFound renders the 404 page
func (h *WebHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, r, http.StatusNotFound, web.PageNotFound, web.PageData{Title: "Not found"})
}

// RenderBanPage renders the ban notice with status 403. It satisfies
// authgate.BanPageRenderer.
func (h *WebHandlers) RenderBanPage(w http.ResponseWriter, r *http.Request, reason string) {
	h.pages.Render(w, r, http.StatusForbidden, web.PageBan, web.PageData{Title: "Banned", BanReason: reason})
}

func (h *WebHandlers) startSession(w http.ResponseWriter, r *http.Request, accountID string) bool {
	if err := h.sessions.Issue(w, accountID); err != nil {
		logger.FromContext(r.Context()).Error("Failed to start session", "account_id", accountID, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return false
	}
	return true
}

// redirectAuthenticated sends signed-in visitors to the page their state allows
func (h *WebHandlers) redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	switch authgate.FromContext(r.Context()).State {
	case domain.AuthAuthenticatedLinked:
		http.Redirect(w, r, authgate.PathHome, http.StatusSeeOther)
		return true
	case domain.AuthAuthenticatedUnlinked:
		http.Redirect(w, r, authgate.PathLink, http.StatusSeeOther)
		return true
	}
	return false
}

func accountView(acct *domain.Account) *web.AccountView {
	return &web.AccountView{
		Username:  acct.Username,
		Email:     acct.Email,
		Linked:    acct.IsLinked(),
		CreatedAt: acct.CreatedAt,
	}
}
