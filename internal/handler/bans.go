package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PulseHub_Go/internal/bansync"
)

// ReportBanRequest is sent by the bot for every guild ban
type ReportBanRequest struct {
	DiscordID string `json:"discord_id" validate:"required,max=64"`
	GuildID   string `json:"guild_id" validate:"max=64"`
	Reason    string `json:"reason" validate:"max=512"`
}

// AdminBanRequest is the body of an administrative ban
type AdminBanRequest struct {
	Reason string `json:"reason" validate:"max=512"`
}

// HandleReportBan handles POST /api/v1/bans.
// The pipeline never fails the caller: every processed event answers 202 with its outcome.
func HandleReportBan(svc bansync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReportBanRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpReportBan); err != nil {
			return
		}

		result := svc.OnExternalBan(r.Context(), bansync.BanEvent{
			DiscordID:  req.DiscordID,
			GuildID:    req.GuildID,
			ReasonHint: req.Reason,
		})

		respondJSON(w, http.StatusAccepted, result)
	}
}

// HandleAdminBan handles POST /api/v1/admin/accounts/{accountID}/ban
func HandleAdminBan(svc bansync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := chi.URLParam(r, "accountID")

		var req AdminBanRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpAdminBan); err != nil {
			return
		}

		result, err := svc.BanAccount(r.Context(), accountID, req.Reason)
		if err != nil {
			respondServiceError(w, r, OpAdminBan, err)
			return
		}

		respondJSON(w, http.StatusOK, result)
	}
}
