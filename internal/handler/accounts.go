package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/PulseHub_Go/internal/account"
)

// PasswordResetRequest is sent by the bot's /reset-password command
type PasswordResetRequest struct {
	DiscordID   string `json:"discord_id" validate:"required,max=64"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// HandleGetAccountByDiscord handles GET /api/v1/accounts/discord/{discordID}
func HandleGetAccountByDiscord(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		discordID := chi.URLParam(r, "discordID")

		profile, err := svc.ProfileByDiscordID(r.Context(), discordID)
		if err != nil {
			respondServiceError(w, r, OpGetProfile, err)
			return
		}

		respondJSON(w, http.StatusOK, profile)
	}
}

// HandlePasswordReset handles POST /api/v1/accounts/password-reset
func HandlePasswordReset(svc account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpResetPassword); err != nil {
			return
		}

		if err := svc.ResetPasswordByDiscordID(r.Context(), req.DiscordID, req.NewPassword); err != nil {
			respondServiceError(w, r, OpResetPassword, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPasswordReset})
	}
}
