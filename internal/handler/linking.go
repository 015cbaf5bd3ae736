package handler

import (
	"net/http"

	"github.com/osse101/PulseHub_Go/internal/linking"
)

// LinkRequest is sent by the bot's /link command
type LinkRequest struct {
	Code      string `json:"code" validate:"required,max=32"`
	DiscordID string `json:"discord_id" validate:"required,max=64"`
}

// LinkResponse confirms which account was linked
type LinkResponse struct {
	Username string `json:"username"`
}

// HandleLink handles POST /api/v1/link.
// Format is checked by the service so each failure keeps its own status and message.
func HandleLink(svc linking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LinkRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpLink); err != nil {
			return
		}

		result, err := svc.LinkAccount(r.Context(), req.Code, req.DiscordID)
		if err != nil {
			respondServiceError(w, r, OpLink, err)
			return
		}

		respondJSON(w, http.StatusOK, LinkResponse{Username: result.Username})
	}
}
