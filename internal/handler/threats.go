package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/threatlog"
)

// ThreatListResponse wraps a page of threat log entries
type ThreatListResponse struct {
	Threats []domain.ThreatLogEntry `json:"threats"`
	Count   int                     `json:"count"`
}

// HandleListThreats handles GET /api/v1/admin/threats?reason=&ip=&since=&limit=
func HandleListThreats(svc threatlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, param, ok := parseThreatFilter(r)
		if !ok {
			respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgInvalidQueryParam, param))
			return
		}

		threats, err := svc.List(r.Context(), filter)
		if err != nil {
			respondServiceError(w, r, OpListThreats, err)
			return
		}
		if threats == nil {
			threats = []domain.ThreatLogEntry{}
		}

		respondJSON(w, http.StatusOK, ThreatListResponse{Threats: threats, Count: len(threats)})
	}
}

// parseThreatFilter reads the list filters. On failure it returns the offending parameter.
func parseThreatFilter(r *http.Request) (domain.ThreatFilter, string, bool) {
	var filter domain.ThreatFilter

	if raw := GetOptionalQueryParam(r, "reason", ""); raw != "" {
		reason := domain.ThreatReason(raw)
		if !reason.Valid() {
			return filter, "reason", false
		}
		filter.Reason = &reason
	}

	if ip := GetOptionalQueryParam(r, "ip", ""); ip != "" {
		filter.IP = &ip
	}

	if raw := GetOptionalQueryParam(r, "since", ""); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, "since", false
		}
		filter.Since = &since
	}

	if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, "limit", false
		}
		filter.Limit = limit
	}

	return filter, "", true
}
