package domain

import "time"

// ThreatReason classifies why an anti-abuse decision was logged.
type ThreatReason string

const (
	ThreatBanEvasion         ThreatReason = "ban_evasion"
	ThreatVPNProxy           ThreatReason = "vpn_proxy"
	ThreatRapidRequests      ThreatReason = "rapid_requests"
	ThreatHeadlessBrowser    ThreatReason = "headless_browser"
	ThreatAdblockDetected    ThreatReason = "adblock_detected"
	ThreatAPIBomb            ThreatReason = "api_bomb"
	ThreatDDoSAttempt        ThreatReason = "ddos_attempt"
	ThreatSuspiciousBehavior ThreatReason = "suspicious_behavior"
)

// ThreatAction is what the middleware did about a threat.
type ThreatAction string

const (
	ThreatActionBlocked    ThreatAction = "blocked"
	ThreatActionRedirected ThreatAction = "redirected"
	ThreatActionLogged     ThreatAction = "logged"
	ThreatActionCaptcha    ThreatAction = "captcha"
)

var validThreatReasons = map[ThreatReason]bool{
	ThreatBanEvasion:         true,
	ThreatVPNProxy:           true,
	ThreatRapidRequests:      true,
	ThreatHeadlessBrowser:    true,
	ThreatAdblockDetected:    true,
	ThreatAPIBomb:            true,
	ThreatDDoSAttempt:        true,
	ThreatSuspiciousBehavior: true,
}

// Valid reports whether r is one of the known threat reasons.
func (r ThreatReason) Valid() bool {
	return validThreatReasons[r]
}

// ThreatLogEntry is an append-only audit record of an anti-abuse decision.
type ThreatLogEntry struct {
	ID          int64                  `json:"id"`
	IP          string                 `json:"ip"`
	UserAgent   string                 `json:"user_agent,omitempty"`
	Fingerprint string                 `json:"fingerprint,omitempty"`
	Reason      ThreatReason           `json:"reason"`
	ActionTaken ThreatAction           `json:"action_taken,omitempty"`
	Endpoint    string                 `json:"endpoint,omitempty"`
	AccountID   *string                `json:"account_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ThreatFilter narrows threat log queries.
type ThreatFilter struct {
	Reason *ThreatReason
	IP     *string
	Since  *time.Time
	Limit  int
}
