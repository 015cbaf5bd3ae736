package authgate

// Redirect targets for gated pages
const (
	PathLogin = "/login"
	PathLink  = "/link"
	PathHome  = "/home"
)

// ErrMsgUnavailable is shown when the account store cannot be reached
const ErrMsgUnavailable = "Service temporarily unavailable. Please try again."

// Log messages
const (
	LogMsgAuthorizeFailed  = "Auth gate account lookup failed"
	LogMsgStaleSession     = "Session refers to missing account, clearing"
	LogMsgBannedAccessDeny = "Banned account denied"
)
