package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgRequestTooLarge       = "Request body too large"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgInvalidQueryParam = "Invalid %s query parameter"
	ErrMsgMissingPathParam  = "Missing %s"
)

// Success messages for API responses
const (
	MsgPasswordReset = "Password updated"
)

// Operation names used in logs
const (
	OpLink          = "Link account"
	OpReportBan     = "Report ban"
	OpAdminBan      = "Admin ban"
	OpGetProfile    = "Get profile"
	OpResetPassword = "Reset password"
	OpListThreats   = "List threats"
	OpSignup        = "Signup"
	OpLogin         = "Login"
)
