package account

const (
	// DefaultBcryptCost matches the work factor existing hashes were created with
	DefaultBcryptCost = 12

	// MaxCreateAttempts bounds retries when a freshly generated link code loses a race
	MaxCreateAttempts = 3

	// MinResetPasswordLength applies to resets issued through the Discord bot
	MinResetPasswordLength = 6

	// MaxPasswordLength is the bcrypt input limit
	MaxPasswordLength = 72
)

// Log messages
const (
	LogMsgAccountRegistered   = "Account registered"
	LogMsgLinkCodeCollision   = "Link code collided on insert, regenerating"
	LogMsgLoginFailed         = "Login failed"
	LogMsgPasswordReset       = "Password reset via Discord"
	LogMsgPasswordResetDenied = "Password reset denied"
)
