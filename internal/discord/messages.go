package discord

// Embed colours
const (
	ColorSuccess = 0x2ecc71
	ColorInfo    = 0x3498db
)

// FooterPulseHub is the footer on every embed
const FooterPulseHub = "PulseHub"

// Friendly message constants for Discord responses
const (
	// Linking
	MsgLinkSuccess       = "✅ Your Discord account is now linked to **%s**."
	MsgLinkInvalidFormat = "❌ That doesn't look like a link code. Copy the code exactly as shown on the website."
	MsgLinkCodeNotFound  = "❓ That link code wasn't found. Log in on the website to see your current code."
	MsgLinkAlreadyLinked = "🔗 That account, or your Discord account, is already linked."
	MsgLinkCodeExpired   = "⌛ That link code has expired. Log in on the website for a new one."

	// Account lookup
	MsgNotLinked = "👤 Your Discord account isn't linked to a PulseHub account yet. Use `/link` first."

	// Password reset
	MsgPasswordReset       = "🔑 Your password has been reset. You can log in with it now."
	MsgPasswordTooShort    = "❌ The new password must be at least %d characters."
	MsgPasswordResetDenied = "🚫 This account can't reset its password."

	MsgGenericError = "❌ Something went wrong. Please try again later."
)
