package domain

// Platform names
const (
	PlatformDiscord = "discord"
)

// DefaultBanReason is stored when no moderation reason can be resolved.
const DefaultBanReason = "No reason provided"

// DefaultBanNotice is shown on the ban page when the account carries no reason.
const DefaultBanNotice = "Banned from service."

// AuthState is the per-request state of a caller as seen by the auth gate.
type AuthState string

const (
	AuthAnonymous             AuthState = "anonymous"
	AuthAuthenticatedUnlinked AuthState = "authenticated_unlinked"
	AuthAuthenticatedLinked   AuthState = "authenticated_linked"
	AuthAuthenticatedBanned   AuthState = "authenticated_banned"
)

// BanOutcome describes what a ban notification did to the account store.
type BanOutcome string

const (
	BanOutcomeBanned        BanOutcome = "banned"
	BanOutcomeAlreadyBanned BanOutcome = "already_banned"
	BanOutcomeNoAccount     BanOutcome = "no_account"
	BanOutcomeFailed        BanOutcome = "failed"
)
