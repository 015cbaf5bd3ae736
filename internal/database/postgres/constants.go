package postgres

import "time"

// Unique index names from migrations/00001_create_accounts.sql
const (
	ConstraintUsername  = "accounts_username_lower_key"
	ConstraintEmail     = "accounts_email_lower_key"
	ConstraintLinkCode  = "accounts_link_code_key"
	ConstraintDiscordID = "accounts_discord_id_key"
)

// DefaultStoreTimeout applies when a repository is built without an explicit timeout
const DefaultStoreTimeout = 3 * time.Second

// DefaultThreatListLimit caps threat log listings without an explicit limit
const DefaultThreatListLimit = 100

// MaxThreatListLimit caps any threat log listing
const MaxThreatListLimit = 1000

// Error Messages
const (
	ErrMsgFailedToCreateAccount   = "failed to create account"
	ErrMsgFailedToGetAccount      = "failed to get account"
	ErrMsgFailedToConsumeLinkCode = "failed to consume link code"
	ErrMsgFailedToSetBanned       = "failed to set banned"
	ErrMsgFailedToUpdatePassword  = "failed to update password"
	ErrMsgFailedToCheckLinkCode   = "failed to check link code"
	ErrMsgFailedToInsertThreat    = "failed to insert threat log entry"
	ErrMsgFailedToListThreats     = "failed to list threat log entries"
	ErrMsgFailedToDeleteThreats   = "failed to delete threat log entries"
)
