package domain

import "time"

// Account is a PulseHub user identity.
//
// LinkCode and DiscordID are optional-but-unique: nil means "not set" and is never
// compared for uniqueness. Once DiscordID is set the LinkCode is cleared.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	LinkCode     *string   `json:"-"`
	DiscordID    *string   `json:"discord_id,omitempty"`
	IsBanned     bool      `json:"is_banned"`
	BanReason    *string   `json:"ban_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsLinked reports whether a Discord identity has been bound to the account.
func (a *Account) IsLinked() bool {
	return a.DiscordID != nil && *a.DiscordID != ""
}

// HasPendingCode reports whether the account still holds an unconsumed link code.
func (a *Account) HasPendingCode() bool {
	return a.LinkCode != nil && *a.LinkCode != ""
}

// BanReasonOr returns the stored ban reason, or fallback when none is set.
func (a *Account) BanReasonOr(fallback string) string {
	if a.BanReason == nil || *a.BanReason == "" {
		return fallback
	}
	return *a.BanReason
}

// Clone returns a deep copy so callers cannot mutate shared state through pointers.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.LinkCode = clonePtr(a.LinkCode)
	c.DiscordID = clonePtr(a.DiscordID)
	c.BanReason = clonePtr(a.BanReason)
	return &c
}

// AccountProfile is the subset of an account shown to its owner through the bot.
type AccountProfile struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount is the input for creating an account.
type NewAccount struct {
	Username     string
	Email        string
	PasswordHash string
	LinkCode     string
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
