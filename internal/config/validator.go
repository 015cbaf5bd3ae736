package config

import (
	"fmt"
	"strings"
)

// Validate checks the loaded configuration for missing or unsafe values
func (c *Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, EnvAPIKey)
	}
	if c.SessionSecret == "" {
		missing = append(missing, EnvSessionSecret)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s environment variable must be set for security", strings.Join(missing, ", "))
	}

	if !c.IsDevelopment() && len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("%s must be at least %d characters outside development", EnvSessionSecret, MinSessionSecretLength)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Port)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("%s must be positive", EnvRateLimitRequests)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvStoreTimeout)
	}

	return nil
}

// Warnings returns non-fatal configuration issues worth logging at startup
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == DefaultDBPassword && !c.IsDevelopment() {
		warnings = append(warnings, "DB_PASSWORD appears to be using the default value - please use a secure password")
	}
	if c.DiscordToken == "" {
		warnings = append(warnings, "DISCORD_TOKEN not set - ban reasons will fall back to the default")
	}
	if c.DiscordToken != "" && c.DiscordGuildID == "" {
		warnings = append(warnings, "DISCORD_GUILD_ID not set - audit log lookups need the guild id from the ban event")
	}
	if !c.CookieSecure && !c.IsDevelopment() {
		warnings = append(warnings, "COOKIE_SECURE is false outside development")
	}

	return warnings
}
