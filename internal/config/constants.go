package config

import "time"

// Environment variable names
const (
	EnvPort        = "PORT"
	EnvEnvironment = "ENVIRONMENT"
	EnvServiceName = "SERVICE_NAME"
	EnvVersion     = "VERSION"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
	EnvLogDir      = "LOG_DIR"

	EnvDBUser            = "DB_USER"
	EnvDBPassword        = "DB_PASSWORD"
	EnvDBHost            = "DB_HOST"
	EnvDBPort            = "DB_PORT"
	EnvDBName            = "DB_NAME"
	EnvDBMaxConns        = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime = "DB_MAX_CONN_LIFETIME"
	EnvStoreTimeout      = "STORE_TIMEOUT"

	EnvAPIKey         = "API_KEY"
	EnvSessionSecret  = "SESSION_SECRET"
	EnvSessionTTL     = "SESSION_TTL"
	EnvCookieSecure   = "COOKIE_SECURE"
	EnvTrustedProxies = "TRUSTED_PROXIES"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvDiscordToken           = "DISCORD_TOKEN"
	EnvDiscordGuildID         = "DISCORD_GUILD_ID"
	EnvDiscordInviteURL       = "DISCORD_INVITE_URL"
	EnvBanReasonLookupTimeout = "BAN_REASON_LOOKUP_TIMEOUT"
	EnvDefaultBanReason       = "DEFAULT_BAN_REASON"

	EnvThreatLogRetentionDays = "THREAT_LOG_RETENTION_DAYS"
)

// Defaults
const (
	DefaultPort        = "3000"
	DefaultEnvironment = EnvironmentDev
	DefaultServiceName = "pulsehub"
	DefaultVersion     = "dev"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"

	DefaultDBUser            = "postgres"
	DefaultDBPassword        = "postgres"
	DefaultDBHost            = "localhost"
	DefaultDBPort            = "5432"
	DefaultDBName            = "pulsehub"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultStoreTimeout      = 3 * time.Second

	DefaultSessionTTL = 24 * time.Hour

	DefaultRateLimitRequests = 300
	DefaultRateLimitWindow   = 15 * time.Minute

	DefaultDiscordInviteURL       = "https://discord.gg/MmDs5ees4S"
	DefaultBanReasonLookupTimeout = 2 * time.Second
	DefaultBanReason              = "No reason provided"

	DefaultThreatLogRetentionDays = 30
)

// Environment names
const (
	EnvironmentDev         = "dev"
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "prod"
)

// MinSessionSecretLength is enforced outside development environments.
const MinSessionSecretLength = 32
