package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string

	LogLevel  string
	LogFormat string
	LogDir    string // optional; also write logs to timestamped files here

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration
	StoreTimeout      time.Duration

	// Security
	APIKey         string // API key guarding the internal /api routes
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	TrustedProxies []string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Discord
	DiscordToken           string // optional; enables audit-log ban reasons
	DiscordGuildID         string
	DiscordInviteURL       string
	BanReasonLookupTimeout time.Duration
	DefaultBanReason       string

	// Threat log
	ThreatLogRetentionDays int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName: getEnv(EnvServiceName, DefaultServiceName),
		Version:     getEnv(EnvVersion, DefaultVersion),
		LogLevel:    strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv(EnvLogFormat, DefaultLogFormat)),
		LogDir:      getEnv(EnvLogDir, ""),

		DBUser:            getEnv(EnvDBUser, DefaultDBUser),
		DBPassword:        getEnv(EnvDBPassword, DefaultDBPassword),
		DBHost:            getEnv(EnvDBHost, DefaultDBHost),
		DBPort:            getEnv(EnvDBPort, DefaultDBPort),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
		StoreTimeout:      getEnvAsDuration(EnvStoreTimeout, DefaultStoreTimeout),

		APIKey:         getEnv(EnvAPIKey, ""),
		SessionSecret:  getEnv(EnvSessionSecret, ""),
		SessionTTL:     getEnvAsDuration(EnvSessionTTL, DefaultSessionTTL),
		CookieSecure:   getEnvAsBool(EnvCookieSecure, false),
		TrustedProxies: getEnvAsList(EnvTrustedProxies),

		RateLimitRequests: getEnvAsInt(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvAsDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		DiscordToken:           getEnv(EnvDiscordToken, ""),
		DiscordGuildID:         getEnv(EnvDiscordGuildID, ""),
		DiscordInviteURL:       getEnv(EnvDiscordInviteURL, DefaultDiscordInviteURL),
		BanReasonLookupTimeout: getEnvAsDuration(EnvBanReasonLookupTimeout, DefaultBanReasonLookupTimeout),
		DefaultBanReason:       getEnv(EnvDefaultBanReason, DefaultBanReason),

		ThreatLogRetentionDays: getEnvAsInt(EnvThreatLogRetentionDays, DefaultThreatLogRetentionDays),
	}

	portStr := getEnv(EnvPort, DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDev || c.Environment == EnvironmentDevelopment
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on absence or error
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string ("10m", "2h"), falling back to the default
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool parses a boolean variable, falling back to the default
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
