package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

// API paths on the PulseHub server
const (
	PathLink          = "/api/v1/link"
	PathBans          = "/api/v1/bans"
	PathAccountLookup = "/api/v1/accounts/discord/"
	PathPasswordReset = "/api/v1/accounts/password-reset"
	PathHealthz       = "/healthz"
)

// Client defaults
const (
	DefaultClientTimeout = 10 * time.Second
	DefaultMaxRetries    = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// APIError is a non-2xx answer from the PulseHub API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not an APIError
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// APIClient handles communication with the PulseHub API
type APIClient struct {
	BaseURL    string
	Client     *http.Client
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: DefaultClientTimeout,
		},
		APIKey:     apiKey,
		MaxRetries: DefaultMaxRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// LinkResult is the answer to a successful link
type LinkResult struct {
	Username string `json:"username"`
}

// BanReport is sent for every guild ban the bot sees
type BanReport struct {
	DiscordID string `json:"discord_id"`
	GuildID   string `json:"guild_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// BanReportResult mirrors the server's ban outcome
type BanReportResult struct {
	Outcome   domain.BanOutcome `json:"outcome"`
	AccountID string            `json:"account_id,omitempty"`
	Reason    string            `json:"reason,omitempty"`
}

// Link redeems a link code for the given Discord user
func (c *APIClient) Link(ctx context.Context, code, discordID string) (*LinkResult, error) {
	req := map[string]string{
		"code":       code,
		"discord_id": discordID,
	}

	var result LinkResult
	if err := c.doRequestAndParse(ctx, http.MethodPost, PathLink, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReportBan forwards a guild ban to the server
func (c *APIClient) ReportBan(ctx context.Context, report BanReport) (*BanReportResult, error) {
	var result BanReportResult
	if err := c.doRequestAndParse(ctx, http.MethodPost, PathBans, report, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccountByDiscord fetches the account linked to a Discord user
func (c *APIClient) GetAccountByDiscord(ctx context.Context, discordID string) (*domain.AccountProfile, error) {
	var profile domain.AccountProfile
	if err := c.doRequestAndParse(ctx, http.MethodGet, PathAccountLookup+url.PathEscape(discordID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ResetPassword sets a new password on the account linked to a Discord user
func (c *APIClient) ResetPassword(ctx context.Context, discordID, newPassword string) error {
	req := map[string]string{
		"discord_id":   discordID,
		"new_password": newPassword,
	}
	return c.doRequestAndParse(ctx, http.MethodPost, PathPasswordReset, req, nil)
}

// Healthz reports whether the server answers its liveness probe
func (c *APIClient) Healthz(ctx context.Context) error {
	return c.doRequestAndParse(ctx, http.MethodGet, PathHealthz, nil, nil)
}

// doRequestAndParse performs the request and decodes a 2xx body into out.
// Other statuses come back as *APIError carrying the server's message.
func (c *APIClient) doRequestAndParse(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request with retry logic. Transport failures and
// 5xx answers are retried with exponential backoff; everything else returns.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	target := c.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := c.RetryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			return resp, nil
		}

		// Server error - retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
