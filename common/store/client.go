package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Client talks to the hosted relational backend through its generic REST
// interface: filtered row reads, inserts and partial updates on tables, plus
// the identity provider's password-grant token endpoint.

// Config holds data store configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DefaultConfig returns store config from environment variables
func DefaultConfig() *Config {
	return &Config{
		BaseURL: getEnv("STORE_URL", "http://127.0.0.1:54321"),
		APIKey:  getEnv("STORE_API_KEY", ""),
		Timeout: 10 * time.Second,
	}
}

// Client is the REST data store client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new data store client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// ============================================================
// Row filters
// ============================================================

// Filter is a single column predicate, rendered as column=op.value
type Filter struct {
	Column string
	Op     string
	Value  string
}

// Eq builds an equality filter
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

func encodeFilters(filters []Filter) string {
	values := url.Values{}
	for _, f := range filters {
		values.Add(f.Column, fmt.Sprintf("%s.%s", f.Op, f.Value))
	}
	return values.Encode()
}

// ============================================================
// Table operations
// ============================================================

// Select reads rows matching the filters into dest (a pointer to a slice)
func (c *Client) Select(ctx context.Context, table string, filters []Filter, dest interface{}) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.config.BaseURL, table)
	if q := encodeFilters(filters); q != "" {
		endpoint += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build select request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode rows from %s: %w", table, err)
	}
	return nil
}

// Insert writes a new row. When dest is non-nil the created representation
// is decoded into it.
func (c *Client) Insert(ctx context.Context, table string, payload interface{}, dest interface{}) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.config.BaseURL, table)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode row for %s: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build insert request: %w", err)
	}
	c.setHeaders(req)
	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("failed to decode inserted row from %s: %w", table, err)
		}
	}
	return nil
}

// Patch partially updates rows matching the filters
func (c *Client) Patch(ctx context.Context, table string, filters []Filter, payload interface{}) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.config.BaseURL, table)
	if q := encodeFilters(filters); q != "" {
		endpoint += "?" + q
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode patch for %s: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build patch request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Prefer", "return=minimal")

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// ============================================================
// Identity provider
// ============================================================

// AdminUser is the identity payload returned by the token endpoint
type AdminUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// AdminSession is the result of a successful password-grant sign in
type AdminSession struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	User        AdminUser `json:"user"`
}

// AdminSignIn submits credentials to the identity provider's password-grant
// endpoint. A non-2xx status or an unresolvable identity payload is an error.
func (c *Client) AdminSignIn(ctx context.Context, email, password string) (*AdminSession, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.config.BaseURL)

	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build token request: %w", err)
	}
	c.setHeaders(req)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var session AdminSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if session.AccessToken == "" || session.User.ID == "" {
		return nil, fmt.Errorf("token response missing identity")
	}
	return &session, nil
}

// ============================================================
// Internals
// ============================================================

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("store returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
