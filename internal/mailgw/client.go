package mailgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public mail.gw API
const DefaultBaseURL = "https://api.mail.gw"

// Client is a mail.gw API client.
// Every public method degrades network and HTTP failures to an empty result
// (empty string, nil, empty slice or false) and logs the cause.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config for mail.gw client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// APIError is a non-2xx response from the provider
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s %s: %s (status %d)", e.Method, e.Path, e.Body, e.Status)
}

// NewClient creates a new mail.gw API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "mailgw"),
	}
}

// BaseURL returns the provider root URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Domain returns the first domain of the provider catalog, or "" if none
func (c *Client) Domain(ctx context.Context) string {
	data, err := c.do(ctx, http.MethodGet, "/domains", "", nil)
	if err != nil {
		c.logger.Error("failed to fetch domains", "error", err)
		return ""
	}

	domains, err := decodeCollection[Domain](data)
	if err != nil {
		c.logger.Error("failed to parse domains", "error", err)
		return ""
	}
	if len(domains) == 0 {
		c.logger.Warn("provider returned an empty domain catalog")
		return ""
	}

	return domains[0].Domain
}

// CreateAccount registers a new mailbox; nil means taken address or outage
func (c *Client) CreateAccount(ctx context.Context, address, password string) *Account {
	body := map[string]string{
		"address":  address,
		"password": password,
	}

	data, err := c.do(ctx, http.MethodPost, "/accounts", "", body)
	if err != nil {
		c.logger.Error("failed to create account", "address", address, "error", err)
		return nil
	}

	var account Account
	if err := json.Unmarshal(data, &account); err != nil {
		c.logger.Error("failed to parse account", "address", address, "error", err)
		return nil
	}
	if account.ID == "" {
		c.logger.Error("provider returned account without id", "address", address)
		return nil
	}

	return &account
}

// Token exchanges credentials for a bearer token, or "" on failure
func (c *Client) Token(ctx context.Context, address, password string) string {
	body := map[string]string{
		"address":  address,
		"password": password,
	}

	data, err := c.do(ctx, http.MethodPost, "/token", "", body)
	if err != nil {
		c.logger.Error("failed to get token", "address", address, "error", err)
		return ""
	}

	var resp tokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.logger.Error("failed to parse token", "address", address, "error", err)
		return ""
	}

	return resp.Token
}

// Messages lists the messages of the authenticated mailbox in provider order
func (c *Client) Messages(ctx context.Context, token string) []MessageSummary {
	data, err := c.do(ctx, http.MethodGet, "/messages", token, nil)
	if err != nil {
		c.logger.Error("failed to fetch messages", "error", err)
		return []MessageSummary{}
	}

	messages, err := decodeCollection[MessageSummary](data)
	if err != nil {
		c.logger.Error("failed to parse messages", "error", err)
		return []MessageSummary{}
	}
	if messages == nil {
		messages = []MessageSummary{}
	}

	return messages
}

// Message fetches the full content of a single message, or nil
func (c *Client) Message(ctx context.Context, token, messageID string) *Message {
	path := "/messages/" + url.PathEscape(messageID)
	data, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		c.logger.Error("failed to fetch message", "message_id", messageID, "error", err)
		return nil
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.logger.Error("failed to parse message", "message_id", messageID, "error", err)
		return nil
	}

	return &msg
}

// DeleteAccount deletes a provider account; best-effort
func (c *Client) DeleteAccount(ctx context.Context, token, accountID string) bool {
	path := "/accounts/" + url.PathEscape(accountID)
	if _, err := c.do(ctx, http.MethodDelete, path, token, nil); err != nil {
		c.logger.Error("failed to delete account", "account_id", accountID, "error", err)
		return false
	}

	c.logger.Info("account deleted", "account_id", accountID)
	return true
}

// do sends a single request and returns the body of a 2xx response
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/ld+json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   string(respBody),
		}
	}

	return respBody, nil
}
