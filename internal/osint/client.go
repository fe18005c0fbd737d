// Package osint is a client for the OSINT backend service, which wraps
// command-line reconnaissance tools (sherlock, maigret, holehe, phone lookup)
// behind a small JSON API.
package osint

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldworks/skiptrace/internal/errors"
	"golang.org/x/time/rate"
)

// FoundSite is one profile hit from a username search.
type FoundSite struct {
	Site   string `json:"site"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// UsernameResult is the backend's response for sherlock and maigret searches.
type UsernameResult struct {
	Username      string      `json:"username"`
	SearchedAt    string      `json:"searched_at"`
	Tool          string      `json:"tool"`
	TotalSites    int         `json:"total_sites"`
	Found         []FoundSite `json:"found"`
	NotFound      []string    `json:"not_found"`
	Errors        []string    `json:"errors"`
	ExecutionTime float64     `json:"execution_time"`
}

// RegisteredService is one service where an email address has an account.
type RegisteredService struct {
	Service string `json:"service"`
	Domain  string `json:"domain,omitempty"`
}

// EmailResult is the backend's response for holehe email discovery.
type EmailResult struct {
	Email         string              `json:"email"`
	SearchedAt    string              `json:"searched_at"`
	Tool          string              `json:"tool"`
	RegisteredOn  []RegisteredService `json:"registered_on"`
	NotRegistered []string            `json:"not_registered"`
	ExecutionTime float64             `json:"execution_time"`
}

// PhoneResult is the backend's response for phone number intelligence.
type PhoneResult struct {
	Phone         string            `json:"phone"`
	SearchedAt    string            `json:"searched_at"`
	Carrier       string            `json:"carrier,omitempty"`
	LineType      string            `json:"line_type,omitempty"`
	Location      map[string]string `json:"location,omitempty"`
	SocialMedia   []FoundSite       `json:"social_media"`
	ExecutionTime float64           `json:"execution_time"`
}

// Client talks to one OSINT backend. The rate limiter covers every outgoing
// request because the backend runs slow subprocess tools and falls over when
// hammered.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 4),
		logger:     logger.With("source", "osint.Client"),
	}
}

// SearchUsername runs a sherlock username search.
func (c *Client) SearchUsername(ctx context.Context, username string) (UsernameResult, error) {
	var result UsernameResult
	err := c.post(ctx, "/api/sherlock", map[string]any{"username": username}, &result)
	return result, err
}

// DeepSearchUsername runs the slower maigret search, which covers more sites.
func (c *Client) DeepSearchUsername(ctx context.Context, username string) (UsernameResult, error) {
	var result UsernameResult
	err := c.post(ctx, "/api/maigret", map[string]any{"username": username}, &result)
	return result, err
}

// SearchEmail runs holehe account discovery for an email address.
func (c *Client) SearchEmail(ctx context.Context, email string) (EmailResult, error) {
	var result EmailResult
	err := c.post(ctx, "/api/holehe", map[string]any{"email": email}, &result)
	return result, err
}

// SearchPhone looks up carrier, line type, and linked social media for a
// phone number.
func (c *Client) SearchPhone(ctx context.Context, phone string, countryCode string) (PhoneResult, error) {
	if countryCode == "" {
		countryCode = "US"
	}
	var result PhoneResult
	err := c.post(ctx, "/api/phone", map[string]any{"phone": phone, "country_code": countryCode}, &result)
	return result, err
}

func (c *Client) post(ctx context.Context, path string, request any, response any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "wait for rate limiter")
	}

	body, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "marshal request", slog.String("path", path))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request", slog.String("path", path))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "call backend", slog.String("path", path))
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "close response body", errors.SlogError(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return errors.New("backend returned non-OK status",
			slog.String("path", path), slog.Int("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return errors.Wrap(err, "decode response", slog.String("path", path))
	}
	return nil
}
