package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultUserAgent = "expertbook/dev"
	defaultTimeout   = 30 * time.Second

	// DefaultErrorMessage is shown when a failed response carries no message.
	DefaultErrorMessage = "Network error"
)

// Config controls how the Client behaves.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	UserAgent  string
	// SessionID is sent as X-Session-ID so backend logs can be correlated.
	SessionID string
}

// Client talks to the scheduling backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string
	sessionID  string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// New creates a Client. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout < 0 {
			timeout = 0
		} else if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
		sessionID:  cfg.SessionID,
	}, nil
}

// WithSession returns a copy of c that tags requests with sessionID and
// logs under it. The underlying HTTP client is shared.
func (c *Client) WithSession(sessionID string) *Client {
	cp := *c
	cp.sessionID = sessionID
	cp.logger = c.logger.With(zap.String("session", sessionID))
	return &cp
}

// SessionID returns the id sent as X-Session-ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// FindMatch asks the backend for an available representative.
func (c *Client) FindMatch(ctx context.Context, req MatchRequest) (*Match, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("client: marshal match request: %w", err)
	}

	data, err := c.post(ctx, PathCreateEvent, body)
	if err != nil {
		return nil, err
	}

	var m Match
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("client: decode match: %w", err)
	}
	return &m, nil
}

// ConfirmBooking sends the match back, unchanged, to record the booking.
func (c *Client) ConfirmBooking(ctx context.Context, m *Match) (*ConfirmResponse, error) {
	if m == nil {
		return nil, errors.New("client: no match to confirm")
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("client: marshal match: %w", err)
	}

	data, err := c.post(ctx, PathConfirmBooking, body)
	if err != nil {
		return nil, err
	}

	var resp ConfirmResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("client: decode confirmation: %w", err)
		}
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("backend request failed",
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("client: http error: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	c.logger.Debug("backend request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, data)
	}
	return data, nil
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: DefaultErrorMessage}
	var body ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// UserMessage returns the text to show for a failed request: the backend's
// own message when it sent one, otherwise DefaultErrorMessage.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return DefaultErrorMessage
}
