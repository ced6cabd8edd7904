package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"sports_dashboard/internal/domain"
)

const userAgent = "SportsDashboard/1.0"

// Config holds the upstream REST API configuration.
type Config struct {
	BaseURL        string
	CookieName     string
	CurrentUser    string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the session-authenticated REST layer.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	cookieName     string
	currentUser    string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// statusError is a non-2xx upstream response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d", e.code)
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		cookieName:     cfg.CookieName,
		currentUser:    cfg.CurrentUser,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "api"),
	}
}

// CurrentUser fetches the viewer owning cookie.
func (c *Client) CurrentUser(ctx context.Context, cookie string) (*domain.User, error) {
	var u currentUser
	if err := c.Get(ctx, c.currentUser, cookie, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("current user without id: %w", domain.ErrUnavailable)
	}
	user := u.toDomain()
	return &user, nil
}

// Get fetches path and decodes the JSON body into out. Any transport failure,
// non-2xx status or undecodable body is reported as domain.ErrUnavailable.
// Server errors and transport failures are retried, client errors are not.
func (c *Client) Get(ctx context.Context, path, cookie string, out any) error {
	url := c.baseURL + path

	attempt := 0
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		body, err := c.doRequest(ctx, url, cookie)
		if err != nil {
			var se *statusError
			if errors.As(err, &se) && se.code < http.StatusInternalServerError {
				return err
			}
			c.logger.Warn("request failed, retrying",
				"path", path,
				"attempt", attempt,
				"error", err,
			)
			return retry.RetryableError(err)
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("get %s: %w", path, errors.Join(ctxErr, domain.ErrUnavailable))
		}
		return fmt.Errorf("get %s: %w: %w", path, domain.ErrUnavailable, err)
	}
	return nil
}

func (c *Client) backoff() retry.Backoff {
	b := retry.NewExponential(c.initialBackoff)
	b = retry.WithCappedDuration(c.maxBackoff, b)
	if c.maxAttempts > 1 {
		b = retry.WithMaxRetries(uint64(c.maxAttempts-1), b)
	} else {
		b = retry.WithMaxRetries(0, b)
	}
	return b
}

func (c *Client) doRequest(ctx context.Context, url, cookie string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: cookie})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
