package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"testplanner/internal/api"
	"testplanner/pkg/logging"

	"github.com/hashicorp/go-retryablehttp"
)

const maxErrorBody = 4096

// Options tunes the platform client. Zero values fall back to the defaults
// applied in NewClient.
type Options struct {
	BaseURL        string
	PollInterval   time.Duration
	MaxPolls       int
	MaxRetries     int // total attempts per request, including the first
	InitialDelay   time.Duration
	MaxJitter      time.Duration
	RequestTimeout time.Duration

	// HTTPClient replaces the underlying transport client (tests).
	HTTPClient *http.Client
}

// Client talks to one account of the integration platform. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	username   string
	password   string
	atomID     string
	http       *retryablehttp.Client
	opts       Options
	pollBudget time.Duration
}

var _ api.Platform = (*Client)(nil)

// NewClient creates a client for the account described by creds.
func NewClient(creds api.Credentials, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.boomi.com/api/rest/v1"
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.MaxPolls <= 0 {
		opts.MaxPolls = 180
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.InitialDelay < 0 {
		opts.InitialDelay = 0
	}
	if opts.MaxJitter < 0 {
		opts.MaxJitter = 0
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	rc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	rc.HTTPClient.Timeout = opts.RequestTimeout
	rc.RetryMax = opts.MaxRetries - 1
	rc.Logger = leveledLogger{}
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	initialDelay, maxJitter := opts.InitialDelay, opts.MaxJitter
	rc.Backoff = func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return retryDelay(initialDelay, maxJitter, attemptNum)
	}

	c := &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/") + "/" + creds.AccountID,
		username: creds.Username,
		password: creds.PasswordOrToken,
		atomID:   creds.ExecutionInstanceID,
		http:     rc,
		opts:     opts,
	}
	c.pollBudget = time.Duration(opts.MaxPolls) * (opts.PollInterval + opts.RequestTimeout)
	return c
}

// retryDelay is initialDelay * 2^attempt plus a random jitter below maxJitter.
// attempt is zero for the first retry.
func retryDelay(initialDelay, maxJitter time.Duration, attempt int) time.Duration {
	if attempt > 30 {
		attempt = 30
	}
	delay := initialDelay * time.Duration(1<<uint(attempt))
	if maxJitter > 0 {
		delay += time.Duration(rand.Int64N(int64(maxJitter)))
	}
	return delay
}

type attemptsKey struct{}

// checkRetry retries only transient unavailability (503, 504). It also counts
// attempts for the request, so failures can report how often they were tried.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if n, ok := ctx.Value(attemptsKey{}).(*atomic.Int32); ok {
		n.Add(1)
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return false, err
	}
	switch resp.StatusCode {
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		logging.Warn("Platform", "Platform answered %d for %s, retrying", resp.StatusCode, resp.Request.URL.Path)
		return true, nil
	}
	return false, nil
}

// do sends one request and decodes a 2xx JSON response into out (if non-nil).
// body may be nil, a string (sent as text/plain) or any JSON-encodable value.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var (
		payload     []byte
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case string:
		payload, contentType = []byte(b), "text/plain"
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s: %w", path, err)
		}
		payload, contentType = encoded, "application/json"
	}

	attempts := &atomic.Int32{}
	reqCtx := context.WithValue(ctx, attemptsKey{}, attempts)

	var rawBody interface{}
	if payload != nil {
		rawBody = payload
	}
	req, err := retryablehttp.NewRequestWithContext(reqCtx, method, c.baseURL+path, rawBody)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &api.PlatformError{Attempts: max(int(attempts.Load()), 1), Message: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &api.PlatformError{StatusCode: resp.StatusCode, Attempts: int(attempts.Load()), Err: err}
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &api.PlatformError{
				StatusCode: resp.StatusCode,
				Attempts:   int(attempts.Load()),
				Message:    fmt.Sprintf("unexpected response from %s", path),
				Err:        err,
			}
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &api.AuthenticationError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("authentication with the integration platform failed (status %d). Please check your credentials", resp.StatusCode),
		}

	default:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &api.PlatformError{
			StatusCode: resp.StatusCode,
			Attempts:   max(int(attempts.Load()), 1),
			Message:    errorMessage(data, resp.Status),
		}
	}
}

// errorMessage extracts the platform's "message" field, falling back to the
// raw body or the HTTP status text.
func errorMessage(body []byte, status string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
		return envelope.Message
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return s
	}
	return status
}

// isMissing reports whether err is the platform's way of saying a component
// does not exist (400 or 404).
func isMissing(err error) bool {
	var pe *api.PlatformError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode == http.StatusBadRequest || pe.StatusCode == http.StatusNotFound
}

// leveledLogger routes retryablehttp's logs into pkg/logging.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logging.Error("Platform", nil, "%s%s", msg, formatKeysAndValues(keysAndValues))
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Info("Platform", "%s%s", msg, formatKeysAndValues(keysAndValues))
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logging.Debug("Platform", "%s%s", msg, formatKeysAndValues(keysAndValues))
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logging.Warn("Platform", "%s%s", msg, formatKeysAndValues(keysAndValues))
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func formatKeysAndValues(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
	}
	return b.String()
}
