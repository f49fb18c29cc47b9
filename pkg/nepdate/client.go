package nepdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nepdate/pkg/buildinfo"
	errs "github.com/matzehuels/nepdate/pkg/errors"
	"github.com/matzehuels/nepdate/pkg/observability"
)

const (
	// DefaultBaseURL is the public conversion API.
	DefaultBaseURL = "https://sudhanparajuli.com.np/api"

	// DefaultTimeout bounds a single round trip.
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a per-request UUID for correlating logs.
	RequestIDHeader = "X-Request-Id"

	maxBodyBytes = 1 << 20
)

// Client performs single conversion requests against the remote API.
// It never retries; wrap it with [RetryingDoer] for that.
//
// The underlying http.Client is reused across calls, so one Client
// should be kept for the lifetime of the caller. Client is safe for
// concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
	headers map[string]string
	logger  *log.Logger
	newID   func() string
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL overrides [DefaultBaseURL]. A trailing slash is ignored.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides [DefaultTimeout]. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the default http.Client, e.g. to share a
// transport. The client timeout still applies per request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return WithHeader("User-Agent", ua)
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger used for request tracing. Requests are
// logged at debug level and failures at warn level by [Client.Lookup].
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with the given options applied over the
// defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		headers: map[string]string{
			"User-Agent": buildinfo.UserAgent(),
			"Accept":     "application/json",
		},
		logger: discardLogger(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request bound.
func (c *Client) Timeout() time.Duration { return c.timeout }

// URL builds the endpoint for one conversion: {base}/{direction}/{y}/{m}/{d}.
func (c *Client) URL(dir Direction, date Date) string {
	return fmt.Sprintf("%s/%s/%d/%d/%d", c.baseURL, dir, date.Year, date.Month, date.Day)
}

// Do performs one conversion request and classifies its outcome.
func (c *Client) Do(ctx context.Context, dir Direction, date Date) Result {
	if !dir.Valid() {
		return Fail(errs.New(errs.ErrCodeInvalidDirection, "unknown conversion direction %q", dir))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.URL(dir, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Fail(errs.Wrap(errs.ErrCodeNetwork, err, "build request"))
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	id := c.newID()
	req.Header.Set(RequestIDHeader, id)

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	c.logger.Debug("request", "method", http.MethodGet, "url", target, "id", id)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = classifyTransport(err, c.timeout)
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return Fail(err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, elapsed)
	c.logger.Debug("response", "status", resp.StatusCode, "id", id, "elapsed", elapsed.Round(time.Millisecond))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Fail(classifyTransport(err, c.timeout))
	}
	return decodeResponse(resp.StatusCode, body)
}

// Convert performs one request and returns the converted date or a
// *errors.Error describing the failure.
func (c *Client) Convert(ctx context.Context, dir Direction, date Date) (Date, error) {
	return c.Do(ctx, dir, date).Unwrap()
}

// Lookup performs one request and reports success. Failures are logged
// at warn level instead of returned.
func (c *Client) Lookup(ctx context.Context, dir Direction, date Date) (Date, bool) {
	res := c.Do(ctx, dir, date)
	if err := res.Err(); err != nil {
		c.logger.Warn("conversion failed", "direction", dir, "date", date, "err", err)
	}
	return res.Value()
}

// ADToBS converts a Gregorian date to Bikram Sambat.
func (c *Client) ADToBS(ctx context.Context, year, month, day int) (Date, error) {
	return c.Convert(ctx, ADToBS, Date{Year: year, Month: month, Day: day})
}

// BSToAD converts a Bikram Sambat date to Gregorian.
func (c *Client) BSToAD(ctx context.Context, year, month, day int) (Date, error) {
	return c.Convert(ctx, BSToAD, Date{Year: year, Month: month, Day: day})
}

// Today converts the AD date of now to BS.
func Today(ctx context.Context, d Doer, now time.Time) (Date, error) {
	return Convert(ctx, d, ADToBS, FromTime(now))
}

// envelope is the JSON body shape shared by every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Result  *Date  `json:"result"`
	Error   string `json:"error"`
}

func decodeResponse(status int, body []byte) Result {
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch {
	case status == http.StatusBadRequest:
		return Fail(errs.New(errs.ErrCodeInvalidInput, "%s", messageOr(env.Error, "Invalid date provided")).WithStatus(status))
	case status == http.StatusNotFound:
		return Fail(errs.New(errs.ErrCodeNotFound, "API endpoint not found").WithStatus(status))
	case status >= 500:
		return Fail(errs.New(errs.ErrCodeServer, "Server error occurred").WithStatus(status))
	case status != http.StatusOK:
		return Fail(errs.New(errs.ErrCodeNetwork, "unexpected status %d", status).WithStatus(status))
	}

	if decodeErr != nil {
		return Fail(errs.Wrap(errs.ErrCodeAPI, decodeErr, "malformed response body").WithStatus(status))
	}
	if !env.Success {
		return Fail(errs.New(errs.ErrCodeAPI, "%s", messageOr(env.Error, "Unknown error")).WithStatus(status))
	}
	if env.Result == nil {
		return Fail(errs.New(errs.ErrCodeAPI, "response missing result").WithStatus(status))
	}
	return OK(*env.Result)
}

func classifyTransport(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "request timed out after %s", timeout)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return errs.Wrap(errs.ErrCodeTimeout, err, "request timed out after %s", timeout)
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return errs.Wrap(errs.ErrCodeNetwork, ue.Err, "%s %s", ue.Op, ue.URL)
	}
	return errs.Wrap(errs.ErrCodeNetwork, err, "request failed")
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return discardLogger()
	}
	return l
}
