// Package fetch is the outbound HTTP collaborator: page retrieval for the
// extraction pipeline and binary asset retrieval for the OCR sub-pipeline.
// Every request passes the shared rate limiter and transient failures are
// retried with exponential backoff.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goleilao/internal/ratelimit"
)

// Error reports a failed retrieval. It is fatal for the extraction call when
// raised on the initial page fetch; asset fetches downgrade it to a recorded
// strategy-level error.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client wraps http.Client with a user agent, bounded retry and the shared
// minimum-interval limiter.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Limiter    *ratelimit.Limiter
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt.
	PerRequestTimeout time.Duration
	// BackoffBase is the first retry delay; it doubles per attempt.
	// Zero means 200ms.
	BackoffBase time.Duration
}

// Fetch retrieves a listing page. Non-HTML content types are rejected so the
// normalizer only ever sees markup.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	body, ct, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !isHTMLContentType(ct) {
		return nil, &Error{URL: pageURL, Err: fmt.Errorf("unsupported content type: %s", ct)}
	}
	return body, nil
}

// FetchBytes retrieves a binary asset (image or document) for OCR. The
// content type is returned for the caller to gate on.
func (c *Client) FetchBytes(ctx context.Context, assetURL string) ([]byte, string, error) {
	return c.get(ctx, assetURL)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Debug().Str("url", rawURL).Int("attempt", i+1).Msg("retrying fetch")
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, "", &Error{URL: rawURL, Err: ctx.Err()}
			}
		}
		body, ct, err := c.tryOnce(ctx, rawURL)
		if err == nil {
			return body, ct, nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
	}
	return nil, "", lastErr
}

func (c *Client) tryOnce(ctx context.Context, rawURL string) ([]byte, string, error) {
	if err := c.Limiter.Acquire(ctx); err != nil {
		return nil, "", &Error{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &Error{URL: rawURL, Err: err}
	}
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, "", &Error{URL: rawURL, Err: fmt.Errorf("unsupported URL scheme")}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.7")

	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(req.Context(), c.PerRequestTimeout)
		defer cancel()
		req = req.WithContext(ctx)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", &Error{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &Error{URL: rawURL, Status: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return b, resp.Header.Get("Content-Type"), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.PerRequestTimeout}
}

// isTransient reports whether a failure is worth retrying: timeouts,
// rate-limit responses and server errors. Everything else surfaces
// immediately.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests || (fe.Status >= 500 && fe.Status <= 599) {
			return true
		}
		return errors.Is(fe.Err, context.DeadlineExceeded)
	}
	return false
}

func isHTTPScheme(u *url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return ct == "" || strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
