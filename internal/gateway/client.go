// Package gateway is the client for the catalog REST API.
//
// Reads go through a tagged response cache; successful mutations invalidate
// the Books tag and run the registered invalidation hooks before returning,
// so a caller that sees success also sees the refetched list.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bookverseapp/bookverse/internal/domain"
	"github.com/bookverseapp/bookverse/internal/errors"
	"github.com/bookverseapp/bookverse/internal/id"
	"github.com/bookverseapp/bookverse/internal/ratelimit"
	"github.com/bookverseapp/bookverse/internal/validation"
)

// RequestIDHeader carries the correlation id of every request.
const RequestIDHeader = "X-Request-ID"

const userAgent = "BookVerse/1.0"

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:5000/api.
	BaseURL string
	// HTTPClient overrides the transport. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
	Validator  *validation.Validator
	// Timeout bounds each request. Zero keeps the transport default.
	Timeout time.Duration
	// RateLimit is requests per second per resource. Zero disables it.
	RateLimit float64
	RateBurst int
}

// InvalidationHook runs after a mutation invalidated tags, before the
// mutation returns to its caller.
type InvalidationHook func(ctx context.Context, tags []Tag)

// Result is a fetched value with the sequence number of the request that
// produced it. Larger sequence numbers are newer.
type Result[T any] struct {
	Data   T
	Seq    uint64
	Cached bool
}

// Client talks to the catalog API.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *ratelimit.KeyedRateLimiter
	logger    *slog.Logger
	validator *validation.Validator
	cache     *cache
	flights   singleflight.Group
	seq       atomic.Uint64

	hooksMu sync.Mutex
	hooks   []hookEntry
	nextID  int

	genresMu    sync.RWMutex
	knownGenres []domain.Genre
}

type hookEntry struct {
	fn InvalidationHook
	id int
}

// New creates a client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := opts.Validator
	if v == nil {
		v = validation.New()
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		limiter:   ratelimit.New(opts.RateLimit, opts.RateBurst),
		logger:    logger,
		validator: v,
		cache:     newCache(),
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// OnInvalidate registers a hook and returns a function that removes it.
// Hooks run synchronously in registration order.
func (c *Client) OnInvalidate(fn InvalidationHook) (remove func()) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()

	hookID := c.nextID
	c.nextID++
	c.hooks = append(c.hooks, hookEntry{id: hookID, fn: fn})

	return func() {
		c.hooksMu.Lock()
		defer c.hooksMu.Unlock()
		for i, h := range c.hooks {
			if h.id == hookID {
				c.hooks = append(c.hooks[:i:i], c.hooks[i+1:]...)
				return
			}
		}
	}
}

// Invalidate drops cached entries carrying tags and runs the hooks.
func (c *Client) Invalidate(ctx context.Context, tags ...Tag) {
	dropped := c.cache.invalidate(tags...)
	c.logger.Debug("cache invalidated", "tags", tags, "dropped", dropped)

	c.hooksMu.Lock()
	hooks := make([]InvalidationHook, 0, len(c.hooks))
	for _, h := range c.hooks {
		hooks = append(hooks, h.fn)
	}
	c.hooksMu.Unlock()

	for _, fn := range hooks {
		fn(ctx, tags)
	}
}

// CachedKeys lists the resources currently cached, sorted.
func (c *Client) CachedKeys() []string {
	return c.cache.keys()
}

// nextSeq allocates a request sequence number. The first is 1.
func (c *Client) nextSeq() uint64 {
	return c.seq.Add(1)
}

// resource names the limiter bucket for a path: "/books/genre/3" -> "books".
func resource(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

// do executes one request. body is encoded as JSON when non-nil; the
// response payload is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (uint64, error) {
	seq := c.nextSeq()
	reqID := id.Request()

	if err := c.limiter.Wait(ctx, resource(path)); err != nil {
		return seq, errors.Network("request cancelled", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return seq, errors.Wrap(err, errors.CodeInternal, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return seq, errors.Wrap(err, errors.CodeInternal, "create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("catalog request failed",
			"method", method, "path", path, "request_id", reqID, "seq", seq, "error", err)
		return seq, errors.Network(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return seq, errors.Network("read response", err)
	}

	c.logger.Debug("catalog request",
		"method", method,
		"path", path,
		"request_id", reqID,
		"seq", seq,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return seq, statusError(method, path, resp.StatusCode, respBody)
	}

	if out == nil {
		return seq, nil
	}
	if err := decodePayload(respBody, out); err != nil {
		return seq, errors.Wrapf(err, errors.CodeInternal, "decode %s %s", method, path)
	}
	return seq, nil
}

// statusError classifies a non-2xx response. The body's message, if any,
// becomes the user-facing text; otherwise the message stays empty so the
// caller's fallback is shown.
func statusError(method, path string, status int, body []byte) error {
	msg := errorMessage(body)
	cause := fmt.Errorf("%s %s returned %d %s", method, path, status, http.StatusText(status))

	if status == http.StatusNotFound {
		return errors.NotFound(msg).WithCause(cause)
	}
	return errors.Server(status, msg).WithCause(cause)
}
