// Package shiftapi is the HTTP client for the remote shift service.
package shiftapi

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

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"shiftbook/internal/metrics"
	"shiftbook/internal/models"
)

// DefaultTimeout bounds every call when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const (
	opFetchAll = "fetch_all"
	opFetchOne = "fetch_one"
	opBook     = "book"
	opCancel   = "cancel"

	maxErrorBody = 64 << 10
)

// Client performs the four shift operations, one round trip each and no
// retries. Every failure is returned as *APIError.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client for baseURL. A non-positive timeout falls back
// to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "shiftapi").Logger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		headers:    make(map[string]string),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// SetHeaders adds static headers sent with every request.
func (c *Client) SetHeaders(headers map[string]string) {
	for k, v := range headers {
		c.headers[k] = v
	}
}

// UseRateLimit caps outgoing requests per second. Zero disables the limit.
func (c *Client) UseRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 {
		c.limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// UseRedisCache configures optional Redis caching for GET endpoints. Book and
// cancel invalidate the affected keys.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// FetchAll returns every shift.
func (c *Client) FetchAll(ctx context.Context) ([]models.Shift, error) {
	var out []models.Shift
	if c.readCache(ctx, listCacheKey, &out) {
		return out, nil
	}
	if err := c.doGet(ctx, opFetchAll, "", c.baseURL+"/shifts", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Shift{}
	}
	c.writeCache(ctx, listCacheKey, out)
	return out, nil
}

// FetchOne returns one shift. An unknown id fails with ErrNotFound.
func (c *Client) FetchOne(ctx context.Context, id string) (models.Shift, error) {
	var out models.Shift
	if id == "" {
		return out, &APIError{Message: models.ErrMissingID.Error(), Code: CodeValidation, kind: ErrValidation}
	}
	key := shiftCacheKey(id)
	if c.readCache(ctx, key, &out) {
		return out, nil
	}
	if err := c.doGet(ctx, opFetchOne, id, c.shiftURL(id, ""), &out); err != nil {
		return models.Shift{}, err
	}
	c.writeCache(ctx, key, out)
	return out, nil
}

// Book asks the server to assign the shift to the current user. The server
// alone enforces the booking rules.
func (c *Client) Book(ctx context.Context, id string) (models.Shift, error) {
	return c.mutate(ctx, opBook, id)
}

// Cancel releases a booked shift.
func (c *Client) Cancel(ctx context.Context, id string) (models.Shift, error) {
	return c.mutate(ctx, opCancel, id)
}

func (c *Client) mutate(ctx context.Context, op, id string) (models.Shift, error) {
	var out models.Shift
	if id == "" {
		return out, &APIError{Message: models.ErrMissingID.Error(), Code: CodeValidation, kind: ErrValidation}
	}
	if err := c.doPost(ctx, op, id, c.shiftURL(id, op), &out); err != nil {
		// A request that got no reply may still have been applied.
		if errors.Is(err, ErrNetwork) {
			c.invalidate(ctx, id)
		}
		return models.Shift{}, err
	}
	c.invalidate(ctx, id)
	return out, nil
}

func (c *Client) shiftURL(id, action string) string {
	u := fmt.Sprintf("%s/shifts/%s", c.baseURL, url.PathEscape(id))
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) doGet(ctx context.Context, op, id, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return AsAPIError(err)
	}
	return c.do(req, op, id, out)
}

func (c *Client) doPost(ctx context.Context, op, id, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, http.NoBody)
	if err != nil {
		return AsAPIError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, id, out)
}

func (c *Client) do(req *http.Request, op, id string, out any) (err error) {
	requestID := uuid.NewString()
	c.addHeaders(req, requestID)

	start := time.Now()
	status := 0
	defer func() {
		c.finish(op, id, requestID, status, time.Since(start), err)
	}()

	if c.limiter != nil {
		if werr := c.limiter.Wait(req.Context()); werr != nil {
			return networkError(werr)
		}
	}

	resp, derr := c.httpClient.Do(req)
	if derr != nil {
		return networkError(derr)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, readMessage(resp.Body))
	}
	if out == nil {
		return nil
	}
	if derr := json.NewDecoder(resp.Body).Decode(out); derr != nil {
		return &APIError{
			Message:    fallbackMessage,
			Code:       CodeServer,
			StatusCode: resp.StatusCode,
			kind:       ErrServer,
			cause:      fmt.Errorf("decode %s response: %w", op, derr),
		}
	}
	return nil
}

func (c *Client) addHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) finish(op, id, requestID string, status int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(AsAPIError(err).Code)
	}
	metrics.ObserveAPIRequest(op, outcome, d)

	var ev *zerolog.Event
	switch {
	case err == nil:
		ev = c.log.Debug()
	case status >= 500 || status == 0:
		ev = c.log.Error().Err(err)
	default:
		ev = c.log.Warn().Err(err)
	}
	ev.Str("operation", op).
		Str("shift_id", id).
		Str("request_id", requestID).
		Int("status", status).
		Dur("duration", d).
		Msg("shift api call")
}

// readMessage extracts the "message" field of an error body, if any.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
