package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"

	"github.com/tuanvumaihuynh/storefront/internal/apperr"
	"github.com/tuanvumaihuynh/storefront/internal/config"
	"github.com/tuanvumaihuynh/storefront/pkg/correlationid"
	"github.com/tuanvumaihuynh/storefront/pkg/retry"
	"github.com/tuanvumaihuynh/storefront/pkg/zerror"
)

const maxResponseBytes = 4 << 20 // 4 MB

// APIClient reads the catalog from the storefront HTTP API. Transient
// failures are retried; repeated ones open a circuit breaker that fails fast
// until the API recovers.
type APIClient struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
	retry   retry.Config
	breaker *gobreaker.CircuitBreaker[[]byte]
}

type Option func(*APIClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *APIClient) {
		a.http = c
	}
}

// WithBreakerSettings replaces the default circuit breaker settings.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(a *APIClient) {
		a.breaker = gobreaker.NewCircuitBreaker[[]byte](a.breakerSettings(st))
	}
}

func NewAPIClient(cfg config.Client, logger *slog.Logger, opts ...Option) (*APIClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}

	c := &APIClient{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With(slog.String("component", "api_client")),
		retry: retry.Config{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     retry.ExponentialBackoff(cfg.RetryBackoff),
			ShouldRetry: isTransient,
		},
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](c.breakerSettings(gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}))

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *APIClient) breakerSettings(st gobreaker.Settings) gobreaker.Settings {
	// Only transport failures count against the API; a 404 or a bad payload
	// says nothing about its health.
	st.IsSuccessful = func(err error) bool {
		return err == nil || !errors.Is(err, apperr.NetworkErr)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		c.logger.Warn("circuit breaker state change",
			slog.String("breaker", name),
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}
	return st
}

// Products fetches the full listing, in either payload shape.
func (c *APIClient) Products(ctx context.Context) (Result, error) {
	data, err := c.get(ctx, "/products", nil)
	if err != nil {
		return Result{}, err
	}
	return c.normalize(ctx, data)
}

// ProductsByCategory asks the API for one category and keeps only the
// matching items of the answer.
func (c *APIClient) ProductsByCategory(ctx context.Context, categoryID string) (Result, error) {
	data, err := c.get(ctx, "/products", url.Values{"category_id": {categoryID}})
	if err != nil {
		return Result{}, err
	}

	res, err := c.normalize(ctx, data)
	if err != nil {
		return Result{}, err
	}
	res.Products = ByCategory(res.Products, categoryID)
	return res, nil
}

// Brands fetches the brand groupings with their products.
func (c *APIClient) Brands(ctx context.Context) ([]Brand, error) {
	data, err := c.get(ctx, "/brands", nil)
	if err != nil {
		return nil, err
	}
	if !data.IsArray() {
		return nil, apperr.MalformedResponseErr.WithMsg("brand listing is not an array")
	}

	brands := []Brand{}
	for i, raw := range data.Array() {
		products, skipped := normalizeBrand(i, raw)
		c.logSkipped(ctx, skipped)
		if len(skipped) > 0 && skipped[0].Index == -1 {
			continue
		}

		id, _ := parseID(raw.Get("id"))
		if products == nil {
			products = []Product{}
		}
		brands = append(brands, Brand{
			ID:       id,
			Name:     raw.Get("name").String(),
			Products: products,
		})
	}
	return brands, nil
}

func (c *APIClient) Categories(ctx context.Context) ([]Category, error) {
	data, err := c.get(ctx, "/categories", nil)
	if err != nil {
		return nil, err
	}
	if !data.IsArray() {
		return nil, apperr.MalformedResponseErr.WithMsg("category listing is not an array")
	}

	categories := []Category{}
	for i, raw := range data.Array() {
		id, ok := parseID(raw.Get("id"))
		if !ok {
			c.logSkipped(ctx, []Skipped{{Brand: -1, Index: i, Err: apperr.ValidationErr.WithMsg("category id is missing")}})
			continue
		}
		categories = append(categories, Category{
			ID:   id,
			Name: raw.Get("name").String(),
			Icon: raw.Get("icon").String(),
		})
	}
	return categories, nil
}

func (c *APIClient) normalize(ctx context.Context, data gjson.Result) (Result, error) {
	res, err := normalize(data)
	if err != nil {
		return Result{}, err
	}
	c.logSkipped(ctx, res.Skipped)
	return res, nil
}

func (c *APIClient) logSkipped(ctx context.Context, skipped []Skipped) {
	for _, s := range skipped {
		c.logger.WarnContext(ctx, "skipped malformed entry",
			slog.Int("brand", s.Brand),
			slog.Int("index", s.Index),
			slog.Any("error", s.Err),
		)
	}
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	data, err := retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return c.fetch(ctx, u.String())
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = apperr.NetworkErr.WithMsg("storefront API is unavailable, try again later").WrapParent(err)
		}
		return gjson.Result{}, fmt.Errorf("get %s: %w", path, err)
	}

	return gjson.ParseBytes(data), nil
}

func (c *APIClient) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id, ok := correlationid.FromContext(ctx); ok {
		req.Header.Set(correlationid.Header, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.NetworkErr.WrapParent(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.NetworkErr.WrapParent(err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apperr.NetworkErr.WithMsg(fmt.Sprintf("storefront API answered %d", resp.StatusCode))
	}

	return unwrapEnvelope(resp.StatusCode, body)
}

// unwrapEnvelope returns the data of a {success, data} envelope, or the
// error an unsuccessful envelope carries.
func unwrapEnvelope(status int, body []byte) ([]byte, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperr.MalformedResponseErr.WithMsg("response is not valid JSON")
	}

	env := gjson.ParseBytes(body)
	success := env.Get("success")
	if success.Type != gjson.True && success.Type != gjson.False {
		return nil, apperr.MalformedResponseErr.WithMsg("response has no success flag")
	}

	if !success.Bool() || status >= http.StatusBadRequest {
		code := env.Get("code").String()
		if code == "" {
			code = "REMOTE_ERROR"
		}
		msg := env.Get("message").String()
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", status)
		}
		return nil, zerror.NewZError(nil, statusFromHTTP(status), code, msg)
	}

	data := env.Get("data")
	if !data.Exists() {
		return nil, apperr.MalformedResponseErr.WithMsg("response has no data")
	}
	return []byte(data.Raw), nil
}

func statusFromHTTP(status int) zerror.Status {
	switch status {
	case http.StatusBadRequest:
		return zerror.StatusBadRequest
	case http.StatusUnauthorized:
		return zerror.StatusUnauthorized
	case http.StatusForbidden:
		return zerror.StatusForbidden
	case http.StatusNotFound:
		return zerror.StatusNotFound
	case http.StatusConflict:
		return zerror.StatusConflict
	case http.StatusTooManyRequests:
		return zerror.StatusTooManyRequests
	default:
		return zerror.StatusBadGateway
	}
}

func isTransient(err error) bool {
	return errors.Is(err, apperr.NetworkErr)
}
