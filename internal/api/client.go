// Package api is the storefront's REST client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"storefront/internal/jsonutil"
	"storefront/internal/logging"
	"storefront/internal/telemetry"
)

// TracerName is the instrumentation scope for API spans.
const TracerName = "storefront/api"

const (
	pathCartAdd          = "/api/cart/add"
	pathProductsCategory = "/api/products/category/"
	pathLogout           = "/api/logout"
	pathBuyNow           = "/payment/buy-now"
)

// Client talks to the storefront backend. It is safe for concurrent use.
type Client struct {
	base   *url.URL
	http   *http.Client
	tracer oteltrace.Tracer
	log    zerolog.Logger

	jarMu sync.Mutex
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// New returns a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must be http or https", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		base: u,
		http: &http.Client{
			Jar: jar,
			// Redirects carry the navigation target; report them instead of following.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		tracer: telemetry.Tracer(TracerName),
		log:    logging.Component("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// AddToCart posts a cart line. A success=false reply is a *BusinessError.
func (c *Client) AddToCart(ctx context.Context, req AddToCartRequest) (CartResult, error) {
	if strings.TrimSpace(req.ProductID) == "" || req.Quantity <= 0 {
		return CartResult{}, ErrMissingInput
	}
	body, err := json.Marshal(req)
	if err != nil {
		return CartResult{}, fmt.Errorf("encode add to cart: %w", err)
	}

	env, _, err := c.doJSON(ctx, "cart.add", http.MethodPost, pathCartAdd, "application/json", bytes.NewReader(body))
	if err != nil {
		return CartResult{}, err
	}
	if !env.Success {
		return CartResult{}, &BusinessError{Code: env.Code, Message: env.Message}
	}
	return CartResult{Message: env.Message, Data: env.Data}, nil
}

// ProductsByCategory fetches the products of one category in API order.
func (c *Client) ProductsByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, ErrMissingInput
	}
	env, _, err := c.doJSON(ctx, "products.category", http.MethodGet, pathProductsCategory+url.PathEscape(categoryID), "", nil)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &BusinessError{Code: env.Code, Message: env.Message}
	}
	products, err := jsonutil.UnmarshalArrayAllowEmpty[Product](env.Data, "decode products")
	if err != nil {
		return nil, transportErr("products.category", err)
	}
	return products, nil
}

// Logout ends the backend session, clears cookies and returns where the
// backend sends the user.
func (c *Client) Logout(ctx context.Context) (string, error) {
	loc, err := c.doRedirect(ctx, "logout", pathLogout, "", nil)
	if err != nil {
		return "", err
	}
	c.resetJar()
	return loc, nil
}

// BuyNow submits the buy-now form and returns the redirect location.
func (c *Client) BuyNow(ctx context.Context, productID string, quantity int) (string, error) {
	if strings.TrimSpace(productID) == "" || quantity <= 0 {
		return "", ErrMissingInput
	}
	form := url.Values{}
	form.Set("productId", productID)
	form.Set("quantity", strconv.Itoa(quantity))
	return c.doRedirect(ctx, "buy_now", pathBuyNow, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

// doJSON performs a request and decodes the reply envelope. A reply with no
// success field counts as successful when the status is 2xx.
func (c *Client) doJSON(ctx context.Context, op, method, path, contentType string, body io.Reader) (Envelope, int, error) {
	resp, data, err := c.do(ctx, op, method, path, contentType, body)
	if err != nil {
		return Envelope{}, 0, err
	}
	env, err := decodeEnvelope(resp.StatusCode, data)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Int("status", resp.StatusCode).Msg("decode response")
		return Envelope{}, resp.StatusCode, transportErr(op, err)
	}
	return env, resp.StatusCode, nil
}

// doRedirect posts and resolves the navigation target. 3xx replies yield
// their Location; 2xx replies land on the requested path.
func (c *Client) doRedirect(ctx context.Context, op, path, contentType string, body io.Reader) (string, error) {
	resp, data, err := c.do(ctx, op, http.MethodPost, path, contentType, body)
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "/", nil
		}
		return c.relativeLocation(loc), nil
	case resp.StatusCode >= 400:
		return "", businessFromStatus(resp.StatusCode, data)
	}

	if jsonutil.LooksLikeJSON(data) {
		env, err := decodeEnvelope(resp.StatusCode, data)
		if err == nil && !env.Success {
			return "", &BusinessError{Code: env.Code, Message: env.Message}
		}
	}
	if op == "logout" {
		return "/", nil
	}
	return path, nil
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader) (*http.Response, []byte, error) {
	ctx, span := c.tracer.Start(ctx, "api."+op,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.log.Error().Err(err).Str("op", op).Str("path", path).Msg("request failed")
		return nil, nil, transportErr(op, err)
	}
	defer resp.Body.Close()

	data, err := jsonutil.ReadLimited(resp.Body)
	if errors.Is(err, jsonutil.ErrBodyTooLarge) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "body too large")
		c.log.Warn().Str("op", op).Str("path", path).Int("limit", jsonutil.MaxBodyBytes).Msg("response too large")
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrResponseTooLarge, op, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return nil, nil, transportErr(op, fmt.Errorf("read body: %w", err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")
	return resp, data, nil
}

// wireEnvelope distinguishes a missing success field from false.
type wireEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(status int, data []byte) (Envelope, error) {
	if !jsonutil.LooksLikeJSON(data) {
		if status >= 400 {
			return Envelope{Success: false, Code: status, Message: http.StatusText(status)}, nil
		}
		return Envelope{}, errors.New("response is not JSON")
	}
	var w wireEnvelope
	if err := jsonutil.UnmarshalWithContext(data, &w, "decode envelope"); err != nil {
		return Envelope{}, err
	}
	env := Envelope{Message: w.Message, Code: w.Code, Data: w.Data}
	if w.Success != nil {
		env.Success = *w.Success
	} else {
		env.Success = status < 400
	}
	if !env.Success && env.Code == 0 && status >= 400 {
		env.Code = status
	}
	return env, nil
}

func businessFromStatus(status int, data []byte) error {
	if jsonutil.LooksLikeJSON(data) {
		if env, err := decodeEnvelope(status, data); err == nil {
			return &BusinessError{Code: env.Code, Message: env.Message}
		}
	}
	return &BusinessError{Code: status, Message: http.StatusText(status)}
}

// relativeLocation strips the backend origin from same-origin redirects.
func (c *Client) relativeLocation(loc string) string {
	u, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	if u.IsAbs() && u.Host != c.base.Host {
		return loc
	}
	out := u.Path
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

func (c *Client) client() *http.Client {
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	return c.http
}

func (c *Client) resetJar() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		c.log.Error().Err(err).Msg("reset cookie jar")
		return
	}
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	next := *c.http
	next.Jar = jar
	c.http = &next
}
