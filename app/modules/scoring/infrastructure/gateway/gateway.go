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
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/fairway-collective/scorecard/config"
	"github.com/fairway-collective/scorecard/internal/observability"
	"github.com/fairway-collective/scorecard/models"
)

// One POST endpoint per operation.
const (
	endpointSubmitScore = "/api/v1/score/submit"
	endpointDeleteScore = "/api/v1/score/delete"
	endpointRoster      = "/api/v1/scorecard/roster"
	endpointJunkCatalog = "/api/v1/junk/catalog"
	endpointCourseHoles = "/api/v1/course/holes"
)

// callerMeta is the identity metadata attached to every request. Opaque to
// the scoring logic; forwarded unchanged from config.
type callerMeta struct {
	AppVersion string `json:"appVersion"`
	DeviceID   string `json:"deviceId"`
	Source     string `json:"source"`
}

// statusEnvelope is the domain-level result carried in every response body.
// It is required: a body without one is malformed, not an implicit success.
type statusEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *statusEnvelope) asError() error {
	if s == nil {
		return fmt.Errorf("response missing status: %w", models.ErrMalformedResponse)
	}
	if s.Code == statusCodeOK {
		return nil
	}
	return &StatusError{Code: s.Code, Message: s.Message}
}

// Client is the HTTP client for the remote scoring service. It performs one
// round trip per call and never retries internally; every retry is
// user-initiated upstream.
type Client struct {
	baseURL    string
	authToken  string
	meta       callerMeta
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    observability.GatewayMetrics
	tracer     trace.Tracer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a gateway client from config.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.GatewayMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *Client {
	limit := rate.Limit(cfg.Gateway.RequestsPerSecond)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Gateway.Burst
	if burst <= 0 {
		burst = 1
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.Gateway.BaseURL, "/"),
		authToken: cfg.Gateway.AuthToken,
		meta: callerMeta{
			AppVersion: cfg.Identity.AppVersion,
			DeviceID:   cfg.Identity.DeviceID,
			Source:     cfg.Identity.Source,
		},
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
		metrics:    metrics,
		tracer:     tracer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// checkAuthToken fails fast when the configured bearer token is a JWT that
// has already expired, instead of burning a doomed round trip. Opaque
// (non-JWT) tokens are passed through untouched.
func (c *Client) checkAuthToken() error {
	if c.authToken == "" {
		return nil
	}
	var claims jwt.MapClaims = map[string]any{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.authToken, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return ErrAuthExpired
	}
	return nil
}

// post performs one JSON round trip: rate-limits, sends the request with
// identity metadata and auth, checks the HTTP status, and decodes the body
// into out (which must embed the status envelope via a Status field handled
// by the caller).
func (c *Client) post(ctx context.Context, operation, endpoint string, reqBody, out any) error {
	ctx, span := c.tracer.Start(ctx, "gateway."+operation, trace.WithAttributes(
		attribute.String("gateway.operation", operation),
		attribute.String("gateway.endpoint", endpoint),
	))
	defer span.End()

	c.metrics.RecordRequest(ctx, operation)
	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(ctx, operation, time.Since(start))
	}()

	if err := c.checkAuthToken(); err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		span.RecordError(err)
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		span.RecordError(err)
		return fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		return fmt.Errorf("%s: failed to marshal request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		return fmt.Errorf("%s: failed to build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "Gateway request failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordRequestFailure(ctx, operation)
		err := fmt.Errorf("%s: unexpected HTTP status %d", operation, resp.StatusCode)
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "Gateway returned non-OK HTTP status",
			slog.String("operation", operation),
			slog.Int("http_status", resp.StatusCode),
		)
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		return fmt.Errorf("%s: failed to read response: %w", operation, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.RecordRequestFailure(ctx, operation)
		return fmt.Errorf("%s: failed to decode response: %w", operation, err)
	}

	c.logger.DebugContext(ctx, "Gateway request completed",
		slog.String("operation", operation),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
