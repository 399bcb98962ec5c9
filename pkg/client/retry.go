package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for outbound request execution.
var (
	clientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_client_requests_total",
		Help: "Total outbound requests by client and outcome",
	}, []string{"client", "status"})

	clientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portfolio_client_request_duration_seconds",
		Help:    "Outbound request duration in seconds by client",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"client"})

	clientRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_client_retries_total",
		Help: "Total retry attempts by client and error type",
	}, []string{"client", "error_type"})

	clientRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_client_retry_exhausted_total",
		Help: "Total times retry attempts were exhausted by client",
	}, []string{"client"})
)

// RetryConfig holds the configuration for the retry executor.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// Multiplier is the exponential backoff multiplier:
	// delay = BaseDelay * Multiplier^attempt.
	Multiplier float64

	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2.0,
		MaxDelay:   30 * time.Second,
	}
}

// Executor wraps a single outbound request attempt sequence with bounded
// exponential-backoff retry. Transient failures (HTTP 429, network-level
// failures, 5xx) are retried; other 4xx are returned immediately.
type Executor struct {
	httpClient *http.Client
	config     RetryConfig
	logger     zerolog.Logger
}

// NewExecutor creates a retry executor. A nil httpClient gets a default
// client with a fixed connection-level timeout; there is no caller-supplied
// cancellation beyond the request context.
func NewExecutor(httpClient *http.Client, config RetryConfig, logger zerolog.Logger) *Executor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultRetryConfig().BaseDelay
	}
	if config.Multiplier <= 1 {
		config.Multiplier = DefaultRetryConfig().Multiplier
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = DefaultRetryConfig().MaxDelay
	}
	return &Executor{
		httpClient: httpClient,
		config:     config,
		logger:     logger,
	}
}

// Do executes the request built by build, retrying transient failures.
// The request is rebuilt for every attempt so bodies are never reused.
// On success the caller owns the response body. On failure the last
// observed typed error is returned; all attempts are logged with elapsed
// duration and attempt index, with credentials redacted.
func (e *Executor) Do(ctx context.Context, name string, build func(ctx context.Context) (*http.Request, error)) (*http.Response, *Error) {
	var lastErr *Error

	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		req, err := build(ctx)
		if err != nil {
			return nil, &Error{
				Type:    ErrorTypeValidation,
				Message: "failed to build request",
				Err:     err,
			}
		}

		start := time.Now()
		resp, reqErr := e.httpClient.Do(req)
		duration := time.Since(start)

		clientRequestDuration.WithLabelValues(name).Observe(duration.Seconds())

		logEvent := e.logger.Debug().
			Str("client", name).
			Str("url", RedactURL(req.URL)).
			Int("attempt", attempt).
			Dur("duration", duration)

		if reqErr != nil {
			lastErr = classifyNetwork(reqErr)
			clientRequestsTotal.WithLabelValues(name, "network_error").Inc()
			logEvent.Str("error_type", string(lastErr.Type)).Msg("Request attempt failed")
		} else if resp.StatusCode >= 400 {
			lastErr = classifyStatus(resp.StatusCode, resp.Status)
			clientRequestsTotal.WithLabelValues(name, fmt.Sprintf("%d", resp.StatusCode)).Inc()
			logEvent.Int("status_code", resp.StatusCode).
				Str("error_type", string(lastErr.Type)).
				Msg("Request attempt failed")
			resp.Body.Close()

			// Permanent failures are returned immediately, zero retries.
			if !lastErr.Transient() {
				return nil, lastErr
			}
		} else {
			clientRequestsTotal.WithLabelValues(name, fmt.Sprintf("%d", resp.StatusCode)).Inc()
			logEvent.Int("status_code", resp.StatusCode).Msg("Request attempt succeeded")
			return resp, nil
		}

		if attempt >= e.config.MaxRetries {
			break
		}

		delay := e.backoffDelay(attempt)
		clientRetriesTotal.WithLabelValues(name, string(lastErr.Type)).Inc()

		e.logger.Debug().
			Str("client", name).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		select {
		case <-ctx.Done():
			return nil, &Error{
				Type:    ErrorTypeNetwork,
				Message: "context cancelled during retry backoff",
				Err:     ctx.Err(),
			}
		case <-time.After(delay):
		}
	}

	clientRetryExhaustedTotal.WithLabelValues(name).Inc()
	e.logger.Warn().
		Str("client", name).
		Int("max_retries", e.config.MaxRetries).
		Str("error_type", string(lastErr.Type)).
		Msg("Retry attempts exhausted")

	if lastErr.Err == nil {
		lastErr.Err = ErrRetryExhausted
	} else {
		lastErr.Err = fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr.Err)
	}
	return nil, lastErr
}

// backoffDelay computes delay = BaseDelay * Multiplier^attempt, capped.
func (e *Executor) backoffDelay(attempt int) time.Duration {
	delay := time.Duration(float64(e.config.BaseDelay) * math.Pow(e.config.Multiplier, float64(attempt)))
	if delay > e.config.MaxDelay {
		delay = e.config.MaxDelay
	}
	return delay
}
