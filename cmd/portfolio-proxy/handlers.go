package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/nrivas/portfolio-core/pkg/cache"
	"github.com/nrivas/portfolio-core/pkg/client"
	"github.com/nrivas/portfolio-core/pkg/health"
)

// apiResponse is the envelope returned by every content endpoint.
type apiResponse struct {
	Data   json.RawMessage `json:"data"`
	Cached bool            `json:"cached"`
	Source string          `json:"source,omitempty"`
}

// apiError is returned when an upstream fetch fails and no cached copy
// exists. Messages are already credential-free; upstream errors are
// classified, not echoed verbatim.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// contentHandler serves one content type through the cache: a cached copy
// answers immediately, otherwise the upstream is fetched, stored, and
// returned. Fetch failures surface as classified errors.
func contentHandler[T any](cacheManager *cache.Manager, key string, fetch func(ctx context.Context) client.Result[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()

		if cached := cacheManager.Get(ctx, key); cached.FromCache {
			writeJSON(w, http.StatusOK, apiResponse{
				Data:   cached.Data,
				Cached: true,
				Source: string(cached.Source),
			})
			return
		}

		result := fetch(ctx)
		if !result.Success {
			writeAPIError(w, key, result.Err)
			return
		}

		cacheManager.Set(ctx, key, result.Data)

		payload, err := json.Marshal(result.Data)
		if err != nil {
			log.Error().Err(err).Str("endpoint", key).Msg("Failed to encode response")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, apiResponse{Data: payload, Cached: false})
	}
}

// healthHandler reports aggregated system health. Degraded systems still
// answer 200: they serve requests, just with reduced capability.
func healthHandler(aggregator *health.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := aggregator.Report()

		status := http.StatusOK
		if report.Status == health.StateUnhealthy {
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, report)
	}
}

func writeAPIError(w http.ResponseWriter, endpoint string, clientErr *client.Error) {
	log.Warn().
		Str("endpoint", endpoint).
		Str("error_type", string(clientErr.Type)).
		Msg("Content fetch failed")

	var body apiError
	body.Error.Type = string(clientErr.Type)
	body.Error.Message = clientErr.Message

	writeJSON(w, httpStatusFor(clientErr), body)
}

// httpStatusFor maps a classified client error to the proxy's response
// status. Upstream failures become 502 regardless of the upstream code;
// this proxy's own 429 means the local quota gate blocked the call.
func httpStatusFor(clientErr *client.Error) int {
	switch clientErr.Type {
	case client.ErrorTypeValidation:
		return http.StatusBadRequest
	case client.ErrorTypeConfiguration:
		return http.StatusServiceUnavailable
	case client.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case client.ErrorTypeNetwork, client.ErrorTypeAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to write response body")
	}
}
