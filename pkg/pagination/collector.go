package pagination

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nrivas/portfolio-core/pkg/client"
)

// Page is one page of results plus the cursor for the next page.
// An empty NextToken marks the last page.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// FetchFunc fetches a single page. An empty token requests the first page.
type FetchFunc[T any] func(ctx context.Context, pageToken string) (Page[T], *client.Error)

// Config bounds a pagination walk.
type Config struct {
	// MaxPages caps the number of pages fetched in one walk.
	MaxPages int
}

// DefaultConfig returns a bound suited to free-tier API quotas.
func DefaultConfig() Config {
	return Config{MaxPages: 10}
}

// Collect walks pages until the upstream reports no next cursor or the
// page bound is reached. Items gathered before a mid-walk failure are
// returned alongside the error so the caller can decide whether a partial
// result is usable.
func Collect[T any](ctx context.Context, fetch FetchFunc[T], config Config) ([]T, *client.Error) {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultConfig().MaxPages
	}

	start := time.Now()
	var items []T
	token := ""

	for page := 0; page < config.MaxPages; page++ {
		result, err := fetch(ctx, token)
		if err != nil {
			log.Warn().
				Int("pages_fetched", page).
				Int("items", len(items)).
				Str("error_type", string(err.Type)).
				Msg("Pagination walk aborted")
			return items, err
		}

		items = append(items, result.Items...)
		token = result.NextToken
		if token == "" {
			break
		}
	}

	log.Debug().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Pagination walk complete")

	return items, nil
}
