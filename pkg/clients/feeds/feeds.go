// Package feeds fetches recent posts from a social-feed aggregation
// service (an RSS-to-JSON bridge), normalized into the portfolio's post
// shape.
package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrivas/portfolio-core/pkg/client"
	"github.com/nrivas/portfolio-core/pkg/health"
	"github.com/nrivas/portfolio-core/pkg/logging"
	"github.com/nrivas/portfolio-core/pkg/ratelimit"
)

const defaultBaseURL = "https://api.rss2json.com/v1"

// upstreamTimeLayout is the timestamp format used by the aggregator.
const upstreamTimeLayout = "2006-01-02 15:04:05"

// Config holds the integration's credentials and operational limits.
// Immutable after client construction.
type Config struct {
	APIKey  string
	FeedURL string

	// MaxPosts per fetch.
	MaxPosts int

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	Limits ratelimit.Limits
}

// Post is the normalized shape returned to callers.
type Post struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Author      string    `json:"author"`
	Categories  []string  `json:"categories,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Options filters a fetch call.
type Options struct {
	// MaxPosts overrides the configured count when > 0.
	MaxPosts int
}

// Client calls the feed aggregator with rate limiting and retry.
type Client struct {
	config  Config
	limiter *ratelimit.Limiter
	exec    *client.Executor
	logger  zerolog.Logger
}

// New creates a feeds client.
func New(config Config, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.MaxPosts <= 0 {
		config.MaxPosts = 10
	}

	logger := logging.NewLogger("feeds-client")

	return &Client{
		config:  config,
		limiter: ratelimit.NewLimiter("feeds", config.Limits, logger),
		exec:    client.NewExecutor(httpClient, client.DefaultRetryConfig(), logger),
		logger:  logger,
	}
}

// ValidateConfiguration checks credential shape before any network call.
func (c *Client) ValidateConfiguration() client.ValidationResult {
	if result := client.CheckCredential("feed aggregator API key", c.config.APIKey, "", 16); !result.IsValid {
		return result
	}

	if c.config.FeedURL == "" {
		return client.Invalid(
			"feed URL is not configured",
			"Set the RSS feed URL that should be aggregated.",
		)
	}
	if _, err := url.ParseRequestURI(c.config.FeedURL); err != nil {
		return client.Invalid(
			"feed URL is not a valid URL",
			"Provide an absolute URL, e.g. https://example.com/feed.xml.",
		)
	}
	return client.Valid()
}

// GetPosts fetches the most recent posts from the configured feed.
func (c *Client) GetPosts(ctx context.Context, opts Options) client.Result[[]Post] {
	start := time.Now()

	if validation := c.ValidateConfiguration(); !validation.IsValid {
		return client.Fail[[]Post](
			client.NewConfigurationError(validation.Error),
			client.Meta{Duration: time.Since(start)},
		)
	}

	if !c.limiter.CheckLimit() {
		return client.Fail[[]Post](
			client.NewRateLimitError("feed aggregator quota exhausted, retry later"),
			client.Meta{Duration: time.Since(start)},
		)
	}
	c.limiter.RecordRequest()

	maxPosts := c.config.MaxPosts
	if opts.MaxPosts > 0 {
		maxPosts = opts.MaxPosts
	}

	resp, reqErr := c.exec.Do(ctx, "feeds", func(ctx context.Context) (*http.Request, error) {
		return c.buildFeedRequest(ctx, maxPosts)
	})
	if reqErr != nil {
		return client.Fail[[]Post](reqErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: reqErr.StatusCode,
		})
	}
	defer resp.Body.Close()

	posts, decodeErr := decodeFeedResponse(resp)
	if decodeErr != nil {
		return client.Fail[[]Post](decodeErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: resp.StatusCode,
		})
	}

	c.logger.Debug().
		Int("posts", len(posts)).
		Dur("duration", time.Since(start)).
		Msg("Fetched feed posts")

	return client.Ok(posts, client.Meta{
		Duration:   time.Since(start),
		StatusCode: resp.StatusCode,
	})
}

// GetHealthStatus derives health from configuration validity and
// rate-limit headroom only; no live network probe.
func (c *Client) GetHealthStatus() health.Status {
	validation := c.ValidateConfiguration()
	details := map[string]any{
		"configValid":     validation.IsValid,
		"minuteRemaining": c.limiter.MinuteRemaining(),
		"dayRemaining":    c.limiter.DayRemaining(),
	}

	switch {
	case !validation.IsValid:
		details["error"] = validation.Error
		return health.Unhealthy(details)
	case c.limiter.MinuteRemaining() == 0 || c.limiter.DayRemaining() == 0:
		return health.Degraded(details)
	default:
		return health.Healthy(details)
	}
}

func (c *Client) buildFeedRequest(ctx context.Context, maxPosts int) (*http.Request, error) {
	query := url.Values{}
	query.Set("rss_url", c.config.FeedURL)
	query.Set("api_key", c.config.APIKey)
	query.Set("count", strconv.Itoa(maxPosts))
	query.Set("order_by", "pubDate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/api.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// feedResponse mirrors the slice of the upstream payload we consume.
type feedResponse struct {
	Status string `json:"status"`
	Items  []struct {
		Title      string   `json:"title"`
		Link       string   `json:"link"`
		Author     string   `json:"author"`
		PubDate    string   `json:"pubDate"`
		Categories []string `json:"categories"`
	} `json:"items"`
}

func decodeFeedResponse(resp *http.Response) ([]Post, *client.Error) {
	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &client.Error{
			Type:    client.ErrorTypeAPI,
			Message: "failed to decode feed response",
			Err:     err,
		}
	}

	if payload.Status != "ok" {
		return nil, &client.Error{
			Type:       client.ErrorTypeAPI,
			StatusCode: resp.StatusCode,
			Message:    "feed aggregator reported status " + payload.Status,
		}
	}

	posts := make([]Post, 0, len(payload.Items))
	for _, item := range payload.Items {
		post := Post{
			Title:      item.Title,
			Link:       item.Link,
			Author:     item.Author,
			Categories: item.Categories,
		}
		if ts, err := time.Parse(upstreamTimeLayout, item.PubDate); err == nil {
			post.PublishedAt = ts
		}
		posts = append(posts, post)
	}
	return posts, nil
}
