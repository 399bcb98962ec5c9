// Package youtube fetches a channel's recent uploads from the YouTube
// Data API v3, normalized into the portfolio's video shape.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrivas/portfolio-core/pkg/client"
	"github.com/nrivas/portfolio-core/pkg/health"
	"github.com/nrivas/portfolio-core/pkg/logging"
	"github.com/nrivas/portfolio-core/pkg/pagination"
	"github.com/nrivas/portfolio-core/pkg/ratelimit"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"

	// API keys issued by Google Cloud start with this prefix and are
	// 39 characters long.
	keyPrefix = "AIza"
	keyLength = 39
)

// Config holds the integration's credentials and operational limits.
// Immutable after client construction.
type Config struct {
	APIKey    string
	ChannelID string

	// MaxResults per page, capped upstream at 50.
	MaxResults int

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	Limits ratelimit.Limits
}

// Video is the normalized shape returned to callers.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Options filters a fetch call.
type Options struct {
	// MaxResults overrides the configured page size when > 0.
	MaxResults int

	// PageToken resumes a paginated listing.
	PageToken string
}

// Client calls the YouTube Data API with rate limiting and retry.
type Client struct {
	config  Config
	limiter *ratelimit.Limiter
	exec    *client.Executor
	logger  zerolog.Logger
}

// New creates a YouTube client. The HTTP client may be nil; the executor
// supplies a default with a fixed timeout.
func New(config Config, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 12
	}

	logger := logging.NewLogger("youtube-client")

	return &Client{
		config:  config,
		limiter: ratelimit.NewLimiter("youtube", config.Limits, logger),
		exec:    client.NewExecutor(httpClient, client.DefaultRetryConfig(), logger),
		logger:  logger,
	}
}

// ValidateConfiguration checks credential shape before any network call.
func (c *Client) ValidateConfiguration() client.ValidationResult {
	if result := client.CheckCredential("YouTube API key", c.config.APIKey, keyPrefix, keyLength); !result.IsValid {
		return result
	}
	if c.config.ChannelID == "" {
		return client.Invalid(
			"YouTube channel ID is not configured",
			"Set the channel ID of the account whose uploads should be listed.",
		)
	}
	return client.Valid()
}

// GetVideos fetches one page of the channel's most recent uploads.
func (c *Client) GetVideos(ctx context.Context, opts Options) client.Result[[]Video] {
	start := time.Now()

	if validation := c.ValidateConfiguration(); !validation.IsValid {
		return client.Fail[[]Video](
			client.NewConfigurationError(validation.Error),
			client.Meta{Duration: time.Since(start)},
		)
	}

	if !c.limiter.CheckLimit() {
		return client.Fail[[]Video](
			client.NewRateLimitError("youtube request quota exhausted, retry later"),
			client.Meta{Duration: time.Since(start)},
		)
	}
	c.limiter.RecordRequest()

	maxResults := c.config.MaxResults
	if opts.MaxResults > 0 {
		maxResults = opts.MaxResults
	}

	resp, reqErr := c.exec.Do(ctx, "youtube", func(ctx context.Context) (*http.Request, error) {
		return c.buildSearchRequest(ctx, maxResults, opts.PageToken)
	})
	if reqErr != nil {
		return client.Fail[[]Video](reqErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: reqErr.StatusCode,
		})
	}
	defer resp.Body.Close()

	videos, nextToken, decodeErr := decodeSearchResponse(resp)
	if decodeErr != nil {
		return client.Fail[[]Video](decodeErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: resp.StatusCode,
		})
	}

	c.logger.Debug().
		Int("videos", len(videos)).
		Dur("duration", time.Since(start)).
		Msg("Fetched channel uploads")

	return client.Ok(videos, client.Meta{
		Duration:      time.Since(start),
		StatusCode:    resp.StatusCode,
		NextPageToken: nextToken,
	})
}

// GetAllVideos walks pagination tokens to collect the channel's uploads,
// bounded by maxPages.
func (c *Client) GetAllVideos(ctx context.Context, maxPages int) client.Result[[]Video] {
	start := time.Now()

	videos, err := pagination.Collect(ctx, func(ctx context.Context, token string) (pagination.Page[Video], *client.Error) {
		result := c.GetVideos(ctx, Options{PageToken: token})
		if !result.Success {
			return pagination.Page[Video]{}, result.Err
		}
		return pagination.Page[Video]{Items: result.Data, NextToken: result.Meta.NextPageToken}, nil
	}, pagination.Config{MaxPages: maxPages})

	meta := client.Meta{Duration: time.Since(start)}
	if err != nil {
		return client.Fail[[]Video](err, meta)
	}
	return client.Ok(videos, meta)
}

// GetHealthStatus derives health from configuration validity and
// rate-limit headroom only; it never performs a live network probe, so
// health reporting spends no quota.
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

func (c *Client) buildSearchRequest(ctx context.Context, maxResults int, pageToken string) (*http.Request, error) {
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("channelId", c.config.ChannelID)
	query.Set("order", "date")
	query.Set("type", "video")
	query.Set("maxResults", strconv.Itoa(maxResults))
	query.Set("key", c.config.APIKey)
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	endpoint := fmt.Sprintf("%s/search?%s", c.config.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// searchResponse mirrors the slice of the upstream payload we consume.
type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			PublishedAt time.Time `json:"publishedAt"`
			Thumbnails  struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

func decodeSearchResponse(resp *http.Response) ([]Video, string, *client.Error) {
	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", &client.Error{
			Type:    client.ErrorTypeAPI,
			Message: "failed to decode youtube response",
			Err:     err,
		}
	}

	videos := make([]Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			PublishedAt: item.Snippet.PublishedAt,
		})
	}

	return videos, payload.NextPageToken, nil
}
