// Package github lists a user's public repositories from the GitHub REST
// API, normalized into the portfolio's repository shape.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nrivas/portfolio-core/pkg/client"
	"github.com/nrivas/portfolio-core/pkg/health"
	"github.com/nrivas/portfolio-core/pkg/logging"
	"github.com/nrivas/portfolio-core/pkg/ratelimit"
)

const defaultBaseURL = "https://api.github.com"

// Personal access token prefixes. Fine-grained tokens use the longer one.
var tokenPrefixes = []string{"ghp_", "github_pat_"}

// Config holds the integration's credentials and operational limits.
// Immutable after client construction.
type Config struct {
	// Token is optional; unauthenticated requests work with a lower
	// upstream quota. When present its shape is validated.
	Token    string
	Username string

	// MaxRepos per page, capped upstream at 100.
	MaxRepos int

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	Limits ratelimit.Limits
}

// Repository is the normalized shape returned to callers.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Language    string    `json:"language"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Options filters a fetch call.
type Options struct {
	// MaxRepos overrides the configured page size when > 0.
	MaxRepos int

	// Page resumes a paginated listing (1-based). Zero means first page.
	Page int
}

// Client calls the GitHub REST API with rate limiting and retry.
type Client struct {
	config  Config
	limiter *ratelimit.Limiter
	exec    *client.Executor
	logger  zerolog.Logger
}

// New creates a GitHub client.
func New(config Config, httpClient *http.Client) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.MaxRepos <= 0 {
		config.MaxRepos = 10
	}

	logger := logging.NewLogger("github-client")

	return &Client{
		config:  config,
		limiter: ratelimit.NewLimiter("github", config.Limits, logger),
		exec:    client.NewExecutor(httpClient, client.DefaultRetryConfig(), logger),
		logger:  logger,
	}
}

// ValidateConfiguration checks credential shape before any network call.
// The token is optional, but when present it must look like a real
// personal access token.
func (c *Client) ValidateConfiguration() client.ValidationResult {
	if c.config.Username == "" {
		return client.Invalid(
			"GitHub username is not configured",
			"Set the username whose repositories should be listed.",
		)
	}

	if c.config.Token == "" {
		return client.Valid()
	}

	if client.IsPlaceholder(c.config.Token) {
		return client.Invalid(
			"GitHub token is a placeholder value",
			"Replace the token placeholder with a personal access token, or remove it for unauthenticated access.",
		)
	}

	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(c.config.Token, prefix) {
			return client.Valid()
		}
	}
	return client.Invalid(
		"GitHub token has an unexpected format",
		fmt.Sprintf("Personal access tokens start with %s. Verify the token was copied completely.",
			strings.Join(tokenPrefixes, " or ")),
	)
}

// GetRepositories fetches one page of the user's repositories, most
// recently updated first.
func (c *Client) GetRepositories(ctx context.Context, opts Options) client.Result[[]Repository] {
	start := time.Now()

	if validation := c.ValidateConfiguration(); !validation.IsValid {
		return client.Fail[[]Repository](
			client.NewConfigurationError(validation.Error),
			client.Meta{Duration: time.Since(start)},
		)
	}

	if !c.limiter.CheckLimit() {
		return client.Fail[[]Repository](
			client.NewRateLimitError("github request quota exhausted, retry later"),
			client.Meta{Duration: time.Since(start)},
		)
	}
	c.limiter.RecordRequest()

	perPage := c.config.MaxRepos
	if opts.MaxRepos > 0 {
		perPage = opts.MaxRepos
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	resp, reqErr := c.exec.Do(ctx, "github", func(ctx context.Context) (*http.Request, error) {
		return c.buildListRequest(ctx, perPage, page)
	})
	if reqErr != nil {
		return client.Fail[[]Repository](reqErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: reqErr.StatusCode,
		})
	}
	defer resp.Body.Close()

	repos, decodeErr := decodeRepoList(resp)
	if decodeErr != nil {
		return client.Fail[[]Repository](decodeErr, client.Meta{
			Duration:   time.Since(start),
			StatusCode: resp.StatusCode,
		})
	}

	// A full page means there may be more; expose the next page number
	// as the pagination cursor.
	nextToken := ""
	if len(repos) == perPage {
		nextToken = strconv.Itoa(page + 1)
	}

	c.logger.Debug().
		Int("repos", len(repos)).
		Dur("duration", time.Since(start)).
		Msg("Fetched repositories")

	return client.Ok(repos, client.Meta{
		Duration:      time.Since(start),
		StatusCode:    resp.StatusCode,
		NextPageToken: nextToken,
	})
}

// GetHealthStatus derives health from configuration validity and
// rate-limit headroom only; no live network probe.
func (c *Client) GetHealthStatus() health.Status {
	validation := c.ValidateConfiguration()
	details := map[string]any{
		"configValid":     validation.IsValid,
		"authenticated":   c.config.Token != "",
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

func (c *Client) buildListRequest(ctx context.Context, perPage, page int) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d&page=%d",
		c.config.BaseURL, c.config.Username, perPage, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
	return req, nil
}

// repoItem mirrors the slice of the upstream payload we consume.
type repoItem struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func decodeRepoList(resp *http.Response) ([]Repository, *client.Error) {
	var items []repoItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &client.Error{
			Type:    client.ErrorTypeAPI,
			Message: "failed to decode github response",
			Err:     err,
		}
	}

	repos := make([]Repository, 0, len(items))
	for _, item := range items {
		repos = append(repos, Repository{
			Name:        item.Name,
			FullName:    item.FullName,
			Description: item.Description,
			URL:         item.HTMLURL,
			Language:    item.Language,
			Stars:       item.Stars,
			Forks:       item.Forks,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return repos, nil
}
