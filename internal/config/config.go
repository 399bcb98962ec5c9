// Package config loads the proxy's runtime configuration from an
// optional YAML file and PORTFOLIO_-prefixed environment variables.
// Environment variables override file values.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nrivas/portfolio-core/pkg/ratelimit"
)

// Config is the full runtime configuration of the proxy.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Cache  CacheConfig  `mapstructure:"cache"`

	YouTube YouTubeConfig `mapstructure:"youtube"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Feeds   FeedsConfig   `mapstructure:"feeds"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool `mapstructure:"pretty"`
}

// RedisConfig configures the optional primary cache tier. An empty Addr
// disables Redis entirely; the cache then runs in-memory only.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig configures the dual-tier cache manager.
type CacheConfig struct {
	Namespace      string        `mapstructure:"namespace"`
	DefaultTTL     time.Duration `mapstructure:"default_ttl"`
	MaxMemoryItems int           `mapstructure:"max_memory_items"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	Compression    bool          `mapstructure:"compression"`
}

// IntegrationLimits carries per-integration rate-limit ceilings.
type IntegrationLimits struct {
	MaxPerMinute int `mapstructure:"max_per_minute"`
	MaxPerDay    int `mapstructure:"max_per_day"`
}

// Limits converts to the rate limiter's representation. Zero values fall
// back to the limiter's defaults.
func (l IntegrationLimits) Limits() ratelimit.Limits {
	return ratelimit.Limits{MaxPerMinute: l.MaxPerMinute, MaxPerDay: l.MaxPerDay}
}

// YouTubeConfig configures the YouTube integration. Credentials are not
// validated here; each client validates its own configuration on first
// use so a missing key degrades one integration instead of failing boot.
type YouTubeConfig struct {
	APIKey     string            `mapstructure:"api_key"`
	ChannelID  string            `mapstructure:"channel_id"`
	MaxResults int               `mapstructure:"max_results"`
	Limits     IntegrationLimits `mapstructure:"limits"`
}

// GitHubConfig configures the GitHub integration.
type GitHubConfig struct {
	Token    string            `mapstructure:"token"`
	Username string            `mapstructure:"username"`
	MaxRepos int               `mapstructure:"max_repos"`
	Limits   IntegrationLimits `mapstructure:"limits"`
}

// FeedsConfig configures the feed aggregator integration.
type FeedsConfig struct {
	APIKey   string            `mapstructure:"api_key"`
	FeedURL  string            `mapstructure:"feed_url"`
	MaxPosts int               `mapstructure:"max_posts"`
	Limits   IntegrationLimits `mapstructure:"limits"`
}

// Load reads configuration from the given file path (optional, "" skips
// the file) and the environment. PORTFOLIO_SERVER_PORT overrides
// server.port, PORTFOLIO_YOUTUBE_API_KEY overrides youtube.api_key, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.namespace", "portfolio")
	v.SetDefault("cache.default_ttl", time.Hour)
	v.SetDefault("cache.max_memory_items", 1000)
	v.SetDefault("cache.sweep_interval", 10*time.Minute)
	v.SetDefault("cache.compression", true)

	// Every key needs a default so AutomaticEnv can surface overrides
	// through Unmarshal; viper only consults the environment for keys it
	// already knows about.
	v.SetDefault("redis.password", "")

	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.channel_id", "")
	v.SetDefault("youtube.max_results", 12)
	v.SetDefault("youtube.limits.max_per_minute", 0)
	v.SetDefault("youtube.limits.max_per_day", 0)

	v.SetDefault("github.token", "")
	v.SetDefault("github.username", "")
	v.SetDefault("github.max_repos", 10)
	v.SetDefault("github.limits.max_per_minute", 0)
	v.SetDefault("github.limits.max_per_day", 0)

	v.SetDefault("feeds.api_key", "")
	v.SetDefault("feeds.feed_url", "")
	v.SetDefault("feeds.max_posts", 10)
	v.SetDefault("feeds.limits.max_per_minute", 0)
	v.SetDefault("feeds.limits.max_per_day", 0)
}

// validate checks structural settings only. Integration credentials are
// deliberately not checked here.
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl must be positive, got %s", c.Cache.DefaultTTL)
	}
	if c.Cache.SweepInterval < 0 {
		return fmt.Errorf("cache.sweep_interval must not be negative, got %s", c.Cache.SweepInterval)
	}
	return nil
}

// RedisEnabled reports whether a primary cache tier is configured.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}
