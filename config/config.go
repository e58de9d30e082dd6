// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configuration validation errors.
var (
	ErrInvalidListingURL = errors.New("LISTING_URL must be an absolute http(s) URL")
	ErrInvalidBaseURL    = errors.New("BASE_URL must be an absolute http(s) origin")
	ErrInvalidFeedName   = errors.New("FEED_NAME may only contain letters, digits, '-' and '_'")
	ErrInvalidInterval   = errors.New("INTERVAL must be a positive duration")
	ErrInvalidTimeout    = errors.New("FETCH_TIMEOUT must be a positive duration")
	ErrMissingKafkaTopic = errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
)

var feedNameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Config is the complete service configuration.
type Config struct {
	ListingURL   string
	BaseURL      string
	UserAgent    string
	FetchTimeout time.Duration

	FeedName  string
	FeedsDir  string
	StateFile string

	Interval time.Duration
	Schedule string

	Port      string
	PublicURL string

	LogLevel  string
	LogFormat string

	Channel ChannelConfig
	S3      S3Config
	Kafka   KafkaConfig
	Redis   RedisConfig
}

// ChannelConfig is the fixed channel metadata of the published feed.
type ChannelConfig struct {
	Title       string
	Description string
	Language    string
	Image       string
	Favicon     string
	Copyright   string
	Author      string
	AuthorEmail string
	Generator   string
}

// S3Config enables mirroring feed documents to a bucket. Empty Bucket disables it.
type S3Config struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// KafkaConfig enables announcing new articles to a topic. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RedisConfig enables announcing new articles to a stream. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a validated Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	interval, err := parseDuration(get("INTERVAL", ""), DefaultInterval)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
	}
	timeout, err := parseDuration(get("FETCH_TIMEOUT", ""), DefaultFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}

	redisDB := 0
	if v := get("REDIS_DB", ""); v != "" {
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("REDIS_DB: %w", err)
		}
	}

	port := get("PORT", DefaultPort)

	cfg := &Config{
		ListingURL:   get("LISTING_URL", DefaultListingURL),
		BaseURL:      get("BASE_URL", ""),
		UserAgent:    get("USER_AGENT", DefaultUserAgent),
		FetchTimeout: timeout,
		FeedName:     get("FEED_NAME", DefaultFeedName),
		FeedsDir:     get("FEEDS_DIR", DefaultFeedsDir),
		StateFile:    get("STATE_FILE", DefaultStateFile),
		Interval:     interval,
		Schedule:     get("SCHEDULE", ""),
		Port:         port,
		PublicURL:    strings.TrimRight(get("PUBLIC_URL", "http://localhost:"+port), "/"),
		LogLevel:     get("LOG_LEVEL", "info"),
		LogFormat:    get("LOG_FORMAT", "text"),
		Channel: ChannelConfig{
			Title:       get("FEED_TITLE", DefaultFeedTitle),
			Description: get("FEED_DESCRIPTION", DefaultFeedDescription),
			Language:    get("FEED_LANGUAGE", DefaultFeedLanguage),
			Image:       get("FEED_IMAGE", ""),
			Favicon:     get("FEED_FAVICON", ""),
			Copyright:   get("FEED_COPYRIGHT", ""),
			Author:      get("FEED_AUTHOR", DefaultFeedAuthor),
			AuthorEmail: get("FEED_AUTHOR_EMAIL", ""),
			Generator:   get("FEED_GENERATOR", DefaultFeedGenerator),
		},
		S3: S3Config{
			Bucket:       get("S3_BUCKET", ""),
			Region:       get("S3_REGION", ""),
			Profile:      get("S3_PROFILE", ""),
			UsePathStyle: strings.EqualFold(get("S3_USE_PATH_STYLE", ""), "true"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(get("KAFKA_BROKERS", "")),
			Topic:   get("KAFKA_TOPIC", ""),
		},
		Redis: RedisConfig{
			Addr:     get("REDIS_ADDR", ""),
			Password: get("REDIS_PASS", ""),
			DB:       redisDB,
			Stream:   get("REDIS_STREAM", "articles:new"),
		},
	}

	if prefix := get("S3_PREFIX", ""); prefix != "" {
		cfg.S3.Prefix = strings.Trim(prefix, "/") + "/"
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = originOf(cfg.ListingURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if !isHTTPURL(c.ListingURL) {
		return ErrInvalidListingURL
	}
	if !isHTTPURL(c.BaseURL) {
		return ErrInvalidBaseURL
	}
	if !ValidFeedName(c.FeedName) {
		return ErrInvalidFeedName
	}
	if c.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return ErrMissingKafkaTopic
	}
	return nil
}

// ValidFeedName reports whether name is usable as a feed file name component.
func ValidFeedName(name string) bool {
	return feedNameRe.MatchString(name)
}

// FeedURL is the public self link of the named feed.
func (c *Config) FeedURL(name string) string {
	return c.PublicURL + "/feeds/" + name
}

func parseDuration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	// Bare integers are seconds
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
