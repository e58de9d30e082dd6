package config

import "time"

// Source Constants
const (
	// DefaultListingURL is the news listing page scraped each cycle
	DefaultListingURL = "https://www.example.gov/news"

	// DefaultFetchTimeout bounds the listing page request
	DefaultFetchTimeout = 10 * time.Second

	// DefaultUserAgent is sent with every listing request
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Scheduling Constants
const (
	// DefaultInterval is the delay between the end of one cycle and the start of the next
	DefaultInterval = 60 * time.Second
)

// Directory Constants
const (
	// DefaultFeedsDir holds the generated feed documents
	DefaultFeedsDir = "feeds"

	// DefaultStateFile holds the persisted article snapshot
	DefaultStateFile = "data/articles.json"

	// DefaultFeedName is the logical feed published by this service
	DefaultFeedName = "news"
)

// Feed Channel Constants
const (
	DefaultFeedTitle       = "Latest News"
	DefaultFeedDescription = "Latest articles from the news listing"
	DefaultFeedLanguage    = "en"
	DefaultFeedAuthor      = "newsfeed"
	DefaultFeedGenerator   = "newsfeed"
)

// Server Constants
const (
	DefaultPort = "8080"
)
