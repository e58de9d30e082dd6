package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultCategory is used when a listing entry carries no category label
const DefaultCategory = "News"

// Article represents a single listing entry. Link is the identity key.
type Article struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// ID returns a short stable identifier derived from the article link
func (a Article) ID() string {
	return GenerateID(a.Link)
}

// NewArticle builds an Article with the listing defaults applied.
// The description always mirrors the title and the date is normalized to UTC.
func NewArticle(title, link string, date time.Time, category string) Article {
	if category == "" {
		category = DefaultCategory
	}
	return Article{
		Title:       title,
		Link:        link,
		Date:        date.UTC(),
		Category:    category,
		Description: title,
	}
}

// GenerateID creates a unique ID from URL
func GenerateID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
