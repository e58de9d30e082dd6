// Package notify announces newly detected articles to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"newsfeed/types"
)

// Notifier announces the articles a cycle added to a feed
type Notifier interface {
	Announce(ctx context.Context, feedName string, articles []types.Article) error
	Close() error
}

// Message is the payload sent for each new article
type Message struct {
	ID          string    `json:"id"`
	Feed        string    `json:"feed"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

// NewMessage builds the announcement for one article
func NewMessage(feedName string, a types.Article) Message {
	return Message{
		ID:          a.ID(),
		Feed:        feedName,
		Title:       a.Title,
		Link:        a.Link,
		Date:        a.Date.UTC(),
		Category:    a.Category,
		Description: a.Description,
	}
}

func encode(feedName string, a types.Article) ([]byte, error) {
	return json.Marshal(NewMessage(feedName, a))
}

// Multi fans an announcement out to every notifier and joins their errors
type Multi []Notifier

// Announce implements Notifier
func (m Multi) Announce(ctx context.Context, feedName string, articles []types.Article) error {
	var errs []error
	for _, n := range m {
		if err := n.Announce(ctx, feedName, articles); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Notifier
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
