// Package state persists the full set of known articles as a JSON array.
package state

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"newsfeed/common"
	"newsfeed/deduplication"
	"newsfeed/logging"
	"newsfeed/types"
)

// DateLayout is ISO-8601 with an explicit UTC offset, e.g. 2024-01-02T15:04:05+00:00
const DateLayout = "2006-01-02T15:04:05.999999999-07:00"

// record is the on-disk shape of one article
type record struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Store loads and saves the article snapshot at Path
type Store struct {
	path string
	log  logging.Logger
	now  func() time.Time
}

// NewStore creates a store backed by the file at path
func NewStore(path string, log logging.Logger) *Store {
	return &Store{path: path, log: log, now: time.Now}
}

// WithClock overrides the clock used for date fallbacks
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Path returns the snapshot location
func (s *Store) Path() string { return s.path }

// Load returns every persisted article. A missing file is an empty snapshot; a corrupt file is
// logged and also treated as empty. Records with an unreadable date get the current time.
func (s *Store) Load() []types.Article {
	articles, err := s.read()
	if err != nil {
		var corrupt *types.StateCorruptError
		if errors.As(err, &corrupt) {
			s.log.Warn("state file corrupt, starting fresh", "path", s.path, "error", err)
		} else {
			s.log.Error("failed to read state file, starting fresh", "path", s.path, "error", err)
		}
		return nil
	}
	return articles
}

func (s *Store) read() ([]types.Article, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &types.StateCorruptError{Path: s.path, Err: err}
	}

	now := s.now().UTC()
	articles := make([]types.Article, 0, len(records))
	for _, r := range records {
		if r.Link == "" {
			s.log.Warn("skipping stored article without link", "title", r.Title)
			continue
		}
		date, err := time.Parse(time.RFC3339Nano, r.Date)
		if err != nil {
			s.log.Warn("stored article has invalid date, using now", "link", r.Link, "date", r.Date)
			date = now
		}
		a := types.NewArticle(r.Title, r.Link, date, r.Category)
		if r.Description != "" {
			a.Description = r.Description
		}
		articles = append(articles, a)
	}

	deduped := deduplication.Dedupe(articles)
	if len(deduped) != len(articles) {
		s.log.Warn("state file contained duplicate links", "dropped", len(articles)-len(deduped))
	}
	return deduped, nil
}

// Save overwrites the snapshot with articles. Failures are returned as *types.PublishError.
func (s *Store) Save(articles []types.Article) error {
	records := make([]record, len(articles))
	for i, a := range articles {
		records[i] = record{
			Title:       a.Title,
			Link:        a.Link,
			Date:        a.Date.UTC().Format(DateLayout),
			Category:    a.Category,
			Description: a.Description,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &types.PublishError{Path: s.path, Err: err}
	}
	if err := common.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return &types.PublishError{Path: s.path, Err: err}
	}
	return nil
}
