// Package monitor runs the detection cycle: fetch the listing, merge new articles, publish and persist.
package monitor

import (
	"context"
	"fmt"
	"time"

	"newsfeed/deduplication"
	"newsfeed/logging"
	"newsfeed/notify"
	"newsfeed/types"

	"github.com/google/uuid"
)

// Fetcher retrieves the listing markup
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
	URL() string
}

// Extractor turns listing markup into articles
type Extractor interface {
	Extract(markup string, now time.Time) ([]types.Article, error)
}

// Store loads and saves the known article set
type Store interface {
	Load() []types.Article
	Save(articles []types.Article) error
}

// Publisher writes the feed document
type Publisher interface {
	Publish(ctx context.Context, articles []types.Article, feedName string) (string, error)
}

// Components wires a Runner. Notifier is optional.
type Components struct {
	Fetcher   Fetcher
	Extractor Extractor
	Store     Store
	Publisher Publisher
	Notifier  notify.Notifier
	FeedName  string
	Logger    logging.Logger
}

// Runner executes cycles one at a time
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	store     Store
	publisher Publisher
	notifier  notify.Notifier
	feedName  string
	log       logging.Logger
	status    *Tracker
	trigger   chan struct{}
	now       func() time.Time
}

// NewRunner creates a runner from its collaborators
func NewRunner(c Components) *Runner {
	return &Runner{
		fetcher:   c.Fetcher,
		extractor: c.Extractor,
		store:     c.Store,
		publisher: c.Publisher,
		notifier:  c.Notifier,
		feedName:  c.FeedName,
		log:       c.Logger,
		status:    NewTracker(c.FeedName, c.Fetcher.URL()),
		trigger:   make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Status returns the current loop status
func (r *Runner) Status() Status {
	return r.status.Snapshot()
}

// Trigger asks a waiting loop to start the next cycle now. Repeated calls while a cycle is
// running collapse into a single extra cycle.
func (r *Runner) Trigger() {
	select {
	case r.trigger <- struct{}{}:
		r.status.AddLog("refresh requested")
	default:
	}
}

// Run executes a cycle, waits on driver, and repeats until ctx is cancelled
func (r *Runner) Run(ctx context.Context, driver Driver) error {
	r.log.Info("monitor started", "feed", r.feedName, "source", r.fetcher.URL())
	for {
		res := r.RunOnce(ctx)
		if ctx.Err() != nil {
			break
		}

		if s, ok := driver.(Scheduler); ok {
			next := s.Next(res.FinishedAt)
			r.status.setNextRun(next)
			r.log.Debug("next cycle scheduled", "at", next)
		}
		if err := driver.Wait(ctx, res.FinishedAt, r.trigger); err != nil {
			break
		}
	}
	r.log.Info("monitor stopped", "feed", r.feedName)
	return ctx.Err()
}

// RunOnce performs one detection cycle. Errors and panics are logged and recorded in the
// result; they never escape.
func (r *Runner) RunOnce(ctx context.Context) (res CycleResult) {
	res = CycleResult{ID: uuid.NewString(), StartedAt: r.now().UTC()}
	r.status.begin(res.ID)

	defer func() {
		if p := recover(); p != nil {
			res.Error = fmt.Sprintf("panic: %v", p)
			r.log.Error("cycle panicked", "cycle_id", res.ID, "panic", p)
		}
		res.FinishedAt = r.now().UTC()
		r.status.finish(res)
	}()

	if err := r.cycle(ctx, &res); err != nil {
		res.Error = err.Error()
		r.log.Error("cycle failed", "cycle_id", res.ID, "error", err)
	}
	return res
}

func (r *Runner) cycle(ctx context.Context, res *CycleResult) error {
	markup, err := r.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	fetched, err := r.extractor.Extract(markup, r.now())
	if err != nil {
		return err
	}
	res.Fetched = len(fetched)

	existing := r.store.Load()
	merged, isNew := deduplication.Merge(existing, fetched)
	res.Total = len(merged)
	if !isNew {
		r.log.Info("no new articles", "cycle_id", res.ID, "fetched", res.Fetched, "total", res.Total)
		return nil
	}
	added := deduplication.NewArticles(existing, fetched)
	res.New = len(added)

	// nothing is written once the cycle has been cancelled
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := r.publisher.Publish(ctx, merged, r.feedName)
	if err != nil {
		return err
	}
	res.FeedPath = path
	res.Published = true

	if err := r.store.Save(merged); err != nil {
		return err
	}
	res.Saved = true

	r.log.Info("new articles published",
		"cycle_id", res.ID, "new", res.New, "total", res.Total, "path", path)
	for _, a := range added {
		r.log.Debug("new article", "cycle_id", res.ID, "title", a.Title, "link", a.Link)
	}

	if r.notifier != nil {
		if err := r.notifier.Announce(ctx, r.feedName, added); err != nil {
			r.log.Warn("failed to announce new articles", "cycle_id", res.ID, "error", err)
		} else {
			res.Announced = len(added)
		}
	}
	return nil
}
