package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Driver decides when the next cycle starts once the previous one has finished.
// Wait returns early when wake fires and returns ctx.Err() when ctx is cancelled.
type Driver interface {
	Wait(ctx context.Context, finished time.Time, wake <-chan struct{}) error
}

// Scheduler is implemented by drivers that know their next activation in advance
type Scheduler interface {
	Next(finished time.Time) time.Time
}

// FixedDelay starts the next cycle d after the previous one finished
type FixedDelay time.Duration

// Next implements Scheduler
func (d FixedDelay) Next(finished time.Time) time.Time {
	return finished.Add(time.Duration(d))
}

// Wait implements Driver
func (d FixedDelay) Wait(ctx context.Context, finished time.Time, wake <-chan struct{}) error {
	return waitUntil(ctx, d.Next(finished), wake)
}

// CronSchedule starts cycles on a standard five-field cron expression
type CronSchedule struct {
	spec     string
	schedule cron.Schedule
}

// NewCronSchedule parses spec, e.g. "*/5 * * * *" or "@every 90s"
func NewCronSchedule(spec string) (*CronSchedule, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &CronSchedule{spec: spec, schedule: schedule}, nil
}

// String returns the cron expression
func (c *CronSchedule) String() string { return c.spec }

// Next implements Scheduler
func (c *CronSchedule) Next(finished time.Time) time.Time {
	return c.schedule.Next(finished)
}

// Wait implements Driver
func (c *CronSchedule) Wait(ctx context.Context, finished time.Time, wake <-chan struct{}) error {
	return waitUntil(ctx, c.Next(finished), wake)
}

func waitUntil(ctx context.Context, at time.Time, wake <-chan struct{}) error {
	timer := time.NewTimer(time.Until(at))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wake:
		return nil
	case <-timer.C:
		return nil
	}
}

// ManualDriver starts a cycle only when Tick is called
type ManualDriver struct {
	ticks   chan struct{}
	waiting chan struct{}
}

// NewManualDriver creates a driver for tests and one-shot tooling
func NewManualDriver() *ManualDriver {
	return &ManualDriver{ticks: make(chan struct{}), waiting: make(chan struct{}, 1)}
}

// Tick releases one waiting cycle. It blocks until the loop is waiting.
func (m *ManualDriver) Tick() {
	m.ticks <- struct{}{}
}

// Waiting is signalled every time the loop starts waiting
func (m *ManualDriver) Waiting() <-chan struct{} { return m.waiting }

// Wait implements Driver
func (m *ManualDriver) Wait(ctx context.Context, _ time.Time, wake <-chan struct{}) error {
	select {
	case m.waiting <- struct{}{}:
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-wake:
		return nil
	case <-m.ticks:
		return nil
	}
}
