package monitor

import (
	"fmt"
	"sync"
	"time"
)

// State of the monitor loop
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// CycleResult summarises one detection cycle
type CycleResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Fetched    int       `json:"fetched"`
	New        int       `json:"new"`
	Total      int       `json:"total"`
	FeedPath   string    `json:"feed_path,omitempty"`
	Published  bool      `json:"published"`
	Saved      bool      `json:"saved"`
	Announced  int       `json:"announced"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether the cycle ended with an error
func (c CycleResult) Failed() bool { return c.Error != "" }

// LogEntry is one line of recent activity
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Status is a point-in-time snapshot served by the API
type Status struct {
	State     State        `json:"state"`
	Feed      string       `json:"feed"`
	Source    string       `json:"source"`
	Cycles    int          `json:"cycles"`
	Failures  int          `json:"failures"`
	LastCycle *CycleResult `json:"last_cycle,omitempty"`
	NextRun   *time.Time   `json:"next_run,omitempty"`
	Logs      []LogEntry   `json:"logs"`
}

// Tracker holds the loop status with thread-safe access
type Tracker struct {
	mu sync.RWMutex

	state    State
	feed     string
	source   string
	cycles   int
	failures int
	last     *CycleResult
	nextRun  *time.Time

	// ring buffer
	logs    []LogEntry
	maxLogs int
	now     func() time.Time
}

// NewTracker creates an idle tracker for one feed
func NewTracker(feed, source string) *Tracker {
	return &Tracker{
		state:   StateIdle,
		feed:    feed,
		source:  source,
		logs:    make([]LogEntry, 0),
		maxLogs: 50,
		now:     time.Now,
	}
}

// AddLog records an activity line
func (t *Tracker) AddLog(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLog(fmt.Sprintf(format, args...))
}

// addLog must hold lock
func (t *Tracker) addLog(message string) {
	t.logs = append(t.logs, LogEntry{Timestamp: t.now(), Message: message})
	if len(t.logs) > t.maxLogs {
		t.logs = t.logs[len(t.logs)-t.maxLogs:]
	}
}

func (t *Tracker) begin(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateRunning
	t.nextRun = nil
	t.addLog("cycle " + id + " started")
}

func (t *Tracker) finish(res CycleResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateIdle
	t.cycles++
	t.last = &res

	switch {
	case res.Failed():
		t.failures++
		t.addLog("cycle " + res.ID + " failed: " + res.Error)
	case res.New > 0:
		t.addLog(fmt.Sprintf("cycle %s published %d new article(s), %d total", res.ID, res.New, res.Total))
	default:
		t.addLog(fmt.Sprintf("cycle %s found nothing new (%d fetched)", res.ID, res.Fetched))
	}
}

func (t *Tracker) setNextRun(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextRun = &at
}

// Snapshot returns a copy of the current status
func (t *Tracker) Snapshot() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Status{
		State:    t.state,
		Feed:     t.feed,
		Source:   t.source,
		Cycles:   t.cycles,
		Failures: t.failures,
		Logs:     append([]LogEntry{}, t.logs...),
	}
	if t.last != nil {
		last := *t.last
		s.LastCycle = &last
	}
	if t.nextRun != nil {
		next := *t.nextRun
		s.NextRun = &next
	}
	return s
}
