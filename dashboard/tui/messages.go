package tui

import (
	"time"

	"newsfeed/monitor"
)

// Messages for the tea program (polling-based)

// StatusUpdateMsg is sent when we receive status from the monitor
type StatusUpdateMsg struct {
	Status *monitor.Status
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// RefreshMsg is sent when a user-requested refresh was accepted or rejected
type RefreshMsg struct {
	Err error
}
