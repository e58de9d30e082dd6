package tui

import (
	"fmt"
	"time"

	"newsfeed/monitor"

	tea "github.com/charmbracelet/bubbletea"
)

// Model represents the dashboard state (thin client)
type Model struct {
	Client *MonitorClient

	// synced from the monitor
	Status *monitor.Status
	Err    error

	Connected  bool
	LastPoll   time.Time
	RefreshErr error
	Refreshing bool
}

// NewModel creates a new dashboard model
func NewModel(monitorURL string) Model {
	return Model{
		Client:    NewMonitorClient(monitorURL),
		Connected: false,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}

// getStateText returns the headline for the current monitor state
func (m Model) getStateText() string {
	if !m.Connected {
		msg := TextNotConnected
		if m.Err != nil {
			msg = fmt.Sprintf("%s: %v", TextNotConnected, m.Err)
		}
		return ErrorStyle.Render(msg)
	}

	switch m.Status.State {
	case monitor.StateRunning:
		return StatusStyle.Render("Cycle running...")
	case monitor.StateIdle:
		if m.Status.NextRun != nil {
			return HighlightStyle.Render("Idle") + " " +
				InfoStyle.Render("next cycle at "+m.Status.NextRun.Local().Format(time.TimeOnly))
		}
		return HighlightStyle.Render("Idle")
	default:
		return string(m.Status.State)
	}
}

// formatLastCycle summarises the most recent cycle for display
func (m Model) formatLastCycle() string {
	c := m.Status.LastCycle
	if c == nil {
		return InfoStyle.Render("No cycle has finished yet")
	}

	text := fmt.Sprintf("Last cycle %s\nFinished: %s (%s)\nFetched: %d | New: %d | Total: %d | Announced: %d",
		c.ID,
		c.FinishedAt.Local().Format(time.DateTime),
		c.FinishedAt.Sub(c.StartedAt).Round(time.Millisecond),
		c.Fetched, c.New, c.Total, c.Announced)
	if c.Failed() {
		text += "\n" + ErrorStyle.Render("Error: "+c.Error)
	}
	return text
}
