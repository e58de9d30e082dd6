package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollStatus creates a command to poll monitor status
func pollStatus(client *MonitorClient) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus()
		return StatusUpdateMsg{
			Status: status,
			Err:    err,
		}
	}
}

// triggerRefresh creates a command to request an immediate cycle
func triggerRefresh(client *MonitorClient) tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{Err: client.Refresh()}
	}
}

// tickCmd creates a command that ticks every second for polling
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
