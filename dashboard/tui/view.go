package tui

import (
	"fmt"
	"strings"
)

// maxLogLines limits the recent activity shown
const maxLogLines = 10

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if m.Connected {
		s := m.Status
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Feed: %s | Source: %s", s.Feed, s.Source)))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Cycles: %d | Failures: %d", s.Cycles, s.Failures)))
		b.WriteString("\n\n")

		b.WriteString(BoxStyle.Render(m.formatLastCycle()))
		b.WriteString("\n\n")

		if len(s.Logs) > 0 {
			b.WriteString(InfoStyle.Render("Recent Activity:"))
			b.WriteString("\n")
			logs := s.Logs
			if len(logs) > maxLogLines {
				logs = logs[len(logs)-maxLogLines:]
			}
			for _, entry := range logs {
				line := fmt.Sprintf("   %s  %s", entry.Timestamp.Local().Format("15:04:05"), entry.Message)
				b.WriteString(InfoStyle.Render(line))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if m.RefreshErr != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Refresh failed: %v", m.RefreshErr)))
		b.WriteString("\n\n")
	}

	b.WriteString(InfoStyle.Render(TextFooter))
	return b.String()
}
