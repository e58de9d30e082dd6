package tui

// UI Text Constants
const (
	TextTitle        = "News Feed Monitor"
	TextNotConnected = "Not connected to monitor"
	TextFooter       = "Press 'r' to refresh now | Press 'q' or Ctrl+C to quit"
)
