package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsfeed/dashboard/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("MONITOR_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	monitorURL := flag.String("url", defaultURL, "Monitor API URL")
	flag.Parse()

	program := tea.NewProgram(tui.NewModel(*monitorURL))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
