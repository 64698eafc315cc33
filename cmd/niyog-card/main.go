package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johnwards/niyog/internal/card"
	"github.com/johnwards/niyog/pkg/client"
)

const defaultAPIURL = "http://localhost:8080"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: niyog-card <applicationId>")
		os.Exit(2)
	}

	baseURL := os.Getenv("NIYOG_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	c := client.New(baseURL, os.Getenv("NIYOG_AUTH_TOKEN"))

	p := tea.NewProgram(card.New(c, os.Args[1]))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
