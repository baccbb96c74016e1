// commands.go
package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickerCmd sends a tickMsg at a given interval
func tickerCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// sampleTickCmd schedules the next sampling cycle.
func sampleTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return sampleTickMsg{}
	})
}

// sampleCmd runs one sampling cycle in the background. Only one cycle is in
// flight at a time: the next one is scheduled when this one's result has
// been applied.
func sampleCmd(ctx context.Context, s Sampler) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		stacks, err := s.Sample(ctx)
		return sampleResultMsg{stacks: stacks, err: err, took: time.Since(start)}
	}
}
