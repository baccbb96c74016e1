// styles.go
package main

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header,
	Status,
	StatusError,
	Source lipgloss.Style
	FlameCursor,
	FlameMatch,
	MatchStatus lipgloss.Style
	TabActive,
	TabInactive,
	TopHeader lipgloss.Style
}

func defaultStyles() Styles {
	s := Styles{}

	s.Header = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240"))

	s.Status = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	s.StatusError = lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // Red

	s.Source = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("205"))

	s.FlameCursor = lipgloss.NewStyle().
		Underline(true).
		Bold(true).
		Background(lipgloss.Color("99")).
		Foreground(lipgloss.Color("232"))
	s.FlameMatch = lipgloss.NewStyle().
		Background(lipgloss.Color("19")). // Deep blue
		Foreground(lipgloss.Color("255"))
	s.MatchStatus = lipgloss.NewStyle().
		Background(lipgloss.Color("19")).
		Foreground(lipgloss.Color("255")).
		Padding(0, 1)

	s.TabActive = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	s.TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	s.TopHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))

	return s
}
