package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left        key.Binding
	Right       key.Binding
	Down        key.Binding
	Up          key.Binding
	ScrollTop   key.Binding
	ScrollBot   key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Zoom        key.Binding
	ResetZoom   key.Binding
	Search      key.Binding
	SearchExact key.Binding
	NextMatch   key.Binding
	PrevMatch   key.Binding
	ClearSearch key.Binding
	SwitchView  key.Binding
	SortTotal   key.Binding
	SortOwn     key.Binding
	SortName    key.Binding
	Freeze      key.Binding
	Source      key.Binding
	Help        key.Binding
	Back        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("←/h", "previous frame"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("→/l", "next frame"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("↓/j", "widest child"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("↑/k", "parent"),
	),
	ScrollTop: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "scroll to top"),
	),
	ScrollBot: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "scroll to bottom"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("f", "pgdown"),
		key.WithHelp("f", "page down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("b", "pgup"),
		key.WithHelp("b", "page up"),
	),
	Zoom: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "zoom into frame"),
	),
	ResetZoom: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset zoom"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchExact: key.NewBinding(
		key.WithKeys("#"),
		key.WithHelp("#", "search this frame"),
	),
	NextMatch: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next match"),
	),
	PrevMatch: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "previous match"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "clear search"),
	),
	SwitchView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch view"),
	),
	SortTotal: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "sort by total"),
	),
	SortOwn: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "sort by own"),
	),
	SortName: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sort by name"),
	),
	Freeze: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "freeze"),
	),
	Source: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "view source"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Zoom, k.Search, k.SwitchView, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Down, k.Up},
		{k.ScrollTop, k.ScrollBot, k.PageDown, k.PageUp},
		{k.Zoom, k.ResetZoom, k.Back, k.Freeze},
		{k.Search, k.SearchExact, k.NextMatch, k.PrevMatch, k.ClearSearch},
		{k.SwitchView, k.SortTotal, k.SortOwn, k.SortName},
		{k.Source, k.Help, k.Quit},
	}
}
