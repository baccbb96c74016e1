package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/list"
)

// topEntry aggregates one function name across the whole tree: own weight
// from every occurrence, cumulative weight from topmost occurrences only so
// recursive frames do not double-count their subtrees.
type topEntry struct {
	name  string
	self  int64
	total int64
}

// topEntries flattens the tree into per-name rows. The sum of self weights
// over all rows equals the root total.
func topEntries(tree *FrameTree) []topEntry {
	byName := make(map[string]*topEntry)
	var names []string

	tree.Walk(RootID, func(id NodeID, depth int) bool {
		if id == RootID {
			return true
		}
		name := tree.Name(id)
		e, ok := byName[name]
		if !ok {
			e = &topEntry{name: name}
			byName[name] = e
			names = append(names, name)
		}
		e.self += tree.Self(id)
		if !tree.HasAncestorNamed(id, name) {
			e.total += tree.Total(id)
		}
		return true
	})

	entries := make([]topEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, *byName[name])
	}
	return entries
}

type sortColumn int

const (
	sortByTotal sortColumn = iota
	sortBySelf
	sortByName
)

// topSort is the active table ordering. Numeric columns default to
// descending, the name column to ascending; selecting the active column
// again flips the direction.
type topSort struct {
	col sortColumn
	asc bool
}

func (s topSort) toggled(col sortColumn) topSort {
	if s.col == col {
		return topSort{col: col, asc: !s.asc}
	}
	return topSort{col: col, asc: col == sortByName}
}

func sortTopEntries(entries []topEntry, s topSort) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less bool
		switch s.col {
		case sortBySelf:
			if a.self == b.self {
				return a.name < b.name
			}
			less = a.self < b.self
		case sortByName:
			less = a.name < b.name
		default:
			if a.total == b.total {
				return a.name < b.name
			}
			less = a.total < b.total
		}
		if s.asc {
			return less
		}
		return !less
	})
}

// topItem adapts a topEntry for the list widget.
type topItem struct {
	entry     topEntry
	unit      string
	rootTotal int64
}

func (i topItem) Title() string { return i.entry.name }

func (i topItem) Description() string {
	return fmt.Sprintf("Total: %s (%s) | Own: %s (%s)",
		formatWeight(i.entry.total, i.unit), formatPercent(i.entry.total, i.rootTotal),
		formatWeight(i.entry.self, i.unit), formatPercent(i.entry.self, i.rootTotal))
}

func (i topItem) FilterValue() string { return i.entry.name }

func topItems(entries []topEntry, unit string, rootTotal int64) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = topItem{entry: e, unit: unit, rootTotal: rootTotal}
	}
	return items
}

// topSortLine names the columns with their select keys and marks the active
// one with a direction arrow.
func topSortLine(s topSort) string {
	cols := []struct {
		col   sortColumn
		label string
	}{
		{sortByTotal, "Total [1]"},
		{sortBySelf, "Own [2]"},
		{sortByName, "Name [3]"},
	}
	line := "Sort: "
	for i, c := range cols {
		if i > 0 {
			line += " | "
		}
		line += c.label
		if c.col == s.col {
			if s.asc {
				line += " ▲"
			} else {
				line += " ▼"
			}
		}
	}
	return line
}
