package main

import (
	"strings"
	"testing"
)

func TestTopSelfSumsToRootTotal(t *testing.T) {
	tree := foldedTree(t,
		"main;foo;bar 5",
		"main;foo;baz 3",
		"main;foo 1",
		"main;qux 2",
	)
	entries := topEntries(tree)

	var sum int64
	for _, e := range entries {
		sum += e.self
	}
	if sum != tree.Total(RootID) {
		t.Fatalf("sum of own weights = %d, want %d", sum, tree.Total(RootID))
	}

	byName := make(map[string]topEntry)
	for _, e := range entries {
		byName[e.name] = e
	}
	if foo := byName["foo"]; foo.self != 1 || foo.total != 9 {
		t.Errorf("foo = %+v, want self 1 total 9", foo)
	}
	if m := byName["main"]; m.self != 0 || m.total != 11 {
		t.Errorf("main = %+v, want self 0 total 11", m)
	}
}

func TestTopRecursiveFramesCountOnce(t *testing.T) {
	tree := foldedTree(t, "a;b;a;c 5")
	byName := make(map[string]topEntry)
	for _, e := range topEntries(tree) {
		byName[e.name] = e
	}

	// "a" occurs twice on the path; only the outer occurrence contributes
	// its subtree.
	if a := byName["a"]; a.total != 5 {
		t.Errorf("a.total = %d, want 5", a.total)
	}
	if a := byName["a"]; a.self != 0 {
		t.Errorf("a.self = %d, want 0", a.self)
	}
	if c := byName["c"]; c.self != 5 || c.total != 5 {
		t.Errorf("c = %+v, want self 5 total 5", c)
	}
}

func TestTopAggregatesAcrossSubtrees(t *testing.T) {
	tree := foldedTree(t,
		"x;util 3",
		"y;util 2",
	)
	entries := topEntries(tree)
	count := 0
	for _, e := range entries {
		if e.name == "util" {
			count++
			if e.self != 5 || e.total != 5 {
				t.Errorf("util = %+v, want self 5 total 5", e)
			}
		}
	}
	if count != 1 {
		t.Fatalf("util rows = %d, want a single merged row", count)
	}
}

func TestTopSortColumns(t *testing.T) {
	entries := []topEntry{
		{name: "alpha", self: 1, total: 9},
		{name: "beta", self: 5, total: 5},
		{name: "gamma", self: 3, total: 12},
	}
	names := func() []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.name
		}
		return out
	}

	tests := []struct {
		name string
		sort topSort
		want []string
	}{
		{"total descending", topSort{col: sortByTotal}, []string{"gamma", "alpha", "beta"}},
		{"total ascending", topSort{col: sortByTotal, asc: true}, []string{"beta", "alpha", "gamma"}},
		{"own descending", topSort{col: sortBySelf}, []string{"beta", "gamma", "alpha"}},
		{"name ascending", topSort{col: sortByName, asc: true}, []string{"alpha", "beta", "gamma"}},
		{"name descending", topSort{col: sortByName}, []string{"gamma", "beta", "alpha"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortTopEntries(entries, tt.sort)
			got := names()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTopSortToggle(t *testing.T) {
	s := topSort{}
	if s.col != sortByTotal || s.asc {
		t.Fatalf("zero value = %+v, want total descending", s)
	}
	s = s.toggled(sortByTotal)
	if !s.asc {
		t.Error("re-selecting the active column should flip direction")
	}
	s = s.toggled(sortByName)
	if s.col != sortByName || !s.asc {
		t.Errorf("name column starts ascending, got %+v", s)
	}
	s = s.toggled(sortBySelf)
	if s.col != sortBySelf || s.asc {
		t.Errorf("own column starts descending, got %+v", s)
	}
}

func TestTopSortLineMarksActiveColumn(t *testing.T) {
	line := topSortLine(topSort{col: sortBySelf})
	if !strings.Contains(line, "Own [2] ▼") {
		t.Errorf("line %q should mark Own descending", line)
	}
	line = topSortLine(topSort{col: sortByName, asc: true})
	if !strings.Contains(line, "Name [3] ▲") {
		t.Errorf("line %q should mark Name ascending", line)
	}
	if strings.Contains(line, "Total [1] ▼") {
		t.Errorf("line %q should not mark inactive columns", line)
	}
}
