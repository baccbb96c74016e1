package main

import (
	"testing"
)

func allVisible(NodeID) bool { return true }

func TestSearchFindsMatchesInTraversalOrder(t *testing.T) {
	tree := foldedTree(t,
		"main;foo;bar 5",
		"main;foo;baz 3",
		"main;qux 2",
	)
	s, err := newSearch("ba")
	if err != nil {
		t.Fatal(err)
	}
	s.run(tree)

	bar := nodeByPath(t, tree, "main", "foo", "bar")
	baz := nodeByPath(t, tree, "main", "foo", "baz")

	if len(s.Order) != 2 || s.Order[0] != bar || s.Order[1] != baz {
		t.Fatalf("Order = %v, want [bar baz]", s.Order)
	}
	if !s.Matches(bar) || !s.Matches(baz) {
		t.Error("bar and baz should both be hits")
	}
	if s.Matches(nodeByPath(t, tree, "main", "qux")) {
		t.Error("qux should not be a hit")
	}
}

func TestSearchCoverageCountsTopmostOnly(t *testing.T) {
	tree := foldedTree(t,
		"main;foo;bar 5",
		"main;foo;baz 3",
		"main;qux 2",
	)
	tests := []struct {
		pattern string
		want    int64
	}{
		{"foo|bar", 8},   // bar nests under foo
		{"main|baz", 10}, // baz nests under main
		{"bar|baz", 8},   // disjoint subtrees both count
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			s, err := newSearch(tt.pattern)
			if err != nil {
				t.Fatal(err)
			}
			s.run(tree)
			if s.Coverage != tt.want {
				t.Errorf("Coverage = %d, want %d", s.Coverage, tt.want)
			}
		})
	}
}

func TestSearchJumpsAreCyclic(t *testing.T) {
	tree := foldedTree(t,
		"main;foo;bar 5",
		"main;foo;baz 3",
		"main;qux 2",
	)
	s, err := newSearch("ba")
	if err != nil {
		t.Fatal(err)
	}
	s.run(tree)

	bar := nodeByPath(t, tree, "main", "foo", "bar")
	baz := nodeByPath(t, tree, "main", "foo", "baz")
	qux := nodeByPath(t, tree, "main", "qux")

	if got, ok := s.NextMatch(bar, allVisible); !ok || got != baz {
		t.Errorf("NextMatch(bar) = %v, want baz", got)
	}
	if got, ok := s.NextMatch(baz, allVisible); !ok || got != bar {
		t.Errorf("NextMatch(baz) = %v, want bar (wrap)", got)
	}
	if got, ok := s.PrevMatch(bar, allVisible); !ok || got != baz {
		t.Errorf("PrevMatch(bar) = %v, want baz (wrap)", got)
	}
	// A cursor off the match list starts from the ends.
	if got, ok := s.NextMatch(qux, allVisible); !ok || got != bar {
		t.Errorf("NextMatch(qux) = %v, want bar", got)
	}
	if got, ok := s.PrevMatch(qux, allVisible); !ok || got != baz {
		t.Errorf("PrevMatch(qux) = %v, want baz", got)
	}
}

func TestSearchSkipsInvisibleMatches(t *testing.T) {
	tree := foldedTree(t,
		"main;foo;bar 5",
		"main;foo;baz 3",
	)
	s, err := newSearch("ba")
	if err != nil {
		t.Fatal(err)
	}
	s.run(tree)

	bar := nodeByPath(t, tree, "main", "foo", "bar")
	onlyBar := func(id NodeID) bool { return id == bar }

	if got, ok := s.NextMatch(bar, onlyBar); !ok || got != bar {
		t.Errorf("NextMatch with one visible hit = %v (ok=%v), want bar", got, ok)
	}
	if _, ok := s.NextMatch(bar, func(NodeID) bool { return false }); ok {
		t.Error("NextMatch with nothing visible should report no hit")
	}
}

func TestSearchInvalidPatternFails(t *testing.T) {
	if _, err := newSearch("(unclosed"); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestExactSearchEscapesMetacharacters(t *testing.T) {
	tree := foldedTree(t,
		"x;a.b(c) 2",
		"x;azb(c) 1",
	)
	s := newExactSearch("a.b(c)")
	s.run(tree)

	want := nodeByPath(t, tree, "x", "a.b(c)")
	decoy := nodeByPath(t, tree, "x", "azb(c)")

	if !s.Matches(want) {
		t.Error("literal name should match itself")
	}
	if s.Matches(decoy) {
		t.Error("dot must not match as a wildcard")
	}
	if len(s.Order) != 1 {
		t.Errorf("Order = %v, want exactly one hit", s.Order)
	}
}

func TestSearchRerunAfterMerge(t *testing.T) {
	tree := foldedTree(t, "main;foo;bar 5")
	s, err := newSearch("ba")
	if err != nil {
		t.Fatal(err)
	}
	s.run(tree)
	if len(s.Order) != 1 {
		t.Fatalf("Order = %v, want one hit", s.Order)
	}

	tree.Merge([]Stack{{Frames: []string{"main", "foo", "bazooka"}, Weight: 9}})
	s.run(tree)

	bazooka := nodeByPath(t, tree, "main", "foo", "bazooka")
	if !s.Matches(bazooka) {
		t.Fatal("rerun should pick up merged nodes")
	}
	// bazooka outweighs bar now, so it comes first in traversal order.
	if len(s.Order) != 2 || s.Order[0] != bazooka {
		t.Errorf("Order = %v, want bazooka first", s.Order)
	}
}
