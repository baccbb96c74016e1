package main

import (
	"fmt"
	"regexp"
)

// SearchState is one active search: the pattern as entered plus its hits
// against the current tree. Hits are recomputed after every merge so live
// trees keep their highlights fresh.
type SearchState struct {
	// Input is the text the user typed, or the frame name for an exact
	// search. Shown verbatim in the status line.
	Input string
	Exact bool

	re *regexp.Regexp

	// Hits marks every matching node. Order holds the same nodes in
	// depth-first traversal order; match jumps walk this slice cyclically.
	Hits  map[NodeID]bool
	Order []NodeID

	// Coverage sums the totals of topmost matches only, so nested hits in
	// one subtree count its samples once.
	Coverage int64
}

// newSearch compiles a regular expression search. The error is the caller's
// cue to keep whatever search state was active before.
func newSearch(pattern string) (*SearchState, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	return &SearchState{Input: pattern, re: re}, nil
}

// newExactSearch matches the given frame name and nothing else. Regex
// metacharacters in the name are escaped, so it cannot fail to compile.
func newExactSearch(name string) *SearchState {
	return &SearchState{
		Input: name,
		Exact: true,
		re:    regexp.MustCompile("^" + regexp.QuoteMeta(name) + "$"),
	}
}

// run recomputes Hits, Order and Coverage against the tree.
func (s *SearchState) run(tree *FrameTree) {
	s.Hits = make(map[NodeID]bool)
	s.Order = s.Order[:0]
	s.Coverage = 0

	var visit func(id NodeID, covered bool)
	visit = func(id NodeID, covered bool) {
		if s.re.MatchString(tree.Name(id)) {
			s.Hits[id] = true
			s.Order = append(s.Order, id)
			if !covered {
				s.Coverage += tree.Total(id)
				covered = true
			}
		}
		for _, c := range tree.Children(id) {
			visit(c, covered)
		}
	}
	visit(RootID, false)
}

// Matches reports whether id is a hit of the current run.
func (s *SearchState) Matches(id NodeID) bool {
	return s.Hits[id]
}

// Pattern exposes the compiled expression for in-bar highlighting.
func (s *SearchState) Pattern() *regexp.Regexp { return s.re }

// NextMatch returns the first visible match after cur in traversal order,
// wrapping past the end. A cursor that is not itself a match starts from the
// top. Matches hidden by the current zoom or too narrow to draw are skipped.
func (s *SearchState) NextMatch(cur NodeID, visible func(NodeID) bool) (NodeID, bool) {
	n := len(s.Order)
	if n == 0 {
		return NoNode, false
	}
	start := s.indexOf(cur)
	for step := 1; step <= n; step++ {
		id := s.Order[((start+step)%n+n)%n]
		if visible(id) {
			return id, true
		}
	}
	return NoNode, false
}

// PrevMatch is NextMatch walking backwards.
func (s *SearchState) PrevMatch(cur NodeID, visible func(NodeID) bool) (NodeID, bool) {
	n := len(s.Order)
	if n == 0 {
		return NoNode, false
	}
	start := s.indexOf(cur)
	if start < 0 {
		start = n
	}
	for step := 1; step <= n; step++ {
		id := s.Order[((start-step)%n+n)%n]
		if visible(id) {
			return id, true
		}
	}
	return NoNode, false
}

func (s *SearchState) indexOf(id NodeID) int {
	for i, m := range s.Order {
		if m == id {
			return i
		}
	}
	return -1
}
