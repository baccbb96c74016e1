package main

import (
	"errors"
	"sort"
	"sync"
)

// NodeID is a stable index into a FrameTree's node arena. IDs stay valid
// across merges: merging only appends nodes or grows weights, never
// relocates or removes.
type NodeID int

const (
	// NoNode marks the absence of a node, e.g. the root's parent.
	NoNode NodeID = -1
	// RootID addresses the synthetic root in every tree.
	RootID NodeID = 0
)

// RootName labels the synthetic root that owns every ingested stack.
const RootName = "all"

// ErrBadWeight is returned by Insert for zero or negative sample weights.
var ErrBadWeight = errors.New("sample weight must be positive")

// Stack is one folded call path, outermost frame first.
type Stack struct {
	Frames []string
	Weight int64
}

type frameNode struct {
	name     string
	total    int64
	self     int64
	parent   NodeID
	children map[string]NodeID

	// ordered caches the children in layout order; stale forces a rebuild
	// after an insert touched this node.
	ordered []NodeID
	stale   bool
}

// FrameTree is the weighted call tree built from folded stacks. Every stack
// inserted adds its weight to each node along its path; the leaf additionally
// gains self weight, so total(n) == self(n) + sum of children totals holds
// for every node and total(root) equals the sum of all ingested weights.
//
// Insert and Merge serialize under an internal mutex so batches never
// interleave. Reads are unsynchronized: they belong to the goroutine that
// applies merges (batches arrive there as messages), so a read never races a
// mutation.
type FrameTree struct {
	mu    sync.Mutex
	nodes []frameNode
}

// NewFrameTree returns a tree holding only the synthetic root.
func NewFrameTree() *FrameTree {
	t := &FrameTree{}
	t.nodes = append(t.nodes, frameNode{
		name:     RootName,
		parent:   NoNode,
		children: make(map[string]NodeID),
		stale:    true,
	})
	return t
}

// Insert adds one call path to the tree. An empty path is a no-op; a zero or
// negative weight is rejected with ErrBadWeight and leaves the tree
// untouched.
func (t *FrameTree) Insert(frames []string, weight int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insert(frames, weight)
}

func (t *FrameTree) insert(frames []string, weight int64) error {
	if len(frames) == 0 {
		return nil
	}
	if weight <= 0 {
		return ErrBadWeight
	}
	cur := RootID
	t.nodes[cur].total += weight
	for _, name := range frames {
		t.nodes[cur].stale = true
		child, ok := t.nodes[cur].children[name]
		if !ok {
			child = NodeID(len(t.nodes))
			t.nodes = append(t.nodes, frameNode{
				name:     name,
				parent:   cur,
				children: make(map[string]NodeID),
				stale:    true,
			})
			t.nodes[cur].children[name] = child
		}
		t.nodes[child].total += weight
		cur = child
	}
	t.nodes[cur].self += weight
	return nil
}

// Merge applies a batch of stacks inside one critical section, in the order
// the producer emitted them. It is the sole mutation entry point in live
// mode. Returns how many stacks were applied; stacks rejected as input
// errors are skipped without aborting the batch.
func (t *FrameTree) Merge(batch []Stack) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	applied := 0
	for _, s := range batch {
		if err := t.insert(s.Frames, s.Weight); err == nil && len(s.Frames) > 0 {
			applied++
		}
	}
	return applied
}

// Name returns id's display name.
func (t *FrameTree) Name(id NodeID) string { return t.nodes[id].name }

// Total returns id's cumulative weight (itself plus all descendants).
func (t *FrameTree) Total(id NodeID) int64 { return t.nodes[id].total }

// Self returns the weight attributed to id exactly, i.e. samples where this
// frame was the leaf.
func (t *FrameTree) Self(id NodeID) int64 { return t.nodes[id].self }

// Parent returns id's parent, or NoNode for the root.
func (t *FrameTree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Len returns the number of nodes in the arena, root included.
func (t *FrameTree) Len() int { return len(t.nodes) }

// Children returns id's children ordered by descending total, ties broken by
// name ascending. This order is what layout and search traversal rely on.
// The returned slice is owned by the tree; callers must not hold it across a
// merge.
func (t *FrameTree) Children(id NodeID) []NodeID {
	n := &t.nodes[id]
	if n.stale {
		ids := make([]NodeID, 0, len(n.children))
		for _, c := range n.children {
			ids = append(ids, c)
		}
		sort.Slice(ids, func(i, j int) bool {
			a, b := &t.nodes[ids[i]], &t.nodes[ids[j]]
			if a.total != b.total {
				return a.total > b.total
			}
			return a.name < b.name
		})
		n.ordered = ids
		n.stale = false
	}
	return n.ordered
}

// Walk visits the subtree under from depth-first in deterministic child
// order, calling fn with each node and its depth relative to from. fn
// returning false stops the walk.
func (t *FrameTree) Walk(from NodeID, fn func(id NodeID, depth int) bool) {
	var visit func(id NodeID, depth int) bool
	visit = func(id NodeID, depth int) bool {
		if !fn(id, depth) {
			return false
		}
		for _, child := range t.Children(id) {
			if !visit(child, depth+1) {
				return false
			}
		}
		return true
	}
	visit(from, 0)
}

// Path returns the node IDs from the true root down to id, inclusive.
func (t *FrameTree) Path(id NodeID) []NodeID {
	var rev []NodeID
	for cur := id; cur != NoNode; cur = t.nodes[cur].parent {
		rev = append(rev, cur)
	}
	path := make([]NodeID, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// Depth returns how many edges separate id from the true root.
func (t *FrameTree) Depth(id NodeID) int {
	d := 0
	for cur := t.nodes[id].parent; cur != NoNode; cur = t.nodes[cur].parent {
		d++
	}
	return d
}

// HasAncestorNamed reports whether any proper ancestor of id carries the
// given display name. The top view uses this to count recursive frames once
// per path.
func (t *FrameTree) HasAncestorNamed(id NodeID, name string) bool {
	for cur := t.nodes[id].parent; cur != NoNode; cur = t.nodes[cur].parent {
		if t.nodes[cur].name == name {
			return true
		}
	}
	return false
}
