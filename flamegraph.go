package main

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// flameSpan is the computed position of one frame: a horizontal slice of
// the row at its depth.
type flameSpan struct {
	id    NodeID
	x     int
	width int
	depth int
}

// flameLayout holds the spans for one zoom root at one terminal width.
// levels[d] is the left-to-right run of spans at depth d below the root
// (the root itself is levels[0]). Frames narrower than one column are
// dropped along with their subtrees, so every id in spans is reachable by
// cursor movement.
type flameLayout struct {
	root   NodeID
	width  int
	levels [][]flameSpan
	spans  map[NodeID]flameSpan
}

// remainderItem is used for sorting during the apportionment process.
type remainderItem struct {
	Index  int
	Value  int
	Remain float64
}

// apportion distributes a total width among a set of floating-point values
// using the Largest Remainder Method, ensuring the sum of integer widths
// equals the total width.
func apportion(values []float64, totalWidth int) []int {
	if totalWidth <= 0 {
		return make([]int, len(values))
	}

	items := make([]remainderItem, len(values))
	sumFloats := 0.0
	for _, v := range values {
		sumFloats += v
	}

	if sumFloats == 0 {
		return make([]int, len(values))
	}

	// Calculate ideal widths and initial integer parts
	sumInts := 0
	for i, v := range values {
		idealWidth := v / sumFloats * float64(totalWidth)
		items[i].Index = i
		items[i].Value = int(idealWidth)
		items[i].Remain = idealWidth - float64(items[i].Value)
		sumInts += items[i].Value
	}

	// Distribute the remainder
	remainder := totalWidth - sumInts
	if remainder > 0 {
		// Sort by remainder descending to give extras to the largest fractions
		sort.Slice(items, func(i, j int) bool {
			return items[i].Remain > items[j].Remain
		})

		for i := 0; i < remainder; i++ {
			items[i].Value++
		}
	}

	// Restore original order
	sort.Slice(items, func(i, j int) bool {
		return items[i].Index < items[j].Index
	})

	result := make([]int, len(values))
	for i := range items {
		result[i] = items[i].Value
	}

	return result
}

type layoutItem struct {
	id    NodeID
	x     int
	width int
	depth int
}

// layoutFlame computes spans for the subtree rooted at root. Each node's
// children split the parent's span proportionally by total weight, in child
// order, and their widths sum exactly to the parent's width.
func layoutFlame(tree *FrameTree, root NodeID, width int) *flameLayout {
	l := &flameLayout{
		root:  root,
		width: width,
		spans: make(map[NodeID]flameSpan),
	}
	if width <= 0 || tree.Total(root) <= 0 {
		return l
	}

	// Process nodes level by level (BFS) so each row accumulates in
	// increasing x order.
	queue := []layoutItem{{id: root, x: 0, width: width, depth: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		sp := flameSpan{id: item.id, x: item.x, width: item.width, depth: item.depth}
		for len(l.levels) <= item.depth {
			l.levels = append(l.levels, nil)
		}
		l.levels[item.depth] = append(l.levels[item.depth], sp)
		l.spans[item.id] = sp

		children := tree.Children(item.id)
		if len(children) == 0 {
			continue
		}
		childValues := make([]float64, len(children))
		for i, c := range children {
			childValues[i] = float64(tree.Total(c))
		}
		childWidths := apportion(childValues, item.width)

		x := item.x
		for i, c := range children {
			if childWidths[i] > 0 {
				queue = append(queue, layoutItem{id: c, x: x, width: childWidths[i], depth: item.depth + 1})
			}
			x += childWidths[i]
		}
	}
	return l
}

func (l *flameLayout) visible(id NodeID) bool {
	_, ok := l.spans[id]
	return ok
}

func (l *flameLayout) depthCount() int {
	return len(l.levels)
}

// neighbor returns the span dir positions away within the same row. Rows run
// across sibling groups, so stepping past the last child of one parent lands
// on the first child of the next.
func (l *flameLayout) neighbor(id NodeID, dir int) (NodeID, bool) {
	sp, ok := l.spans[id]
	if !ok {
		return NoNode, false
	}
	row := l.levels[sp.depth]
	i := sort.Search(len(row), func(j int) bool { return row[j].x >= sp.x })
	j := i + dir
	if j < 0 || j >= len(row) {
		return NoNode, false
	}
	return row[j].id, true
}

// widestVisibleChild picks the child covering the most columns. Children
// come back ordered by total weight, so the first visible one wins.
func (l *flameLayout) widestVisibleChild(tree *FrameTree, id NodeID) (NodeID, bool) {
	for _, c := range tree.Children(id) {
		if l.visible(c) {
			return c, true
		}
	}
	return NoNode, false
}

// firstAt returns the leftmost span at the given depth.
func (l *flameLayout) firstAt(depth int) (NodeID, bool) {
	if depth < 0 || depth >= len(l.levels) || len(l.levels[depth]) == 0 {
		return NoNode, false
	}
	return l.levels[depth][0].id, true
}

// getColorForPercentage returns a color based on how "hot" a function is.
func getColorForPercentage(percentage float64) lipgloss.Color {
	switch {
	case percentage >= 10.0: // Very hot - red
		return lipgloss.Color("196")
	case percentage >= 5.0: // Hot - orange
		return lipgloss.Color("202")
	case percentage >= 2.0: // Warm - yellow-orange
		return lipgloss.Color("208")
	case percentage >= 1.0: // Medium - yellow
		return lipgloss.Color("220")
	case percentage >= 0.5: // Cool - light green
		return lipgloss.Color("154")
	default: // Very cool - green
		return lipgloss.Color("82")
	}
}

type renderOpts struct {
	height    int
	scroll    int
	cursor    NodeID
	rootTotal int64
	matches   map[NodeID]bool
	pattern   *regexp.Regexp
	styles    *Styles
}

// renderFlame renders the rows in [scroll, scroll+height) as terminal lines.
// The second result reports whether rows with visible frames remain below
// the window.
func renderFlame(tree *FrameTree, l *flameLayout, opts renderOpts) ([]string, bool) {
	if opts.height <= 0 || len(l.levels) == 0 {
		return nil, false
	}
	start := opts.scroll
	if start < 0 {
		start = 0
	}
	end := start + opts.height
	if end > len(l.levels) {
		end = len(l.levels)
	}
	if start >= end {
		return nil, len(l.levels) > end
	}

	lines := make([]string, 0, end-start)
	for depth := start; depth < end; depth++ {
		var b strings.Builder
		pos := 0
		for _, sp := range l.levels[depth] {
			if sp.x > pos {
				b.WriteString(strings.Repeat(" ", sp.x-pos))
			}
			b.WriteString(renderSpan(tree, sp, opts))
			pos = sp.x + sp.width
		}
		if pos < l.width {
			b.WriteString(strings.Repeat(" ", l.width-pos))
		}
		lines = append(lines, b.String())
	}
	return lines, len(l.levels) > end
}

// renderSpan draws one frame at exactly sp.width columns. One-column frames
// collapse to a dot; wider ones carry a leading space so adjacent frames
// stay distinguishable.
func renderSpan(tree *FrameTree, sp flameSpan, opts renderOpts) string {
	percent := percentOf(tree.Total(sp.id), opts.rootTotal)

	var label string
	if sp.width <= 1 {
		label = "."
	} else {
		name := tree.Name(sp.id)
		label = fmt.Sprintf(" %s (%.1f%%)", name, percent)
		if len([]rune(label)) > sp.width {
			short := []rune(" " + name)
			if len(short) > sp.width {
				short = short[:sp.width]
			}
			label = string(short)
		}
		if pad := sp.width - len([]rune(label)); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
	}

	switch {
	case sp.id == opts.cursor:
		return opts.styles.FlameCursor.Render(label)
	case opts.matches != nil && opts.matches[sp.id]:
		return renderMatchedSpan(label, opts)
	default:
		style := lipgloss.NewStyle().
			Background(getColorForPercentage(percent)).
			Foreground(lipgloss.Color("232"))
		return style.Render(label)
	}
}

// renderMatchedSpan colors the whole bar as a hit and bolds the part of the
// name the pattern matched, when it survived truncation.
func renderMatchedSpan(label string, opts renderOpts) string {
	base := opts.styles.FlameMatch
	if opts.pattern != nil {
		if loc := opts.pattern.FindStringIndex(label); loc != nil {
			return base.Render(label[:loc[0]]) +
				base.Bold(true).Underline(true).Render(label[loc[0]:loc[1]]) +
				base.Render(label[loc[1]:])
		}
	}
	return base.Render(label)
}
