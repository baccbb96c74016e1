// explainer.go
package main

// Explanation holds the title and text for a help topic.
type Explanation struct {
	Title       string
	Description string
}

// explainerMap contains our human-friendly explanations for each view.
var explainerMap = map[string]Explanation{
	"flamegraph": {
		Title: "Flamegraph View",
		Description: `Each bar is a function; its width is the share of samples where that
function was on the stack. Bars stack downward: a bar's children are the
functions it called.

Analogy: The Family Photo Album
Every sample is a snapshot of who was "at work" and who sent them there.
Wide bars show up in many photos. The widest path from top to bottom is
where your program actually spends its life.

Move with h/j/k/l, zoom with enter, and search with / to find a function
by name. A frame too narrow to draw is folded away until you zoom closer.`,
	},
	"top": {
		Title: "Top Functions View",
		Description: `A flat ranking of every function across the whole tree.

Total is the time a function was anywhere on the stack; Own counts only
samples where it was the innermost frame doing the work itself.

Analogy: Managers and Workers
A function with high Total but low Own is a manager: busy delegating.
High Own means it does the heavy lifting personally. Recursive calls are
counted once per call path, so a function cannot inflate its Total by
calling itself.`,
	},
	"live": {
		Title: "Live Flamegraph",
		Description: `Samples stream in from the target process and merge into the graph as
they arrive. The shape sharpens over time: early on everything flickers,
after a few seconds the hot paths stop moving.

Press z to freeze the picture while you inspect it. Sampling keeps
running; batches that arrive while frozen are discarded, so unfreezing
snaps you back to the present rather than replaying the past.`,
	},
}

// getExplanationForView returns the help text for the named view.
func getExplanationForView(viewName string) Explanation {
	if ex, ok := explainerMap[viewName]; ok {
		return ex
	}
	// Default explanation
	return Explanation{
		Title:       viewName,
		Description: "No specific explanation available for this view yet.",
	}
}
