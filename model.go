package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

type viewKind int

const (
	viewFlame viewKind = iota
	viewTop
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlaySource
	overlayHelp
)

type tickMsg time.Time

type sampleTickMsg struct{}

type sampleResultMsg struct {
	stacks []Stack
	err    error
	took   time.Duration
}

// appConfig carries everything main resolved before the UI starts.
type appConfig struct {
	tree   *FrameTree
	stats  *IngestStats
	source string // display name of the input: path or "stdin"

	live    *LiveFeedState
	sampler Sampler

	ctx    context.Context
	cancel context.CancelFunc

	debug bool
	log   *logrus.Logger
}

type model struct {
	tree  *FrameTree
	stats *IngestStats
	input string

	live    *LiveFeedState
	sampler Sampler
	ctx     context.Context
	cancel  context.CancelFunc

	view   viewKind
	cursor NodeID
	zoom   []NodeID
	scroll int
	layout *flameLayout

	search    *SearchState
	searching bool
	searchIn  textinput.Model

	topList list.Model
	topSort topSort

	overlay     viewport.Model
	overlayMode overlayKind

	help   help.Model
	styles Styles

	width  int
	height int
	ready  bool

	transient string
	debug     bool
	timings   map[string]time.Duration
	log       *logrus.Logger
}

func newModel(cfg appConfig) model {
	styles := defaultStyles()

	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "regular expression"
	input.CharLimit = 256

	top := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	top.SetShowTitle(false)
	top.SetShowStatusBar(false)
	top.SetShowHelp(false)
	top.SetFilteringEnabled(false)

	m := model{
		tree:     cfg.tree,
		stats:    cfg.stats,
		input:    cfg.source,
		live:     cfg.live,
		sampler:  cfg.sampler,
		ctx:      cfg.ctx,
		cancel:   cfg.cancel,
		cursor:   RootID,
		layout:   layoutFlame(cfg.tree, RootID, 0),
		searchIn: input,
		topList:  top,
		overlay:  viewport.New(0, 0),
		help:     help.New(),
		styles:   styles,
		debug:    cfg.debug,
		timings:  make(map[string]time.Duration),
		log:      cfg.log,
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.live == nil {
		return nil
	}
	return tea.Batch(
		tickerCmd(time.Second),
		sampleCmd(m.ctx, m.sampler),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeComponents()
		m.relayout()
		return m, nil

	case tickMsg:
		if m.live == nil {
			return m, nil
		}
		return m, tickerCmd(time.Second)

	case sampleTickMsg:
		return m, sampleCmd(m.ctx, m.sampler)

	case sampleResultMsg:
		return m.applySampleResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// applySampleResult folds one sampling cycle into the tree and keeps the
// retry chain going. Frozen feeds drop the batch but keep sampling.
func (m model) applySampleResult(msg sampleResultMsg) (tea.Model, tea.Cmd) {
	if m.live == nil {
		return m, nil
	}
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("sampling cycle failed")
		if m.live.recordError(msg.err) {
			m.transient = fmt.Sprintf("sampling: %v", msg.err)
			return m, sampleTickCmd(m.live.Interval())
		}
		m.transient = m.live.Err.Error()
		return m, nil
	}

	m.timings["sample"] = msg.took
	if m.live.recordBatch() {
		start := time.Now()
		applied := m.tree.Merge(msg.stacks)
		m.timings["merge"] = time.Since(start)
		m.stats.Stacks += applied
		m.transient = ""
		m.afterTreeChange()
	}
	return m, sampleTickCmd(m.live.Interval())
}

// afterTreeChange refreshes everything derived from tree weights: layout,
// search hits, and the top table. Node IDs survive merges, so the cursor and
// zoom stack carry over as they are.
func (m *model) afterTreeChange() {
	m.relayout()
	if m.search != nil {
		m.search.run(m.tree)
	}
	if m.view == viewTop {
		m.refreshTop()
	}
}

func (m *model) relayout() {
	if !m.ready {
		return
	}
	start := time.Now()
	m.layout = layoutFlame(m.tree, m.zoomRoot(), m.width)
	m.timings["layout"] = time.Since(start)
	m.clampScroll()
	m.ensureCursorVisible()
}

func (m *model) zoomRoot() NodeID {
	if len(m.zoom) == 0 {
		return RootID
	}
	return m.zoom[len(m.zoom)-1]
}

// flameHeight is the number of rows available to the flame area after the
// header, status lines, and help line.
func (m *model) flameHeight() int {
	h := m.height - headerHeight - statusHeight - 1
	if h < 1 {
		h = 1
	}
	return h
}

const (
	headerHeight = 4 // two content lines in a border
	statusHeight = 2
)

func (m *model) resizeComponents() {
	m.searchIn.Width = m.width - len(m.searchIn.Prompt) - 4
	m.topList.SetSize(m.width, m.flameHeight()-1)
	m.overlay.Width = m.width - 2
	m.overlay.Height = m.flameHeight() - 2
}

func (m *model) clampScroll() {
	max := m.layout.depthCount() - m.flameHeight()
	if max < 0 {
		max = 0
	}
	if m.scroll > max {
		m.scroll = max
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// ensureCursorVisible walks the cursor up to the nearest laid-out ancestor
// when its own frame is hidden, then pulls the viewport over it.
func (m *model) ensureCursorVisible() {
	if !m.layout.visible(m.cursor) {
		cur := m.cursor
		for cur != NoNode && !m.layout.visible(cur) {
			cur = m.tree.Parent(cur)
		}
		if cur == NoNode {
			cur = m.zoomRoot()
		}
		m.cursor = cur
	}
	sp, ok := m.layout.spans[m.cursor]
	if !ok {
		return
	}
	if sp.depth < m.scroll {
		m.scroll = sp.depth
	}
	if sp.depth >= m.scroll+m.flameHeight() {
		m.scroll = sp.depth - m.flameHeight() + 1
	}
}

// correctCursorAfterScroll reselects the first visible frame of the top row
// when an explicit scroll pushed the cursor out of view.
func (m *model) correctCursorAfterScroll() {
	sp, ok := m.layout.spans[m.cursor]
	if ok && sp.depth >= m.scroll && sp.depth < m.scroll+m.flameHeight() {
		return
	}
	if id, ok := m.layout.firstAt(m.scroll); ok {
		m.cursor = id
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchInput(msg)
	}
	if m.overlayMode != overlayNone {
		return m.handleOverlayKey(msg)
	}
	if m.view == viewTop {
		return m.handleTopKey(msg)
	}
	return m.handleFlameKey(msg)
}

func (m model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quit()
	case tea.KeyEscape:
		m.searching = false
		m.searchIn.Blur()
		return m, nil
	case tea.KeyEnter:
		return m.confirmSearch()
	}
	var cmd tea.Cmd
	m.searchIn, cmd = m.searchIn.Update(msg)
	return m, cmd
}

func (m model) confirmSearch() (tea.Model, tea.Cmd) {
	raw := m.searchIn.Value()
	if raw == "" {
		m.search = nil
		m.searching = false
		m.searchIn.Blur()
		return m, nil
	}
	s, err := newSearch(raw)
	if err != nil {
		// Keep the prior search and let the pattern be fixed up in place.
		m.transient = err.Error()
		return m, nil
	}
	s.run(m.tree)
	m.search = s
	m.searching = false
	m.searchIn.Blur()
	m.transient = ""
	m.jumpMatch(1)
	return m, nil
}

func (m model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.Back),
		m.overlayMode == overlaySource && key.Matches(msg, keys.Source),
		m.overlayMode == overlayHelp && key.Matches(msg, keys.Help):
		m.overlayMode = overlayNone
		return m, nil
	}
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

func (m model) handleTopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()
	case key.Matches(msg, keys.SwitchView), key.Matches(msg, keys.Back):
		m.view = viewFlame
		return m, nil
	case key.Matches(msg, keys.SortTotal):
		m.topSort = m.topSort.toggled(sortByTotal)
		m.refreshTop()
		return m, nil
	case key.Matches(msg, keys.SortOwn):
		m.topSort = m.topSort.toggled(sortBySelf)
		m.refreshTop()
		return m, nil
	case key.Matches(msg, keys.SortName):
		m.topSort = m.topSort.toggled(sortByName)
		m.refreshTop()
		return m, nil
	case key.Matches(msg, keys.Freeze):
		m.toggleFreeze()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.openHelp()
		return m, nil
	}
	var cmd tea.Cmd
	m.topList, cmd = m.topList.Update(msg)
	return m, cmd
}

func (m model) handleFlameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.quit()

	case key.Matches(msg, keys.Left):
		m.moveSideways(-1)
	case key.Matches(msg, keys.Right):
		m.moveSideways(1)
	case key.Matches(msg, keys.Down):
		m.moveDown()
	case key.Matches(msg, keys.Up):
		m.moveUp()

	case key.Matches(msg, keys.ScrollTop):
		m.scroll = 0
		m.correctCursorAfterScroll()
	case key.Matches(msg, keys.ScrollBot):
		m.scroll = m.layout.depthCount() - m.flameHeight()
		m.clampScroll()
		m.correctCursorAfterScroll()
	case key.Matches(msg, keys.PageDown):
		m.scroll += m.flameHeight()
		m.clampScroll()
		m.correctCursorAfterScroll()
	case key.Matches(msg, keys.PageUp):
		m.scroll -= m.flameHeight()
		m.clampScroll()
		m.correctCursorAfterScroll()

	case key.Matches(msg, keys.Zoom):
		m.zoomIn()
	case key.Matches(msg, keys.ResetZoom):
		m.resetZoom()
	case key.Matches(msg, keys.Back):
		return m.handleEscape()

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.searchIn.SetValue("")
		return m, tea.Batch(m.searchIn.Focus(), textinput.Blink)
	case key.Matches(msg, keys.SearchExact):
		s := newExactSearch(m.tree.Name(m.cursor))
		s.run(m.tree)
		m.search = s
	case key.Matches(msg, keys.NextMatch):
		m.jumpMatch(1)
	case key.Matches(msg, keys.PrevMatch):
		m.jumpMatch(-1)
	case key.Matches(msg, keys.ClearSearch):
		m.search = nil

	case key.Matches(msg, keys.SwitchView):
		m.view = viewTop
		m.refreshTop()
	case key.Matches(msg, keys.Freeze):
		m.toggleFreeze()
	case key.Matches(msg, keys.Source):
		m.openSource()
	case key.Matches(msg, keys.Help):
		m.openHelp()
	}
	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// handleEscape unwinds one layer at a time: active search first, then one
// zoom level, then the program.
func (m model) handleEscape() (tea.Model, tea.Cmd) {
	switch {
	case m.search != nil:
		m.search = nil
		return m, nil
	case len(m.zoom) > 0:
		m.popZoom()
		return m, nil
	}
	return m.quit()
}

func (m *model) moveSideways(dir int) {
	if id, ok := m.layout.neighbor(m.cursor, dir); ok {
		m.cursor = id
	}
}

func (m *model) moveDown() {
	id, ok := m.layout.widestVisibleChild(m.tree, m.cursor)
	if !ok {
		return
	}
	m.cursor = id
	if sp := m.layout.spans[id]; sp.depth >= m.scroll+m.flameHeight() {
		m.scroll++
	}
}

func (m *model) moveUp() {
	if m.cursor == m.zoomRoot() {
		return
	}
	parent := m.tree.Parent(m.cursor)
	if parent == NoNode || !m.layout.visible(parent) {
		return
	}
	m.cursor = parent
	if sp := m.layout.spans[parent]; sp.depth < m.scroll {
		m.scroll--
	}
}

func (m *model) zoomIn() {
	if m.cursor == m.zoomRoot() {
		return
	}
	m.zoom = append(m.zoom, m.cursor)
	m.scroll = 0
	m.relayout()
}

func (m *model) popZoom() {
	if len(m.zoom) == 0 {
		return
	}
	popped := m.zoom[len(m.zoom)-1]
	m.zoom = m.zoom[:len(m.zoom)-1]
	m.cursor = popped
	m.scroll = 0
	m.relayout()
}

func (m *model) resetZoom() {
	if len(m.zoom) == 0 {
		return
	}
	first := m.zoom[0]
	m.zoom = nil
	m.cursor = first
	m.scroll = 0
	m.relayout()
}

func (m *model) jumpMatch(dir int) {
	if m.search == nil {
		return
	}
	var id NodeID
	var ok bool
	if dir > 0 {
		id, ok = m.search.NextMatch(m.cursor, m.layout.visible)
	} else {
		id, ok = m.search.PrevMatch(m.cursor, m.layout.visible)
	}
	if !ok {
		return
	}
	m.cursor = id
	m.ensureCursorVisible()
}

func (m *model) toggleFreeze() {
	if m.live == nil {
		return
	}
	m.live.Frozen = !m.live.Frozen
}

func (m *model) refreshTop() {
	entries := topEntries(m.tree)
	sortTopEntries(entries, m.topSort)
	m.topList.SetItems(topItems(entries, m.stats.Unit, m.tree.Total(RootID)))
}

func (m *model) openSource() {
	loc, ok := frameLocation(m.tree.Name(m.cursor))
	if !ok {
		m.transient = "no source location in this frame name"
		return
	}
	content := getHighlightedSource(loc.file, loc.line)
	m.overlay.SetContent(content)
	m.centerOverlayOn(loc.line)
	m.overlayMode = overlaySource
}

func (m *model) centerOverlayOn(line int) {
	offset := line - m.overlay.Height/2
	if offset < 0 {
		offset = 0
	}
	m.overlay.SetYOffset(offset)
}

func (m *model) openHelp() {
	ex := getExplanationForView(m.currentViewName())
	full := m.help
	full.ShowAll = true
	full.Width = m.overlay.Width

	var b strings.Builder
	b.WriteString(m.styles.TopHeader.Render(ex.Title))
	b.WriteString("\n\n")
	b.WriteString(ex.Description)
	b.WriteString("\n\n")
	b.WriteString(full.View(keys))
	m.overlay.SetContent(b.String())
	m.overlay.SetYOffset(0)
	m.overlayMode = overlayHelp
}

func (m *model) currentViewName() string {
	switch {
	case m.view == viewTop:
		return "top"
	case m.live != nil:
		return "live"
	default:
		return "flamegraph"
	}
}

func (m model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	status := m.renderStatus()
	helpLine := m.help.View(keys)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpLine)
}

func (m model) renderHeader() string {
	var info string
	if m.live != nil {
		info = fmt.Sprintf("Process: %d [%s]", m.live.Pid, m.live.StatusLabel())
		if m.live.Running {
			info += fmt.Sprintf(" [Duration: %s]", formatClock(m.live.Elapsed(time.Now())))
		}
		if m.live.Frozen {
			info += " [Frozen; press 'z' again to unfreeze]"
		}
	} else {
		info = fmt.Sprintf("File: %s [%d stacks, %s]",
			m.input, m.stats.Stacks, formatWeight(m.tree.Total(RootID), m.stats.Unit))
		if m.stats.Skipped > 0 {
			info += fmt.Sprintf(" [%d lines skipped]", m.stats.Skipped)
		}
	}

	flameTab := m.styles.TabInactive.Render("Flamegraph")
	topTab := m.styles.TabInactive.Render("Top Functions")
	if m.view == viewTop {
		topTab = m.styles.TabActive.Render("[Top Functions]")
	} else {
		flameTab = m.styles.TabActive.Render("[Flamegraph]")
	}
	tabs := flameTab + " | " + topTab + " (press TAB to switch)"

	return m.styles.Header.Width(m.width - 2).Render(info + "\n" + tabs)
}

func (m model) renderBody() string {
	height := m.flameHeight()

	var body string
	switch {
	case m.overlayMode != overlayNone:
		body = m.styles.Source.Render(m.overlay.View())
	case m.view == viewTop:
		body = m.styles.TopHeader.Render(topSortLine(m.topSort)) + "\n" + m.topList.View()
	default:
		body = m.renderFlameArea(height)
	}

	// Pin the status area to the bottom even when the body runs short.
	lines := strings.Count(body, "\n") + 1
	if lines < height {
		body += strings.Repeat("\n", height-lines)
	}
	return body
}

func (m model) renderFlameArea(height int) string {
	opts := renderOpts{
		height:    height,
		scroll:    m.scroll,
		cursor:    m.cursor,
		rootTotal: m.tree.Total(m.zoomRoot()),
		styles:    &m.styles,
	}
	if m.search != nil {
		opts.matches = m.search.Hits
		opts.pattern = m.search.Pattern()
	}
	lines, _ := renderFlame(m.tree, m.layout, opts)
	if len(lines) == 0 {
		if m.live != nil {
			return "Waiting for samples..."
		}
		return "No stacks to display."
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStatus() string {
	first := m.renderNoticeLine()

	var second string
	if m.searching {
		second = m.searchIn.View()
	} else {
		second = m.renderSelectedLine()
	}
	return first + "\n" + second
}

func (m model) renderNoticeLine() string {
	switch {
	case m.transient != "":
		return clipLine(m.styles.StatusError.Render(m.transient), m.width)
	case m.search != nil:
		total := m.tree.Total(RootID)
		text := fmt.Sprintf("Match: %q [%s, %.2f%% of all]",
			m.search.Input,
			formatWeight(m.search.Coverage, m.stats.Unit),
			percentOf(m.search.Coverage, total))
		return clipLine(m.styles.MatchStatus.Render(text), m.width)
	case m.debug:
		return clipLine(m.renderDebugLine(), m.width)
	}
	return ""
}

func (m model) renderDebugLine() string {
	parts := make([]string, 0, len(m.timings))
	for _, name := range []string{"sample", "merge", "layout"} {
		if d, ok := m.timings[name]; ok {
			parts = append(parts, fmt.Sprintf("%s:%s", name, d.Round(10*time.Microsecond)))
		}
	}
	return "Debug: " + strings.Join(parts, " ")
}

func (m model) renderSelectedLine() string {
	total := m.tree.Total(RootID)
	sel := fmt.Sprintf("Selected: %s [%s, %.2f%% of all",
		m.tree.Name(m.cursor),
		formatWeight(m.tree.Total(m.cursor), m.stats.Unit),
		percentOf(m.tree.Total(m.cursor), total))
	if len(m.zoom) > 0 {
		sel += fmt.Sprintf(", %.2f%% of zoomed", percentOf(m.tree.Total(m.cursor), m.tree.Total(m.zoomRoot())))
	}
	sel += "]"

	if m.view == viewFlame && m.overlayMode == overlayNone {
		if m.layout.depthCount() > m.scroll+m.flameHeight() {
			sel += "  More ▾ (press f to scroll)"
		}
	}
	return clipLine(m.styles.Status.Render(sel), m.width)
}

// clipLine hard-limits a styled line to the terminal width.
func clipLine(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
