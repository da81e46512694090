// Package ui is the bubbletea front-end of the explorer. It translates key
// events into the abstract actions the core understands (move-cursor,
// ascend, descend, set-root, set-expansion-depth, collapse, sort, select)
// and renders exactly the visible window slice the viewport exposes.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/arbor/internal/history"
	"github.com/vanderheijden86/arbor/pkg/config"
	"github.com/vanderheijden86/arbor/pkg/debug"
	"github.com/vanderheijden86/arbor/pkg/tree"
)

// ConfigReloadedMsg is sent by the config watcher when config.yaml changed
// on disk.
type ConfigReloadedMsg struct{}

// chrome is the number of non-tree rows (header + status bar).
const chrome = 2

// jumpItem is one row of the quick-jump modal.
type jumpItem struct {
	path string
	note string
}

// Model is the top-level bubbletea model.
type Model struct {
	session *Session
	cfg     config.Config
	theme   Theme
	hist    *history.Store
	recent  config.RecentRoots

	width  int
	height int
	ready  bool

	// Search state: an incremental filter over the already-traversed
	// buffer. Matches are buffer indices.
	searchInput  textinput.Model
	searchActive bool
	searchQuery  string
	matches      []int
	matchIdx     int

	// Quick-jump modal state.
	jumpOpen   bool
	jumpItems  []jumpItem
	jumpCursor int

	// Help overlay (rendered with glamour).
	showHelp bool

	message string
	isError bool
}

// NewModel builds the explorer model rooted at path. hist may be nil when
// history is disabled.
func NewModel(path string, cfg config.Config, hist *history.Store) (Model, error) {
	s, err := NewSession(path, cfg.DefaultDepth, cfg.UI.ShowHidden)
	if err != nil {
		return Model{}, err
	}
	s.sortCriterion = parseSortField(cfg.Sort.Field)
	s.sortAscending = cfg.SortAscending()

	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 128

	m := Model{
		session:     s,
		cfg:         cfg,
		theme:       DefaultTheme(),
		hist:        hist,
		recent:      config.LoadRecent(),
		searchInput: ti,
	}
	m.recordVisit(s.Tree.Root().Path())
	return m, nil
}

func parseSortField(s string) tree.SortCriterion {
	switch s {
	case "size":
		return tree.SortBySize
	case "modified":
		return tree.SortByModTime
	case "ext":
		return tree.SortByExtension
	default:
		return tree.SortByName
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// rows returns the number of tree rows that fit the current terminal.
func (m Model) rows() int {
	r := m.height - chrome
	if r < 1 {
		r = 1
	}
	return r
}

// sync restores the viewport invariants after any cursor or structure
// change.
func (m *Model) sync() {
	m.session.Window.Update(m.session.Cursor, m.rows())
}

// Session exposes the underlying session for tests.
func (m Model) Session() *Session { return m.session }

// CursorPath returns the path under the cursor, or "" while empty.
func (m Model) CursorPath() string {
	w := m.session.Window
	if w.Len() == 0 {
		return ""
	}
	return w.At(w.Cursor()).Node.Path()
}

// cursorNode returns the node under the cursor, or nil.
func (m Model) cursorNode() *tree.Node {
	w := m.session.Window
	if w.Len() == 0 {
		return nil
	}
	return w.At(w.Cursor()).Node
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.sync()
		return m, nil

	case ConfigReloadedMsg:
		cfg, err := config.Load()
		if err != nil {
			m.setError("config reload failed: " + err.Error())
			return m, nil
		}
		m.cfg = cfg
		m.setMessage("config reloaded")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchActive {
		return m.handleSearchKey(msg)
	}
	if m.jumpOpen {
		return m.handleJumpKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	w := m.session.Window
	m.message = ""
	m.isError = false

	switch msg.String() {
	case "q", "ctrl+c":
		m.saveRecent()
		return m, tea.Quit

	case "j", "down":
		w.MoveCursor(1)
		m.sync()
	case "k", "up":
		w.MoveCursor(-1)
		m.sync()
	case "ctrl+d", "pgdown":
		w.MoveCursor(m.rows() / 2)
		m.sync()
	case "ctrl+u", "pgup":
		w.MoveCursor(-m.rows() / 2)
		m.sync()
	case "g", "home":
		w.SetCursor(0)
		m.sync()
	case "G", "end":
		w.CursorToEnd()
		m.sync()

	case "h", "backspace", "-":
		old := m.session.Tree.Root().Path()
		if !m.session.Ascend() {
			m.setMessage("already at filesystem root")
			m.sync()
			break
		}
		m.clearSearch()
		m.sync()
		m.focusPath(old)
		m.recordVisit(m.session.Tree.Root().Path())

	case "l", "enter", "right":
		m.descendCursor()

	case "r":
		m.setRootCursor()

	case "0":
		m.session.SetDepth(0)
		m.clearSearch()
		m.sync()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.session.SetDepth(int(msg.String()[0] - '0'))
		m.clearSearch()
		m.sync()

	case "+", "=":
		m.session.ExpandOne()
		m.clearSearch()
		m.sync()

	case "c":
		node := m.cursorNode()
		path := m.CursorPath()
		m.session.CollapseChildren(node)
		m.clearSearch()
		m.sync()
		m.focusPath(path)

	case ".":
		path := m.CursorPath()
		m.session.ToggleHidden()
		m.clearSearch()
		m.sync()
		m.focusPath(path)

	case "s":
		next := (m.session.SortCriterion() + 1) % 4
		m.session.Sort(next, m.session.SortAscending())
		m.clearSearch()
		m.sync()
		m.setMessage("sort: " + next.String())
	case "S":
		m.session.Sort(m.session.SortCriterion(), !m.session.SortAscending())
		m.clearSearch()
		m.sync()

	case " ":
		w.ToggleSelect()
		w.MoveCursor(1)
		m.sync()

	case "y":
		m.yank()

	case "/":
		m.searchActive = true
		m.searchInput.SetValue("")
		m.searchInput.Focus()
	case "n":
		m.nextMatch(1)
	case "N":
		m.nextMatch(-1)
	case "esc":
		m.clearSearch()

	case "b":
		m.openJump()

	case "?":
		m.showHelp = true
	}

	return m, nil
}

// descendCursor reroots at the directory under the cursor. Files are
// ignored; an unlisted directory gets a one-shot expansion so the new root
// opens up.
func (m *Model) descendCursor() {
	node := m.cursorNode()
	if node == nil || !node.IsDir() {
		return
	}
	wasListed := node.Listed()
	if err := m.session.Descend(node); err != nil {
		m.setError(err.Error())
		m.sync()
		return
	}
	if !wasListed {
		m.session.ExpandOne()
	}
	m.clearSearch()
	m.sync()
	m.recordVisit(m.session.Tree.Root().Path())
}

// setRootCursor makes any loaded node under the cursor the new root.
func (m *Model) setRootCursor() {
	node := m.cursorNode()
	if node == nil {
		return
	}
	if node == m.session.Tree.Root() {
		m.sync()
		return
	}
	if err := m.session.ChangeRoot(node); err != nil {
		m.setError(err.Error())
		m.sync()
		return
	}
	if node.IsDir() && !node.Listed() {
		m.session.ExpandOne()
	}
	m.clearSearch()
	m.sync()
	m.recordVisit(m.session.Tree.Root().Path())
}

// focusPath places the cursor on the buffered entry for path, pulling more
// of the traversal if needed. Silently leaves the cursor alone when the
// path is not part of this pass.
func (m *Model) focusPath(path string) {
	if path == "" {
		return
	}
	w := m.session.Window
	for i := 0; ; i++ {
		for i >= w.Len() {
			if w.Exhausted() {
				return
			}
			w.SetCursor(w.Len())
			m.sync()
			if i >= w.Len() {
				return
			}
		}
		if w.At(i).Node.Path() == path {
			w.SetCursor(i)
			m.sync()
			return
		}
	}
}

// yank copies the selected paths (or the cursor path) to the clipboard.
func (m *Model) yank() {
	w := m.session.Window
	var paths []string
	for _, e := range w.Selected() {
		paths = append(paths, e.Node.Path())
	}
	if len(paths) == 0 {
		if p := m.CursorPath(); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return
	}
	if err := clipboard.WriteAll(strings.Join(paths, "\n")); err != nil {
		m.setError("clipboard: " + err.Error())
		return
	}
	if len(paths) == 1 {
		m.setMessage("yanked " + paths[0])
	} else {
		m.setMessage(fmt.Sprintf("yanked %d paths", len(paths)))
	}
}

// --- search -------------------------------------------------------------

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchActive = false
		m.clearSearch()
		return m, nil
	case "enter":
		m.searchActive = false
		m.searchInput.Blur()
		if len(m.matches) > 0 {
			m.jumpToMatch(0)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	m.recomputeMatches()
	return m, cmd
}

// recomputeMatches filters the already-traversed buffer by basename. No
// ranking, no extra traversal: entries not yet pulled are not searched.
func (m *Model) recomputeMatches() {
	m.matches = m.matches[:0]
	m.matchIdx = 0
	q := strings.ToLower(m.searchQuery)
	if q == "" {
		return
	}
	w := m.session.Window
	for i := 0; i < w.Len(); i++ {
		if strings.Contains(strings.ToLower(w.At(i).Node.Name()), q) {
			m.matches = append(m.matches, i)
		}
	}
}

func (m *Model) jumpToMatch(idx int) {
	if len(m.matches) == 0 {
		return
	}
	idx = ((idx % len(m.matches)) + len(m.matches)) % len(m.matches)
	m.matchIdx = idx
	m.session.Window.SetCursor(m.matches[idx])
	m.sync()
}

func (m *Model) nextMatch(dir int) {
	if len(m.matches) == 0 {
		m.setMessage("no matches")
		return
	}
	m.jumpToMatch(m.matchIdx + dir)
}

func (m *Model) clearSearch() {
	m.searchActive = false
	m.searchQuery = ""
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.matches = nil
	m.matchIdx = 0
}

// --- quick-jump ---------------------------------------------------------

func (m *Model) openJump() {
	m.jumpItems = m.jumpItems[:0]
	m.jumpCursor = 0
	if m.hist != nil {
		visits, err := m.hist.Top(m.cfg.History.MaxJump)
		if err != nil {
			debug.Log("history query failed: %v", err)
		}
		for _, v := range visits {
			m.jumpItems = append(m.jumpItems, jumpItem{path: v.Path, note: formatVisits(v.Count)})
		}
	}
	if len(m.jumpItems) == 0 {
		for _, p := range m.recent.Paths {
			if len(m.jumpItems) >= m.cfg.History.MaxJump {
				break
			}
			m.jumpItems = append(m.jumpItems, jumpItem{path: p})
		}
	}
	if len(m.jumpItems) == 0 {
		m.setMessage("no visited roots yet")
		return
	}
	m.jumpOpen = true
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "b":
		m.jumpOpen = false
	case "j", "down":
		if m.jumpCursor < len(m.jumpItems)-1 {
			m.jumpCursor++
		}
	case "k", "up":
		if m.jumpCursor > 0 {
			m.jumpCursor--
		}
	case "enter":
		m.jumpOpen = false
		m.openRoot(m.jumpItems[m.jumpCursor].path)
	}
	return m, nil
}

// openRoot replaces the whole session with one rooted at path (a fresh
// tree, not a reroot of the current one).
func (m *Model) openRoot(path string) {
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		if m.hist != nil {
			_ = m.hist.Forget(path)
		}
		m.setError(path + " is gone, removed from history")
		return
	}
	s, err := NewSession(path, m.cfg.DefaultDepth, m.cfg.UI.ShowHidden)
	if err != nil {
		m.setError(err.Error())
		return
	}
	s.sortCriterion = m.session.sortCriterion
	s.sortAscending = m.session.sortAscending
	m.session = s
	m.clearSearch()
	m.sync()
	m.recordVisit(path)
}

// --- bookkeeping --------------------------------------------------------

func (m *Model) recordVisit(path string) {
	m.recent.Touch(path)
	if m.hist == nil {
		return
	}
	if err := m.hist.RecordVisit(path); err != nil {
		debug.Log("history record failed: %v", err)
	}
}

func (m *Model) saveRecent() {
	if err := config.SaveRecent(m.recent); err != nil {
		debug.Log("saving recent roots failed: %v", err)
	}
}

func (m *Model) setMessage(s string) {
	m.message = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.message = s
	m.isError = true
}
