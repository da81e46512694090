package ui

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteByte('\n')
	b.WriteString(m.treeView())
	b.WriteString(m.statusView())

	if m.jumpOpen {
		return m.overlay(b.String(), m.jumpView())
	}
	return b.String()
}

func (m Model) headerView() string {
	root := m.session.Tree.Root().Path()
	name := m.theme.Header.Render("arbor")
	sep := m.theme.Dim.Render(" — ")
	return name + sep + truncateWidth(root, m.width-8)
}

// treeView renders the [start, end] slice of the viewport buffer, one line
// per entry, padded with blank lines up to the visible row count.
func (m Model) treeView() string {
	w := m.session.Window
	rows := m.rows()
	var b strings.Builder

	if w.Len() > 0 {
		connectors := m.connectors()
		for i := w.Start(); i <= w.End(); i++ {
			b.WriteString(m.renderRow(i, connectors[i-w.Start()]))
			b.WriteByte('\n')
		}
		for i := w.End() - w.Start() + 1; i < rows; i++ {
			b.WriteByte('\n')
		}
	} else {
		b.WriteString(m.theme.Dim.Render("  (empty)"))
		b.WriteByte('\n')
		for i := 1; i < rows; i++ {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// connectors derives the tree-drawing prefix for each visible row. The
// buffer is in pre-order, so one forward pass tracking which ancestor
// levels are exhausted gives the vertical continuation lines; First/Last
// flags on the entries pick the branch glyphs.
func (m Model) connectors() []string {
	w := m.session.Window
	open := make([]bool, 0, 8) // open[d] = more siblings follow at depth d+1
	out := make([]string, 0, w.End()-w.Start()+1)

	for i := 0; i <= w.End(); i++ {
		e := w.At(i)
		if e.Depth > 0 {
			for len(open) < e.Depth {
				open = append(open, false)
			}
			open = open[:e.Depth]
			open[e.Depth-1] = !e.Last
		} else {
			open = open[:0]
		}

		if i < w.Start() {
			continue
		}
		var p strings.Builder
		for d := 0; d < e.Depth-1; d++ {
			if open[d] {
				p.WriteString("│  ")
			} else {
				p.WriteString("   ")
			}
		}
		if e.Depth > 0 {
			if e.Last {
				p.WriteString("└─ ")
			} else {
				p.WriteString("├─ ")
			}
		}
		out = append(out, p.String())
	}
	return out
}

func (m Model) renderRow(i int, connector string) string {
	w := m.session.Window
	e := w.At(i)
	info, statErr := e.Node.Stat()

	var line strings.Builder
	if e.Selected {
		line.WriteString(m.theme.SelectedTag.Render("✓"))
	} else {
		line.WriteByte(' ')
	}
	line.WriteString(m.theme.Connector.Render(connector))

	if m.cfg.UI.Icons {
		line.WriteString(glyphFor(info, e.Node.Listed()))
		line.WriteByte(' ')
	}

	name := e.Node.Name()
	style := m.styleFor(info, statErr)
	if m.searchQuery != "" && strings.Contains(strings.ToLower(name), strings.ToLower(m.searchQuery)) {
		style = m.theme.Match
	}

	used := lipgloss.Width(line.String())
	avail := m.width - used - 10
	line.WriteString(style.Render(truncateWidth(name, avail)))

	if info != nil && !info.IsDir() {
		line.WriteString(m.theme.Dim.Render(" " + formatSize(info.Size())))
	}

	s := line.String()
	if i == w.Cursor() {
		pad := m.width - lipgloss.Width(s)
		if pad > 0 {
			s += strings.Repeat(" ", pad)
		}
		s = m.theme.CursorLine.Render(s)
	}
	return s
}

func (m Model) styleFor(info fs.FileInfo, statErr error) lipgloss.Style {
	switch {
	case statErr != nil:
		return m.theme.Broken
	case info.IsDir():
		return m.theme.Dir
	case info.Mode()&fs.ModeSymlink != 0:
		return m.theme.Symlink
	default:
		return m.theme.File
	}
}

func (m Model) statusView() string {
	w := m.session.Window
	if m.searchActive {
		return m.searchInput.View()
	}

	pos := fmt.Sprintf("%d/%d", w.Cursor()+1, w.Len())
	if w.Len() == 0 {
		pos = "0/0"
	}
	if !w.Exhausted() {
		pos += "+"
	}

	dir := "↑"
	if !m.session.SortAscending() {
		dir = "↓"
	}
	parts := []string{
		pos,
		"sort:" + m.session.SortCriterion().String() + dir,
		m.session.DepthLabel(),
	}
	if m.session.ShowHidden() {
		parts = append(parts, "hidden")
	}
	if n := len(w.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	left := m.theme.StatusBar.Render(strings.Join(parts, "  "))

	right := m.theme.StatusKey.Render("? help")
	if m.message != "" {
		if m.isError {
			right = m.theme.Error.Render(m.message)
		} else {
			right = m.theme.StatusBar.Render(m.message)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) jumpView() string {
	var b strings.Builder
	b.WriteString(m.theme.ModalTitle.Render("Jump to visited root"))
	b.WriteByte('\n')
	for i, it := range m.jumpItems {
		row := truncateWidth(it.path, m.width/2)
		if it.note != "" {
			row += " " + m.theme.Dim.Render(it.note)
		}
		if i == m.jumpCursor {
			row = m.theme.CursorLine.Render(row)
		}
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString(m.theme.Dim.Render("enter: open  esc: close"))
	return m.theme.ModalBorder.Render(b.String())
}

// overlay centers a modal over the base view. lipgloss.Place repaints the
// whole screen, which is fine: modals always force a full redraw.
func (m Model) overlay(base, modal string) string {
	_ = base
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
