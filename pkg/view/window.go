// Package view maintains the sliding viewport over a traversal's output.
// It pulls entries from a tree.Cursor into an append-only buffer, keeps the
// cursor row inside the visible window, and tells the renderer whether a
// full repaint is needed or just the two cursor rows.
package view

import "github.com/vanderheijden86/arbor/pkg/tree"

// Window holds the buffered entries of one traversal pass and an inclusive
// [start, end] index range over them. The buffer only grows within a pass;
// Reset drops it when the tree structure changes and a new cursor takes
// over. Entries are pulled lazily, so a pass only ever reads as many nodes
// as the window has needed so far.
type Window struct {
	buf        []tree.Entry
	start      int
	end        int
	cursor     int
	prevCursor int

	size       int // window height established by the previous update (end-start)
	sized      bool
	exhausted  bool
	fullRedraw bool
}

// New returns an empty window.
func New() *Window {
	return &Window{}
}

// Reset drops the buffer and bounds for a fresh traversal pass. Selection
// tags live in the buffer, so they are dropped with it.
func (w *Window) Reset() {
	w.buf = w.buf[:0]
	w.start, w.end = 0, 0
	w.cursor, w.prevCursor = 0, 0
	w.size, w.sized = 0, false
	w.exhausted = false
	w.fullRedraw = true
}

// Start returns the index of the first visible entry.
func (w *Window) Start() int { return w.start }

// End returns the index of the last visible entry.
func (w *Window) End() int { return w.end }

// Cursor returns the buffer index of the cursor row.
func (w *Window) Cursor() int { return w.cursor }

// PrevCursor returns the cursor index before the last move, so a renderer
// skipping the full repaint knows which second row to touch.
func (w *Window) PrevCursor() int { return w.prevCursor }

// Len returns the number of buffered entries.
func (w *Window) Len() int { return len(w.buf) }

// Exhausted reports whether the cursor ran out of entries during this pass.
func (w *Window) Exhausted() bool { return w.exhausted }

// NeedsFullRedraw reports whether the last Update moved or resized the
// window. When false the renderer may repaint only the rows at PrevCursor
// and Cursor.
func (w *Window) NeedsFullRedraw() bool { return w.fullRedraw }

// At returns the buffered entry at index i.
func (w *Window) At(i int) tree.Entry { return w.buf[i] }

// Visible returns the [start, end] slice of the buffer. The slice aliases
// the buffer; the renderer must not hold it across an Update or Reset.
func (w *Window) Visible() []tree.Entry {
	if len(w.buf) == 0 {
		return nil
	}
	return w.buf[w.start : w.end+1]
}

// MoveCursor shifts the cursor by delta rows. The lower bound is clamped
// here; the upper bound is resolved by the next Update, which knows how
// many entries the traversal can still produce.
func (w *Window) MoveCursor(delta int) {
	w.prevCursor = w.cursor
	w.cursor += delta
	if w.cursor < 0 {
		w.cursor = 0
	}
}

// SetCursor places the cursor at an absolute buffer index (clamped by the
// next Update the same way MoveCursor is).
func (w *Window) SetCursor(i int) {
	w.prevCursor = w.cursor
	w.cursor = i
	if w.cursor < 0 {
		w.cursor = 0
	}
}

// CursorToEnd requests the cursor land on the traversal's final entry.
func (w *Window) CursorToEnd() {
	w.SetCursor(int(^uint(0) >> 1)) // clamped by Update once the cursor drains
}

// ToggleSelect flips the multi-select tag on the cursor row.
func (w *Window) ToggleSelect() {
	if w.cursor < len(w.buf) {
		w.buf[w.cursor].Selected = !w.buf[w.cursor].Selected
	}
}

// Selected returns the currently selected entries in buffer order.
func (w *Window) Selected() []tree.Entry {
	var out []tree.Entry
	for _, e := range w.buf {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// pull appends one entry from the cursor. Returns false on exhaustion.
func (w *Window) pull(c *tree.Cursor) bool {
	if w.exhausted || c == nil {
		return false
	}
	e, ok := c.Next()
	if !ok {
		w.exhausted = true
		return false
	}
	w.buf = append(w.buf, e)
	return true
}

// Update restores the invariant start <= cursor <= end for rows visible
// lines, pulling from c as needed so the buffer covers the window (or the
// traversal's true end when it is exhausted early).
//
// Forward motion scrolls one row at a time, appending at most one entry
// per step; backward motion re-anchors start at the cursor and keeps the
// previous window height. Nothing already buffered is ever discarded or
// re-pulled, and no directory the cursor already listed is read again.
func (w *Window) Update(c *tree.Cursor, rows int) {
	if rows < 1 {
		rows = 1
	}
	prevStart, prevEnd := w.start, w.end
	prevHeight := prevEnd - prevStart

	// Initial fill: establish bounds from the first rows entries.
	if w.start == 0 && len(w.buf) == 0 {
		for len(w.buf) < rows && w.pull(c) {
		}
		w.end = len(w.buf) - 1
		if w.end < 0 {
			w.end = 0
		}
	}

	// Scroll down, one row per step.
	for w.cursor > w.end {
		if w.end+1 < len(w.buf) || w.pull(c) {
			w.start++
			w.end++
		} else {
			w.cursor = w.end
			break
		}
	}

	// Scroll up: re-anchor at the cursor, preserving window height.
	if w.cursor < w.start {
		height := w.end - w.start
		if height > rows-1 {
			height = rows - 1
		}
		w.start = w.cursor
		w.end = w.start + height
	}

	// Cover the window (or run to the traversal's true end).
	for len(w.buf) <= w.end && w.pull(c) {
	}

	// Correction pass: clamp end into the buffer and the row budget, then
	// re-derive start from the established height so the window does not
	// shrink when the buffer ends before start+rows.
	limit := w.start + rows
	if len(w.buf) < limit {
		limit = len(w.buf)
	}
	w.end = limit - 1
	if w.end < 0 {
		w.end = 0
	}
	if w.sized {
		size := w.size
		if size > rows-1 {
			size = rows - 1
		}
		if s := w.end - size; s >= 0 && s < w.start {
			w.start = s
		}
	}
	if w.cursor > w.end {
		w.cursor = w.end
	}
	if w.cursor < w.start {
		w.cursor = w.start
	}

	w.fullRedraw = w.start != prevStart || w.end != prevEnd || w.end-w.start != prevHeight
	w.size = w.end - w.start
	w.sized = true
}
