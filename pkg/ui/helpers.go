package ui

import (
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// truncateWidth truncates a string to max visual width (cells), adding an
// ellipsis if needed. Uses go-runewidth so wide characters count correctly.
func truncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// padRight pads string s with spaces on the right to length width
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runeCount)
}

// formatSize renders a byte count the way ls -lh does.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatVisits renders a visit count for the quick-jump modal.
func formatVisits(n int) string {
	if n == 1 {
		return "(1 visit)"
	}
	return fmt.Sprintf("(%d visits)", n)
}

// glyphFor picks the one-cell type glyph shown in front of a name.
func glyphFor(info fs.FileInfo, listed bool) string {
	switch {
	case info == nil:
		return "!"
	case info.IsDir() && listed:
		return "▾"
	case info.IsDir():
		return "▸"
	case info.Mode()&fs.ModeSymlink != 0:
		return "~"
	case info.Mode()&0o111 != 0:
		return "*"
	default:
		return " "
	}
}
