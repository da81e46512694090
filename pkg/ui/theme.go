package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme bundles the styles used by the explorer view.
type Theme struct {
	Dir       lipgloss.Style
	File      lipgloss.Style
	Symlink   lipgloss.Style
	Broken    lipgloss.Style // stat failed; typeless leaf
	Connector lipgloss.Style

	CursorLine  lipgloss.Style
	SelectedTag lipgloss.Style
	Match       lipgloss.Style

	Header    lipgloss.Style
	StatusBar lipgloss.Style
	StatusKey lipgloss.Style
	Error     lipgloss.Style

	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style
	Dim         lipgloss.Style
}

// DefaultTheme returns the standard color scheme.
func DefaultTheme() Theme {
	return Theme{
		Dir:       lipgloss.NewStyle().Foreground(ThemeFg("#7aa2f7")).Bold(true),
		File:      lipgloss.NewStyle(),
		Symlink:   lipgloss.NewStyle().Foreground(ThemeFg("#2ac3de")),
		Broken:    lipgloss.NewStyle().Foreground(ThemeFg("#f7768e")).Strikethrough(true),
		Connector: lipgloss.NewStyle().Foreground(ThemeFg("#3b4261")),

		CursorLine:  lipgloss.NewStyle().Reverse(true),
		SelectedTag: lipgloss.NewStyle().Foreground(ThemeFg("#9ece6a")).Bold(true),
		Match:       lipgloss.NewStyle().Foreground(ThemeFg("#e0af68")).Bold(true),

		Header:    lipgloss.NewStyle().Bold(true).Foreground(ThemeFg("#c0caf5")),
		StatusBar: lipgloss.NewStyle().Foreground(ThemeFg("#a9b1d6")),
		StatusKey: lipgloss.NewStyle().Foreground(ThemeFg("#565f89")),
		Error:     lipgloss.NewStyle().Foreground(ThemeFg("#f7768e")),

		ModalBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		ModalTitle:  lipgloss.NewStyle().Bold(true),
		Dim:         lipgloss.NewStyle().Foreground(ThemeFg("#565f89")),
	}
}
