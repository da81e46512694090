package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# arbor

## Moving around

| Key | Action |
|-----|--------|
| j / k, arrows | move cursor |
| ctrl+d / ctrl+u | half page down / up |
| g / G | first / last entry |
| h, backspace | ascend to parent |
| l, enter | descend into directory |
| r | set entry as root |
| b | jump to a visited root |

## Expansion

| Key | Action |
|-----|--------|
| 1-9 | expand to depth N |
| 0 | expand everything |
| + | expand one more level |
| c | collapse entry's children |
| . | toggle hidden entries |

## Other

| Key | Action |
|-----|--------|
| s / S | cycle sort field / flip direction |
| space | toggle selection |
| y | yank path(s) to clipboard |
| / then n / N | search the traversed entries |
| q | quit |
`

// helpView renders the help overlay. Help is open rarely enough that
// re-rendering on each frame is not worth caching around.
func (m Model) helpView() string {
	width := m.width
	if width > 80 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
