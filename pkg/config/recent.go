package config

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// recentFileName is the filename for the recent-roots jump list.
const recentFileName = "recent.json"

// maxRecent caps how many roots the jump list remembers.
const maxRecent = 50

// RecentRoots is the most-recently-visited roots list, newest first. It is
// a convenience jump list kept in the XDG state dir; it carries no tree
// state (expansion, cursor, selection are rebuilt from the live filesystem
// every run).
type RecentRoots struct {
	Version int      `json:"version"`
	Paths   []string `json:"paths"`
}

// RecentPath returns the path to the recent-roots state file, or "" when no
// state directory can be determined.
func RecentPath() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, recentFileName)
}

// LoadRecent reads the recent-roots list. A missing or corrupted file
// degrades to an empty list.
func LoadRecent() RecentRoots {
	return LoadRecentFrom(RecentPath())
}

// LoadRecentFrom reads the recent-roots list from a specific path.
func LoadRecentFrom(path string) RecentRoots {
	rr := RecentRoots{Version: 1}
	if path == "" {
		return rr
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rr
	}
	if err := json.Unmarshal(data, &rr); err != nil {
		return RecentRoots{Version: 1}
	}
	return rr
}

// Touch moves path to the front of the list, deduplicating and trimming.
func (rr *RecentRoots) Touch(path string) {
	out := make([]string, 0, len(rr.Paths)+1)
	out = append(out, path)
	for _, p := range rr.Paths {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	rr.Paths = out
}

// SaveRecent writes the recent-roots list to the XDG state dir.
// Errors are reported, not fatal; losing the jump list is cosmetic.
func SaveRecent(rr RecentRoots) error {
	return SaveRecentTo(rr, RecentPath())
}

// SaveRecentTo writes the recent-roots list to a specific path.
func SaveRecentTo(rr RecentRoots, path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
