package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultDepth != 1 {
		t.Errorf("DefaultDepth = %d, want 1", cfg.DefaultDepth)
	}
	if cfg.Sort.Field != "name" || !cfg.SortAscending() {
		t.Errorf("sort defaults = %s/%v, want name/ascending", cfg.Sort.Field, cfg.SortAscending())
	}
	if !cfg.UI.Icons {
		t.Error("icons should default on")
	}
	if cfg.History.MaxJump != 15 {
		t.Errorf("MaxJump = %d, want 15", cfg.History.MaxJump)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if cfg.DefaultDepth != DefaultConfig().DefaultDepth {
		t.Errorf("DefaultDepth = %d, want default", cfg.DefaultDepth)
	}
}

func TestLoadFromPartialFile(t *testing.T) {
	// Unset keys keep their defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := "default_depth: 3\nsort:\n  field: size\n  ascending: false\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultDepth != 3 {
		t.Errorf("DefaultDepth = %d, want 3", cfg.DefaultDepth)
	}
	if cfg.Sort.Field != "size" || cfg.SortAscending() {
		t.Errorf("sort = %s/%v, want size/descending", cfg.Sort.Field, cfg.SortAscending())
	}
	if cfg.History.MaxJump != 15 {
		t.Errorf("MaxJump = %d, want untouched default 15", cfg.History.MaxJump)
	}
}

func TestLoadFromClampsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := "default_depth: -2\nhistory:\n  max_jump: -1\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultDepth != 0 {
		t.Errorf("negative depth clamped to %d, want 0", cfg.DefaultDepth)
	}
	if cfg.History.MaxJump != 15 {
		t.Errorf("MaxJump = %d, want clamped to 15", cfg.History.MaxJump)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_depth: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("malformed yaml should error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	asc := false
	cfg := Config{
		DefaultDepth: 4,
		Sort:         SortConfig{Field: "modified", Ascending: &asc},
		UI:           UIConfig{Icons: true, ShowHidden: true},
		History:      HistoryConfig{Disabled: true, MaxJump: 7},
	}
	if err := SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DefaultDepth != 4 || got.Sort.Field != "modified" || got.SortAscending() {
		t.Errorf("roundtrip lost sort/depth: %+v", got)
	}
	if !got.UI.ShowHidden || !got.History.Disabled || got.History.MaxJump != 7 {
		t.Errorf("roundtrip lost ui/history: %+v", got)
	}
}

func TestConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg-test", "arbor") {
		t.Errorf("ConfigDir() = %s", got)
	}
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	if got := StateDir(); got != filepath.Join("/tmp/xdg-state", "arbor") {
		t.Errorf("StateDir() = %s", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	if got := ExpandHome("~/projects"); got != filepath.Join(home, "projects") {
		t.Errorf("ExpandHome = %s", got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %s", got)
	}
}

func TestRecentTouchDedupAndCap(t *testing.T) {
	var rr RecentRoots
	rr.Touch("/a")
	rr.Touch("/b")
	rr.Touch("/a")
	if len(rr.Paths) != 2 || rr.Paths[0] != "/a" || rr.Paths[1] != "/b" {
		t.Errorf("paths = %v, want [/a /b]", rr.Paths)
	}

	for i := 0; i < maxRecent+10; i++ {
		rr.Touch(filepath.Join("/p", string(rune('a'+i%26)), string(rune('a'+i/26))))
	}
	if len(rr.Paths) > maxRecent {
		t.Errorf("list grew to %d, cap is %d", len(rr.Paths), maxRecent)
	}
}

func TestRecentRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	rr := RecentRoots{Version: 1}
	rr.Touch("/home/x/src")
	rr.Touch("/etc")
	if err := SaveRecentTo(rr, path); err != nil {
		t.Fatal(err)
	}

	got := LoadRecentFrom(path)
	if len(got.Paths) != 2 || got.Paths[0] != "/etc" {
		t.Errorf("paths = %v, want [/etc /home/x/src]", got.Paths)
	}
}

func TestRecentCorruptFileDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recent.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadRecentFrom(path)
	if len(got.Paths) != 0 {
		t.Errorf("corrupt file should degrade to empty, got %v", got.Paths)
	}
}
