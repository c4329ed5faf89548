package utils

import (
	"path/filepath"
	"testing"
)

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("got %q", got)
	}

	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	if got := ExpandHome("~/menus"); got != filepath.Join("/home/tester", "menus") {
		t.Fatalf("got %q", got)
	}

	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Fatalf("got %q", got)
	}
}

func TestConfigDirPrefersXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "menush") {
		t.Fatalf("got %q", got)
	}
}
