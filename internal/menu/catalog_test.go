package menu

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRootModelLinksDiscoveredDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "root.menu", "Uptime=uptime\nNetwork=submenu:network\n")
	writeDefinition(t, dir, "network.menu", "Ping=ping <host>\n")
	writeDefinition(t, dir, "disk.menu", "Usage=df -h <mount>\n")
	writeDefinition(t, dir, "notes.txt", "ignored=yes\n")
	writeDefinition(t, dir, "nested/deep.menu", "Deep=echo <deep>\n")

	catalog := NewCatalog(dir, "", "")
	model, warnings, err := catalog.RootModel()
	if err != nil {
		t.Fatalf("RootModel: %v", err)
	}

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}

	expected := []Entry{
		{Name: "Uptime", Kind: Action, Command: "uptime"},
		{Name: "Network", Kind: SubmenuLink, Command: "network"},
		SeparatorEntry,
		{Name: "disk", Kind: SubmenuLink, Command: "disk.menu"},
	}

	if len(model.Entries) != len(expected) {
		t.Fatalf("expected %d entries, got %+v", len(expected), model.Entries)
	}

	for i := range expected {
		if model.Entries[i] != expected[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, expected[i], model.Entries[i])
		}
	}
}

func TestRootModelWithoutRootFile(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "b.menu", "B=echo b\n")
	writeDefinition(t, dir, "a.menu", "A=echo a\n")

	model, _, err := NewCatalog(dir, "", "").RootModel()
	if err != nil {
		t.Fatalf("RootModel: %v", err)
	}

	if model.Len() != 2 || model.Entries[0].Name != "a" || model.Entries[1].Name != "b" {
		t.Fatalf("unexpected entries %+v", model.Entries)
	}
}

func TestLoadMissingDefinition(t *testing.T) {
	catalog := NewCatalog(t.TempDir(), "", "")

	_, _, err := catalog.Load("missing")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}

	_, _, err = catalog.Load("  ")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound for empty id, got %v", err)
	}
}

func TestScanTemplatesIncludesLoadedSubmenus(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "root.menu", "Who=whoami <user>\n")
	writeDefinition(t, dir, "network.menu", "Ping=ping <host>\nDNS=submenu:nested/dns\n")
	writeDefinition(t, dir, "nested/dns.menu", "Dig=dig <domain>\n")

	catalog := NewCatalog(dir, "", "")
	if _, _, err := catalog.RootModel(); err != nil {
		t.Fatal(err)
	}

	templates := catalog.ScanTemplates()
	sort.Strings(templates)
	if len(templates) != 2 || templates[0] != "ping <host>" || templates[1] != "whoami <user>" {
		t.Fatalf("unexpected templates before loading submenu: %v", templates)
	}

	model, _, err := catalog.Load("nested/dns")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if model.Source != "nested/dns.menu" || model.Title != "dns" {
		t.Fatalf("unexpected model identity %q %q", model.Source, model.Title)
	}

	templates = catalog.ScanTemplates()
	sort.Strings(templates)
	if len(templates) != 3 || templates[0] != "dig <domain>" {
		t.Fatalf("unexpected templates after loading submenu: %v", templates)
	}
}

func TestFixtureMenus(t *testing.T) {
	catalog := NewCatalog(filepath.Join("..", "..", "fixtures", "menus"), "", "")

	model, warnings, err := catalog.RootModel()
	if err != nil {
		t.Fatalf("RootModel: %v", err)
	}

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings %v", warnings)
	}

	expected := []Entry{
		{Name: "Network tools", Kind: SubmenuLink, Command: "network"},
		{Name: "Disk usage", Kind: Action, Command: "df -h"},
		{Name: "Uptime", Kind: Action, Command: "uptime"},
		SeparatorEntry,
		{Name: "git", Kind: SubmenuLink, Command: "git.menu"},
	}

	if len(model.Entries) != len(expected) {
		t.Fatalf("expected %d entries, got %+v", len(expected), model.Entries)
	}

	for i := range expected {
		if model.Entries[i] != expected[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, expected[i], model.Entries[i])
		}
	}

	git, _, err := catalog.Load("git")
	if err != nil {
		t.Fatal(err)
	}

	if last := git.Entries[git.Len()-1]; last.Kind != Back {
		t.Errorf("expected explicit back entry, got %+v", last)
	}
}
