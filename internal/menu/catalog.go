package menu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Defaults for the definition directory layout
const (
	Extension      = ".menu"
	DefaultRoot    = "root" + Extension
	DefaultPattern = "*" + Extension
)

// ErrSourceNotFound is returned when a definition file does not exist
var ErrSourceNotFound = errors.New("Menu definition not found")

// Catalog resolves menu identifiers to definition files inside a directory and
// remembers what it loaded during the run.
type Catalog struct {
	Dir     string // Directory holding definition files
	Root    string // Root definition file, relative to Dir
	Pattern string // Glob of root-level definitions, relative to Dir
	Title   string // Title of the root menu

	loaded []string // Identifiers loaded so far, in load order
}

// NewCatalog creates a catalog with default root file and pattern when empty
func NewCatalog(dir, root, pattern string) *Catalog {
	if strings.TrimSpace(root) == "" {
		root = DefaultRoot
	}

	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}

	return &Catalog{Dir: dir, Root: root, Pattern: pattern, Title: "Main Menu"}
}

// normalizeId returns the canonical identifier of a source: slash separated,
// relative to the catalog directory and with the definition extension
func (catalog *Catalog) normalizeId(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}

	if filepath.IsAbs(id) {
		if rel, err := filepath.Rel(catalog.Dir, id); err == nil && !strings.HasPrefix(rel, "..") {
			id = rel
		}
	}

	id = filepath.ToSlash(filepath.Clean(id))
	if filepath.Ext(id) == "" {
		id += Extension
	}

	return id
}

// Path returns the file path of a source identifier
func (catalog *Catalog) Path(id string) string {
	normalized := catalog.normalizeId(id)
	if filepath.IsAbs(normalized) {
		return filepath.FromSlash(normalized)
	}

	return filepath.Join(catalog.Dir, filepath.FromSlash(normalized))
}

// read parses a single definition file
func (catalog *Catalog) read(id string) (Model, []Warning, error) {
	normalized := catalog.normalizeId(id)
	if normalized == "" {
		return Model{}, nil, fmt.Errorf("%w: empty menu reference", ErrSourceNotFound)
	}

	path := catalog.Path(normalized)
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Model{}, nil, fmt.Errorf("%w: `%s`", ErrSourceNotFound, path)
		}
		return Model{}, nil, fmt.Errorf("Failed to open menu definition `%s`: %w", path, err)
	}
	defer file.Close()

	entries, warnings, err := Parse(file)
	if err != nil {
		return Model{}, warnings, fmt.Errorf("Failed to read menu definition `%s`: %w", path, err)
	}

	title := strings.TrimSuffix(filepath.Base(normalized), filepath.Ext(normalized))
	return Model{Title: title, Source: normalized, Entries: entries}, warnings, nil
}

// Load reads a submenu definition and records it for variable scanning
func (catalog *Catalog) Load(id string) (Model, []Warning, error) {
	model, warnings, err := catalog.read(id)
	if err != nil {
		return model, warnings, err
	}

	catalog.remember(model.Source)
	return model, warnings, nil
}

func (catalog *Catalog) remember(id string) {
	for _, loaded := range catalog.loaded {
		if loaded == id {
			return
		}
	}
	catalog.loaded = append(catalog.loaded, id)
}

// Discover lists the root-level definition identifiers matching the pattern,
// excluding the root file itself
func (catalog *Catalog) Discover() ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(catalog.Dir), catalog.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("Failed to list menu definitions in `%s`: %w", catalog.Dir, err)
	}

	rootId := catalog.normalizeId(catalog.Root)
	ids := []string{}

	for _, match := range matches {
		id := catalog.normalizeId(match)
		if id == rootId || strings.HasPrefix(filepath.Base(id), ".") {
			continue
		}
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids, nil
}

// RootModel builds the top-level menu: the entries of the root file, if any,
// followed by a link to every discovered definition not already linked from it
func (catalog *Catalog) RootModel() (Model, []Warning, error) {
	model := Model{Title: catalog.Title, Source: catalog.normalizeId(catalog.Root)}
	var warnings []Warning

	rootModel, rootWarnings, err := catalog.read(catalog.Root)
	switch {
	case err == nil:
		model.Entries = rootModel.Entries
		warnings = rootWarnings
		catalog.remember(rootModel.Source)

	case !errors.Is(err, ErrSourceNotFound):
		return Model{}, rootWarnings, err
	}

	ids, err := catalog.Discover()
	if err != nil {
		return Model{}, warnings, err
	}

	linked := map[string]bool{}
	for _, entry := range model.Entries {
		if entry.Kind == SubmenuLink {
			linked[catalog.normalizeId(entry.Command)] = true
		}
	}

	var links []Entry
	for _, id := range ids {
		if linked[id] {
			continue
		}
		links = append(links, Entry{
			Name:    strings.TrimSuffix(id, filepath.Ext(id)),
			Kind:    SubmenuLink,
			Command: id,
		})
	}

	if len(links) > 0 {
		entries := append([]Entry{}, model.Entries...)
		entries = append(entries, SeparatorEntry)
		model.Entries = normalize(append(entries, links...))
	}

	return model, warnings, nil
}

// ScanTemplates re-reads every root-level definition and every definition loaded
// during this run and returns their action templates
func (catalog *Catalog) ScanTemplates() []string {
	ids := []string{catalog.normalizeId(catalog.Root)}

	if discovered, err := catalog.Discover(); err == nil {
		ids = append(ids, discovered...)
	}

	ids = append(ids, catalog.loaded...)
	seen := map[string]bool{}
	var templates []string

	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		model, _, err := catalog.read(id)
		if err != nil {
			continue
		}
		templates = append(templates, model.Templates()...)
	}

	return templates
}
