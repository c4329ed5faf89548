// Package store persists placeholder values between sessions as a flat
// `name=value` file.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-navi/menush/internal/template"
)

// namePattern is the set of valid variable names
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Store is the variable persistence file
type Store struct {
	Path string
	Env  template.Env
}

// New creates a store over the process environment
func New(path string) *Store {
	return &Store{Path: path, Env: template.OSEnv{}}
}

// Load exports every well-formed `name=value` line into the environment and
// returns the names it exported. A missing file is not an error; malformed
// lines are skipped.
func (store *Store) Load() ([]string, error) {
	file, err := os.Open(store.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to open variable store `%s`: %w", store.Path, err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		name, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}

		if err := store.Env.Set(name, value); err != nil {
			continue
		}
		names = append(names, name)
	}

	if err := scanner.Err(); err != nil {
		return names, fmt.Errorf("Failed to read variable store `%s`: %w", store.Path, err)
	}

	return names, nil
}

// parseLine splits a stored line, rejecting comments and invalid names
func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	name, value, found := strings.Cut(line, "=")
	name = strings.TrimSpace(name)

	if !found || !namePattern.MatchString(name) {
		return "", "", false
	}

	return name, strings.TrimSpace(value), true
}

// Collect returns the sorted name/value pairs to persist: every placeholder of
// the templates whose environment value is non-empty
func (store *Store) Collect(templates []string) map[string]string {
	values := map[string]string{}

	for _, commandTemplate := range templates {
		for _, name := range template.Names(commandTemplate) {
			if value, ok := store.Env.Lookup(name); ok && value != "" {
				values[name] = value
			}
		}
	}

	return values
}

// ScanAndSave rebuilds the whole file from the placeholders of the given
// templates. Names without a current value are dropped, even when they were
// stored before.
func (store *Store) ScanAndSave(templates []string) error {
	values := store.Collect(templates)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var builder strings.Builder
	for _, name := range names {
		// newlines would split the value into a malformed line
		value := strings.NewReplacer("\r", " ", "\n", " ").Replace(values[name])
		builder.WriteString(name + "=" + value + "\n")
	}

	return store.write(builder.String())
}

// write replaces the file atomically
func (store *Store) write(content string) error {
	dir := filepath.Dir(store.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("Failed to create variable store directory `%s`: %w", dir, err)
	}

	temp, err := os.CreateTemp(dir, ".variables-*")
	if err != nil {
		return fmt.Errorf("Failed to save variable store `%s`: %w", store.Path, err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(content); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("Failed to save variable store `%s`: %w", store.Path, err)
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("Failed to save variable store `%s`: %w", store.Path, err)
	}

	if err := os.Rename(tempPath, store.Path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("Failed to save variable store `%s`: %w", store.Path, err)
	}

	return nil
}
