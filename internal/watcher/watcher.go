package watcher

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// MenuWatcher monitors the menu directory for added, removed or renamed
// menu files
type MenuWatcher struct {
	Dir     string
	Pattern string

	fsNotifier   *fsnotify.Watcher
	changeNotify chan struct{}
	shutdownChan chan struct{}
}

// NewMenuWatcher creates a watcher for files in `dir` matching `pattern`
func NewMenuWatcher(dir, pattern string) (*MenuWatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("Invalid menu pattern `%s`", pattern)
	}

	fsNotifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("Could not enable watch mode: %w", err)
	}

	return &MenuWatcher{
		Dir:          dir,
		Pattern:      pattern,
		fsNotifier:   fsNotifier,
		changeNotify: make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
	}, nil
}

// Start begins watching and returns a channel signaled when the set of menu
// files changed. Notifications coalesce while nobody reads the channel.
func (mw *MenuWatcher) Start() (<-chan struct{}, error) {
	if err := mw.fsNotifier.Add(mw.Dir); err != nil {
		return nil, fmt.Errorf("Failed to watch directory `%s`: %w", mw.Dir, err)
	}

	go mw.monitorEvents()

	return mw.changeNotify, nil
}

// monitorEvents processes filesystem events and notifies on relevant changes
func (mw *MenuWatcher) monitorEvents() {
	for {
		select {
		case event, ok := <-mw.fsNotifier.Events:
			if !ok {
				return
			}

			if mw.isRelevant(event) {
				select {
				case mw.changeNotify <- struct{}{}:
				default:
					// Already pending
				}
			}

		case _, ok := <-mw.fsNotifier.Errors:
			// overflow errors only delay the next rebuild
			if !ok {
				return
			}

		case <-mw.shutdownChan:
			return
		}
	}
}

// isRelevant reports whether an event changes which menus exist. Edits to a
// file's content do not, the file is read again when it is opened.
func (mw *MenuWatcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if isTempFile(event.Name) {
		return false
	}

	return matchesGlobPattern(mw.Pattern, filepath.Base(event.Name))
}

// Stop terminates file watching and cleans up resources
func (mw *MenuWatcher) Stop() error {
	close(mw.shutdownChan)
	return mw.fsNotifier.Close()
}

// isTempFile detects common temporary file patterns
func isTempFile(path string) bool {
	filename := filepath.Base(path)
	return (strings.HasPrefix(filename, ".") && strings.HasSuffix(filename, ".swp")) ||
		strings.HasPrefix(filename, ".#") ||
		strings.HasSuffix(filename, "~") ||
		strings.HasSuffix(filename, ".tmp")
}

// matchesGlobPattern checks if a path matches a glob pattern
func matchesGlobPattern(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, filepath.ToSlash(name))
	return err == nil && matched
}
