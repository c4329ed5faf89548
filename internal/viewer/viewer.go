package viewer

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Runner executes tmux with the given arguments and returns its standard output
type Runner func(args ...string) (string, error)

// Viewer shows the activity log in a tmux pane next to the menu
type Viewer struct {
	LogPath string
	Run     Runner
	paneId  string
}

// New creates a viewer following `logPath`
func New(logPath string) *Viewer {
	return &Viewer{LogPath: logPath, Run: runTmux}
}

// Available reports whether the shell is running inside tmux with the tmux
// binary on the PATH
func Available() bool {
	if strings.TrimSpace(os.Getenv("TMUX")) == "" {
		return false
	}

	_, err := exec.LookPath("tmux")
	return err == nil
}

// runTmux executes a tmux subcommand
func runTmux(args ...string) (string, error) {
	out, err := exec.Command("tmux", args...).Output()
	return strings.TrimSpace(string(out)), err
}

// OpenArgs returns the tmux arguments splitting a detached pane that follows
// the log
func (viewer *Viewer) OpenArgs() []string {
	return []string{
		"split-window", "-h", "-d", "-P", "-F", "#{pane_id}",
		shellquote.Join("tail", "-n", "+1", "-F", viewer.LogPath),
	}
}

// Open starts the viewer pane
func (viewer *Viewer) Open() error {
	if viewer.paneId != "" {
		return nil
	}

	paneId, err := viewer.Run(viewer.OpenArgs()...)
	if err != nil {
		return fmt.Errorf("Failed to open log viewer pane: %w", err)
	}

	if paneId == "" {
		return fmt.Errorf("Failed to open log viewer pane: tmux returned no pane id")
	}

	viewer.paneId = paneId
	return nil
}

// PaneId returns the id of the open pane or an empty string
func (viewer *Viewer) PaneId() string {
	return viewer.paneId
}

// Close kills the viewer pane if one is open
func (viewer *Viewer) Close() error {
	if viewer == nil || viewer.paneId == "" {
		return nil
	}

	paneId := viewer.paneId
	viewer.paneId = ""

	if _, err := viewer.Run("kill-pane", "-t", paneId); err != nil {
		return fmt.Errorf("Failed to close log viewer pane `%s`: %w", paneId, err)
	}

	return nil
}
