package menush

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-navi/menush/internal/logger"
	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/nav"
	"github.com/go-navi/menush/internal/process"
	"github.com/go-navi/menush/internal/store"
	"github.com/go-navi/menush/internal/template"
	"github.com/go-navi/menush/internal/term"
)

// Terminal switches the input mode around child commands
type Terminal interface {
	Raw() error
	Cooked() error
}

// rawTerminal controls the real terminal
type rawTerminal struct{}

func (rawTerminal) Raw() error {
	if err := term.MakeRaw(); err != nil {
		return err
	}
	logger.SetRawMode(true)
	return nil
}

func (rawTerminal) Cooked() error {
	logger.SetRawMode(false)
	return term.Restore()
}

// Shell runs the interactive menu loop
type Shell struct {
	Catalog  *menu.Catalog
	Store    *store.Store
	Resolver *template.Resolver
	Executor *process.Executor
	Source   term.ByteSource
	Terminal Terminal
	Out      io.Writer
	Width    func() int
	Changes  <-chan struct{} // Menu files were added or removed

	ui             *term.TermUI
	engine         nav.Engine
	session        nav.Session
	notices        bytes.Buffer // Messages shown below the menu until the next key
	rebuildPending bool
}

// catalogLoader opens submenus and reports their definition warnings
type catalogLoader struct {
	catalog *menu.Catalog
}

func (loader catalogLoader) Load(id string) (menu.Model, error) {
	model, warnings, err := loader.catalog.Load(id)
	reportWarnings(warnings)
	return model, err
}

// reportWarnings prints definition problems
func reportWarnings(warnings []menu.Warning) {
	for _, warning := range warnings {
		logger.Warn("%s", warning.String())
	}
}

// Start builds the root menu and prepares the navigation session
func (shell *Shell) Start() error {
	if shell.Width == nil {
		shell.Width = func() int {
			width, _ := term.GetTermSize()
			return width
		}
	}

	shell.ui = term.NewTermUIWriter(shell.Out)
	shell.engine = nav.Engine{Loader: catalogLoader{shell.Catalog}, Runner: shell}
	logger.SetOutput(&shell.notices)

	root, warnings, err := shell.Catalog.RootModel()
	if err != nil {
		return fmt.Errorf("Failed to build root menu: %w", err)
	}

	reportWarnings(warnings)
	shell.session = nav.NewSession(root)
	return nil
}

// Loop renders the menu and applies key events until the root menu is left
func (shell *Shell) Loop() error {
	for {
		shell.applyPendingRebuild()
		shell.render()

		event, err := term.ReadEvent(shell.Source)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return shell.Shutdown()
			}
			return fmt.Errorf("Failed to read keyboard input: %w", err)
		}

		shell.notices.Reset()

		next, result := shell.engine.Handle(shell.session, event)
		if result.Err != nil {
			logger.Error("%v", result.Err)
		}

		if result.Outcome == nav.Exit {
			return shell.Shutdown()
		}

		shell.session = next
	}
}

// Shutdown persists the variable store
func (shell *Shell) Shutdown() error {
	if err := shell.Store.ScanAndSave(shell.Catalog.ScanTemplates()); err != nil {
		return fmt.Errorf("Failed to save variables: %w", err)
	}
	return nil
}

// applyPendingRebuild replaces the root menu after menu files changed. The
// rebuild waits while a submenu is open.
func (shell *Shell) applyPendingRebuild() {
	if shell.Changes != nil {
	drain:
		for {
			select {
			case <-shell.Changes:
				shell.rebuildPending = true
			default:
				break drain
			}
		}
	}

	if !shell.rebuildPending {
		return
	}

	if frame, ok := shell.session.Top(); !ok || frame.Kind != nav.Root {
		return
	}

	root, warnings, err := shell.Catalog.RootModel()
	if err != nil {
		logger.Warn("Failed to rebuild root menu: %v", err)
		shell.rebuildPending = false
		return
	}

	reportWarnings(warnings)
	shell.session, _ = shell.session.RebuildRoot(root)
	shell.rebuildPending = false
}

// render draws the menu followed by pending notices
func (shell *Shell) render() {
	renderSession(shell.ui, shell.session, shell.Width())

	if shell.notices.Len() > 0 {
		shell.ui.Newline().Print(shell.notices.String())
	}
}

// Run executes an action: resolve its placeholders, run it with the terminal
// in normal mode, wait for a key and persist the variables it used
func (shell *Shell) Run(entry menu.Entry) {
	shell.ui.Cursor(1, 1).ClearBelow().ShowCursor()
	defer shell.ui.HideCursor()
	shell.ui.BoldGreen().Print(entry.Name).PrevColor().Newline()

	command, substituted := shell.Resolver.Resolve(entry.Command)

	logger.SetOutput(shell.Out)
	defer logger.SetOutput(&shell.notices)

	shell.ui.DarkGray().Print("$ " + command).PrevColor().Newline().Newline()

	if err := shell.Terminal.Cooked(); err != nil {
		logger.Warn("Failed to restore terminal mode: %v", err)
	}

	exitCode := shell.Executor.Run(command, entry.Name)

	if err := shell.Terminal.Raw(); err != nil {
		logger.Warn("Failed to enable raw terminal mode: %v", err)
	}

	if exitCode != 0 {
		logger.Warn("Command exited with status %d", exitCode)
	}

	if err := term.WaitForKey(shell.Source, shell.Out); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to read keyboard input: %v", err)
	}

	if substituted {
		if err := shell.Store.ScanAndSave(shell.Catalog.ScanTemplates()); err != nil {
			logger.SetOutput(&shell.notices)
			logger.Warn("Failed to save variables: %v", err)
		}
	}
}
