package menush

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-navi/menush/internal/logger"
	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/process"
	"github.com/go-navi/menush/internal/store"
	"github.com/go-navi/menush/internal/template"
	"github.com/go-navi/menush/internal/term"
	"github.com/go-navi/menush/internal/viewer"
	"github.com/go-navi/menush/internal/watcher"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
)

var MenushVersion = "1.0.0"

var HelpText = `Menush - Interactive Terminal Menu Shell

Usage:
  menush [options]

Navigate with the arrow keys, run the selected entry with Enter and go back
with Backspace. Leaving the root menu quits menush.

Menu files (*.menu) contain one entry per line:
  <name>=<command>         Run a command, <var> placeholders are prompted
  <name>=submenu:<file>    Open another menu file
  <name>=back              Return to the previous menu
  ---                      Separator

Options:
  -f, --file <path>      Specify path to config file (default: ~/.config/menush/menush.yml)
  -m, --menus <path>     Directory with menu files
      --no-viewer        Do not open the tmux activity log pane
  -h, --help             Display this help message
  -v, --version          Display current version`

// displayHelp prints usage instructions and exits the program
func displayHelp() {
	logger.Info(HelpText)
	os.Exit(0)
}

// displayVersion prints current version and exits the program
func displayVersion() {
	logger.Info(MenushVersion)
	os.Exit(0)
}

// parseFlags reads the command-line options
func parseFlags(args []string) (Flags, error) {
	var flags Flags

	flagSet := pflag.NewFlagSet("menush", pflag.ContinueOnError)
	flagSet.Usage = func() {}
	flagSet.StringVarP(&flags.File, "file", "f", "", "Specify path to config file")
	flagSet.StringVarP(&flags.Menus, "menus", "m", "", "Directory with menu files")
	flagSet.BoolVar(&flags.NoViewer, "no-viewer", false, "Do not open the tmux activity log pane")
	flagSet.BoolVarP(&flags.Help, "help", "h", false, "Display help information")
	flagSet.BoolVarP(&flags.Version, "version", "v", false, "Display current version")

	if err := flagSet.Parse(args); err != nil {
		return flags, fmt.Errorf("Invalid arguments: %v", err)
	}

	if flagSet.NArg() > 0 {
		return flags, fmt.Errorf("Unexpected argument `%s`", flagSet.Arg(0))
	}

	return flags, nil
}

// prepareEnvironment creates the working files and loads dotenv files and the
// variable store into the environment, in that order
func prepareEnvironment(settings Settings) (*store.Store, []string, *logger.ActivityLog, error) {
	if err := os.MkdirAll(settings.MenusDir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("Failed to create menu directory `%s`: %w", settings.MenusDir, err)
	}

	if err := os.MkdirAll(filepath.Dir(settings.StorePath), 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("Failed to create store directory: %w", err)
	}

	activity, err := logger.NewActivityLog(settings.LogPath)
	if err != nil {
		return nil, nil, nil, err
	}

	dotEnvVars, err := loadEnvironmentVariables(settings.DotEnv)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := exportEnvironmentVariables(dotEnvVars); err != nil {
		return nil, nil, nil, err
	}

	variables := store.New(settings.StorePath)
	storedNames, err := variables.Load()
	if err != nil {
		logger.Warn("%v", err)
	}

	return variables, storedNames, activity, nil
}

// newShell wires the shell components for the given settings
func newShell(settings Settings, variables *store.Store, storedNames []string, activity *logger.ActivityLog) *Shell {
	catalog := menu.NewCatalog(settings.MenusDir, settings.Root, settings.Pattern)
	if settings.Title != "" {
		catalog.Title = settings.Title
	}

	resolver := template.NewResolver(term.NewLinePrompter())
	for _, name := range storedNames {
		resolver.Stored[name] = true
	}

	return &Shell{
		Catalog:  catalog,
		Store:    variables,
		Resolver: resolver,
		Executor: process.NewExecutor(settings.Shell, activity),
		Source:   term.NewStdinSource(),
		Terminal: rawTerminal{},
		Out:      os.Stdout,
	}
}

// startWatcher enables root rebuilds on menu file changes
func startWatcher(settings Settings) (*watcher.MenuWatcher, <-chan struct{}) {
	if !settings.Watch {
		return nil, nil
	}

	menuWatcher, err := watcher.NewMenuWatcher(settings.MenusDir, settings.Pattern)
	if err != nil {
		logger.Warn("%v", err)
		return nil, nil
	}

	changes, err := menuWatcher.Start()
	if err != nil {
		logger.Warn("%v", err)
		menuWatcher.Stop()
		return nil, nil
	}

	return menuWatcher, changes
}

// startViewer opens the activity log pane when running inside tmux
func startViewer(settings Settings) *viewer.Viewer {
	if !settings.Viewer || !viewer.Available() {
		return nil
	}

	logViewer := viewer.New(settings.LogPath)
	if err := logViewer.Open(); err != nil {
		logger.Warn("%v. Log viewer disabled", err)
		return nil
	}

	return logViewer
}

// entry point of the application
func Main() {
	logger.SetPlain(termenv.EnvNoColor())

	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if flags.Help {
		displayHelp()
	}

	if flags.Version {
		displayVersion()
	}

	settings, err := loadSettings(flags)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	if !term.IsTerminal() {
		logger.Error("Menush requires an interactive terminal")
		os.Exit(1)
	}

	variables, storedNames, activity, err := prepareEnvironment(settings)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	shell := newShell(settings, variables, storedNames, activity)
	logViewer := startViewer(settings)
	menuWatcher, changes := startWatcher(settings)
	shell.Changes = changes

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			term.ShowCursor()
			term.DisableScreenBuffer()
			shell.Terminal.Cooked()
			logger.SetOutput(os.Stdout)

			if menuWatcher != nil {
				menuWatcher.Stop()
			}

			if err := logViewer.Close(); err != nil {
				logger.Warn("%v", err)
			}
		})
	}

	// SIGTERM and SIGHUP end the shell gracefully
	shutdownSignals := process.ShutdownSignals()
	go func() {
		sig := <-shutdownSignals
		err := shell.Shutdown()
		cleanup()
		logger.Warn("Received `%s` signal", sig.String())
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()

	if err := shell.Terminal.Raw(); err != nil {
		cleanup()
		logger.Error("Failed during menu initialization: %v", err)
		os.Exit(1)
	}

	term.EnableScreenBuffer()
	term.HideCursor()
	term.ClearScreen()

	if err := shell.Start(); err != nil {
		cleanup()
		logger.Error("%v", err)
		os.Exit(1)
	}

	err = shell.Loop()
	cleanup()

	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
