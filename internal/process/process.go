package process

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/go-navi/menush/internal/logger"
	"github.com/kballard/go-shellquote"
)

// Executor runs resolved commands through a shell, showing and recording their
// output
type Executor struct {
	Shell    string              // Interpreter with optional arguments, e.g. `bash -l`
	Stdin    io.Reader           // Input of the command
	Stdout   io.Writer           // Terminal receiving the output
	Activity *logger.ActivityLog // Optional activity log
	Now      func() time.Time
}

// NewExecutor creates an executor attached to the terminal
func NewExecutor(shell string, activity *logger.ActivityLog) *Executor {
	return &Executor{
		Shell:    shell,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Activity: activity,
		Now:      time.Now,
	}
}

// DefaultShell picks the interpreter used when none is configured
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd"
	}

	if shell := strings.TrimSpace(os.Getenv("SHELL")); shell != "" {
		return shell
	}

	if runtime.GOOS == "darwin" {
		return "zsh"
	}

	return "sh"
}

// shellArgs wraps a command with the configured interpreter
func (executor *Executor) shellArgs(command string) ([]string, error) {
	shell := strings.TrimSpace(executor.Shell)
	if shell == "" {
		shell = DefaultShell()
	}

	shellTokens, err := shellquote.Split(shell)
	if err != nil || len(shellTokens) == 0 {
		return nil, fmt.Errorf("Invalid shell `%s`", executor.Shell)
	}

	flag := "-c"
	switch strings.ToLower(strings.TrimSuffix(shellTokens[0], ".exe")) {
	case "cmd":
		flag = "/C"
	case "powershell", "pwsh":
		flag = "-Command"
	}

	return append(shellTokens, flag, command), nil
}

// Run executes a command, copying its combined output to the terminal and to
// the activity log. It returns the exit code; failures of the command itself are
// not errors of the shell. Log failures are reported and ignored.
func (executor *Executor) Run(command, name string) int {
	started := executor.Now()
	var captured bytes.Buffer
	exitCode := 0

	args, err := executor.shellArgs(command)
	if err != nil {
		logger.Error("%v", err)
		return -1
	}

	processCmd := exec.Command(args[0], args[1:]...)
	SetupProcessGroup(processCmd)

	// one writer for both streams keeps their interleaving
	output := io.MultiWriter(executor.Stdout, &captured)
	processCmd.Stdin = executor.Stdin
	processCmd.Stdout = output
	processCmd.Stderr = output

	signals := SetupSignalHandling()
	defer StopSignalHandling(signals)

	if err := processCmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
			fmt.Fprintf(output, "The command has failed with error `%v`\n", err)
		}
	}

	if executor.Activity != nil {
		record := logger.ActivityRecord{
			Started: started,
			Name:    name,
			Command: command,
			Output:  captured.String(),
		}

		if err := executor.Activity.Append(record); err != nil {
			logger.Warn("%v", err)
		}
	}

	return exitCode
}
