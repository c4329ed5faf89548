//go:build windows

package process

import (
	"os"
	"os/exec"
	"os/signal"

	"golang.org/x/sys/windows"
)

// SetupProcessGroup keeps the command in the console's process group
func SetupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{}
}

// SetupSignalHandling captures interrupts while a command runs so only the
// child reacts to them
func SetupSignalHandling() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, windows.SIGINT, os.Interrupt)
	return sigChan
}

// StopSignalHandling releases a channel created by SetupSignalHandling
func StopSignalHandling(sigChan chan os.Signal) {
	signal.Stop(sigChan)
}

// ShutdownSignals returns a channel notified of signals that end the shell
func ShutdownSignals() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, windows.SIGTERM)
	return sigChan
}
