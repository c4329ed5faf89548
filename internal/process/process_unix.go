//go:build !windows
// +build !windows

package process

import (
	"os"
	"os/exec"
	"os/signal"

	"golang.org/x/sys/unix"
)

// SetupProcessGroup makes a command join the shell's process group so the
// terminal delivers Ctrl+C to it
func SetupProcessGroup(cmd *exec.Cmd) {
	pgid, err := unix.Getpgid(os.Getpid())
	if err != nil {
		return
	}

	cmd.SysProcAttr = &unix.SysProcAttr{
		Setpgid: false,
		Pgid:    pgid,
	}
}

// SetupSignalHandling captures interrupts while a command runs so only the
// child reacts to them
func SetupSignalHandling() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGINT, unix.SIGQUIT, os.Interrupt)
	return sigChan
}

// StopSignalHandling releases a channel created by SetupSignalHandling
func StopSignalHandling(sigChan chan os.Signal) {
	signal.Stop(sigChan)
}

// ShutdownSignals returns a channel notified of signals that end the shell
func ShutdownSignals() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGTERM, unix.SIGHUP)
	return sigChan
}
