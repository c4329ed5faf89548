package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ANSI text color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[0;33m"
)

var (
	outputLock sync.Mutex
	output     io.Writer = os.Stdout
	rawMode    bool // terminal does not translate \n to \r\n
	plain      bool // colors disabled
)

// SetOutput redirects console messages, mainly for tests
func SetOutput(w io.Writer) {
	outputLock.Lock()
	output = w
	outputLock.Unlock()
}

// SetRawMode tells the logger whether the terminal is in raw mode
func SetRawMode(enabled bool) {
	outputLock.Lock()
	rawMode = enabled
	outputLock.Unlock()
}

// SetPlain disables ANSI colors in console messages
func SetPlain(enabled bool) {
	outputLock.Lock()
	plain = enabled
	outputLock.Unlock()
}

// formatMessage formats log messages with appropriate color and prefix
func formatMessage(msgType, color, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)

	if msgType != "" {
		msg = msgType + ": " + msg
	}

	if plain {
		return msg
	}

	return color + msg + colorReset
}

// print outputs a full message line honoring raw mode
func print(msgType, color, format string, args ...any) {
	outputLock.Lock()
	defer outputLock.Unlock()

	line := formatMessage(msgType, color, format, args...)
	if rawMode {
		line = strings.ReplaceAll(line, "\n", "\r\n") + "\r\n"
	} else {
		line += "\n"
	}

	io.WriteString(output, line)
}

// Error prints formatted error message in red
func Error(format string, args ...any) {
	print("ERROR", colorRed, format, args...)
}

// Warn prints warning message in yellow
func Warn(format string, args ...any) {
	print("WARNING", colorYellow, format, args...)
}

// Info prints information message in green
func Info(format string, args ...any) {
	print("", colorGreen, format, args...)
}
