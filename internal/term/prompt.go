package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	xTerm "golang.org/x/term"
)

// LinePrompter asks for single-line values with line editing while the
// terminal stays in raw mode
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

// NewLinePrompter returns a prompter attached to standard input/output
func NewLinePrompter() *LinePrompter {
	return &LinePrompter{In: os.Stdin, Out: os.Stdout}
}

// Prompt shows `name [current]: ` and returns the typed line. An empty line
// means the caller keeps the current value.
func (prompter *LinePrompter) Prompt(name, current string) (string, error) {
	label := "\033[1;33m" + name + "\033[0m"
	if current != "" {
		label += " \033[38;5;240m[" + current + "]\033[0m"
	}

	screen := struct {
		io.Reader
		io.Writer
	}{prompter.In, prompter.Out}

	terminal := xTerm.NewTerminal(screen, label+": ")
	line, err := terminal.ReadLine()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// WaitForKey prints a hint and blocks until any key is pressed
func WaitForKey(source ByteSource, out io.Writer) error {
	fmt.Fprint(out, "\r\n\033[38;5;240mPress any key to continue...\033[0m")

	// large enough to swallow a whole escape sequence
	var buffer [16]byte
	_, err := source.Read(buffer[:])

	fmt.Fprint(out, "\r\n")
	return err
}
