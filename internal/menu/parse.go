package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Directives recognized in the command position of a definition line
const (
	SubmenuDirective   = "submenu:"
	BackDirective      = "back"
	SeparatorDirective = "---"
)

// Warning describes a definition line that was skipped
type Warning struct {
	Line    int
	Message string
}

func (warning Warning) String() string {
	return fmt.Sprintf("line %d: %s", warning.Line, warning.Message)
}

// Parse reads `name=command` definitions. Blank lines and `#` comments are
// ignored, lines without a name are skipped with a warning. Only a read failure
// makes the whole parse fail.
func Parse(reader io.Reader) ([]Entry, []Warning, error) {
	var entries []Entry
	var warnings []Warning

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if line == SeparatorDirective {
			entries = append(entries, SeparatorEntry)
			continue
		}

		name, command, found := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		command = strings.TrimSpace(command)

		if name == "" {
			warnings = append(warnings, Warning{Line: lineNumber, Message: "entry without a name"})
			continue
		}

		if !found {
			warnings = append(warnings, Warning{Line: lineNumber, Message: fmt.Sprintf("entry `%s` has no `=`", name)})
			continue
		}

		entries = append(entries, classify(name, command))
	}

	if err := scanner.Err(); err != nil {
		return nil, warnings, err
	}

	return normalize(entries), warnings, nil
}

// classify turns a raw definition into a tagged entry
func classify(name, command string) Entry {
	switch {
	case strings.HasPrefix(command, SubmenuDirective):
		return Entry{Name: name, Kind: SubmenuLink, Command: strings.TrimSpace(strings.TrimPrefix(command, SubmenuDirective))}

	case command == BackDirective:
		return Entry{Name: name, Kind: Back}
	}

	return Entry{Name: name, Kind: Action, Command: command}
}
