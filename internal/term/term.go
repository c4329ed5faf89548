package term

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	xTerm "golang.org/x/term"
)

// TermUI handles terminal UI operations with state management
type TermUI struct {
	out         io.Writer // Destination of rendered output
	colorStack  []string  // Stack to manage color context
	limitWidth  int       // Width limit for text output
	limitBuffer string    // Buffer for limited text
	inLimit     bool      // Whether limits are active
}

// originalTermState stores terminal state for restoration
var originalTermState *xTerm.State

// ansiCodePattern matches ANSI escape sequences
var ansiCodePattern = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

// RemoveAnsiCodes removes ANSI escape sequences from a string
func RemoveAnsiCodes(str string) string {
	return ansiCodePattern.ReplaceAllString(str, "")
}

// CountPrintableChars counts visible (non-ANSI) characters in string
func CountPrintableChars(s string) int {
	return utf8.RuneCountInString(RemoveAnsiCodes(s))
}

// ClipText shortens text with ellipsis if it exceeds maxLength printable
// characters. ANSI sequences are kept and not counted.
func ClipText(text string, maxLength int) string {
	if maxLength <= 0 || text == "" {
		return ""
	}

	if CountPrintableChars(text) <= maxLength {
		return text
	}

	if maxLength <= 3 {
		return strings.Repeat(".", maxLength)
	}

	var builder strings.Builder
	budget := maxLength - 3 // 3 for ellipsis
	lastIndex := 0

	for _, match := range ansiCodePattern.FindAllStringIndex(text, -1) {
		budget = writeRunes(&builder, text[lastIndex:match[0]], budget)
		builder.WriteString(text[match[0]:match[1]])
		lastIndex = match[1]
	}

	writeRunes(&builder, text[lastIndex:], budget)
	builder.WriteString("...")
	return builder.String()
}

// writeRunes writes at most budget runes of s and returns the remaining budget
func writeRunes(builder *strings.Builder, s string, budget int) int {
	for _, r := range s {
		if budget <= 0 {
			return 0
		}
		builder.WriteRune(r)
		budget--
	}
	return budget
}

// repeatStr repeats a string safely, avoiding negative counts
func repeatStr(s string, count int) string {
	if count <= 0 {
		return ""
	}

	return strings.Repeat(s, count)
}

// writeOutput writes to standard output
func writeOutput(s string) {
	os.Stdout.Write([]byte(s))
}

// HideCursor hides the terminal cursor
func HideCursor() {
	writeOutput("\033[?25l")
}

// ShowCursor makes the terminal cursor visible
func ShowCursor() {
	writeOutput("\033[?25h")
}

// ClearScreen erases the terminal content and homes the cursor
func ClearScreen() {
	writeOutput("\033[2J\033[H")
}

// EnableScreenBuffer activates alternate screen buffer
func EnableScreenBuffer() {
	writeOutput("\033[?1049h")
}

// DisableScreenBuffer returns from alternate screen buffer
func DisableScreenBuffer() {
	writeOutput("\033[?1049l")
}

// IsTerminal reports whether stdin is attached to a terminal
func IsTerminal() bool {
	return xTerm.IsTerminal(int(os.Stdin.Fd()))
}

// MakeRaw switches terminal to raw input mode. The first saved state is the
// one Restore goes back to.
func MakeRaw() error {
	state, err := xTerm.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	if originalTermState == nil {
		originalTermState = state
	}

	return nil
}

// Restore returns terminal to initial state
func Restore() error {
	if originalTermState == nil {
		return nil
	}

	return xTerm.Restore(int(os.Stdin.Fd()), originalTermState)
}

// GetTermSize returns terminal width and height
func GetTermSize() (int, int) {
	width, height, err := xTerm.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	return width, height
}

// renderOutput writes rendered text to the UI destination
func (termUI *TermUI) renderOutput(s string) {
	io.WriteString(termUI.out, s)
}

// applyColor adds color to stack and outputs color code
func (termUI *TermUI) applyColor(code string) *TermUI {
	termUI.colorStack = append(termUI.colorStack, code)

	if termUI.inLimit {
		termUI.limitBuffer += "\033[" + code + "m"
	} else {
		termUI.renderOutput("\033[" + code + "m")
	}

	return termUI
}

// Cursor positions cursor at specific coordinates
func (termUI *TermUI) Cursor(x, y int) *TermUI {
	if x <= 1 {
		x = 1
	}

	if y <= 1 {
		y = 1
	}

	if x <= 1 && y <= 1 {
		termUI.renderOutput("\033[H")
	} else {
		termUI.renderOutput("\033[" + strconv.Itoa(y) + ";" + strconv.Itoa(x) + "H")
	}

	return termUI
}

// ShowCursor makes the cursor visible on the UI destination
func (termUI *TermUI) ShowCursor() *TermUI {
	termUI.renderOutput("\033[?25h")
	return termUI
}

// HideCursor hides the cursor on the UI destination
func (termUI *TermUI) HideCursor() *TermUI {
	termUI.renderOutput("\033[?25l")
	return termUI
}

// ClearLine erases from cursor to end of line
func (termUI *TermUI) ClearLine() *TermUI {
	termUI.renderOutput("\033[K")
	return termUI
}

// ClearBelow erases from cursor to end of screen
func (termUI *TermUI) ClearBelow() *TermUI {
	termUI.renderOutput("\033[J")
	return termUI
}

// ClipToWidth enables single-line text width limiting
func (termUI *TermUI) ClipToWidth(width int) *TermUI {
	termUI.inLimit = true
	termUI.limitWidth = width
	termUI.limitBuffer = ""
	return termUI
}

// ApplyTextLimits processes and outputs limited buffer
func (termUI *TermUI) ApplyTextLimits() *TermUI {
	termUI.renderOutput(ClipText(termUI.limitBuffer, termUI.limitWidth))
	termUI.inLimit = false
	termUI.limitWidth = 0
	termUI.limitBuffer = ""
	return termUI
}

// Print outputs text horizontally
func (termUI *TermUI) Print(text any) *TermUI {
	parsedText := fmt.Sprintf("%v", text)

	if termUI.inLimit {
		termUI.limitBuffer += parsedText
		return termUI
	}

	termUI.renderOutput(parsedText)
	return termUI
}

// Newline moves to the start of the next line, also in raw mode
func (termUI *TermUI) Newline() *TermUI {
	termUI.renderOutput("\r\n")
	return termUI
}

// Repeat outputs text multiple times horizontally
func (termUI *TermUI) Repeat(text any, count int) *TermUI {
	parsedText := fmt.Sprintf("%v", text)

	if termUI.inLimit {
		termUI.limitBuffer += repeatStr(parsedText, count)
		return termUI
	}

	termUI.renderOutput(repeatStr(parsedText, count))
	return termUI
}

// Green sets text color to green
func (termUI *TermUI) Green() *TermUI {
	return termUI.applyColor("32")
}

// Yellow sets text color to yellow
func (termUI *TermUI) Yellow() *TermUI {
	return termUI.applyColor("33")
}

// Cyan sets text color to cyan
func (termUI *TermUI) Cyan() *TermUI {
	return termUI.applyColor("36")
}

// DarkGray sets text color to dark gray
func (termUI *TermUI) DarkGray() *TermUI {
	return termUI.applyColor("38;5;240")
}

// BoldGreen sets text to bold green
func (termUI *TermUI) BoldGreen() *TermUI {
	return termUI.applyColor("1;32")
}

// BoldYellow sets text to bold yellow
func (termUI *TermUI) BoldYellow() *TermUI {
	return termUI.applyColor("1;33")
}

// ReverseVideo inverts text and background colors
func (termUI *TermUI) ReverseVideo() *TermUI {
	return termUI.applyColor("7")
}

// PrevColor restores previous color from stack
func (termUI *TermUI) PrevColor() *TermUI {
	if len(termUI.colorStack) == 0 {
		return termUI
	}

	termUI.colorStack = termUI.colorStack[:len(termUI.colorStack)-1]
	codes := "\033[0m"

	if len(termUI.colorStack) > 0 {
		codes += "\033[" + termUI.colorStack[len(termUI.colorStack)-1] + "m"
	}

	if termUI.inLimit {
		termUI.limitBuffer += codes
	} else {
		termUI.renderOutput(codes)
	}

	return termUI
}

// NewTermUI creates a new terminal UI instance writing to standard output
func NewTermUI() *TermUI {
	return &TermUI{out: os.Stdout}
}

// NewTermUIWriter creates a terminal UI instance writing to w
func NewTermUIWriter(w io.Writer) *TermUI {
	return &TermUI{out: w}
}
