package term

import (
	"errors"
	"os"
	"time"

	"github.com/muesli/cancelreader"
)

// Event is a navigation event decoded from keyboard input
type Event int

const (
	Noop Event = iota
	Up
	Down
	Confirm
	Back
)

func (event Event) String() string {
	switch event {
	case Up:
		return "up"
	case Down:
		return "down"
	case Confirm:
		return "confirm"
	case Back:
		return "back"
	}
	return "noop"
}

// Raw input bytes recognized by the decoder
const (
	keyEnter     = 13
	keyLineFeed  = 10
	keyEscape    = 27
	keyDelete    = 127
	keyBackspace = 8
)

// EscapeTimeout bounds the wait for the rest of an escape sequence
const EscapeTimeout = 100 * time.Millisecond

// ErrReadTimeout is returned by ReadWithin when no input arrived in time
var ErrReadTimeout = errors.New("Read timed out")

// ByteSource is the raw keyboard input
type ByteSource interface {
	// Read blocks until at least one byte is available
	Read(p []byte) (int, error)
	// ReadWithin waits at most timeout for input
	ReadWithin(p []byte, timeout time.Duration) (int, error)
}

// ReadEvent consumes one key press (1 to 3 bytes) and returns its event.
// Incomplete or unknown escape sequences are dropped as Noop and never carried
// over to the next call.
func ReadEvent(source ByteSource) (Event, error) {
	var first [1]byte

	n, err := source.Read(first[:])
	if err != nil {
		return Noop, err
	}

	if n == 0 {
		return Confirm, nil
	}

	switch first[0] {
	case keyEnter, keyLineFeed:
		return Confirm, nil

	case keyDelete, keyBackspace:
		return Back, nil

	case keyEscape:
		return readEscapeSequence(source), nil
	}

	return Noop, nil
}

// readEscapeSequence reads up to two follow-up bytes of an escape sequence
// within EscapeTimeout
func readEscapeSequence(source ByteSource) Event {
	var sequence [2]byte
	received := 0
	deadline := time.Now().Add(EscapeTimeout)

	for received < len(sequence) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		n, err := source.ReadWithin(sequence[received:], remaining)
		received += n

		if err != nil || n == 0 {
			break
		}
	}

	if received < len(sequence) || sequence[0] != '[' {
		return Noop
	}

	switch sequence[1] {
	case 'A':
		return Up
	case 'B':
		return Down
	}

	return Noop
}

// FileSource reads keyboard input from a terminal file
type FileSource struct {
	File *os.File
}

// NewStdinSource returns a source reading standard input
func NewStdinSource() FileSource {
	return FileSource{File: os.Stdin}
}

// Read blocks until input is available
func (source FileSource) Read(p []byte) (int, error) {
	return source.File.Read(p)
}

// ReadWithin reads input, giving up after timeout. The pending read is
// cancelled so no byte is consumed after the deadline.
func (source FileSource) ReadWithin(p []byte, timeout time.Duration) (int, error) {
	reader, err := cancelreader.NewReader(source.File)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	timer := time.AfterFunc(timeout, func() {
		reader.Cancel()
	})
	defer timer.Stop()

	n, err := reader.Read(p)
	if errors.Is(err, cancelreader.ErrCanceled) {
		return n, ErrReadTimeout
	}

	return n, err
}
