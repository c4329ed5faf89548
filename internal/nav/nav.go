// Package nav is the menu navigation state machine. It owns the frame stack and
// turns key events into selection changes, submenu descents and ascents, and
// action invocations.
package nav

import (
	"errors"
	"fmt"

	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/term"
)

// FrameKind controls what going back from a frame means
type FrameKind int

const (
	Root FrameKind = iota
	Sub
)

// Frame is one level of the navigation stack
type Frame struct {
	Model    menu.Model
	Selected int
	Kind     FrameKind
}

// Session is the navigation stack, the last frame being the live one
type Session struct {
	Frames []Frame
}

// ErrEmptyStack is returned when handling events after the program ended
var ErrEmptyStack = errors.New("Navigation session has no frames")

// NewSession starts a session on the root menu
func NewSession(root menu.Model) Session {
	return Session{Frames: []Frame{{Model: root, Selected: firstSelectable(root), Kind: Root}}}
}

// Top returns the live frame
func (session Session) Top() (Frame, bool) {
	if len(session.Frames) == 0 {
		return Frame{}, false
	}
	return session.Frames[len(session.Frames)-1], true
}

// Depth returns the number of frames
func (session Session) Depth() int {
	return len(session.Frames)
}

// Titles returns the breadcrumb of menu titles from root to the live frame
func (session Session) Titles() []string {
	titles := make([]string, 0, len(session.Frames))
	for _, frame := range session.Frames {
		titles = append(titles, frame.Model.Title)
	}
	return titles
}

// withTop returns a copy of the session with the live frame replaced
func (session Session) withTop(frame Frame) Session {
	frames := append([]Frame{}, session.Frames...)
	frames[len(frames)-1] = frame
	return Session{Frames: frames}
}

// push returns a copy of the session with a new live frame
func (session Session) push(frame Frame) Session {
	frames := make([]Frame, 0, len(session.Frames)+1)
	frames = append(frames, session.Frames...)
	return Session{Frames: append(frames, frame)}
}

// pop returns a copy of the session without the live frame. The parent
// selection is reset to its first entry.
func (session Session) pop() Session {
	frames := append([]Frame{}, session.Frames[:len(session.Frames)-1]...)
	if len(frames) > 0 {
		parent := &frames[len(frames)-1]
		parent.Selected = firstSelectable(parent.Model)
	}
	return Session{Frames: frames}
}

// RebuildRoot replaces the root model while the root frame is live. The
// selection is kept when still valid.
func (session Session) RebuildRoot(root menu.Model) (Session, bool) {
	if len(session.Frames) != 1 || session.Frames[0].Kind != Root {
		return session, false
	}

	frame := session.Frames[0]
	frame.Model = root

	if frame.Selected >= root.Len() {
		frame.Selected = 0
	}

	if !root.Selectable(frame.Selected) {
		frame.Selected = firstSelectable(root)
	}

	return session.withTop(frame), true
}

// Outcome tells the caller loop what the last event did
type Outcome int

const (
	Stay Outcome = iota
	Moved
	Ran
	Pushed
	Popped
	Exit
)

// Result of handling one event
type Result struct {
	Outcome Outcome
	Err     error // Load failure to report, the session is unchanged
}

// Loader provides submenu models
type Loader interface {
	Load(id string) (menu.Model, error)
}

// Runner executes an action entry
type Runner interface {
	Run(entry menu.Entry)
}

// Engine applies key events to sessions
type Engine struct {
	Loader Loader
	Runner Runner
}

// Handle applies one event to the session and returns the new session. The
// caller continues its loop unless the outcome is Exit.
func (engine *Engine) Handle(session Session, event term.Event) (Session, Result) {
	frame, ok := session.Top()
	if !ok {
		return session, Result{Outcome: Exit, Err: ErrEmptyStack}
	}

	switch event {
	case term.Up:
		frame.Selected = step(frame.Model, frame.Selected, -1)
		return session.withTop(frame), Result{Outcome: Moved}

	case term.Down:
		frame.Selected = step(frame.Model, frame.Selected, 1)
		return session.withTop(frame), Result{Outcome: Moved}

	case term.Back:
		return engine.back(session, frame)

	case term.Confirm:
		return engine.confirm(session, frame)
	}

	return session, Result{Outcome: Stay}
}

// back pops a submenu or ends the program on the root menu
func (engine *Engine) back(session Session, frame Frame) (Session, Result) {
	if frame.Kind == Root {
		return Session{}, Result{Outcome: Exit}
	}

	return session.pop(), Result{Outcome: Popped}
}

// confirm activates the selected entry
func (engine *Engine) confirm(session Session, frame Frame) (Session, Result) {
	if !frame.Model.Selectable(frame.Selected) {
		return session, Result{Outcome: Stay}
	}

	entry := frame.Model.Entries[frame.Selected]

	switch entry.Kind {
	case menu.Action:
		if engine.Runner != nil {
			engine.Runner.Run(entry)
		}
		return session, Result{Outcome: Ran}

	case menu.SubmenuLink:
		if engine.Loader == nil {
			return session, Result{Outcome: Stay, Err: fmt.Errorf("No menu loader configured for `%s`", entry.Name)}
		}

		model, err := engine.Loader.Load(entry.Command)
		if err != nil {
			return session, Result{Outcome: Stay, Err: fmt.Errorf("Failed to open submenu `%s`: %w", entry.Name, err)}
		}

		model.Title = entry.Name
		model = model.WithBack()
		return session.push(Frame{Model: model, Selected: firstSelectable(model), Kind: Sub}), Result{Outcome: Pushed}

	case menu.Back:
		return engine.back(session, frame)
	}

	return session, Result{Outcome: Stay}
}

// step moves the selection by delta with wraparound, skipping separators
func step(model menu.Model, selected, delta int) int {
	length := model.Len()
	if length == 0 {
		return 0
	}

	next := selected
	for range length {
		next = ((next+delta)%length + length) % length
		if model.Selectable(next) {
			return next
		}
	}

	return selected
}

// firstSelectable returns the index of the first non-separator entry
func firstSelectable(model menu.Model) int {
	for index := range model.Entries {
		if model.Selectable(index) {
			return index
		}
	}
	return 0
}
