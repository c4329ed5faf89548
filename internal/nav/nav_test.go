package nav

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/term"
)

type fakeLoader struct {
	models map[string]menu.Model
	calls  []string
}

func (loader *fakeLoader) Load(id string) (menu.Model, error) {
	loader.calls = append(loader.calls, id)
	model, ok := loader.models[id]
	if !ok {
		return menu.Model{}, menu.ErrSourceNotFound
	}
	return model, nil
}

type recordingRunner struct {
	ran []menu.Entry
}

func (runner *recordingRunner) Run(entry menu.Entry) {
	runner.ran = append(runner.ran, entry)
}

func action(name string) menu.Entry {
	return menu.Entry{Name: name, Kind: menu.Action, Command: "echo " + name}
}

func link(name, id string) menu.Entry {
	return menu.Entry{Name: name, Kind: menu.SubmenuLink, Command: id}
}

func rootModel() menu.Model {
	return menu.Model{Title: "Main", Entries: []menu.Entry{
		action("a"),
		menu.SeparatorEntry,
		action("b"),
		link("Network", "network"),
		menu.SeparatorEntry,
		link("Missing", "missing"),
	}}
}

func newEngine() (*Engine, *fakeLoader, *recordingRunner) {
	loader := &fakeLoader{models: map[string]menu.Model{
		"network": {Entries: []menu.Entry{action("ping"), action("trace")}},
	}}
	runner := &recordingRunner{}
	return &Engine{Loader: loader, Runner: runner}, loader, runner
}

func selected(t *testing.T, session Session) int {
	t.Helper()
	frame, ok := session.Top()
	if !ok {
		t.Fatal("empty session")
	}
	return frame.Selected
}

func apply(t *testing.T, engine *Engine, session Session, events ...term.Event) (Session, Result) {
	t.Helper()
	var result Result
	for _, event := range events {
		session, result = engine.Handle(session, event)
	}
	return session, result
}

func TestDownUpWrapAndSkipSeparators(t *testing.T) {
	engine, _, _ := newEngine()
	session := NewSession(rootModel())

	expectedDown := []int{2, 3, 5, 0, 2}
	for i, expected := range expectedDown {
		session, _ = engine.Handle(session, term.Down)
		if got := selected(t, session); got != expected {
			t.Fatalf("down #%d: expected %d, got %d", i+1, expected, got)
		}
	}

	expectedUp := []int{0, 5, 3, 2, 0}
	for i, expected := range expectedUp {
		session, _ = engine.Handle(session, term.Up)
		if got := selected(t, session); got != expected {
			t.Fatalf("up #%d: expected %d, got %d", i+1, expected, got)
		}
	}
}

func TestSelectionNeverRestsOnSeparator(t *testing.T) {
	engine, _, _ := newEngine()
	random := rand.New(rand.NewSource(42))
	session := NewSession(rootModel())

	for i := 0; i < 2000; i++ {
		event := term.Up
		if random.Intn(2) == 0 {
			event = term.Down
		}

		session, _ = engine.Handle(session, event)
		frame, _ := session.Top()
		if frame.Model.Entries[frame.Selected].Kind == menu.Separator {
			t.Fatalf("selection rests on separator at step %d", i)
		}
	}
}

func TestUpThenDownIsSymmetric(t *testing.T) {
	engine, _, _ := newEngine()
	model := menu.Model{Entries: []menu.Entry{action("a"), action("b"), action("c"), menu.SeparatorEntry, action("d")}}

	for start := 0; start < model.Len(); start++ {
		if !model.Selectable(start) {
			continue
		}

		for count := 1; count <= 7; count++ {
			session := Session{Frames: []Frame{{Model: model, Selected: start, Kind: Root}}}

			for i := 0; i < count; i++ {
				session, _ = engine.Handle(session, term.Up)
			}
			for i := 0; i < count; i++ {
				session, _ = engine.Handle(session, term.Down)
			}

			if got := selected(t, session); got != start {
				t.Fatalf("start %d, %d steps: ended on %d", start, count, got)
			}
		}
	}
}

func TestConfirmActionRunsAndStays(t *testing.T) {
	engine, _, runner := newEngine()
	session := NewSession(rootModel())

	session, _ = engine.Handle(session, term.Down)
	session, result := engine.Handle(session, term.Confirm)

	if result.Outcome != Ran || len(runner.ran) != 1 || runner.ran[0].Name != "b" {
		t.Fatalf("unexpected run: %+v %+v", result, runner.ran)
	}

	if session.Depth() != 1 || selected(t, session) != 2 {
		t.Fatalf("session should stay on the same frame and index")
	}
}

func TestSubmenuDescentAndBack(t *testing.T) {
	engine, loader, _ := newEngine()
	session := NewSession(rootModel())

	session, result := apply(t, engine, session, term.Down, term.Down, term.Confirm)
	if result.Outcome != Pushed || session.Depth() != 2 {
		t.Fatalf("expected push, got %+v depth %d", result, session.Depth())
	}

	if len(loader.calls) != 1 || loader.calls[0] != "network" {
		t.Fatalf("unexpected loads %v", loader.calls)
	}

	frame, _ := session.Top()
	if frame.Kind != Sub || frame.Selected != 0 || frame.Model.Title != "Network" {
		t.Fatalf("unexpected frame %+v", frame)
	}

	kinds := []menu.Kind{menu.Action, menu.Action, menu.Separator, menu.Back}
	for i, kind := range kinds {
		if frame.Model.Entries[i].Kind != kind {
			t.Fatalf("entry %d: expected %v, got %v", i, kind, frame.Model.Entries[i].Kind)
		}
	}

	if titles := session.Titles(); len(titles) != 2 || titles[0] != "Main" || titles[1] != "Network" {
		t.Fatalf("unexpected titles %v", titles)
	}

	session, result = engine.Handle(session, term.Back)
	if result.Outcome != Popped || session.Depth() != 1 {
		t.Fatalf("expected pop, got %+v", result)
	}

	if got := selected(t, session); got != 0 {
		t.Fatalf("parent selection should reset to 0, got %d", got)
	}
}

func TestConfirmOnBackEntryPops(t *testing.T) {
	engine, _, _ := newEngine()
	session := NewSession(rootModel())

	session, _ = apply(t, engine, session, term.Down, term.Down, term.Confirm)
	session, result := apply(t, engine, session, term.Up, term.Confirm)

	if result.Outcome != Popped || session.Depth() != 1 {
		t.Fatalf("expected pop from back entry, got %+v depth %d", result, session.Depth())
	}
}

func TestBackOnRootExits(t *testing.T) {
	engine, _, _ := newEngine()

	session, result := engine.Handle(NewSession(rootModel()), term.Back)
	if result.Outcome != Exit || session.Depth() != 0 {
		t.Fatalf("expected exit with empty stack, got %+v depth %d", result, session.Depth())
	}

	_, result = engine.Handle(session, term.Down)
	if result.Outcome != Exit || !errors.Is(result.Err, ErrEmptyStack) {
		t.Fatalf("expected empty stack error, got %+v", result)
	}
}

func TestMissingSubmenuKeepsFrame(t *testing.T) {
	engine, _, _ := newEngine()
	session := NewSession(rootModel())

	session, _ = apply(t, engine, session, term.Up)
	before := selected(t, session)

	session, result := engine.Handle(session, term.Confirm)
	if result.Outcome != Stay || !errors.Is(result.Err, menu.ErrSourceNotFound) {
		t.Fatalf("expected load failure, got %+v", result)
	}

	if session.Depth() != 1 || selected(t, session) != before {
		t.Fatalf("frame should be unchanged")
	}
}

func TestNoopAndEmptyModel(t *testing.T) {
	engine, _, runner := newEngine()
	session := NewSession(menu.Model{})

	for _, event := range []term.Event{term.Noop, term.Up, term.Down, term.Confirm} {
		var result Result
		session, result = engine.Handle(session, event)
		if result.Outcome == Exit || result.Err != nil {
			t.Fatalf("%v: unexpected result %+v", event, result)
		}
	}

	if len(runner.ran) != 0 || selected(t, session) != 0 {
		t.Fatal("empty model must not run anything")
	}
}

func TestRebuildRoot(t *testing.T) {
	engine, _, _ := newEngine()
	session := NewSession(rootModel())
	session, _ = apply(t, engine, session, term.Up) // index 5

	smaller := menu.Model{Entries: []menu.Entry{link("Network", "network"), action("y")}}
	rebuilt, ok := session.RebuildRoot(smaller)
	if !ok || selected(t, rebuilt) != 0 || rebuilt.Frames[0].Model.Len() != 2 {
		t.Fatalf("unexpected rebuild %+v %v", rebuilt, ok)
	}

	deeper, _ := apply(t, engine, rebuilt, term.Confirm)
	if _, ok := deeper.RebuildRoot(rootModel()); ok {
		t.Fatal("rebuild must be refused while a submenu is live")
	}
}
