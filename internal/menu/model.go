// Package menu holds the in-memory menu model and the loader for `name=command`
// definition files.
package menu

// Kind identifies what selecting an entry does. It is decided once at load time.
type Kind int

const (
	Action Kind = iota
	SubmenuLink
	Separator
	Back
)

func (kind Kind) String() string {
	switch kind {
	case Action:
		return "action"
	case SubmenuLink:
		return "submenu"
	case Separator:
		return "separator"
	case Back:
		return "back"
	}
	return "unknown"
}

// Entry is a single line of a menu
type Entry struct {
	Name    string // Display name, also the submenu title for links
	Kind    Kind   // Entry behavior
	Command string // Command template for actions, source id for submenu links
}

// Model is an ordered list of entries. A non-empty model never ends with a
// separator and never consists of separators only.
type Model struct {
	Title   string
	Source  string // Identifier the model was loaded from
	Entries []Entry
}

// SeparatorEntry and BackEntry are appended to every submenu
var (
	SeparatorEntry = Entry{Kind: Separator}
	BackEntry      = Entry{Name: "Back", Kind: Back}
)

// Len returns the number of entries
func (model Model) Len() int {
	return len(model.Entries)
}

// Selectable reports whether the entry at index can hold the selection
func (model Model) Selectable(index int) bool {
	return index >= 0 && index < len(model.Entries) && model.Entries[index].Kind != Separator
}

// WithBack returns a copy of the model with a separator and a back entry
// appended
func (model Model) WithBack() Model {
	entries := make([]Entry, 0, len(model.Entries)+2)
	entries = append(entries, model.Entries...)

	if len(entries) > 0 {
		entries = append(entries, SeparatorEntry)
	}

	model.Entries = append(entries, BackEntry)
	return model
}

// Templates returns the command templates of all action entries
func (model Model) Templates() []string {
	var templates []string
	for _, entry := range model.Entries {
		if entry.Kind == Action && entry.Command != "" {
			templates = append(templates, entry.Command)
		}
	}
	return templates
}

// normalize enforces the separator invariant by dropping trailing and leading
// separators and collapsing runs of separators
func normalize(entries []Entry) []Entry {
	result := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		if entry.Kind == Separator {
			if len(result) == 0 || result[len(result)-1].Kind == Separator {
				continue
			}
		}
		result = append(result, entry)
	}

	for len(result) > 0 && result[len(result)-1].Kind == Separator {
		result = result[:len(result)-1]
	}

	return result
}
