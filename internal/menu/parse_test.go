package menu

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDefinitions(t *testing.T) {
	source := `
# network tools
Ping host = ping -c 4 <host>
Scan=nmap <flags> <host>
---
DNS tools=submenu:dns
  = orphan command
Leave=back
no equals sign
Empty=
`

	entries, warnings, err := Parse(strings.NewReader(source))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	expected := []Entry{
		{Name: "Ping host", Kind: Action, Command: "ping -c 4 <host>"},
		{Name: "Scan", Kind: Action, Command: "nmap <flags> <host>"},
		SeparatorEntry,
		{Name: "DNS tools", Kind: SubmenuLink, Command: "dns"},
		{Name: "Leave", Kind: Back},
		{Name: "Empty", Kind: Action},
	}

	if len(entries) != len(expected) {
		t.Fatalf("expected %d entries, got %d: %+v", len(expected), len(entries), entries)
	}

	for i := range expected {
		if entries[i] != expected[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, expected[i], entries[i])
		}
	}

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}

	if warnings[0].Line != 7 || warnings[1].Line != 9 {
		t.Errorf("unexpected warning lines: %v", warnings)
	}
}

func TestParseNormalizesSeparators(t *testing.T) {
	cases := []struct {
		name     string
		source   string
		expected []Kind
	}{
		{"only separators", "---\n---\n", nil},
		{"leading and trailing", "---\na=x\n---\n", []Kind{Action}},
		{"runs collapse", "a=x\n---\n---\nb=y\n", []Kind{Action, Separator, Action}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries, _, err := Parse(strings.NewReader(tc.source))
			if err != nil {
				t.Fatal(err)
			}

			if len(entries) != len(tc.expected) {
				t.Fatalf("expected %v, got %+v", tc.expected, entries)
			}

			for i, kind := range tc.expected {
				if entries[i].Kind != kind {
					t.Errorf("entry %d: expected %v, got %v", i, kind, entries[i].Kind)
				}
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReadFailure(t *testing.T) {
	if _, _, err := Parse(failingReader{}); err == nil {
		t.Fatal("expected read error")
	}
}

func TestWithBack(t *testing.T) {
	model := Model{Entries: []Entry{{Name: "a", Kind: Action, Command: "x"}}}.WithBack()

	if model.Len() != 3 || model.Entries[1].Kind != Separator || model.Entries[2].Kind != Back {
		t.Fatalf("unexpected entries %+v", model.Entries)
	}

	empty := Model{}.WithBack()
	if empty.Len() != 1 || empty.Entries[0].Kind != Back {
		t.Fatalf("unexpected entries %+v", empty.Entries)
	}
}
