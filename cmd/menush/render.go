package menush

import (
	"strings"

	"github.com/go-navi/menush/internal/menu"
	"github.com/go-navi/menush/internal/nav"
	"github.com/go-navi/menush/internal/term"
)

const (
	breadcrumbSeparator = " > "
	separatorMaxWidth   = 40
	hintsText           = "↑/↓ move   Enter select   Backspace back"
)

// renderSession draws the live frame of the session: the breadcrumb title,
// the entries with the selection highlighted and the key hints
func renderSession(ui *term.TermUI, session nav.Session, width int) {
	frame, ok := session.Top()
	if !ok {
		return
	}

	ui.Cursor(1, 1).ClearBelow()

	ui.ClipToWidth(width).BoldGreen().Print(" " + breadcrumb(session)).PrevColor().ApplyTextLimits()
	ui.Newline().Newline()

	if frame.Model.Len() == 0 {
		ui.DarkGray().Print("   (no entries)").PrevColor().Newline()
	}

	for index, entry := range frame.Model.Entries {
		renderEntry(ui, entry, index == frame.Selected, width)
		ui.Newline()
	}

	ui.Newline()
	ui.ClipToWidth(width).DarkGray().Print(" " + hintsText).PrevColor().ApplyTextLimits()
	ui.Newline()
}

// renderEntry draws a single menu line
func renderEntry(ui *term.TermUI, entry menu.Entry, selected bool, width int) {
	if entry.Kind == menu.Separator {
		ui.DarkGray().Print("   ").Repeat("─", min(separatorMaxWidth, max(width-4, 1))).PrevColor()
		return
	}

	label := entry.Name
	switch entry.Kind {
	case menu.SubmenuLink:
		label += " ›"
	case menu.Back:
		label = "‹ " + label
	}

	ui.ClipToWidth(width)

	if selected {
		ui.Print(" ").BoldYellow().Print(">").PrevColor().Print(" ").ReverseVideo().Print(" " + label + " ").PrevColor()
	} else if entry.Kind == menu.SubmenuLink {
		ui.Print("   ").Cyan().Print(label).PrevColor()
	} else {
		ui.Print("   " + label)
	}

	ui.ApplyTextLimits()
}

// breadcrumb joins the titles of all frames from the root to the live one
func breadcrumb(session nav.Session) string {
	var titles []string
	for _, title := range session.Titles() {
		if strings.TrimSpace(title) != "" {
			titles = append(titles, title)
		}
	}
	return strings.Join(titles, breadcrumbSeparator)
}
