package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"editcore/cmd/editcore-tui/internal/termbridge"
	"editcore/internal/transform"
)

const helpText = "tab next • shift+tab previous • ctrl+s save • ctrl+q quit"

type toolbarSpan struct {
	x0, x1 int
	item   termbridge.Item
}

// toolbarSpans lays the toolbar entries out from column 1.
func (m *model) toolbarSpans() []toolbarSpan {
	var spans []toolbarSpan
	x := 1
	for _, it := range m.toolbar.Items() {
		w := lipgloss.Width(m.renderToolbarItem(it))
		spans = append(spans, toolbarSpan{x0: x, x1: x + w, item: it})
		x += w + 1
	}
	return spans
}

func (m *model) renderToolbarItem(it termbridge.Item) string {
	s := m.theme.Styles
	return s.ToolbarKey.Render("alt+"+string(it.Hotkey)) + s.Toolbar.Render(it.Label)
}

func (m *model) View() string {
	s := m.theme.Styles
	var b strings.Builder

	b.WriteString(s.LabelFocused.Render("editcore"))
	b.WriteString("  ")
	b.WriteString(s.Help.Render(helpText))
	b.WriteString("\n\n")

	focused := m.focused()
	for _, ff := range m.fields {
		label := s.Label
		box := s.Field
		if ff == focused {
			label = s.LabelFocused
			box = s.FieldFocused
		}
		b.WriteString(" " + label.Render(ff.spec.label))
		b.WriteString("\n")
		b.WriteString(box.Width(ff.width).Render(m.renderContent(ff)))
		b.WriteString("\n")
		if ff == focused && m.toolbar.Shown() {
			b.WriteString(" ")
			for i, sp := range m.toolbarSpans() {
				if i > 0 {
					b.WriteString(" ")
				}
				b.WriteString(m.renderToolbarItem(sp.item))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *model) renderStatus() string {
	s := m.theme.Styles
	var parts []string
	if m.status != "" {
		style := s.Status
		if m.statusErr {
			style = s.StatusError
		}
		parts = append(parts, style.Render(m.status))
	}
	if m.term != nil && m.term.Active() {
		ime := "input: terminal"
		if m.term.KeyboardShown() {
			ime += " (keyboard requested)"
		}
		parts = append(parts, s.Help.Render(ime))
	} else if m.ime != nil {
		parts = append(parts, s.Help.Render("input: ibus"))
	}
	return " " + strings.Join(parts, s.Help.Render(" • "))
}

// renderContent draws the visible part of a field's displayed text, one
// terminal row per visible line.
func (m *model) renderContent(ff *formField) string {
	s := m.theme.Styles
	rows := make([][]string, ff.spec.lines)
	for i := range rows {
		rows[i] = make([]string, ff.width)
		for j := range rows[i] {
			rows[i][j] = " "
		}
	}

	f := ff.field
	if ff.layout != nil {
		tt := f.TransformedText()
		runes := []rune(tt.Text)
		sel := transform.MapRange(f.Value().Selection, tt.Mapping)
		comp := f.Composition()
		showCursor := f.Focused().Get() && f.CursorVisible() && sel.Collapsed()
		sx, sy := int(ff.scroll.X), int(ff.scroll.Y)

		put := func(offset int, r rune, style lipgloss.Style) {
			rc := ff.layout.CursorRect(offset)
			row, col := int(rc.Min.Y)-sy, int(rc.Min.X)-sx
			if row < 0 || row >= len(rows) || col < 0 || col >= ff.width {
				return
			}
			rows[row][col] = style.Render(string(r))
		}

		for i, r := range runes {
			if r == '\n' {
				continue
			}
			style := lipgloss.NewStyle()
			if !f.Config().Enabled {
				style = s.Disabled
			}
			if i >= sel.Min() && i < sel.Max() {
				style = style.Inherit(s.Selection)
			}
			if comp != nil && i >= comp.Min() && i < comp.Max() {
				style = style.Inherit(s.Composition)
			}
			if showCursor && i == sel.End {
				style = s.Cursor
			}
			put(i, r, style)
		}

		if showCursor && (sel.End >= len(runes) || runes[sel.End] == '\n') {
			put(sel.End, ' ', s.Cursor)
		}
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
