package termbridge

import (
	"editcore/internal/selection"
	"editcore/internal/textlayout"
)

// Item is one entry of the toolbar menu.
type Item struct {
	Label  string
	Hotkey rune
	Run    func()
}

// Toolbar is a TextToolbar drawn by the host as a menu line.
type Toolbar struct {
	shown   bool
	rect    textlayout.Rect
	actions selection.ToolbarActions
}

var _ selection.TextToolbar = (*Toolbar)(nil)

func (t *Toolbar) ShowMenu(rect textlayout.Rect, actions selection.ToolbarActions) {
	if actions.Empty() {
		t.Hide()
		return
	}
	t.shown = true
	t.rect = rect
	t.actions = actions
}

func (t *Toolbar) Hide() {
	t.shown = false
	t.actions = selection.ToolbarActions{}
}

func (t *Toolbar) Shown() bool { return t.shown }

// Rect returns the area the menu was anchored to, in field coordinates.
func (t *Toolbar) Rect() textlayout.Rect { return t.rect }

// Items returns the offered entries in display order.
func (t *Toolbar) Items() []Item {
	if !t.shown {
		return nil
	}
	var items []Item
	add := func(label string, hotkey rune, run func()) {
		if run != nil {
			items = append(items, Item{Label: label, Hotkey: hotkey, Run: run})
		}
	}
	add("Cut", 'x', t.actions.Cut)
	add("Copy", 'c', t.actions.Copy)
	add("Paste", 'v', t.actions.Paste)
	add("Select all", 'a', t.actions.SelectAll)
	return items
}

// Run invokes the entry bound to hotkey and reports whether one was.
func (t *Toolbar) Run(hotkey rune) bool {
	for _, it := range t.Items() {
		if it.Hotkey == hotkey {
			it.Run()
			return true
		}
	}
	return false
}
