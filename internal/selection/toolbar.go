package selection

import "editcore/internal/textlayout"

// ToolbarActions are the entries of the floating toolbar. A nil entry is
// not offered.
type ToolbarActions struct {
	Copy      func()
	Paste     func()
	Cut       func()
	SelectAll func()
}

// Empty reports whether no action is offered.
func (a ToolbarActions) Empty() bool {
	return a.Copy == nil && a.Paste == nil && a.Cut == nil && a.SelectAll == nil
}

// TextToolbar is the floating menu shown over a selection.
type TextToolbar interface {
	// ShowMenu shows the menu near rect, in field coordinates, replacing any
	// menu already shown.
	ShowMenu(rect textlayout.Rect, actions ToolbarActions)
	Hide()
	Shown() bool
}
