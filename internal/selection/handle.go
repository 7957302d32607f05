// Package selection decides which selection affordances a text field
// shows and how gestures change the selection.
//
// Exactly one HandleState is active at a time:
//
//	None      --long press / select all-->  Selection
//	None      --touch tap------------------>  Cursor
//	Selection --tap / edit / deselect------>  Cursor or None
//	Cursor    --edit----------------------->  None
//
// Leaving Selection always hides the floating toolbar.
package selection

// HandleState is the selection affordance currently shown.
type HandleState int

const (
	// None shows no handles. Initial state and the state after an edit.
	None HandleState = iota
	// Selection shows both selection handles and may show the toolbar.
	Selection
	// Cursor shows the cursor handle. Never entered for empty text.
	Cursor
)

func (s HandleState) String() string {
	switch s {
	case Selection:
		return "Selection"
	case Cursor:
		return "Cursor"
	default:
		return "None"
	}
}

// Handle identifies a draggable handle.
type Handle int

const (
	CursorHandle Handle = iota
	SelectionStartHandle
	SelectionEndHandle
)

func (h Handle) String() string {
	switch h {
	case SelectionStartHandle:
		return "SelectionStart"
	case SelectionEndHandle:
		return "SelectionEnd"
	default:
		return "Cursor"
	}
}
