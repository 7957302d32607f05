package textfield

import (
	"time"
	"unicode/utf8"

	"editcore/internal/text"
)

// UndoManager keeps snapshots of a field's value. A snapshot is taken when
// the last one is older than the interval, so a burst of typing undoes as
// one step. The oldest snapshots are dropped once the stored text exceeds
// the character limit.
type UndoManager struct {
	interval time.Duration
	maxChars int
	now      func() time.Time

	undo      []text.TextFieldValue // oldest first
	redo      []text.TextFieldValue // most recent last
	stored    int
	last      time.Time
	forceNext bool
}

// NewUndoManager returns an empty manager. A nil now uses time.Now.
func NewUndoManager(interval time.Duration, maxChars int, now func() time.Time) *UndoManager {
	if now == nil {
		now = time.Now
	}
	return &UndoManager{interval: interval, maxChars: maxChars, now: now}
}

// ForceNextSnapshot makes the next SnapshotIfNeeded record unconditionally.
func (u *UndoManager) ForceNextSnapshot() { u.forceNext = true }

// SnapshotIfNeeded records v if forced or the interval has passed.
func (u *UndoManager) SnapshotIfNeeded(v text.TextFieldValue) {
	now := u.now()
	if u.forceNext || u.last.IsZero() || now.Sub(u.last) > u.interval {
		u.last = now
		u.MakeSnapshot(v)
	}
}

// MakeSnapshot records v. A value with the same text as the newest
// snapshot only replaces its selection.
func (u *UndoManager) MakeSnapshot(v text.TextFieldValue) {
	u.forceNext = false
	v = v.WithoutComposition()
	if n := len(u.undo); n > 0 {
		top := u.undo[n-1]
		if top.Equal(v) {
			return
		}
		if top.Text == v.Text {
			u.undo[n-1] = v
			return
		}
	}
	u.undo = append(u.undo, v)
	u.redo = nil
	u.stored += utf8.RuneCountInString(v.Text)
	for u.stored > u.maxChars && len(u.undo) > 1 {
		u.stored -= utf8.RuneCountInString(u.undo[0].Text)
		u.undo = u.undo[1:]
	}
}

// Undo steps back one snapshot and returns it.
func (u *UndoManager) Undo() (text.TextFieldValue, bool) {
	n := len(u.undo)
	if n < 2 {
		return text.TextFieldValue{}, false
	}
	top := u.undo[n-1]
	u.undo = u.undo[:n-1]
	u.stored -= utf8.RuneCountInString(top.Text)
	u.redo = append(u.redo, top)
	u.forceNext = true
	return u.undo[n-2], true
}

// Redo re-applies the last undone snapshot and returns it.
func (u *UndoManager) Redo() (text.TextFieldValue, bool) {
	n := len(u.redo)
	if n == 0 {
		return text.TextFieldValue{}, false
	}
	v := u.redo[n-1]
	u.redo = u.redo[:n-1]
	u.undo = append(u.undo, v)
	u.stored += utf8.RuneCountInString(v.Text)
	u.forceNext = true
	return v, true
}
