package input

import (
	"sync"

	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// RecordingBridge is an in-memory bridge that records every call. Hosts
// without an IME and tests use it; Send and PerformAction play the part of
// the platform.
type RecordingBridge struct {
	mu sync.Mutex

	Started      int
	Stopped      int
	Options      ImeOptions
	Value        text.TextFieldValue
	Updates      [][2]text.TextFieldValue
	FocusedRects []textlayout.Rect
	KeyboardUp   bool

	onEdit   EditCommandHandler
	onAction ImeActionHandler
}

func (b *RecordingBridge) StartInput(value text.TextFieldValue, opts ImeOptions, onEditCommand EditCommandHandler, onImeAction ImeActionHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Started++
	b.Options = opts
	b.Value = value
	b.onEdit = onEditCommand
	b.onAction = onImeAction
	return nil
}

func (b *RecordingBridge) StopInput() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Stopped++
	b.KeyboardUp = false
}

func (b *RecordingBridge) UpdateState(oldValue, newValue text.TextFieldValue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Updates = append(b.Updates, [2]text.TextFieldValue{oldValue, newValue})
	b.Value = newValue
}

func (b *RecordingBridge) NotifyFocusedRect(rect textlayout.Rect) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.FocusedRects = append(b.FocusedRects, rect)
}

func (b *RecordingBridge) ShowSoftwareKeyboard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.KeyboardUp = true
}

func (b *RecordingBridge) HideSoftwareKeyboard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.KeyboardUp = false
}

// Send delivers cmds as if the IME produced them. Handlers of stopped
// sessions drop them.
func (b *RecordingBridge) Send(cmds ...text.EditCommand) {
	b.mu.Lock()
	h := b.onEdit
	b.mu.Unlock()
	if h != nil {
		h(cmds)
	}
}

// PerformAction delivers an IME action key press.
func (b *RecordingBridge) PerformAction(a ImeAction) {
	b.mu.Lock()
	h := b.onAction
	b.mu.Unlock()
	if h != nil {
		h(a)
	}
}

// Snapshot returns counters under the lock.
func (b *RecordingBridge) Snapshot() (started, stopped int, keyboardUp bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Started, b.Stopped, b.KeyboardUp
}
