package input

import (
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// EditCommandHandler receives edit commands from the IME in arrival order.
type EditCommandHandler func(cmds []text.EditCommand)

// ImeActionHandler receives IME action key presses.
type ImeActionHandler func(action ImeAction)

// PlatformTextInputBridge is the platform side of a TextInputService. At
// most one input is started at a time; StartInput is never called twice
// without StopInput in between.
type PlatformTextInputBridge interface {
	StartInput(value text.TextFieldValue, opts ImeOptions, onEditCommand EditCommandHandler, onImeAction ImeActionHandler) error
	StopInput()
	UpdateState(oldValue, newValue text.TextFieldValue)
	NotifyFocusedRect(rect textlayout.Rect)
	ShowSoftwareKeyboard()
	HideSoftwareKeyboard()
}
