package input

// FocusDirection is a direction for focus traversal.
type FocusDirection int

const (
	FocusNext FocusDirection = iota
	FocusPrevious
)

// FocusManager moves focus between focusable elements.
type FocusManager interface {
	MoveFocus(direction FocusDirection) bool
	ClearFocus(force bool)
}

// KeyboardController shows and hides the software keyboard.
type KeyboardController interface {
	ShowSoftwareKeyboard()
	HideSoftwareKeyboard()
}

// KeyboardActionScope is passed to user handlers so they can fall back to
// the default behavior.
type KeyboardActionScope interface {
	DefaultKeyboardAction(action ImeAction)
}

// KeyboardActions holds user handlers per IME action. A nil handler means
// the default behavior runs.
type KeyboardActions struct {
	OnDone     func(KeyboardActionScope)
	OnGo       func(KeyboardActionScope)
	OnNext     func(KeyboardActionScope)
	OnPrevious func(KeyboardActionScope)
	OnSearch   func(KeyboardActionScope)
	OnSend     func(KeyboardActionScope)
}

func (k KeyboardActions) handler(action ImeAction) func(KeyboardActionScope) {
	switch action {
	case ImeActionDone:
		return k.OnDone
	case ImeActionGo:
		return k.OnGo
	case ImeActionNext:
		return k.OnNext
	case ImeActionPrevious:
		return k.OnPrevious
	case ImeActionSearch:
		return k.OnSearch
	case ImeActionSend:
		return k.OnSend
	default:
		return nil
	}
}

// KeyboardActionRunner dispatches IME actions to user handlers or the
// defaults: Next and Previous move focus, Done hides the keyboard.
type KeyboardActionRunner struct {
	Actions  KeyboardActions
	Focus    FocusManager
	Keyboard KeyboardController
}

// RunAction runs the handler registered for action, or the default.
func (r *KeyboardActionRunner) RunAction(action ImeAction) {
	if h := r.Actions.handler(action); h != nil {
		h(r)
		return
	}
	r.DefaultKeyboardAction(action)
}

// DefaultKeyboardAction performs the built-in behavior for action.
func (r *KeyboardActionRunner) DefaultKeyboardAction(action ImeAction) {
	switch action {
	case ImeActionNext:
		if r.Focus != nil {
			r.Focus.MoveFocus(FocusNext)
		}
	case ImeActionPrevious:
		if r.Focus != nil {
			r.Focus.MoveFocus(FocusPrevious)
		}
	case ImeActionDone:
		if r.Keyboard != nil {
			r.Keyboard.HideSoftwareKeyboard()
		}
	}
}
