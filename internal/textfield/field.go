// Package textfield glues the editing core together into one text field:
// the edit processor, the IME session, the visual transformation, gesture
// detection and the selection state machine.
//
// The host owns the TextFieldValue. It passes every value it holds to
// Update and receives new values through Deps.OnValueChange. Everything
// except Attach, Detach and the observable getters must be called from the
// UI goroutine.
package textfield

import (
	"context"
	"fmt"
	"log/slog"

	"editcore/internal/input"
	"editcore/internal/logging"
	"editcore/internal/observable"
	"editcore/internal/selection"
	"editcore/internal/task"
	"editcore/internal/text"
	"editcore/internal/textlayout"
	"editcore/internal/transform"
)

// BringIntoViewRequester scrolls the nearest scrollable ancestor until
// rect, in field coordinates, is visible. It is called from a task
// goroutine and should return when ctx is done.
type BringIntoViewRequester interface {
	BringIntoView(ctx context.Context, rect textlayout.Rect) error
}

// Deps are the collaborators of a field. Every one of them may be nil.
type Deps struct {
	InputService  *input.TextInputService
	Focus         input.FocusManager
	Keyboard      input.KeyboardController
	Clipboard     selection.Clipboard
	Toolbar       selection.TextToolbar
	BringIntoView BringIntoViewRequester
	Logger        *slog.Logger

	// OnValueChange receives every value the field produces.
	OnValueChange func(text.TextFieldValue)
}

// Field is one editable text field.
type Field struct {
	cfg    Config
	deps   Deps
	logger *slog.Logger

	processor *text.EditProcessor
	session   *input.Session
	manager   *selection.Manager
	actions   *input.KeyboardActionRunner
	undo      *UndoManager
	scope     *task.Scope

	value       text.TextFieldValue
	transformed transform.TransformedText
	composition *text.TextRange

	layout      textlayout.Result
	layoutStale bool

	handleState   *observable.Value[selection.HandleState]
	showToolbar   *observable.Value[bool]
	hasFocus      *observable.Value[bool]
	windowFocused *observable.Value[bool]

	requestFocus func()
	gesture      gesture
}

// New returns a field for cfg. It fails with a *ConfigError when cfg is
// inconsistent.
func New(cfg Config, deps Deps) (*Field, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	f := &Field{
		cfg:           cfg,
		deps:          deps,
		logger:        logging.OrDiscard(deps.Logger).With("component", "textfield"),
		processor:     text.NewEditProcessor(),
		undo:          NewUndoManager(cfg.UndoSnapshotInterval, cfg.UndoMaxStoredChars, nil),
		transformed:   transform.TransformedText{Mapping: transform.Identity},
		layoutStale:   true,
		handleState:   observable.NewComparable(selection.None),
		showToolbar:   observable.NewComparable(false),
		hasFocus:      observable.NewComparable(false),
		windowFocused: observable.NewComparable(true),
	}

	keyboard := deps.Keyboard
	if keyboard == nil {
		keyboard = sessionKeyboard{f}
	}
	f.actions = &input.KeyboardActionRunner{
		Actions:  cfg.KeyboardActions,
		Focus:    deps.Focus,
		Keyboard: keyboard,
	}
	f.manager = selection.NewManager(fieldState{f}, deps.Clipboard, deps.Toolbar, f.logger)

	if err := f.Update(text.TextFieldValue{}); err != nil {
		return nil, err
	}
	return f, nil
}

// Config returns the normalized configuration.
func (f *Field) Config() Config { return f.cfg }

// Value returns the value last passed to Update.
func (f *Field) Value() text.TextFieldValue { return f.value }

// TransformedText returns the displayed text and its mapping.
func (f *Field) TransformedText() transform.TransformedText { return f.transformed }

// Composition returns the composition range in displayed coordinates, for
// underlining, or nil.
func (f *Field) Composition() *text.TextRange { return f.composition }

// Session returns the open input session, or nil.
func (f *Field) Session() *input.Session {
	if f.session.IsOpen() {
		return f.session
	}
	return nil
}

func (f *Field) stateUpdater() text.StateUpdater {
	if s := f.Session(); s != nil {
		return s
	}
	return nil
}

// Selection returns the field's selection manager.
func (f *Field) Selection() *selection.Manager { return f.manager }

// Undo returns the field's undo history.
func (f *Field) Undo() *UndoManager { return f.undo }

// HandleState returns the observable selection handle state.
func (f *Field) HandleState() *observable.Value[selection.HandleState] { return f.handleState }

// ShowFloatingToolbar returns the observable toolbar flag.
func (f *Field) ShowFloatingToolbar() *observable.Value[bool] { return f.showToolbar }

// Focused returns the observable focus flag.
func (f *Field) Focused() *observable.Value[bool] { return f.hasFocus }

// SetFocusRequester installs the function that asks the host to focus
// this field, typically supplied by the scene.
func (f *Field) SetFocusRequester(fn func()) { f.requestFocus = fn }

// SetWindowFocused records whether the window holding the field is
// focused. It only matters with Config.UseWindowFocus.
func (f *Field) SetWindowFocused(focused bool) {
	f.windowFocused.Set(focused)
	if f.handleState.Get() == selection.Selection {
		f.positionToolbar()
	}
}

func (f *Field) windowFocusOK() bool {
	return !f.cfg.UseWindowFocus || f.windowFocused.Get()
}

// CursorVisible reports whether a cursor should be drawn.
func (f *Field) CursorVisible() bool {
	return f.cfg.writeable() && f.hasFocus.Get() && f.windowFocusOK()
}

// Update is the recomposition entry point. It must be called with every
// value the host holds, including the ones it got from OnValueChange. The
// processor is reset unconditionally so it never holds an edit the host
// has not seen.
func (f *Field) Update(value text.TextFieldValue) error {
	value = text.NewValue(value.Text, value.Selection, value.Composition)
	transformed, err := transform.FilterWithValidation(f.cfg.VisualTransformation, value.Text)
	if err != nil {
		return fmt.Errorf("filter text: %w", err)
	}

	displayChanged := transformed.Text != f.transformed.Text
	f.value = value
	f.transformed = transformed
	f.composition = transform.CompositionRange(value.Composition, transformed.Mapping)

	f.processor.Reset(value, f.stateUpdater())
	f.undo.SnapshotIfNeeded(value)
	f.manager.Update(value, transformed, f.cfg.writeable(), f.cfg.isPassword())

	if displayChanged {
		f.invalidate()
	}
	return nil
}

// invalidate marks the layout stale. It is the only place that sets the
// flag; SetLayoutResult is the only place that clears it.
func (f *Field) invalidate() {
	f.layoutStale = true
}

// LayoutStale reports whether the layout predates the current text.
func (f *Field) LayoutStale() bool { return f.layoutStale }

// SetLayoutResult stores the layout of the current displayed text.
// Geometry-dependent work that waited for a layout runs here.
func (f *Field) SetLayoutResult(r textlayout.Result) {
	f.layout = r
	f.layoutStale = r == nil
	if r == nil {
		return
	}
	if f.cfg.Enabled && f.handleState.Get() == selection.Selection {
		f.positionToolbar()
	}
	f.notifyFocusedRect()
}

// currentLayout returns the layout if it matches the current text.
func (f *Field) currentLayout() textlayout.Result {
	if f.layoutStale {
		return nil
	}
	return f.layout
}

func (f *Field) positionToolbar() {
	if f.showToolbar.Get() && f.windowFocusOK() {
		f.manager.ShowSelectionToolbar()
	} else {
		f.manager.HideSelectionToolbar()
	}
}

// onValueChange is the single path by which the field publishes values.
// A text change ends any selection affordance.
func (f *Field) onValueChange(v text.TextFieldValue) {
	if v.Text != f.value.Text {
		if f.handleState.Get() == selection.Selection {
			f.manager.HideSelectionToolbar()
		}
		f.handleState.Set(selection.None)
		f.showToolbar.Set(false)
	}
	if f.logger.Enabled(context.Background(), slog.LevelDebug) {
		f.logger.Debug("value changed", f.textKey(), v.Text, "selection", v.Selection)
	}
	if f.deps.OnValueChange != nil {
		f.deps.OnValueChange(v)
	}
}

// textKey names the log attribute carrying field text. Password text uses
// a key the logger redacts.
func (f *Field) textKey() string {
	if f.cfg.isPassword() {
		return "password_text"
	}
	return "text"
}

// applyCommands runs cmds through the processor and publishes the result.
// Commands that did not come from the IME are reported to it.
func (f *Field) applyCommands(cmds []text.EditCommand, fromIME bool) {
	old := f.processor.Value()
	v, err := f.processor.Apply(cmds)
	if err != nil {
		f.logger.Warn("edit command rejected", "error", err)
	}
	if !fromIME {
		f.Session().UpdateState(old, v)
	}
	// Invalidate before publishing: the host may lay out synchronously.
	f.invalidate()
	f.onValueChange(v)
}

func (f *Field) onEditCommand(cmds []text.EditCommand) {
	f.applyCommands(cmds, true)
}

func (f *Field) onImeAction(action input.ImeAction) {
	f.actions.RunAction(action)
}

// fieldState exposes field state to the selection manager.
type fieldState struct{ f *Field }

func (s fieldState) HandleState() selection.HandleState { return s.f.handleState.Get() }
func (s fieldState) SetHandleState(h selection.HandleState) { s.f.handleState.Set(h) }
func (s fieldState) ShowFloatingToolbar() bool { return s.f.showToolbar.Get() && s.f.windowFocusOK() }
func (s fieldState) SetShowFloatingToolbar(show bool) { s.f.showToolbar.Set(show) }
func (s fieldState) HasFocus() bool { return s.f.hasFocus.Get() }
func (s fieldState) OnValueChange(v text.TextFieldValue) { s.f.onValueChange(v) }
func (s fieldState) LayoutResult() textlayout.Result { return s.f.currentLayout() }

// BeforeClipboardEdit makes a cut or paste its own undo step: the text
// before it is recorded now and the text after it on the next update.
func (s fieldState) BeforeClipboardEdit() {
	s.f.undo.MakeSnapshot(s.f.value)
	s.f.undo.ForceNextSnapshot()
}

func (s fieldState) RequestFocus() {
	if s.f.requestFocus != nil {
		s.f.requestFocus()
	}
}

// sessionKeyboard controls the software keyboard through the session when
// the host supplies no controller.
type sessionKeyboard struct{ f *Field }

func (k sessionKeyboard) ShowSoftwareKeyboard() { k.f.Session().ShowSoftwareKeyboard() }
func (k sessionKeyboard) HideSoftwareKeyboard() { k.f.Session().HideSoftwareKeyboard() }
