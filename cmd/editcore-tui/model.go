package main

import (
	"errors"
	"fmt"
	"log/slog"

	"gioui.org/f32"
	"gioui.org/io/key"
	tea "github.com/charmbracelet/bubbletea"

	"editcore/cmd/editcore-tui/internal/termbridge"
	"editcore/cmd/editcore-tui/internal/theme"
	"editcore/internal/config"
	"editcore/internal/input"
	"editcore/internal/logging"
	"editcore/internal/pointer"
	"editcore/internal/scene"
	"editcore/internal/selection"
	"editcore/internal/store"
	"editcore/internal/text"
	"editcore/internal/textfield"
	"editcore/internal/textlayout"
)

// postMsg runs a function on the update goroutine.
type postMsg func()

type configMsg struct{ cfg *config.Config }

type configErrMsg struct{ err error }

type focusFirstMsg struct{}

// keyForwarder offers key presses to an input method before the field
// sees them.
type keyForwarder interface {
	ProcessKeyEvent(keyval, keycode, state uint32) bool
}

type stateStore interface {
	textfield.StateSaver
	textfield.StateLoader
}

type modelOptions struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	// Service is nil when no input bridge is configured.
	Service *input.TextInputService
	Term    *termbridge.Bridge
	IME     keyForwarder

	Clipboard selection.Clipboard
	Store     stateStore

	// Post runs a function on the update goroutine. Background tasks use
	// it to reach the fields.
	Post func(func())
}

type model struct {
	cfg     *config.Config
	logger  *slog.Logger
	theme   *theme.Theme
	scene   *scene.Scene
	term    *termbridge.Bridge
	ime     keyForwarder
	toolbar *termbridge.Toolbar
	mouse   *termbridge.MouseTracker
	store   stateStore

	fields []*formField

	width  int
	height int

	status    string
	statusErr bool
}

func newModel(opts modelOptions) (*model, error) {
	logger := logging.OrDiscard(opts.Logger)
	m := &model{
		cfg:     opts.Config,
		logger:  logger,
		theme:   theme.New(),
		scene:   scene.New(logger),
		term:    opts.Term,
		ime:     opts.IME,
		toolbar: &termbridge.Toolbar{},
		mouse:   termbridge.NewMouseTracker(),
		store:   opts.Store,
	}

	base := opts.Config.ApplyToField(textfield.DefaultConfig())
	deps := textfield.Deps{
		InputService: opts.Service,
		Focus:        m.scene,
		Clipboard:    opts.Clipboard,
		Toolbar:      m.toolbar,
		Logger:       logger,
	}

	for _, spec := range formSpecs {
		req := &viewRequester{post: opts.Post}
		d := deps
		d.BringIntoView = req

		ff, err := newField(spec, base, opts.Config.PasswordMask(), d, m.onChange)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.id, err)
		}
		req.reveal = func(rect textlayout.Rect) { m.reveal(ff, rect) }

		initial := text.TextFieldValue{}
		if spec.id == "config" {
			initial = text.ValueOf(opts.ConfigPath)
		}
		if err := ff.field.Update(initial); err != nil {
			return nil, fmt.Errorf("field %s: %w", spec.id, err)
		}
		m.fields = append(m.fields, ff)
	}

	m.resize(80, 24)
	for _, ff := range m.fields {
		m.scene.Add(ff.field, ff.bounds())
		m.scene.SetScroll(ff.field, ff.scroll)
	}
	return m, nil
}

// onChange is the host side of every field: it applies the value the
// field produced and lays the text out again.
func (m *model) onChange(ff *formField, v text.TextFieldValue) {
	if err := ff.field.Update(v); err != nil {
		m.logger.Error("field update failed", "field", ff.spec.id, "error", err)
		m.setError(fmt.Errorf("%s: %w", ff.spec.label, err))
		return
	}
	ff.relayout()
	m.follow(ff)
}

// follow scrolls ff so its cursor stays visible.
func (m *model) follow(ff *formField) {
	if r, ok := ff.cursorRect(); ok {
		m.reveal(ff, r)
	}
}

func (m *model) reveal(ff *formField, rect textlayout.Rect) {
	if ff.reveal(rect) {
		m.scene.SetScroll(ff.field, ff.scroll)
	}
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	inner := max(width-2, 8)

	row := 2
	for _, ff := range m.fields {
		ff.top = row
		ff.width = inner
		row += ff.height()

		ff.relayout()
		m.scene.SetBounds(ff.field, ff.bounds())
		m.follow(ff)
	}
}

// formField returns the form entry holding f.
func (m *model) formField(f *textfield.Field) *formField {
	for _, ff := range m.fields {
		if ff.field == f {
			return ff
		}
	}
	return nil
}

func (m *model) focused() *formField {
	return m.formField(m.scene.Focused())
}

func (m *model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusErr = false
}

func (m *model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *model) Init() tea.Cmd {
	return func() tea.Msg { return focusFirstMsg{} }
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case focusFirstMsg:
		m.scene.MoveFocus(input.FocusNext)
	case postMsg:
		msg()
	case configMsg:
		m.cfg = msg.cfg
		m.logger.Info("configuration reloaded")
		m.setStatus("configuration reloaded; field settings apply on restart")
	case configErrMsg:
		m.logger.Warn("configuration reload failed", "error", msg.err)
		m.setError(msg.err)
	case tea.FocusMsg:
		m.scene.SetWindowFocused(true)
	case tea.BlurMsg:
		m.scene.SetWindowFocused(false)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	m.scene.Frame()
	return m, cmd
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlQ:
		return m.quit()
	case tea.KeyCtrlS:
		m.save()
		return nil
	}

	if msg.Paste {
		m.paste(string(msg.Runes))
		return nil
	}

	if msg.Alt && len(msg.Runes) == 1 && m.toolbar.Run(msg.Runes[0]) {
		return nil
	}

	ev, ok := termbridge.KeyEvent(msg)
	if !ok {
		return nil
	}

	if m.ime != nil && m.scene.Focused() != nil {
		if keyval, state, ok := termbridge.Keysym(ev); ok && m.ime.ProcessKeyEvent(keyval, 0, state) {
			return nil
		}
	}

	if m.scene.HandleKey(ev) {
		return nil
	}

	switch ev.Name {
	case key.NameTab:
		dir := input.FocusNext
		if ev.Modifiers.Contain(key.ModShift) {
			dir = input.FocusPrevious
		}
		m.scene.MoveFocus(dir)
	case key.NameEscape:
		return m.quit()
	}
	return nil
}

// paste inserts a bracketed paste. With a terminal session open it arrives
// the way an IME commit would; otherwise it is inserted directly.
func (m *model) paste(s string) {
	if m.term != nil && m.term.Paste(s) {
		return
	}
	if f := m.scene.Focused(); f != nil {
		f.InsertTextAtCursor(s)
	}
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	e, ok := m.mouse.Convert(msg)
	if !ok {
		return
	}

	if e.Type == pointer.Press && m.toolbarHit(msg.X, msg.Y) {
		return
	}

	if e.Type == pointer.Scroll {
		m.scrollBy(e.Pointers[0].Position, int(e.Pointers[0].ScrollDelta.Y))
	}
	m.scene.Send(e)
}

// scrollBy scrolls the field under p by lines.
func (m *model) scrollBy(p f32.Point, lines int) {
	ff := m.formField(m.scene.FieldAt(p))
	if ff == nil || ff.layout == nil {
		return
	}
	maxY := max(ff.layout.LineCount()-ff.spec.lines, 0)
	y := min(max(int(ff.scroll.Y)+lines, 0), maxY)
	ff.scroll.Y = float32(y)
	m.scene.SetScroll(ff.field, ff.scroll)
}

// toolbarRow returns the screen row of the toolbar, which sits under the
// focused field.
func (m *model) toolbarRow() (*formField, int, bool) {
	ff := m.focused()
	if ff == nil || !m.toolbar.Shown() {
		return nil, 0, false
	}
	return ff, ff.top + ff.spec.lines + 3, true
}

// toolbarHit runs the toolbar entry at x, y and reports whether there was
// one.
func (m *model) toolbarHit(x, y int) bool {
	_, row, ok := m.toolbarRow()
	if !ok || y != row {
		return false
	}
	for _, span := range m.toolbarSpans() {
		if x >= span.x0 && x < span.x1 {
			span.item.Run()
			return true
		}
	}
	return false
}

// save stores every editable field. Password fields refuse to be saved.
func (m *model) save() {
	if m.store == nil {
		m.setStatus("nothing saved: the store is disabled")
		return
	}
	var errs []error
	saved := 0
	for _, ff := range m.fields {
		if ff.field.Config().ReadOnly {
			continue
		}
		if err := ff.field.SaveState(m.store, ff.spec.id); err != nil {
			errs = append(errs, err)
			continue
		}
		saved++
	}
	if err := errors.Join(errs...); err != nil {
		m.logger.Error("save failed", "error", err)
		m.setError(err)
		return
	}
	m.logger.Info("fields saved", "count", saved)
	m.setStatus("saved")
}

// restore loads every editable field that has a saved value.
func (m *model) restore() {
	if m.store == nil {
		return
	}
	restored := 0
	for _, ff := range m.fields {
		if ff.field.Config().ReadOnly {
			continue
		}
		err := ff.field.RestoreState(m.store, ff.spec.id)
		switch {
		case err == nil:
			restored++
		case errors.Is(err, store.ErrNotFound):
		default:
			m.logger.Warn("restore failed", "field", ff.spec.id, "error", err)
			m.setError(err)
		}
	}
	if restored > 0 && !m.statusErr {
		m.setStatus("restored %d fields", restored)
	}
}

func (m *model) quit() tea.Cmd {
	if m.store != nil {
		m.save()
	}
	m.scene.Close()
	return tea.Quit
}
