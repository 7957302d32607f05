//go:build linux

package input

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"editcore/internal/logging"
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// IBusBridge is a PlatformTextInputBridge that acts as an IBus client. It
// owns one input context on the IBus daemon's private bus.
type IBusBridge struct {
	conn   *dbus.Conn
	ctx    dbus.BusObject
	logger *slog.Logger
	post   func(func())

	signals chan *dbus.Signal
	done    chan struct{}

	mu       sync.Mutex
	onEdit   EditCommandHandler
	onAction ImeActionHandler
	closed   bool

	// surrounding is the selection last sent with SetSurroundingText.
	surrounding text.TextRange
}

// IBusOptions configure NewIBusBridge.
type IBusOptions struct {
	// Address overrides IBusAddress().
	Address string

	// Post runs callbacks on the UI goroutine. Signals arrive on a D-Bus
	// goroutine; without Post they are delivered there.
	Post func(func())

	Logger *slog.Logger
}

// NewIBusBridge connects to the IBus daemon and creates an input context.
// It returns an error wrapping ErrBridgeUnavailable when IBus is not
// running.
func NewIBusBridge(opts IBusOptions) (*IBusBridge, error) {
	addr := opts.Address
	if addr == "" {
		var err error
		if addr, err = IBusAddress(); err != nil {
			return nil, err
		}
	}

	conn, err := dbus.Connect(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to ibus: %v", ErrBridgeUnavailable, err)
	}

	var path dbus.ObjectPath
	if err := conn.Object(IBusService, IBusPath).Call(IBusInterface+".CreateInputContext", 0, IBusClientName).Store(&path); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: create input context: %v", ErrBridgeUnavailable, err)
	}

	b := &IBusBridge{
		conn:    conn,
		ctx:     conn.Object(IBusService, path),
		logger:  logging.OrDiscard(opts.Logger).With("bridge", "ibus"),
		post:    opts.Post,
		signals: make(chan *dbus.Signal, 32),
		done:    make(chan struct{}),
	}
	if b.post == nil {
		b.post = func(fn func()) { fn() }
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(IBusInputContextInterface),
	); err != nil {
		b.Close()
		return nil, fmt.Errorf("subscribe to input context signals: %w", err)
	}
	conn.Signal(b.signals)

	caps := IBusCapPreeditText | IBusCapFocus | IBusCapSurroundingText
	if err := b.call("SetCapabilities", caps); err != nil {
		b.Close()
		return nil, err
	}

	go b.signalLoop()
	b.logger.Debug("ibus input context created", "path", path)
	return b, nil
}

func (b *IBusBridge) call(method string, args ...any) error {
	if err := b.ctx.Call(IBusInputContextInterface+"."+method, 0, args...).Err; err != nil {
		return fmt.Errorf("ibus %s: %w", method, err)
	}
	return nil
}

func (b *IBusBridge) signalLoop() {
	for {
		select {
		case sig, ok := <-b.signals:
			if !ok {
				return
			}
			b.handleSignal(sig)
		case <-b.done:
			return
		}
	}
}

func (b *IBusBridge) handleSignal(sig *dbus.Signal) {
	var cmds []text.EditCommand
	switch sig.Name {
	case IBusInputContextInterface + ".CommitText":
		if s, ok := ibusText(sig.Body, 0); ok {
			cmds = []text.EditCommand{text.CommitText{Text: s, NewCursorPosition: 1}}
		}
	case IBusInputContextInterface + ".UpdatePreeditText":
		s, _ := ibusText(sig.Body, 0)
		visible := len(sig.Body) > 2 && sig.Body[2] == true
		if !visible {
			s = ""
		}
		cmds = []text.EditCommand{text.SetComposingText{Text: s, NewCursorPosition: 1}}
	case IBusInputContextInterface + ".HidePreeditText":
		cmds = []text.EditCommand{text.SetComposingText{Text: "", NewCursorPosition: 1}}
	case IBusInputContextInterface + ".DeleteSurroundingText":
		if len(sig.Body) >= 2 {
			offset, _ := sig.Body[0].(int32)
			n, _ := sig.Body[1].(uint32)
			b.mu.Lock()
			sel := b.surrounding
			b.mu.Unlock()
			cmds = ibusDeleteSurrounding(offset, n, sel)
		}
	default:
		b.logger.Debug("ignoring ibus signal", "signal", sig.Name)
		return
	}
	if len(cmds) == 0 {
		return
	}

	b.mu.Lock()
	h := b.onEdit
	b.mu.Unlock()
	if h != nil {
		b.post(func() { h(cmds) })
	}
}

// ibusText extracts the string of a serialized IBusText at body[i]. The
// wire form is the variant (sa{sv}sv): name, attachments, text, attributes.
func ibusText(body []any, i int) (string, bool) {
	if len(body) <= i {
		return "", false
	}
	v, ok := body[i].(dbus.Variant)
	if !ok {
		return "", false
	}
	fields, ok := v.Value().([]any)
	if !ok || len(fields) < 3 {
		return "", false
	}
	s, ok := fields[2].(string)
	return s, ok
}

// newIBusText serializes s as an IBusText without attributes.
func newIBusText(s string) dbus.Variant {
	attrs := dbus.MakeVariant([]any{
		"IBusAttrList",
		map[string]dbus.Variant{},
		[]dbus.Variant{},
	})
	return dbus.MakeVariant([]any{
		"IBusText",
		map[string]dbus.Variant{},
		s,
		attrs,
	})
}

func (b *IBusBridge) StartInput(value text.TextFieldValue, opts ImeOptions, onEditCommand EditCommandHandler, onImeAction ImeActionHandler) error {
	b.mu.Lock()
	b.onEdit = onEditCommand
	b.onAction = onImeAction
	b.mu.Unlock()

	purpose, hints := ibusContentType(opts)
	if err := b.call("SetContentType", purpose, hints); err != nil {
		b.logger.Warn("ibus content type rejected", "error", err)
	}
	if err := b.call("FocusIn"); err != nil {
		return err
	}
	b.setSurrounding(value)
	return nil
}

func (b *IBusBridge) StopInput() {
	b.mu.Lock()
	b.onEdit = nil
	b.onAction = nil
	b.mu.Unlock()

	if err := b.call("Reset"); err != nil {
		b.logger.Warn("ibus reset failed", "error", err)
	}
	if err := b.call("FocusOut"); err != nil {
		b.logger.Warn("ibus focus out failed", "error", err)
	}
}

func (b *IBusBridge) UpdateState(oldValue, newValue text.TextFieldValue) {
	// A composition dropped from outside the IME has to be abandoned on
	// the daemon too, or the next preedit update resurrects it.
	if oldValue.Composition != nil && newValue.Composition == nil {
		if err := b.call("Reset"); err != nil {
			b.logger.Warn("ibus reset failed", "error", err)
		}
	}
	b.setSurrounding(newValue)
}

func (b *IBusBridge) setSurrounding(v text.TextFieldValue) {
	b.mu.Lock()
	b.surrounding = v.Selection
	b.mu.Unlock()

	cursor := uint32(v.Selection.End)
	anchor := uint32(v.Selection.Start)
	if err := b.call("SetSurroundingText", newIBusText(v.Text), cursor, anchor); err != nil {
		b.logger.Debug("ibus surrounding text rejected", "error", err)
	}
}

func (b *IBusBridge) NotifyFocusedRect(rect textlayout.Rect) {
	size := rect.Size()
	if err := b.call("SetCursorLocation", int32(rect.Min.X), int32(rect.Min.Y), int32(size.X), int32(size.Y)); err != nil {
		b.logger.Debug("ibus cursor location rejected", "error", err)
	}
}

// ShowSoftwareKeyboard is a no-op: IBus has no on-screen keyboard.
func (b *IBusBridge) ShowSoftwareKeyboard() {}

// HideSoftwareKeyboard is a no-op: IBus has no on-screen keyboard.
func (b *IBusBridge) HideSoftwareKeyboard() {}

// ProcessKeyEvent forwards a key to the IME and reports whether it was
// consumed. Hosts call it before handling a key themselves.
func (b *IBusBridge) ProcessKeyEvent(keyval, keycode, state uint32) bool {
	var handled bool
	if err := b.ctx.Call(IBusInputContextInterface+".ProcessKeyEvent", 0, keyval, keycode, state).Store(&handled); err != nil {
		b.logger.Warn("ibus key event failed", "error", err)
		return false
	}
	return handled
}

// Close destroys the input context and disconnects.
func (b *IBusBridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)
	b.conn.RemoveSignal(b.signals)
	if err := b.ctx.Call(IBusServiceInterface+".Destroy", 0).Err; err != nil {
		b.logger.Debug("ibus destroy failed", "error", err)
	}
	return b.conn.Close()
}

var _ PlatformTextInputBridge = (*IBusBridge)(nil)
