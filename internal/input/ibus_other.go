//go:build !linux

package input

import (
	"fmt"
	"log/slog"
	"runtime"

	"editcore/internal/text"
	"editcore/internal/textlayout"
)

// IBusBridge is only available on Linux.
type IBusBridge struct{}

// IBusOptions configure NewIBusBridge.
type IBusOptions struct {
	Address string
	Post    func(func())
	Logger  *slog.Logger
}

// NewIBusBridge always fails outside Linux.
func NewIBusBridge(IBusOptions) (*IBusBridge, error) {
	return nil, fmt.Errorf("%w: ibus is not supported on %s", ErrBridgeUnavailable, runtime.GOOS)
}

func (*IBusBridge) StartInput(text.TextFieldValue, ImeOptions, EditCommandHandler, ImeActionHandler) error {
	return ErrBridgeUnavailable
}
func (*IBusBridge) StopInput() {}
func (*IBusBridge) UpdateState(_, _ text.TextFieldValue) {}
func (*IBusBridge) NotifyFocusedRect(textlayout.Rect) {}
func (*IBusBridge) ShowSoftwareKeyboard() {}
func (*IBusBridge) HideSoftwareKeyboard() {}
func (*IBusBridge) ProcessKeyEvent(_, _, _ uint32) bool { return false }
func (*IBusBridge) Close() error { return nil }

var _ PlatformTextInputBridge = (*IBusBridge)(nil)
