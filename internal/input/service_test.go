package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editcore/internal/text"
	"editcore/internal/textlayout"
)

type failingBridge struct{ RecordingBridge }

func (*failingBridge) StartInput(text.TextFieldValue, ImeOptions, EditCommandHandler, ImeActionHandler) error {
	return errors.New("daemon gone")
}

func TestService_SessionLifecycle(t *testing.T) {
	bridge := &RecordingBridge{}
	svc := NewTextInputService(bridge, nil)

	var got [][]text.EditCommand
	session, err := svc.StartInput(text.ValueOf("abc"), ImeOptions{SingleLine: true}, func(cmds []text.EditCommand) {
		got = append(got, cmds)
	}, nil)
	require.NoError(t, err)
	require.True(t, session.IsOpen())
	assert.Same(t, session, svc.Current())
	assert.Equal(t, "abc", bridge.Value.Text)
	assert.True(t, bridge.Options.SingleLine)

	bridge.Send(text.CommitText{Text: "d", NewCursorPosition: 1})
	require.Len(t, got, 1)

	session.Close()
	session.Close()
	assert.False(t, session.IsOpen())
	assert.Nil(t, svc.Current())
	assert.Equal(t, 1, bridge.Stopped, "double close stops input once")

	bridge.Send(text.CommitText{Text: "e", NewCursorPosition: 1})
	assert.Len(t, got, 1, "commands after close are dropped")
}

func TestService_SecondSessionRejected(t *testing.T) {
	svc := NewTextInputService(&RecordingBridge{}, nil)

	first, err := svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	require.NoError(t, err)

	_, err = svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	assert.ErrorIs(t, err, ErrSessionActive)

	first.Close()
	second, err := svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.False(t, first.IsOpen(), "a closed session is never reused")
}

func TestService_BridgeFailure(t *testing.T) {
	svc := NewTextInputService(&failingBridge{}, nil)

	_, err := svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	require.Error(t, err)
	assert.Nil(t, svc.Current())
}

func TestSession_ClosedIgnoresCalls(t *testing.T) {
	bridge := &RecordingBridge{}
	svc := NewTextInputService(bridge, nil)
	session, err := svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	require.NoError(t, err)

	assert.True(t, session.ShowSoftwareKeyboard())
	assert.True(t, session.NotifyFocusedRect(textlayout.Rect{}))
	assert.True(t, session.UpdateState(text.ValueOf("a"), text.ValueOf("b")))
	session.Close()

	assert.False(t, session.UpdateState(text.ValueOf("b"), text.ValueOf("c")))
	assert.False(t, session.NotifyFocusedRect(textlayout.Rect{}))
	assert.False(t, session.ShowSoftwareKeyboard())
	assert.False(t, session.HideSoftwareKeyboard())
	assert.Len(t, bridge.Updates, 1)
	assert.Len(t, bridge.FocusedRects, 1)
}

func TestNilServiceAndSession(t *testing.T) {
	var svc *TextInputService
	assert.Nil(t, NewTextInputService(nil, nil))

	session, err := svc.StartInput(text.TextFieldValue{}, ImeOptions{}, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Nil(t, svc.Current())

	assert.False(t, session.IsOpen())
	assert.False(t, session.UpdateState(text.TextFieldValue{}, text.ValueOf("x")))
	session.Close()

	// A nil *Session stored in a text.StateUpdater must stay harmless.
	var updater text.StateUpdater = session
	p := text.NewEditProcessor()
	p.Reset(text.ValueOf("x"), updater)
	assert.Equal(t, "x", p.Value().Text)
}

func TestImeOptions_ResolvedAction(t *testing.T) {
	assert.Equal(t, ImeActionDone, ImeOptions{SingleLine: true}.ResolvedAction())
	assert.Equal(t, ImeActionNone, ImeOptions{}.ResolvedAction())
	assert.Equal(t, ImeActionSearch, ImeOptions{ImeAction: ImeActionSearch}.ResolvedAction())
}
