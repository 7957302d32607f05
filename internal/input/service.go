package input

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"editcore/internal/logging"
	"editcore/internal/text"
	"editcore/internal/textlayout"
)

var (
	// ErrSessionActive is returned by StartInput while another session of
	// the same service is open.
	ErrSessionActive = errors.New("input session already active")

	// ErrBridgeUnavailable is returned by bridge constructors when the
	// platform service cannot be reached.
	ErrBridgeUnavailable = errors.New("text input bridge unavailable")
)

// TextInputService hands out input sessions backed by a platform bridge.
type TextInputService struct {
	bridge PlatformTextInputBridge
	logger *slog.Logger

	mu      sync.Mutex
	current *Session
	nextID  uint64
}

// NewTextInputService returns a service over bridge. A nil bridge yields a
// nil service, which is valid and does nothing.
func NewTextInputService(bridge PlatformTextInputBridge, logger *slog.Logger) *TextInputService {
	if bridge == nil {
		return nil
	}
	return &TextInputService{bridge: bridge, logger: logging.OrDiscard(logger)}
}

// StartInput opens a session for value. Commands and actions from the
// platform reach the handlers only while the returned session is open.
// A nil service returns a nil session and no error.
func (s *TextInputService) StartInput(value text.TextFieldValue, opts ImeOptions, onEditCommand EditCommandHandler, onImeAction ImeActionHandler) (*Session, error) {
	if s == nil {
		return nil, nil
	}

	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return nil, ErrSessionActive
	}
	s.nextID++
	session := &Session{service: s, id: s.nextID}
	s.current = session
	s.mu.Unlock()

	edit := func(cmds []text.EditCommand) {
		if session.IsOpen() && onEditCommand != nil {
			onEditCommand(cmds)
		}
	}
	action := func(a ImeAction) {
		if session.IsOpen() && onImeAction != nil {
			onImeAction(a)
		}
	}

	if err := s.bridge.StartInput(value, opts, edit, action); err != nil {
		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()
		return nil, fmt.Errorf("start input: %w", err)
	}

	s.logger.Debug("input session opened", "session", session.id, "ime_action", opts.ResolvedAction())
	return session, nil
}

// Current returns the open session, or nil.
func (s *TextInputService) Current() *Session {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *TextInputService) isCurrent(session *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == session
}

func (s *TextInputService) stopInput(session *Session) {
	s.mu.Lock()
	if s.current != session {
		s.mu.Unlock()
		return
	}
	s.current = nil
	s.mu.Unlock()

	s.bridge.StopInput()
	s.logger.Debug("input session closed", "session", session.id)
}

// Session is one focus-bound conversation with the platform IME. It is
// never reused once closed.
type Session struct {
	service *TextInputService
	id      uint64
}

// IsOpen reports whether the session is still the active one.
func (s *Session) IsOpen() bool {
	return s != nil && s.service.isCurrent(s)
}

// Close stops input. Closing twice, or closing a nil session, does nothing.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.service.stopInput(s)
}

// UpdateState tells the platform the value changed outside the IME. It
// reports false if the session is closed.
func (s *Session) UpdateState(oldValue, newValue text.TextFieldValue) bool {
	if !s.IsOpen() {
		return false
	}
	s.service.bridge.UpdateState(oldValue, newValue)
	return true
}

// NotifyFocusedRect tells the platform where the caret is, for candidate
// window placement.
func (s *Session) NotifyFocusedRect(rect textlayout.Rect) bool {
	if !s.IsOpen() {
		return false
	}
	s.service.bridge.NotifyFocusedRect(rect)
	return true
}

// ShowSoftwareKeyboard requests the on-screen keyboard.
func (s *Session) ShowSoftwareKeyboard() bool {
	if !s.IsOpen() {
		return false
	}
	s.service.bridge.ShowSoftwareKeyboard()
	return true
}

// HideSoftwareKeyboard hides the on-screen keyboard.
func (s *Session) HideSoftwareKeyboard() bool {
	if !s.IsOpen() {
		return false
	}
	s.service.bridge.HideSoftwareKeyboard()
	return true
}
