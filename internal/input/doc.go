// Package input connects text fields to the platform's text input service.
//
// # Architecture
//
// A field that gains focus asks the TextInputService for a Session. The
// service forwards the request to a PlatformTextInputBridge, which talks to
// whatever IME the host has:
//
//	┌────────────┐ StartInput ┌──────────────────┐ StartInput ┌──────────────┐
//	│ text field │───────────▶│ TextInputService │───────────▶│ bridge       │
//	│            │◀───────────│   (one session)  │            │ IBus / tty / │
//	└────────────┘  *Session  └──────────────────┘            │ test         │
//	      ▲                                                    └──────┬───────┘
//	      │             []text.EditCommand, ImeAction                 │
//	      └───────────────────────────────────────────────────────────┘
//
// Edit commands from the bridge are only delivered while the session that
// registered them is open. Once closed, a session ignores every call.
//
// # Capability gaps
//
// A nil *TextInputService and a nil *Session are both valid. Every
// operation on them is a no-op, so hosts without any IME run the same field
// code as hosts with one.
package input
