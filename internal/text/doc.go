// Package text holds the authoritative editing model of a text field.
//
// A TextFieldValue is an immutable snapshot of text, selection and the
// IME-owned composition range. The EditProcessor mirrors the value supplied
// by the host and applies ordered EditCommands to it:
//
//	host value ──Reset──▶ EditProcessor ◀──Apply([]EditCommand)── IME / semantics
//	                           │
//	                           └──▶ new TextFieldValue ──▶ onValueChange
//
// All offsets are rune (code point) offsets into the text. Offsets supplied
// by commands are untrusted and are clamped to [0, len] instead of failing,
// so a buffer can never reach a state with a selection outside its text.
package text
