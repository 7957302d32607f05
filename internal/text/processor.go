package text

// StateUpdater receives the value the processor moved to when the host
// supplies a new one. An input session implements it to push host-side
// changes to the platform IME.
type StateUpdater interface {
	UpdateState(oldValue, newValue TextFieldValue) bool
}

// Change describes the transition produced by the last Reset or Apply.
type Change struct {
	Before             TextFieldValue
	After              TextFieldValue
	TextChanged        bool
	SelectionChanged   bool
	CompositionChanged bool
}

// Changed reports whether anything observable changed.
func (c Change) Changed() bool {
	return c.TextChanged || c.SelectionChanged || c.CompositionChanged
}

func diff(before, after TextFieldValue) Change {
	return Change{
		Before:             before,
		After:              after,
		TextChanged:        before.Text != after.Text,
		SelectionChanged:   before.Selection != after.Selection,
		CompositionChanged: !compositionEqual(before.Composition, after.Composition),
	}
}

// EditProcessor mirrors the host-owned TextFieldValue and is the only path
// through which edit commands modify it. It is not safe for concurrent use.
type EditProcessor struct {
	value  TextFieldValue
	buffer *EditingBuffer
	last   Change
}

// NewEditProcessor returns a processor holding an empty value.
func NewEditProcessor() *EditProcessor {
	p := &EditProcessor{}
	p.buffer = NewEditingBuffer(p.value)
	return p
}

// Value returns the mirrored value.
func (p *EditProcessor) Value() TextFieldValue { return p.value }

// LastChange returns the diff produced by the most recent Reset or Apply.
func (p *EditProcessor) LastChange() Change { return p.last }

// Reset overwrites the processor state with value. When the stored value
// differs and session is non-nil, the session is told about the change.
// Resetting twice with the same value leaves the same state.
func (p *EditProcessor) Reset(value TextFieldValue, session StateUpdater) {
	value = NewValue(value.Text, value.Selection, value.Composition)
	old := p.value

	p.buffer = NewEditingBuffer(value)
	p.value = p.buffer.Value()
	p.last = diff(old, p.value)

	if session != nil && p.last.Changed() {
		session.UpdateState(old, p.value)
	}
}

// Apply folds cmds over the current state in order and returns the new
// value. A nil command stops the fold with a *CommandError; the state then
// holds the result of every command before it.
func (p *EditProcessor) Apply(cmds []EditCommand) (TextFieldValue, error) {
	old := p.value
	var err error
	for i, cmd := range cmds {
		if cmd == nil {
			err = &CommandError{Index: i, Err: ErrNilCommand}
			break
		}
		cmd.ApplyTo(p.buffer)
	}
	p.value = p.buffer.Value()
	p.last = diff(old, p.value)
	return p.value, err
}
