package main

import (
	"context"
	"errors"

	"gioui.org/f32"

	"editcore/internal/input"
	"editcore/internal/text"
	"editcore/internal/textfield"
	"editcore/internal/textlayout"
	"editcore/internal/transform"
)

// cell is the layout size of one terminal cell. Field geometry is kept in
// cells so pointer positions need no scaling.
var cell = f32.Pt(1, 1)

// fieldSpec describes one field of the form.
type fieldSpec struct {
	id    string
	label string
	lines int

	// configure adjusts the base field configuration.
	configure func(c *textfield.Config, mask rune)
}

var formSpecs = []fieldSpec{
	{
		id:    "name",
		label: "Name",
		lines: 1,
		configure: func(c *textfield.Config, _ rune) {
			c.SingleLine = true
			c.ImeOptions.Capitalization = input.CapitalizeWords
			c.ImeOptions.ImeAction = input.ImeActionNext
		},
	},
	{
		id:    "email",
		label: "Email",
		lines: 1,
		configure: func(c *textfield.Config, _ rune) {
			c.SingleLine = true
			c.ImeOptions.KeyboardType = input.KeyboardEmail
			c.ImeOptions.AutoCorrect = false
			c.ImeOptions.ImeAction = input.ImeActionNext
		},
	},
	{
		id:    "password",
		label: "Password",
		lines: 1,
		configure: func(c *textfield.Config, mask rune) {
			c.SingleLine = true
			c.ImeOptions.KeyboardType = input.KeyboardPassword
			c.ImeOptions.AutoCorrect = false
			c.VisualTransformation = transform.Password{Mask: mask}
		},
	},
	{
		id:    "notes",
		label: "Notes",
		lines: 4,
		configure: func(c *textfield.Config, _ rune) {
			c.ImeOptions.Capitalization = input.CapitalizeSentences
		},
	},
	{
		id:    "config",
		label: "Config file",
		lines: 1,
		configure: func(c *textfield.Config, _ rune) {
			c.SingleLine = true
			c.ReadOnly = true
		},
	},
}

// formField is a field together with the host state it needs: where it is
// on screen and how far its content is scrolled.
type formField struct {
	spec  fieldSpec
	field *textfield.Field

	// top is the screen row of the label.
	top int
	// width is the number of content columns.
	width int
	// scroll is the first visible column and line.
	scroll f32.Point

	layout *textlayout.Monospace
}

// origin returns the screen cell of the first content cell.
func (ff *formField) origin() f32.Point {
	return f32.Pt(1, float32(ff.top+2))
}

// bounds returns the visible content area in screen cells.
func (ff *formField) bounds() textlayout.Rect {
	o := ff.origin()
	return textlayout.Rect{Min: o, Max: o.Add(f32.Pt(float32(ff.width), float32(ff.spec.lines)))}
}

// height is the number of rows the field takes: label, box and the
// toolbar row.
func (ff *formField) height() int {
	return ff.spec.lines + 4
}

// wrapColumns returns the soft wrap width of the field's layout.
func (ff *formField) wrapColumns() int {
	if ff.field.Config().SingleLine {
		return 0
	}
	return ff.width
}

// relayout lays the displayed text out again and hands the result to the
// field.
func (ff *formField) relayout() {
	ff.layout = textlayout.NewMonospace(ff.field.TransformedText().Text, cell, ff.wrapColumns())
	ff.field.SetLayoutResult(ff.layout)
}

// reveal scrolls until rect, in content coordinates, is visible.
func (ff *formField) reveal(rect textlayout.Rect) bool {
	x0, y0 := int(ff.scroll.X), int(ff.scroll.Y)
	x, y := x0, y0

	left, right := int(rect.Min.X), int(rect.Max.X)
	if right <= left {
		right = left + 1
	}
	switch {
	case left < x:
		x = left
	case right > x+ff.width:
		x = right - ff.width
	}

	top, bottom := int(rect.Min.Y), int(rect.Max.Y)
	switch {
	case top < y:
		y = top
	case bottom > y+ff.spec.lines:
		y = bottom - ff.spec.lines
	}

	if x == x0 && y == y0 {
		return false
	}
	ff.scroll = f32.Pt(float32(max(x, 0)), float32(max(y, 0)))
	return true
}

// cursorRect returns the cursor rect in content coordinates, or false
// before the first layout.
func (ff *formField) cursorRect() (textlayout.Rect, bool) {
	if ff.layout == nil {
		return textlayout.Rect{}, false
	}
	v := ff.field.Value()
	offset := ff.field.TransformedText().Mapping.OriginalToTransformed(v.Selection.End)
	return ff.layout.CursorRect(offset), true
}

// viewRequester brings rects into view by posting to the UI goroutine.
type viewRequester struct {
	post   func(func())
	reveal func(rect textlayout.Rect)
}

func (r viewRequester) BringIntoView(ctx context.Context, rect textlayout.Rect) error {
	if r.post == nil {
		return errors.New("no UI loop")
	}
	done := make(chan struct{})
	r.post(func() {
		r.reveal(rect)
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// newField builds the field for spec. The host owns the value: every
// change comes back through onChange and is applied with Update.
func newField(spec fieldSpec, base textfield.Config, mask rune, deps textfield.Deps, onChange func(*formField, text.TextFieldValue)) (*formField, error) {
	cfg := base
	if spec.configure != nil {
		spec.configure(&cfg, mask)
	}

	ff := &formField{spec: spec}
	deps.OnValueChange = func(v text.TextFieldValue) { onChange(ff, v) }

	f, err := textfield.New(cfg, deps)
	if err != nil {
		return nil, err
	}
	ff.field = f
	return ff, nil
}
