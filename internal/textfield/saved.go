package textfield

import (
	"fmt"

	"editcore/internal/text"
)

// StateSaver persists a field value under an id.
type StateSaver interface {
	Save(id string, v text.TextFieldValue) error
}

// StateLoader returns a value saved under an id.
type StateLoader interface {
	Load(id string) (text.TextFieldValue, error)
}

// SaveState saves the current value under id. Password fields are never
// saved.
func (f *Field) SaveState(s StateSaver, id string) error {
	if f.cfg.isPassword() {
		f.logger.Debug("password field not saved", "id", id)
		return nil
	}
	if err := s.Save(id, f.value.WithoutComposition()); err != nil {
		return fmt.Errorf("save field %q: %w", id, err)
	}
	return nil
}

// RestoreState loads the value saved under id and publishes it. The
// loader's error is returned wrapped, so callers can test for a missing
// entry.
func (f *Field) RestoreState(l StateLoader, id string) error {
	v, err := l.Load(id)
	if err != nil {
		return fmt.Errorf("restore field %q: %w", id, err)
	}
	f.onValueChange(text.NewValue(v.Text, v.Selection, nil))
	return nil
}
