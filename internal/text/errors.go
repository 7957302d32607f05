package text

import (
	"errors"
	"fmt"
)

// ErrNilCommand is reported when a command list contains a nil entry.
var ErrNilCommand = errors.New("nil edit command")

// CommandError reports the command that stopped an Apply call. Commands
// before Index were applied.
type CommandError struct {
	Index   int
	Command EditCommand
	Err     error
}

func (e *CommandError) Error() string {
	if e.Command == nil {
		return fmt.Sprintf("edit command %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("edit command %d (%s): %v", e.Index, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }
