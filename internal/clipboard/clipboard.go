// Package clipboard writes drafts to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	cb "github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available,
// e.g. xclip or xsel missing on Linux.
var ErrUnsupported = errors.New("system clipboard unavailable")

// System is the desktop clipboard.
type System struct {
	unsupported bool
	write       func(string) error
}

// New returns the system clipboard.
func New() System {
	return System{
		unsupported: cb.Unsupported,
		write:       cb.WriteAll,
	}
}

// Copy replaces the clipboard contents with text.
func (s System) Copy(text string) error {
	if s.unsupported {
		return ErrUnsupported
	}

	if err := s.write(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}

	return nil
}
