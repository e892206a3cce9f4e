package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether w is attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
