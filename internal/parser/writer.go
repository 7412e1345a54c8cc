package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/corsair-bot/corsair/pkg/core"
)

// Writer prints one command per line and flushes after every turn, since the referee
// waits for the full turn before sending the next one.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteCommands writes cmds and flushes.
func (w *Writer) WriteCommands(cmds []core.Command) error {
	for _, c := range cmds {
		if _, err := fmt.Fprintln(w.w, c.String()); err != nil {
			return fmt.Errorf("write command: %w", err)
		}
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush commands: %w", err)
	}
	return nil
}
