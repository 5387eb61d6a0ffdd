package output

import (
	"fmt"
	"io"
	"os"
)

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	w := c.w
	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprintf(w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	if f, ok := c.w.(*os.File); ok {
		// stdout may not support sync
		_ = f.Sync()
	}
	return nil
}
