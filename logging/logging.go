// Package logging constructs the process logger.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates an hclog logger with standard settings. A nil output means
// stderr; an empty level means the LUXUSB_LOG_LEVEL environment variable,
// falling back to info.
func New(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	if level == "" {
		level = os.Getenv("LUXUSB_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  hclog.LevelFromString(level),
		Output: output,
	})
}
