package logger

import (
	"io"
	"os"
)

// SetupLogger builds a logger from CLI-style settings.
func SetupLogger(logLevel string, logJSON, logSource bool, output io.Writer) Logger {
	if output == nil {
		output = os.Stderr
	}
	return NewLogger(&Config{
		Level:      ParseLevel(logLevel),
		Output:     output,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
