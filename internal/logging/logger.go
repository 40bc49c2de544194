package logging

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// New builds a console logger at the given level ("debug", "info", "warn", "error").
func New(level string) arbor.ILogger {
	if level == "" {
		level = "info"
	}
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString(level)
}

// Nop returns a logger with no writers attached, used by tests and library defaults.
func Nop() arbor.ILogger {
	return arbor.NewLogger()
}
