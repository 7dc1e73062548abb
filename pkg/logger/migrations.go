package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// MigrationLogger adapts slog to the Printf/Fatalf logger goose expects.
type MigrationLogger struct {
	log *slog.Logger
}

func NewMigrationLogger(log *slog.Logger) *MigrationLogger {
	return &MigrationLogger{log: log.With("component", "migrations")}
}

func (l *MigrationLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at ERROR and exits, as the goose contract requires.
func (l *MigrationLogger) Fatalf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
