// Package logger builds the zap logger used across the service.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a production logger when env is "production" and a
// development logger otherwise.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(strings.TrimSpace(env), "production") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Sync flushes buffered entries. Errors from syncing stderr/stdout on some
// platforms are ignored.
func Sync(l *zap.Logger) {
	if l == nil {
		return
	}
	_ = l.Sync()
}
