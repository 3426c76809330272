// Package logtest provides a logger.Logger that writes through testing.TB.
package logtest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
)

// New creates a debug level Logger whose output is attached to t
func New(t testing.TB) logger.Logger {
	return logger.FromZap(zaptest.NewLogger(t))
}
