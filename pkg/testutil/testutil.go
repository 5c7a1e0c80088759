// Package testutil provides testing utilities for typedbuf
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger returns a logger whose entries at or above level are
// captured in logs. The once-only warning registry is cleared before and
// after the test so earlier warnings do not hide new ones.
func ObservedLogger(t *testing.T, level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(level)
	logger.ResetWarnOnce()
	t.Cleanup(logger.ResetWarnOnce)
	return zap.New(core), logs
}

// UseGlobalLogger installs l as the global logger for the test.
func UseGlobalLogger(t *testing.T, l *zap.Logger) {
	t.Helper()
	prev := logger.Get()
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// WriteFile writes content to name inside a per-test temp directory and
// returns the path.
func WriteFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// Sequences returns a small typed sequence of every kind holding 1, 2, 3.
func Sequences() map[typedarray.Kind]any {
	out := make(map[typedarray.Kind]any, len(typedarray.TypedKinds()))
	for _, k := range typedarray.TypedKinds() {
		seq, err := typedarray.FromFloat64s([]float64{1, 2, 3}, k, typedarray.Wrap)
		if err != nil {
			panic(err)
		}
		out[k] = seq
	}
	return out
}
