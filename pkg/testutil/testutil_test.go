package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func TestObservedLoggerCapturesWarnOnce(t *testing.T) {
	l, logs := ObservedLogger(t, zapcore.WarnLevel)
	UseGlobalLogger(t, l)

	assert.True(t, logger.WarnOnce("careful"))
	assert.False(t, logger.WarnOnce("careful"))
	logger.Info("ignored")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "careful", logs.All()[0].Message)
}

func TestSequencesCoverEveryKind(t *testing.T) {
	seqs := Sequences()
	assert.Len(t, seqs, len(typedarray.TypedKinds()))
	for k, seq := range seqs {
		got, ok := typedarray.KindOf(seq)
		assert.True(t, ok)
		assert.Equal(t, k, got)
		n, err := typedarray.Len(seq)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "in.json", []byte("[1]"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(data))
}
