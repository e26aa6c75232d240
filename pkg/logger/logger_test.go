package logger

import (
	"testing"

	"github.com/dmehra2102/prod-golang-projects/cuidarplus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "json", OutputPath: "stdout"}, config.AppConfig{Name: "cuidarplus-api"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "json", OutputPath: "stdout"}, config.AppConfig{})
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
