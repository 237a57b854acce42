package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vladiate/internal/config"
	"vladiate/internal/logging"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			logger, err := logging.New(config.LogConfig{Level: "warn", Format: format})
			require.NoError(t, err)
			assert.False(t, logger.Core().Enabled(zap.InfoLevel))
			assert.True(t, logger.Core().Enabled(zap.WarnLevel))
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud", Format: "console"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, logging.OrNop(l))
}
