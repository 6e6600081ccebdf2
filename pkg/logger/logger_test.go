package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	// Each level must accept printf-style arguments without panicking
	logger.Info("monitor tick for farm at %f,%f", 6.9271, 79.8612)
	logger.Warn("reading missing field: %s", "humidity")
	logger.Error("failed to persist notifications: %v", assert.AnError)
}

func TestLogger_MultipleCalls(t *testing.T) {
	logger := New()

	for i := 0; i < 3; i++ {
		logger.Info("Info %d", i)
		logger.Warn("Warn %d", i)
		logger.Error("Error %d", i)
	}
}
