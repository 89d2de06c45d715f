package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruleweave/ruleweave/pkg/logging"
)

func TestGetLogger(t *testing.T) {
	logger := logging.GetLogger("rules.loader")
	// The logger must be usable without any prior SetupLogger call
	logger.Debug().Msg("probe")
	assert.NotNil(t, logger)
}

func TestLogFilePath(t *testing.T) {
	path := logging.LogFilePath()
	assert.Contains(t, path, "ruleweave")
	assert.Contains(t, path, "ruleweave.log")
}

func TestLogOperationStart(t *testing.T) {
	logger := logging.GetLogger("test")
	done := logging.LogOperationStart(logger, "load-rules")
	assert.NotNil(t, done)
	done()
}
