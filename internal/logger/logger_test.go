package logger

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
)

type LoggerTestSuite struct {
	suite.Suite
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerTestSuite))
}

func (suite *LoggerTestSuite) TestNewLogger() {
	logger, err := NewLogger("")
	suite.NoError(err)
	suite.NotNil(logger)
	suite.NotNil(logger.Logger)
	suite.True(logger.Core().Enabled(zapcore.InfoLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerLevel() {
	logger, err := NewLogger("warn")
	suite.NoError(err)
	suite.False(logger.Core().Enabled(zapcore.InfoLevel))
}

func (suite *LoggerTestSuite) TestNewLoggerBadLevel() {
	_, err := NewLogger("chatty")
	suite.Error(err)
}

func (suite *LoggerTestSuite) TestLoggerSyncNilLogger() {
	logger := &Logger{Logger: nil}
	suite.NoError(logger.Sync())
}
