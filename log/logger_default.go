package log

import (
	"io"
	"os"

	"github.com/pioneeros/pioneer/types"
)

var defaultLogger *Logger

// Make sure default logger instantiated by default.
func init() {
	defaultLogger = New(os.Stdout)
}

// Default returns the package-level logger.
func Default() *Logger {
	return defaultLogger
}

// InitDefault creates default logger for package-level logging access.
func InitDefault(output io.Writer, config *types.Config) {
	defaultLogger = New(output)

	if config == nil {
		return
	}

	rc := config.RunConfig
	if rc.ShowDebug {
		defaultLogger.SetLevel(LevelDebug|LevelInfo|LevelWarn|LevelError, true)
	}
	if rc.ShowWarnings {
		defaultLogger.SetLevel(LevelWarn, true)
	}
	if rc.ShowErrors {
		defaultLogger.SetLevel(LevelError, true)
	}
	if rc.Verbose {
		defaultLogger.SetLevel(LevelInfo, true)
	}
	// json output must stay parseable
	if rc.JSON {
		defaultLogger.SetLevel(LevelInfo|LevelSuccess|LevelDebug|LevelWarn, false)
	}
}

// Info logs info-level message using default logger.
func Info(a ...interface{}) {
	defaultLogger.Info(a...)
}

// Infof logs info-level formatted message using default logger.
func Infof(format string, a ...interface{}) {
	defaultLogger.Infof(format, a...)
}

// Warn logs warning-level message using default logger.
func Warn(a ...interface{}) {
	defaultLogger.Warn(a...)
}

// Warnf logs warning-level formatted message using default logger.
func Warnf(format string, a ...interface{}) {
	defaultLogger.Warnf(format, a...)
}

// Errorf logs error-level formatted string message using default logger.
func Errorf(format string, a ...interface{}) {
	defaultLogger.Errorf(format, a...)
}

// Error logs error-level message using default logger.
func Error(err error) {
	defaultLogger.Error(err)
}

// Debug logs debug-level message using default logger.
func Debug(a ...interface{}) {
	defaultLogger.Debug(a...)
}

// Debugf logs debug-level formatted message using default logger.
func Debugf(format string, a ...interface{}) {
	defaultLogger.Debugf(format, a...)
}

// Successf logs a completion message using default logger.
func Successf(format string, a ...interface{}) {
	defaultLogger.Successf(format, a...)
}
