package log

import (
	"fmt"
	"io"
	"strings"
)

// Level is a bit identifying a class of messages
type Level uint8

// Message levels
const (
	LevelError Level = 1 << iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelSuccess
)

// Logger filters and prints messages to a destination
type Logger struct {
	output    io.Writer
	errOutput io.Writer
	enabled   Level
	colors    bool
}

// New returns an instance of Logger printing errors and successes only
func New(output io.Writer) *Logger {
	return &Logger{output: output, errOutput: output, enabled: LevelError | LevelSuccess, colors: true}
}

// SetErrorOutput sends error-level messages to w instead of the output
func (l *Logger) SetErrorOutput(w io.Writer) {
	l.errOutput = w
}

// SetLevel activates/deactivates a level
func (l *Logger) SetLevel(level Level, value bool) {
	if value {
		l.enabled |= level
	} else {
		l.enabled &^= level
	}
}

// SetColors toggles ANSI color directives around leveled messages
func (l *Logger) SetColors(value bool) {
	l.colors = value
}

// Enabled reports whether messages of level are printed
func (l *Logger) Enabled(level Level) bool {
	return l.enabled&level != 0
}

// Output returns the destination writer
func (l *Logger) Output() io.Writer {
	return l.output
}

// Logf writes a formatted message to the specified output
func (l *Logger) Logf(format string, a ...interface{}) {
	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}
	fmt.Fprintf(l.output, format, a...)
}

// Log writes message to the specified output
func (l *Logger) Log(a ...interface{}) {
	fmt.Fprintln(l.output, a...)
}

func (l *Logger) print(level Level, msg string) {
	if !l.Enabled(level) {
		return
	}
	msg = strings.TrimSuffix(msg, "\n")
	if l.colors {
		msg = ConsoleColors.ForLevel(level) + msg + ConsoleColors.Reset()
	}
	w := l.output
	if level == LevelError {
		w = l.errOutput
	}
	fmt.Fprintln(w, msg)
}

// Info writes the message if info level is activated
func (l *Logger) Info(a ...interface{}) {
	l.print(LevelInfo, fmt.Sprint(a...))
}

// Infof writes the formatted message if info level is activated
func (l *Logger) Infof(format string, a ...interface{}) {
	l.print(LevelInfo, fmt.Sprintf(format, a...))
}

// Warn writes the message if warn level is activated
func (l *Logger) Warn(a ...interface{}) {
	l.print(LevelWarn, fmt.Sprint(a...))
}

// Warnf writes the formatted message if warn level is activated
func (l *Logger) Warnf(format string, a ...interface{}) {
	l.print(LevelWarn, fmt.Sprintf(format, a...))
}

// Error writes the error if error level is activated
func (l *Logger) Error(err error) {
	l.print(LevelError, err.Error())
}

// Errorf writes the formatted message if error level is activated
func (l *Logger) Errorf(format string, a ...interface{}) {
	l.print(LevelError, fmt.Sprintf(format, a...))
}

// Debug writes the message if debug level is activated
func (l *Logger) Debug(a ...interface{}) {
	l.print(LevelDebug, fmt.Sprint(a...))
}

// Debugf writes the formatted message if debug level is activated
func (l *Logger) Debugf(format string, a ...interface{}) {
	l.print(LevelDebug, fmt.Sprintf(format, a...))
}

// Successf writes a formatted completion message
func (l *Logger) Successf(format string, a ...interface{}) {
	l.print(LevelSuccess, fmt.Sprintf(format, a...))
}
