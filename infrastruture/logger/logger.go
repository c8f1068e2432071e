// Package logger provides a colored, prefixed leveled logger.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/vinom-roads/config"
)

// Logger writes "[PREFIX] [LEVEL] message" lines, coloring the prefix and level.
type Logger struct {
	out *log.Logger
}

// New creates a Logger writing to w. The prefix is printed in color.
func New(prefix, color string, w io.Writer) (*Logger, error) {
	if prefix == "" {
		return nil, errors.New("logger prefix is required")
	}
	if w == nil {
		return nil, errors.New("logger writer is required")
	}

	p := fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset)
	return &Logger{out: log.New(w, p, log.LstdFlags|log.Lmsgprefix)}, nil
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.out.Printf("%s[INFO]%s %s", config.LogInfoColor, config.LogColorReset, msg)
}

// Warning logs a recoverable problem.
func (l *Logger) Warning(msg string) {
	l.out.Printf("%s[WARNING]%s %s", config.LogWarningColor, config.LogColorReset, msg)
}

// Error logs a failure.
func (l *Logger) Error(msg string) {
	l.out.Printf("%s[ERROR]%s %s", config.LogErrorColor, config.LogColorReset, msg)
}
