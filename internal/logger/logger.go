// Package logger provides levelled logging for TaskMine. Every mutating
// world action is traceable through Event.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// New writes info and warnings to stdout and errors to stderr.
func New() *Logger {
	return NewWithWriters(os.Stdout, os.Stderr)
}

func NewWithWriters(out, errOut io.Writer) *Logger {
	flags := log.Ldate | log.Ltime
	return &Logger{
		infoLogger:  log.New(out, "[TASKMINE-INFO] ", flags),
		warnLogger:  log.New(out, "[TASKMINE-WARN] ", flags),
		errorLogger: log.New(errOut, "[TASKMINE-ERROR] ", flags),
	}
}

// Discard drops everything. Used by one-shot CLI commands and tests.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard)
}

func (l *Logger) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.infoLogger.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.warnLogger.Output(2, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	if l == nil {
		return
	}
	l.errorLogger.Output(2, fmt.Sprintf(format, args...))
}

// Event logs a domain event for the family audit trail.
func (l *Logger) Event(kind, actor, detail string) {
	if l == nil {
		return
	}
	l.infoLogger.Printf("[EVENT:%s] Actor:%s | %s", kind, actor, detail)
}
