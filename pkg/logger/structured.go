// Package logger provides leveled logging with consistent formatting
package logger

import (
	"log"
	"strings"
)

// Logger writes leveled messages, optionally under a component prefix.
type Logger struct {
	prefix string
}

// NewLogger creates a logger with an optional prefix.
func NewLogger(prefix string) *Logger {
	return &Logger{prefix: prefix}
}

func (l *Logger) logf(emoji, msg string, args ...interface{}) {
	full := emoji + " "
	if l.prefix != "" {
		full += "[" + l.prefix + "] "
	}
	full += msg
	if len(args) > 0 {
		log.Printf(full, args...)
	} else {
		log.Print(full)
	}
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.logf("ℹ️", msg, args...)
}

// Success logs a success message.
func (l *Logger) Success(msg string, args ...interface{}) {
	l.logf("✅", msg, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string, args ...interface{}) {
	l.logf("⚠️", msg, args...)
}

// Error logs an error message with an optional error object.
func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if err != nil {
		l.logf("❌", msg+" - %v", append(args, err)...)
		return
	}
	l.logf("❌", msg, args...)
}

// Security logs a security-relevant event with key=value details.
func (l *Logger) Security(event string, details map[string]interface{}) {
	msg := "SECURITY: " + event
	if len(details) == 0 {
		l.logf("🔐", msg)
		return
	}
	parts := make([]string, 0, len(details))
	args := make([]interface{}, 0, len(details))
	for key, value := range details {
		parts = append(parts, key+"=%v")
		args = append(args, value)
	}
	l.logf("🔐", msg+" - "+strings.Join(parts, " "), args...)
}

// Fatal logs a fatal error and exits.
func (l *Logger) Fatal(msg string, err error, args ...interface{}) {
	full := "💀 "
	if l.prefix != "" {
		full += "[" + l.prefix + "] "
	}
	if err != nil {
		log.Fatalf(full+msg+" - %v", append(args, err)...)
	}
	if len(args) > 0 {
		log.Fatalf(full+msg, args...)
	}
	log.Fatal(full + msg)
}

// Default logger instance
var Default = NewLogger("")

// Convenience functions for the default logger
func Info(msg string, args ...interface{})                  { Default.Info(msg, args...) }
func Success(msg string, args ...interface{})               { Default.Success(msg, args...) }
func Warning(msg string, args ...interface{})               { Default.Warning(msg, args...) }
func Error(msg string, err error, args ...interface{})      { Default.Error(msg, err, args...) }
func Security(event string, details map[string]interface{}) { Default.Security(event, details) }
func Fatal(msg string, err error, args ...interface{})      { Default.Fatal(msg, err, args...) }
