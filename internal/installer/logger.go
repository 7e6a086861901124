// Copyright (c) 2025 Thorium

package installer

import (
	"fmt"

	"github.com/golang/glog"
)

// Level is the engine's own four-level model (spec §6 "Logger
// contract"), thinner than glog's but mapped onto it.
type Level int

const (
	LevelVerbose Level = iota
	LevelNote
	LevelWarning
	LevelError
)

// Logger emits leveled messages to glog and fans them out to any
// attached subscribers, synchronously, on the caller's goroutine.
type Logger struct {
	subscribers []func(level Level, message string)
}

// NewLogger returns a Logger with no subscribers attached.
func NewLogger() *Logger {
	return &Logger{}
}

// Subscribe attaches a callback invoked for every emission, before the
// glog call.
func (l *Logger) Subscribe(fn func(level Level, message string)) {
	l.subscribers = append(l.subscribers, fn)
}

func (l *Logger) emit(level Level, message string) {
	for _, sub := range l.subscribers {
		sub(level, message)
	}
	switch level {
	case LevelVerbose:
		glog.V(1).Info(message)
	case LevelNote:
		glog.Info(message)
	case LevelWarning:
		glog.Warning(message)
	case LevelError:
		glog.Error(message)
	}
}

// Verbosef logs at LevelVerbose.
func (l *Logger) Verbosef(format string, args ...interface{}) {
	l.emit(LevelVerbose, fmt.Sprintf(format, args...))
}

// Notef logs at LevelNote.
func (l *Logger) Notef(format string, args ...interface{}) {
	l.emit(LevelNote, fmt.Sprintf(format, args...))
}

// Warningf logs at LevelWarning.
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.emit(LevelWarning, fmt.Sprintf(format, args...))
}

// Errorf logs at LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(LevelError, fmt.Sprintf(format, args...))
}
