package logger

import (
	"log"
	"sync"
)

// Logger writes levelled messages tagged with the component that emitted them.
type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
	out      *log.Logger
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)
