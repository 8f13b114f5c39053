package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Level is a log severity threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var (
	mu           sync.RWMutex
	globalLevel            = LevelInfo
	globalOutput io.Writer = os.Stdout
	exitFunc               = os.Exit
)

var labels = map[Level]func(a ...interface{}) string{
	LevelDebug:    color.New(color.FgHiBlack).SprintFunc(),
	LevelInfo:     color.New(color.FgGreen).SprintFunc(),
	LevelWarning:  color.New(color.FgYellow).SprintFunc(),
	LevelError:    color.New(color.FgRed).SprintFunc(),
	LevelCritical: color.New(color.FgHiRed, color.Bold).SprintFunc(),
}

var names = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
}

// -----------------------------------------------------------------------------

// ParseLevel maps a config string to a Level. Unknown strings map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARNING", "WARN":
		return LevelWarning
	case "ERROR":
		return LevelError
	case "CRITICAL", "FATAL":
		return LevelCritical
	default:
		return LevelInfo
	}
}

// SetLevel sets the process-wide threshold.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	globalLevel = level
}

// SetOutput redirects every logger created afterwards.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	globalOutput = w
}

// -----------------------------------------------------------------------------

// Logger provides structured logging functionality
type Logger struct {
	name   string
	logger *log.Logger
	config interface{}
}

// -----------------------------------------------------------------------------

// NewLogger creates a new Logger instance
func NewLogger(config interface{}, name string) *Logger {
	mu.RLock()
	out := globalOutput
	mu.RUnlock()

	l := &Logger{
		name:   name,
		logger: log.New(out, "", log.LstdFlags),
		config: config,
	}
	return l
}

// -----------------------------------------------------------------------------

func (l *Logger) emit(level Level, format string, args ...interface{}) {
	mu.RLock()
	threshold := globalLevel
	mu.RUnlock()
	if level < threshold {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", l.name, labels[level](names[level]), msg)
}

// -----------------------------------------------------------------------------

// Debug logs diagnostic messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(LevelDebug, format, args...)
}

// -----------------------------------------------------------------------------

// Warning logs recoverable problems
func (l *Logger) Warning(format string, args ...interface{}) {
	l.emit(LevelWarning, format, args...)
}

// -----------------------------------------------------------------------------

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(LevelInfo, format, args...)
}

// -----------------------------------------------------------------------------

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(LevelError, format, args...)
}

// -----------------------------------------------------------------------------

// Critical logs critical errors and exits the application
func (l *Logger) Critical(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s: %s", l.name, labels[LevelCritical](names[LevelCritical]), msg)
	exitFunc(1)
}
