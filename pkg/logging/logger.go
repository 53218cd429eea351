package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level orders log entries by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a config verbosity string onto a Level.
// Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "verbose":
		return LevelDebug
	case "warn", "warning", "quiet":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes component-tagged entries to the run's log file.
// All loggers created during one process share a run ID and a file in
// ~/.ghauto/logs/ (or $GHAUTO_LOG_DIR).
type Logger struct {
	runID     string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	runID     string
	runIDOnce sync.Once

	logDir   string
	initOnce sync.Once
	initErr  error

	// minLevel is shared by every logger in the process
	minLevel   = LevelDebug
	minLevelMu sync.RWMutex
)

// SetLevel sets the minimum level written by all loggers.
func SetLevel(l Level) {
	minLevelMu.Lock()
	minLevel = l
	minLevelMu.Unlock()
}

func enabled(l Level) bool {
	minLevelMu.RLock()
	defer minLevelMu.RUnlock()
	return l >= minLevel
}

func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func initLogDirectory() error {
	initOnce.Do(func() {
		if logDir == "" {
			if env := os.Getenv("GHAUTO_LOG_DIR"); env != "" {
				logDir = env
			} else {
				homeDir, err := os.UserHomeDir()
				if err != nil {
					initErr = fmt.Errorf("failed to get home directory: %w", err)
					return
				}
				logDir = filepath.Join(homeDir, ".ghauto", "logs")
			}
		}
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return initErr
}

// NewLogger creates a logger for component writing to <run-id>-ghauto.log.
//
// On failure it still returns a usable logger that writes to stderr,
// together with the error that caused the fallback.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-ghauto.log", id))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return newFallbackLogger(component, err), err
	}

	return &Logger{
		runID:     id,
		component: component,
		file:      file,
		logger:    log.New(file, "", 0),
		logPath:   logPath,
	}, nil
}

// NewWriterLogger creates a logger writing to w. It does not touch the
// log directory and Close leaves w open.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		runID:     getRunID(),
		component: component,
		logger:    log.New(w, "", 0),
	}
}

func newFallbackLogger(component string, err error) *Logger {
	l := NewWriterLogger(component, os.Stderr)
	l.logf(LevelWarn, "failed to initialize file logging, using stderr: %v", err)
	return l
}

func (l *Logger) logf(level Level, format string, v ...interface{}) {
	if !enabled(level) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) { l.logf(LevelInfo, format, v...) }

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) { l.logf(LevelWarn, format, v...) }

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

// RunID returns the ID shared by all loggers in this process.
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the log file path, or "" when not writing to a file.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetRunID returns the current process run ID.
func GetRunID() string {
	return getRunID()
}

// GetLogDirectory returns the directory where logs are stored.
func GetLogDirectory() (string, error) {
	if err := initLogDirectory(); err != nil {
		return "", err
	}
	return logDir, nil
}
