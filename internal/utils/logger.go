// Package utils holds small shared helpers, currently the operational file
// logger used by the server and the monitoring controller.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Logger writes timestamped lines to a log file, falling back to stdout
// when the file cannot be opened.
type Logger struct {
	writeFile *os.File
}

func defaultLogPath() string {
	return filepath.Join(os.TempDir(), "plantwatch", "plantwatch.log")
}

// NewLogger opens the given log file for appending. An empty path selects a
// default location under the system temp directory.
func NewLogger(logFile string) *Logger {
	logger := &Logger{}
	if logFile == "" {
		logFile = defaultLogPath()
	}

	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)

	var err error
	logger.writeFile, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening log file (%s): %v\n", logFile, err)
	}
	return logger
}

// Write appends a timestamped message to the log (or stdout when no file).
func (l *Logger) Write(message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("%s: %s\n", timestamp, message)
	if l.writeFile != nil {
		l.writeFile.WriteString(logMessage)
		l.writeFile.Sync()
	} else {
		fmt.Print(logMessage)
	}
}

// Close flushes and closes the underlying file handle.
func (l *Logger) Close() {
	if l.writeFile != nil {
		l.writeFile.Close()
	}
}
