// Package logging writes console diagnostics to a rotating file. Stdout and
// stderr belong to the TUI, so nothing here may print to them.
package logging

import (
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// DevMode enables debug-level output.
var DevMode = os.Getenv("OPSDECK_DEV") == "1"

var logger = log.New(os.Stderr, "", log.LstdFlags)

// Init routes log output to path with rotation. Call once from main before
// the TUI takes over the terminal.
func Init(path string) {
	logger = log.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
		MaxAge:     14, // days
	}, "", log.LstdFlags)
}

// Debugf logs only when OPSDECK_DEV=1.
func Debugf(format string, args ...any) {
	if DevMode {
		logger.Printf("[DEBUG] "+format, args...)
	}
}

// Infof logs operational information.
func Infof(format string, args ...any) {
	logger.Printf("[INFO] "+format, args...)
}

// Errorf logs failures and defensive no-ops on invariant violations.
func Errorf(format string, args ...any) {
	logger.Printf("[ERROR] "+format, args...)
}
