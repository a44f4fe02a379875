// Package logging configures the shared structured logger.
//
// All diagnostic output goes to stderr as leveled key-value records so stdout
// stays reserved for report output. Subsystems attach a "sys" prefix via For.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Level:           log.WarnLevel,
})

// Init sets the global log level. Verbose enables debug records, which include
// every page decision the locator takes.
func Init(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
}

// For returns a logger scoped to the named subsystem.
func For(sys string) *log.Logger {
	return logger.With("sys", sys)
}
