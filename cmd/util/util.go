package util

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/datasync/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Supported values for the `--log-format` flag.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// SetupLogging configures the global logger. Debug events are only logged
// when `verbose` is set.
func SetupLogging(format string, verbose bool) error {
	switch format {
	case LogFormatText:
		log.SetFormatter(&log.TextFormatter{})
	case LogFormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return errors.NewFriendlyError("Unsupported log format %q. "+
			"Valid formats are %q and %q.", format, LogFormatText, LogFormatJSON)
	}

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

// HandleFatalError prints the error and exits. Friendly errors are printed
// without the context they were wrapped in, since they're meant for users.
func HandleFatalError(err error) {
	log.WithError(err).Debug("Fatal error")
	fmt.Fprintf(stderr, "Error: %s\n", errors.GetPrintableMessage(err))
	exit(1)
}

// HandlePanic logs the panic along with its stack trace, and exits. It must
// be deferred directly so that recover works.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Errorf("Unexpected panic: %v", r)
		exit(1)
	}
}
