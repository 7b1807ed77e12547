// ABOUTME: Entry point for the trainer CLI.
// ABOUTME: Maps error kinds onto the documented exit codes.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/harperreed/trainer/internal/config"
	"github.com/harperreed/trainer/internal/garmin"
	"github.com/harperreed/trainer/internal/plan"
	"github.com/harperreed/trainer/internal/zones"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitAuth      = 3
	exitRemote    = 4
	exitLocalFile = 5
)

func main() {
	os.Exit(run())
}

func run() int {
	err := Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(os.Stderr, err)
	return exitCode(err)
}

func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return exitUsage
	}

	var auth *garmin.AuthError
	if errors.As(err, &auth) {
		return exitAuth
	}

	var notFound *garmin.NotFoundError
	var rateLimit *garmin.RateLimitError
	var transport *garmin.TransportError
	if errors.As(err, &notFound) || errors.As(err, &rateLimit) || errors.As(err, &transport) {
		return exitRemote
	}

	var pathErr *fs.PathError
	var parseErr *plan.ParseError
	var kindErr *plan.UnknownKindError
	var repeatErr *plan.EmptyRepeatError
	var zoneErr *zones.UnknownZoneError
	var validation *config.ValidationError
	if errors.As(err, &pathErr) || errors.As(err, &parseErr) || errors.As(err, &kindErr) ||
		errors.As(err, &repeatErr) || errors.As(err, &zoneErr) || errors.As(err, &validation) {
		return exitLocalFile
	}

	return exitFailure
}

// usageError marks invalid command line arguments.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}
