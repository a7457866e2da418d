package engine

import (
	"fmt"
	"log"
	"os"
)

// Logger receives every gameplay log line. Swap it in tests or tools.
var Logger = log.New(os.Stderr, "", log.LstdFlags)

// Logf logs an informational line, e.g. Logf("Rod: cast complete").
func Logf(format string, args ...any) {
	Logger.Printf(format, args...)
}

// Warnf logs a missing-collaborator or skipped-operation warning.
func Warnf(format string, args ...any) {
	Logger.Printf("WARN "+format, args...)
}

// Assert reports a precondition violation. Builds tagged dev panic;
// release builds log the failure and return false so the caller can skip
// the operation.
func Assert(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if assertionsPanic {
		panic("assertion failed: " + msg)
	}
	Logger.Printf("ASSERT %s", msg)
	return false
}
