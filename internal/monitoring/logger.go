// Package monitoring holds the diagnostic logger shared by the library
// packages. Binaries under cmd/ log through the standard log package.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// may be replaced by SetLogger, e.g. to mute rotation progress in tests.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Quiet reports whether verbose per-sample diagnostics should be skipped.
// Packages check it before formatting large messages.
var Quiet = false

// Warnf logs through Logf with a "warning: " prefix. Warnings are emitted
// even when Quiet is set.
func Warnf(format string, v ...interface{}) {
	Logf("warning: "+format, v...)
}

// Debugf logs through Logf unless Quiet is set.
func Debugf(format string, v ...interface{}) {
	if Quiet {
		return
	}
	Logf(format, v...)
}
