// Package session provides the durable reconnect flag, per-run scratch
// storage, and teardown classification for the wallet connection.
// The reconnect flag is the only state that survives a process restart:
// it records that a connection was approved, so the next run may silently
// reattach without prompting.
package session

import (
	"os"
	"syscall"
)

const (
	// FlagFileName is the fixed name of the reconnect flag file.
	FlagFileName = "reconnect.json"

	// ScratchFileName is the fixed name of the scratch storage file.
	ScratchFileName = "scratch.json"

	// filePermissions is the permission mode for session files.
	filePermissions = 0o600

	// dirPermissions is the permission mode for session directories.
	dirPermissions = 0o750
)

// EndKind classifies how a run is ending.
type EndKind int

const (
	// EndReload is a restart of the same logical session; the reconnect
	// flag survives so the next run may silently reattach.
	EndReload EndKind = iota

	// EndClose is a final teardown; the flag and scratch storage are
	// cleared so no silent reconnect happens on a future fresh run.
	EndClose
)

// String returns the end kind name.
func (k EndKind) String() string {
	if k == EndReload {
		return "reload"
	}
	return "close"
}

// EndClassifier decides whether a teardown is a reload or a close.
// It is a capability so tests can substitute a fixed classification.
type EndClassifier interface {
	Classify(sig os.Signal) EndKind
}

// SignalClassifier classifies teardown by the terminating signal:
// SIGHUP means a supervisor-driven reload, anything else is a close.
type SignalClassifier struct{}

// Classify implements EndClassifier.
func (SignalClassifier) Classify(sig os.Signal) EndKind {
	if sig == syscall.SIGHUP {
		return EndReload
	}
	return EndClose
}

// End applies teardown semantics: on a close, the reconnect flag and
// scratch storage are removed; on a reload both survive. Errors are
// returned for logging but teardown is best-effort.
func End(kind EndKind, flag *FlagStore, scratch *Scratch) error {
	if kind == EndReload {
		return nil
	}

	var firstErr error
	if flag != nil {
		if err := flag.Clear(); err != nil {
			firstErr = err
		}
	}
	if scratch != nil {
		if err := scratch.Clear(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
