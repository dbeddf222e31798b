package wallet

import (
	"context"
	"math/big"
)

// ChainReader reads chain data needed to populate a connection
// snapshot. *rpc.Client satisfies this interface.
type ChainReader interface {
	// ChainID returns the chain ID of the connected network.
	ChainID(ctx context.Context) (*big.Int, error)

	// GetBalance returns the balance of the address in the smallest
	// unit at the given block ("latest" for the current head).
	GetBalance(ctx context.Context, address, block string) (*big.Int, error)
}

// ReconnectFlag persists the "was connected" marker that survives a
// session reload. *session.FlagStore satisfies this interface.
type ReconnectFlag interface {
	// Set records that a session is connected.
	Set() error

	// IsSet reports whether a previous session left the marker.
	IsSet() bool

	// Clear removes the marker. Clearing an absent marker is not an
	// error.
	Clear() error
}

// ScratchStore clears session-scoped scratch data on teardown.
// *session.Scratch satisfies this interface.
type ScratchStore interface {
	Clear() error
}

// LogWriter writes log messages. *config.Logger satisfies this
// interface.
type LogWriter interface {
	// Debug logs a debug-level message.
	Debug(format string, args ...any)

	// Error logs an error-level message.
	Error(format string, args ...any)
}
