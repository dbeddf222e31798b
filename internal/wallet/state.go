// Package wallet tracks the connection between a local session and a
// browser wallet provider. The Store holds the current connection state
// and serializes every mutation; the Bridge feeds provider events into
// the Store so the state keeps following the wallet after the initial
// connect.
package wallet

// Phase is the coarse lifecycle position derived from a State snapshot.
type Phase int

// Connection phases.
const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseError
)

// String returns the phase name for logs and output.
func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseError:
		return "error"
	default:
		return "disconnected"
	}
}

// State is an immutable snapshot of the wallet connection. The zero
// value is the disconnected state.
type State struct {
	// Address is the active account in EIP-55 checksummed form, empty
	// when disconnected.
	Address string `json:"address,omitempty"`

	// Connected reports whether a session is currently established.
	Connected bool `json:"connected"`

	// Connecting reports whether a connect attempt is in flight.
	// Connected and Connecting are never both true.
	Connecting bool `json:"connecting"`

	// Err holds the user-facing message of the last failed connect
	// attempt, empty otherwise.
	Err string `json:"error,omitempty"`

	// ChainID is the active chain ID in decimal form, empty when
	// disconnected.
	ChainID string `json:"chain_id,omitempty"`

	// Balance is the active account's balance in whole-coin units,
	// truncated to four decimal places, empty when disconnected.
	Balance string `json:"balance,omitempty"`
}

// Phase derives the lifecycle phase from the snapshot.
func (s State) Phase() Phase {
	switch {
	case s.Connecting:
		return PhaseConnecting
	case s.Connected:
		return PhaseConnected
	case s.Err != "":
		return PhaseError
	default:
		return PhaseDisconnected
	}
}
