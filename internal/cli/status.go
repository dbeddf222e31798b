package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/cache"
	"github.com/halverson/walletsync/internal/chain"
	"github.com/halverson/walletsync/internal/output"
	"github.com/halverson/walletsync/internal/wallet"
)

// statusCmd shows the current connection state.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wallet connection state",
	Long: `Show the current connection state. When a previous session left a
reconnect marker, the connection is restored silently first.

Example:
  walletsync status
  walletsync status -o json`,
	RunE: runStatus,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusResponse is the JSON shape of the status command.
type statusResponse struct {
	wallet.State

	Phase             string       `json:"phase"`
	Network           string       `json:"network,omitempty"`
	ProviderReachable bool         `json:"provider_reachable"`
	LastKnown         *cache.Entry `json:"last_known,omitempty"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, requestTimeout())
	defer cancel()

	deps, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	deps.resume(ctx)

	state := deps.Store.Snapshot()
	resp := statusResponse{
		State:             state,
		Phase:             state.Phase().String(),
		Network:           networkName(state.ChainID),
		ProviderReachable: deps.Provider != nil,
	}

	if state.Connected {
		deps.recordSnapshot(state)
	} else if entry, ok := deps.lastKnown(); ok {
		resp.LastKnown = entry
	}

	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	return printStatusText(cmd, resp)
}

// networkName resolves a decimal chain ID to its display name.
func networkName(chainID string) string {
	if chainID == "" {
		return ""
	}

	id, ok := new(big.Int).SetString(chainID, 10)
	if !ok {
		return ""
	}

	return chain.Network(id)
}

func printStatusText(cmd *cobra.Command, resp statusResponse) error {
	w := cmd.OutOrStdout()

	table := output.NewTable("FIELD", "VALUE")
	table.AddRow("phase", resp.Phase)

	if resp.Connected {
		table.AddRow("address", resp.Address)
		table.AddRow("chain", resp.ChainID)
		if resp.Network != "" {
			table.AddRow("network", resp.Network)
		}
		table.AddRow("balance", resp.Balance)
	}

	if resp.Err != "" {
		table.AddRow("error", resp.Err)
	}

	reachable := "no"
	if resp.ProviderReachable {
		reachable = "yes"
	}
	table.AddRow("provider", reachable)

	if resp.LastKnown != nil {
		table.AddRow("last known", fmt.Sprintf("%s on chain %s (%s, %s ago)",
			resp.LastKnown.Address,
			resp.LastKnown.ChainID,
			resp.LastKnown.Balance,
			resp.LastKnown.Age().Round(time.Second)))
	}

	return table.Render(w)
}

// printState renders a connection snapshot for connect and watch.
func printState(cmd *cobra.Command, state wallet.State) error {
	if formatter.IsJSON() {
		return writeJSON(cmd.OutOrStdout(), statusResponse{
			State:             state,
			Phase:             state.Phase().String(),
			Network:           networkName(state.ChainID),
			ProviderReachable: true,
		})
	}

	w := cmd.OutOrStdout()

	switch state.Phase() {
	case wallet.PhaseConnected:
		out(w, "Connected %s\n", state.Address)
		out(w, "  chain:   %s", state.ChainID)
		if name := networkName(state.ChainID); name != "" && name != "chain "+state.ChainID {
			out(w, " (%s)", name)
		}
		outln(w)
		out(w, "  balance: %s\n", state.Balance)
	case wallet.PhaseConnecting:
		outln(w, "Connecting...")
	case wallet.PhaseError:
		out(w, "Error: %s\n", state.Err)
	case wallet.PhaseDisconnected:
		outln(w, "Disconnected")
	}

	return nil
}
