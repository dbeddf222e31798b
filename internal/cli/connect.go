package cli

import (
	"github.com/spf13/cobra"

	walleterr "github.com/halverson/walletsync/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var connectYes bool

// connectCmd establishes a wallet connection.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the wallet",
	Long: `Request account access from the wallet agent and populate the
connection state with the active account, chain, and balance.

The wallet side shows its own approval prompt. Declining it leaves
walletsync disconnected with the rejection recorded.

Example:
  walletsync connect
  walletsync connect --yes -o json`,
	RunE: runConnect,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().BoolVarP(&connectYes, "yes", "y", false, "skip the local confirmation prompt")
}

func runConnect(cmd *cobra.Command, _ []string) error {
	if !connectYes && !promptConnectConfirmation(cmd) {
		return walleterr.WithSuggestion(
			walleterr.ErrInvalidInput,
			"connection aborted; re-run with --yes to skip the prompt",
		)
	}

	ctx, cancel := contextWithTimeout(cmd, requestTimeout())
	defer cancel()

	deps, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	if err = deps.Store.Connect(ctx); err != nil {
		return err
	}

	state := deps.Store.Snapshot()
	deps.recordSnapshot(state)

	return printState(cmd, state)
}
