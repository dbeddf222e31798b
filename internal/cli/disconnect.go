package cli

import (
	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/output"
)

// disconnectCmd tears down the wallet connection.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect from the wallet",
	Long: `Clear the local connection state and session data, and ask the wallet
agent to revoke the account permission. Agents without revocation
support still disconnect locally.

Disconnecting while already disconnected is a no-op.

Example:
  walletsync disconnect`,
	RunE: runDisconnect,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(disconnectCmd)
}

func runDisconnect(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, requestTimeout())
	defer cancel()

	deps, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	if err = deps.Store.Disconnect(ctx); err != nil {
		return err
	}

	deps.clearSnapshots()

	return output.FormatSuccess(cmd.OutOrStdout(), "Disconnected", formatter.Format())
}
