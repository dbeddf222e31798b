package cli

import (
	"math/big"
	"sort"

	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/chain"
	"github.com/halverson/walletsync/internal/output"
)

// networksCmd lists the chains walletsync knows by name.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List known networks",
	Long: `List the chain IDs walletsync resolves to network names. Connections
on other chains still work; they display the raw chain ID instead.

Example:
  walletsync networks
  walletsync networks -o json`,
	RunE: runNetworks,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, _ []string) error {
	ids := chain.KnownChainIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if formatter.IsJSON() {
		type networkEntry struct {
			ChainID uint64 `json:"chain_id"`
			Name    string `json:"name"`
		}

		entries := make([]networkEntry, len(ids))
		for i, id := range ids {
			entries[i] = networkEntry{
				ChainID: id,
				Name:    chain.Network(new(big.Int).SetUint64(id)),
			}
		}

		return writeJSON(cmd.OutOrStdout(), entries)
	}

	table := output.NewTable("CHAIN ID", "NETWORK")
	for _, id := range ids {
		table.AddRow(new(big.Int).SetUint64(id).String(), chain.Network(new(big.Int).SetUint64(id)))
	}

	return table.Render(cmd.OutOrStdout())
}
