// Package chain provides chain identification and amount utilities.
package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	wserr "github.com/halverson/walletsync/pkg/errors"
)

// Decimals is the number of decimals for the native ETH unit (wei).
const Decimals = 18

// BalancePlaces is the number of fractional digits shown for balances.
const BalancePlaces = 4

// Well-known chain ids.
var networkNames = map[uint64]string{
	1:        "mainnet",
	5:        "goerli",
	10:       "optimism",
	56:       "bsc",
	137:      "polygon",
	8453:     "base",
	42161:    "arbitrum",
	11155111: "sepolia",
}

// Network returns a human-readable name for a chain id.
// Unknown ids render as "chain <id>".
func Network(id *big.Int) string {
	if id == nil {
		return "unknown"
	}
	if id.IsUint64() {
		if name, ok := networkNames[id.Uint64()]; ok {
			return name
		}
	}
	return "chain " + id.String()
}

// KnownChainIDs returns the chain ids with a known network name, in no
// particular order.
func KnownChainIDs() []uint64 {
	ids := make([]uint64, 0, len(networkNames))
	for id := range networkNames {
		ids = append(ids, id)
	}
	return ids
}

// ParseHexChainID parses a hex-encoded chain id string ("0x1") as pushed
// by provider chainChanged notifications.
func ParseHexChainID(s string) (*big.Int, error) {
	if s == "" {
		return nil, wserr.ErrInvalidChainID
	}

	id, err := hexutil.DecodeBig(s)
	if err != nil {
		return nil, wserr.WithDetails(wserr.ErrInvalidChainID, map[string]string{
			"value": s,
		})
	}

	return id, nil
}
