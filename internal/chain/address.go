package chain

import (
	"github.com/ethereum/go-ethereum/common"

	wserr "github.com/halverson/walletsync/pkg/errors"
)

// IsValidAddress checks if the address is a valid Ethereum address format.
// This validates the format (40 hex chars with 0x prefix) but does not validate checksum.
func IsValidAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress validates an address and converts it to EIP-55 checksum format.
// Returns an error if the address is invalid.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", wserr.WithDetails(wserr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}
	return common.HexToAddress(address).Hex(), nil
}
