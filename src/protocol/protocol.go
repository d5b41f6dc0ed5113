// Package protocol holds the batch-auction protocol constants shared between
// the server-side order construction and the client-side signing/approval
// paths. The settlement and vault-relayer contracts are deployed at the same
// address on every supported chain.
package protocol

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrUnsupportedChain = errors.New("chain not supported by the protocol")
)

const (
	// SettlementAddress verifies order signatures and executes matched batches.
	SettlementAddress = "0x9008d19f58aabd9ed0d60971565aa8510560ab41"
	// VaultRelayerAddress pulls sell tokens on the protocol's behalf; it is
	// the spender for every ERC-20 approval.
	VaultRelayerAddress = "0xc92e8bdf79f0507f65a392b0ab4667716bfe0110"

	DomainName    = "Gnosis Protocol"
	DomainVersion = "v2"

	OrderKindSell = "sell"
	BalanceERC20  = "erc20"
	SigningScheme = "eip712"
	EmptyAppData  = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// networkSlugs maps chain ids to the order-book API path segment.
var networkSlugs = map[int64]string{
	1:        "mainnet",
	100:      "xdai",
	42161:    "arbitrum_one",
	8453:     "base",
	11155111: "sepolia",
}

// NetworkSlug returns the order-book API network segment for a chain id.
func NetworkSlug(chainID int64) (string, error) {
	slug, ok := networkSlugs[chainID]
	if !ok {
		return "", fmt.Errorf("%w: chain id %d", ErrUnsupportedChain, chainID)
	}
	return slug, nil
}

// SupportedChain reports whether the protocol settles trades on the chain.
func SupportedChain(chainID int64) bool {
	_, ok := networkSlugs[chainID]
	return ok
}
