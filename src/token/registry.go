// Package token resolves token symbols to on-chain addresses and converts
// between human-readable amounts and base units.
package token

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Errors
var (
	ErrUnknownToken  = errors.New("unknown token")
	ErrUnknownChain  = errors.New("no token registry for chain")
	ErrBadAmount     = errors.New("invalid amount")
)

// Token describes an ERC-20 tradable through the protocol.
type Token struct {
	Symbol   string
	Address  string
	Decimals int32
}

// Built-in registries for the chains the protocol settles on. Addresses are
// stored lowercase; everything the registry hands out stays lowercase.
var registries = map[int64][]Token{
	1: {
		{Symbol: "WETH", Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Decimals: 18},
		{Symbol: "USDC", Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Decimals: 6},
		{Symbol: "USDT", Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Decimals: 6},
		{Symbol: "DAI", Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Decimals: 18},
		{Symbol: "WBTC", Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Decimals: 8},
		{Symbol: "COW", Address: "0xdef1ca1fb7fbcdc777520aa7f396b4e015f497ab", Decimals: 18},
	},
	100: {
		{Symbol: "WXDAI", Address: "0xe91d153e0b41518a2ce8dd3d7944fa863463a97d", Decimals: 18},
		{Symbol: "USDC", Address: "0xddafbb505ad214d7b80b1f830fccc89b60fb7a83", Decimals: 6},
		{Symbol: "WETH", Address: "0x6a023ccd1ff6f2045c3309768ead9e68f978f6e1", Decimals: 18},
		{Symbol: "COW", Address: "0x177127622c4a00f3d409b75571e12cb3c8973d3c", Decimals: 18},
	},
	42161: {
		{Symbol: "WETH", Address: "0x82af49447d8a07e3bd95bd0d56f35241523fbab1", Decimals: 18},
		{Symbol: "USDC", Address: "0xaf88d065e77c8cc2239327c5edb3a432268e5831", Decimals: 6},
		{Symbol: "USDT", Address: "0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", Decimals: 6},
		{Symbol: "DAI", Address: "0xda10009cbd5d07dd0cecc66161fc93d7c9000da1", Decimals: 18},
	},
	8453: {
		{Symbol: "WETH", Address: "0x4200000000000000000000000000000000000006", Decimals: 18},
		{Symbol: "USDC", Address: "0x833589fcd6edb6e08f4c7c32d4f71b54bda02913", Decimals: 6},
		{Symbol: "DAI", Address: "0x50c5725949a6f0c72e6c4a641f24049a917db0cb", Decimals: 18},
	},
	11155111: {
		{Symbol: "WETH", Address: "0xfff9976782d46cc05630d1f6ebab18b2324d6b14", Decimals: 18},
		{Symbol: "USDC", Address: "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238", Decimals: 6},
		{Symbol: "COW", Address: "0x0625afb445c3b6b7b929342a04a22599fd5dbb59", Decimals: 18},
	},
}

// aliases maps chain-native symbols to their wrapped, sellable form. The
// protocol only trades ERC-20s, so "100 ETH" means wrapped ether.
var aliases = map[string]string{
	"ETH":  "WETH",
	"XDAI": "WXDAI",
	"BTC":  "WBTC",
}

// Resolve looks up a token by symbol or by 0x address on the given chain.
func Resolve(chainID int64, symbolOrAddress string) (Token, error) {
	tokens, ok := registries[chainID]
	if !ok {
		return Token{}, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}

	needle := strings.TrimSpace(symbolOrAddress)
	if needle == "" {
		return Token{}, fmt.Errorf("%w: empty symbol", ErrUnknownToken)
	}

	if strings.HasPrefix(needle, "0x") || strings.HasPrefix(needle, "0X") {
		addr := strings.ToLower(needle)
		for _, t := range tokens {
			if t.Address == addr {
				return t, nil
			}
		}
		return Token{}, fmt.Errorf("%w: %s on chain %d", ErrUnknownToken, needle, chainID)
	}

	symbol := strings.ToUpper(needle)
	if wrapped, ok := aliases[symbol]; ok {
		symbol = wrapped
	}
	for _, t := range tokens {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("%w: %s on chain %d", ErrUnknownToken, symbolOrAddress, chainID)
}

// ToBaseUnits converts a human amount to the token's base units.
func ToBaseUnits(amount decimal.Decimal, decimals int32) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %s", ErrBadAmount, amount)
	}
	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", ErrBadAmount, amount, decimals)
	}
	return scaled.BigInt(), nil
}

// FromBaseUnits converts base units back to a human amount.
func FromBaseUnits(raw *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(raw, 0).Shift(-decimals)
}
