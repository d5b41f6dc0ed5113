// Package signing builds and signs the protocol's EIP-712 typed order data.
//
// The Order struct has twelve fields in a protocol-mandated sequence. The
// order book derives the order identifier as a hash over exactly these
// fields, so any change to field content, presence, or position yields a
// different identifier or an invalid signature.
package signing

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
)

// Errors
var (
	ErrChainMismatch = errors.New("eip712 domain chain does not match order chain")
	ErrBadPayload    = errors.New("order payload not encodable")
)

// orderFields is the wire contract: names, types, and sequence are fixed.
var orderFields = []apitypes.Type{
	{Name: "sellToken", Type: "address"},
	{Name: "buyToken", Type: "address"},
	{Name: "receiver", Type: "address"},
	{Name: "sellAmount", Type: "uint256"},
	{Name: "buyAmount", Type: "uint256"},
	{Name: "validTo", Type: "uint32"},
	{Name: "appData", Type: "bytes32"},
	{Name: "feeAmount", Type: "uint256"},
	{Name: "kind", Type: "string"},
	{Name: "partiallyFillable", Type: "bool"},
	{Name: "sellTokenBalance", Type: "string"},
	{Name: "buyTokenBalance", Type: "string"},
}

// Domain returns the protocol's EIP-712 domain for a chain. The settlement
// contract is the verifying contract on every supported chain.
func Domain(chainID int64) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              protocol.DomainName,
		Version:           protocol.DomainVersion,
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: protocol.SettlementAddress,
	}
}

// TypedOrder assembles the full typed-data structure for a payload, using the
// signer chain's domain. Fails if the payload targets a different chain.
func TypedOrder(chainID int64, p domain.OrderPayload) (apitypes.TypedData, error) {
	if p.ChainID != chainID {
		return apitypes.TypedData{}, fmt.Errorf("%w: domain %d, order %d", ErrChainMismatch, chainID, p.ChainID)
	}

	message, err := orderMessage(p)
	if err != nil {
		return apitypes.TypedData{}, err
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": orderFields,
		},
		PrimaryType: "Order",
		Domain:      Domain(chainID),
		Message:     message,
	}, nil
}

// Digest computes the EIP-712 digest for a payload:
// keccak256(0x19 0x01 || domainSeparator || structHash).
func Digest(chainID int64, p domain.OrderPayload) ([]byte, error) {
	typedData, err := TypedOrder(chainID, p)
	if err != nil {
		return nil, err
	}

	structHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("hash struct: %w", err)
	}
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("hash domain: %w", err)
	}

	rawData := []byte{0x19, 0x01}
	rawData = append(rawData, domainSeparator...)
	rawData = append(rawData, structHash...)
	return crypto.Keccak256(rawData), nil
}

func orderMessage(p domain.OrderPayload) (map[string]interface{}, error) {
	sellAmount, ok := new(big.Int).SetString(p.SellAmount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: sellAmount %q", ErrBadPayload, p.SellAmount)
	}
	buyAmount, ok := new(big.Int).SetString(p.BuyAmount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: buyAmount %q", ErrBadPayload, p.BuyAmount)
	}
	feeAmount, ok := new(big.Int).SetString(p.FeeAmount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: feeAmount %q", ErrBadPayload, p.FeeAmount)
	}
	appData, err := hexutil.Decode(p.AppData)
	if err != nil || len(appData) != 32 {
		return nil, fmt.Errorf("%w: appData %q", ErrBadPayload, p.AppData)
	}

	return map[string]interface{}{
		"sellToken":         strings.ToLower(p.SellToken),
		"buyToken":          strings.ToLower(p.BuyToken),
		"receiver":          strings.ToLower(p.Receiver),
		"sellAmount":        sellAmount,
		"buyAmount":         buyAmount,
		"validTo":           big.NewInt(int64(p.ValidTo)),
		"appData":           appData,
		"feeAmount":         feeAmount,
		"kind":              p.Kind,
		"partiallyFillable": p.PartiallyFillable,
		"sellTokenBalance":  p.SellTokenBalance,
		"buyTokenBalance":   p.BuyTokenBalance,
	}, nil
}
