package signing

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/protocol"
)

// ErrSignatureDeclined is returned when the signer refuses the prompt.
var ErrSignatureDeclined = errors.New("signature declined")

// Signer is the wallet boundary: something that knows its address and chain
// and can sign EIP-712 typed data. Passing it in explicitly keeps the order
// lifecycle testable without a real wallet.
type Signer interface {
	Address() string
	ChainID() int64
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)
}

// SignOrder signs the exact payload received from the quote builder. The
// payload is not touched beyond address lowercasing, which the protocol
// requires and which the server applies identically on submission.
func SignOrder(ctx context.Context, s Signer, p domain.OrderPayload) (*domain.SignedOrder, error) {
	typedData, err := TypedOrder(s.ChainID(), p)
	if err != nil {
		return nil, err
	}

	sig, err := s.SignTypedData(ctx, typedData)
	if err != nil {
		return nil, err
	}

	signed := &domain.SignedOrder{
		Payload:       p,
		Signature:     "0x" + common.Bytes2Hex(sig),
		SigningScheme: protocol.SigningScheme,
		From:          strings.ToLower(s.Address()),
	}
	signed.Normalize()
	return signed, nil
}

// LocalSigner signs with an in-process ECDSA key. It plays the wallet role
// for the CLI front end and for tests.
type LocalSigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    int64

	// Confirm, when set, is consulted before signing; returning false maps to
	// the user declining the wallet prompt.
	Confirm func() bool
}

func NewLocalSigner(privateKeyHex string, chainID int64) (*LocalSigner, error) {
	key := strings.TrimPrefix(privateKeyHex, "0x")
	privateKey, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &LocalSigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    chainID,
	}, nil
}

func (s *LocalSigner) Address() string { return s.address.Hex() }

func (s *LocalSigner) ChainID() int64 { return s.chainID }

func (s *LocalSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if s.Confirm != nil && !s.Confirm() {
		return nil, ErrSignatureDeclined
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
	digest := crypto.Keccak256(rawData)

	sig, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("sign digest: %w", err)
	}

	// Recovery id 0/1 becomes 27/28 on the wire
	sig[64] += 27
	return sig, nil
}
