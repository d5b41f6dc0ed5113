package signing

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cowtrade/cowtrade/src/order/domain"
)

func samplePayload(chainID int64) domain.OrderPayload {
	return domain.OrderPayload{
		SellToken:         "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		BuyToken:          "0x6b175474e89094c44da98b954eedeac495271d0f",
		Receiver:          "0x1234567890123456789012345678901234567890",
		SellAmount:        "100000000",
		BuyAmount:         "99500000000000000000",
		ValidTo:           1893456000,
		AppData:           "0x0000000000000000000000000000000000000000000000000000000000000000",
		FeeAmount:         "0",
		Kind:              "sell",
		PartiallyFillable: false,
		SellTokenBalance:  "erc20",
		BuyTokenBalance:   "erc20",
		ChainID:           chainID,
	}
}

func TestDigest(t *testing.T) {
	t.Run("valid payload produces 32-byte digest", func(t *testing.T) {
		digest, err := Digest(1, samplePayload(1))
		if err != nil {
			t.Fatalf("Digest failed: %v", err)
		}
		if len(digest) != 32 {
			t.Errorf("expected 32-byte digest, got %d bytes", len(digest))
		}
	})

	t.Run("same payload produces same digest", func(t *testing.T) {
		d1, err1 := Digest(1, samplePayload(1))
		d2, err2 := Digest(1, samplePayload(1))
		if err1 != nil || err2 != nil {
			t.Fatalf("Digest failed: %v, %v", err1, err2)
		}
		if string(d1) != string(d2) {
			t.Error("same payload should produce same digest")
		}
	})

	t.Run("different sell amount produces different digest", func(t *testing.T) {
		p1 := samplePayload(1)
		p2 := samplePayload(1)
		p2.SellAmount = "100000001"

		d1, _ := Digest(1, p1)
		d2, _ := Digest(1, p2)
		if string(d1) == string(d2) {
			t.Error("changed sell amount should change the digest")
		}
	})

	t.Run("different chain produces different digest", func(t *testing.T) {
		d1, _ := Digest(1, samplePayload(1))
		d2, _ := Digest(100, samplePayload(100))
		if string(d1) == string(d2) {
			t.Error("different chain ids should produce different digests")
		}
	})

	t.Run("chain mismatch fails locally", func(t *testing.T) {
		_, err := Digest(1, samplePayload(100))
		if !errors.Is(err, ErrChainMismatch) {
			t.Errorf("expected ErrChainMismatch, got %v", err)
		}
	})

	t.Run("short appData is rejected", func(t *testing.T) {
		p := samplePayload(1)
		p.AppData = "0x1234"
		if _, err := Digest(1, p); err == nil {
			t.Error("expected error for appData shorter than 32 bytes")
		}
	})

	t.Run("non-numeric sell amount is rejected", func(t *testing.T) {
		p := samplePayload(1)
		p.SellAmount = "not-a-number"
		if _, err := Digest(1, p); err == nil {
			t.Error("expected error for non-numeric sell amount")
		}
	})
}

func TestLocalSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	keyHex := hexutil.Encode(crypto.FromECDSA(key))

	t.Run("signature recovers to signer address", func(t *testing.T) {
		signer, err := NewLocalSigner(keyHex, 1)
		if err != nil {
			t.Fatalf("NewLocalSigner: %v", err)
		}

		payload := samplePayload(1)
		signed, err := SignOrder(context.Background(), signer, payload)
		if err != nil {
			t.Fatalf("SignOrder: %v", err)
		}

		sig, err := hexutil.Decode(signed.Signature)
		if err != nil {
			t.Fatalf("decode signature: %v", err)
		}
		if len(sig) != 65 {
			t.Fatalf("expected 65-byte signature, got %d", len(sig))
		}

		digest, err := Digest(1, payload)
		if err != nil {
			t.Fatalf("Digest: %v", err)
		}

		recoverSig := make([]byte, 65)
		copy(recoverSig, sig)
		recoverSig[64] -= 27
		pub, err := crypto.SigToPub(digest, recoverSig)
		if err != nil {
			t.Fatalf("SigToPub: %v", err)
		}
		if got := crypto.PubkeyToAddress(*pub); got != crypto.PubkeyToAddress(key.PublicKey) {
			t.Errorf("recovered %s, want %s", got.Hex(), crypto.PubkeyToAddress(key.PublicKey).Hex())
		}
	})

	t.Run("signed order keeps the payload intact", func(t *testing.T) {
		signer, _ := NewLocalSigner(keyHex, 1)
		payload := samplePayload(1)
		signed, err := SignOrder(context.Background(), signer, payload)
		if err != nil {
			t.Fatalf("SignOrder: %v", err)
		}
		want := payload
		want.Normalize()
		if signed.Payload != want {
			t.Error("signed payload differs from the input payload")
		}
	})

	t.Run("declined confirmation aborts signing", func(t *testing.T) {
		signer, _ := NewLocalSigner(keyHex, 1)
		signer.Confirm = func() bool { return false }

		_, err := SignOrder(context.Background(), signer, samplePayload(1))
		if !errors.Is(err, ErrSignatureDeclined) {
			t.Errorf("expected ErrSignatureDeclined, got %v", err)
		}
	})

	t.Run("rejects key without 0x prefix or invalid hex", func(t *testing.T) {
		if _, err := NewLocalSigner("zzzz", 1); err == nil {
			t.Error("expected error for invalid key")
		}
	})
}
