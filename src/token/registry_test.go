package token

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestResolve(t *testing.T) {
	t.Run("symbol lookup is case-insensitive", func(t *testing.T) {
		for _, sym := range []string{"USDC", "usdc", "Usdc"} {
			tok, err := Resolve(1, sym)
			if err != nil {
				t.Fatalf("Resolve(1, %q): %v", sym, err)
			}
			if tok.Symbol != "USDC" || tok.Decimals != 6 {
				t.Errorf("Resolve(1, %q) = %+v", sym, tok)
			}
		}
	})

	t.Run("addresses come back lowercase", func(t *testing.T) {
		tok, err := Resolve(1, "WETH")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if tok.Address != strings.ToLower(tok.Address) {
			t.Errorf("address %s is not lowercase", tok.Address)
		}
	})

	t.Run("raw address resolves", func(t *testing.T) {
		tok, err := Resolve(1, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if tok.Address != "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" {
			t.Errorf("address = %s", tok.Address)
		}
	})

	t.Run("native alias maps to wrapped token", func(t *testing.T) {
		eth, err := Resolve(1, "ETH")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		weth, _ := Resolve(1, "WETH")
		if eth.Address != weth.Address {
			t.Error("ETH should resolve to the WETH contract")
		}

		xdai, err := Resolve(100, "XDAI")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		wxdai, _ := Resolve(100, "WXDAI")
		if xdai.Address != wxdai.Address {
			t.Error("XDAI should resolve to the WXDAI contract")
		}
	})

	t.Run("unknown symbol", func(t *testing.T) {
		if _, err := Resolve(1, "NOPE"); !errors.Is(err, ErrUnknownToken) {
			t.Errorf("expected ErrUnknownToken, got %v", err)
		}
	})

	t.Run("unknown chain", func(t *testing.T) {
		if _, err := Resolve(5, "USDC"); !errors.Is(err, ErrUnknownChain) {
			t.Errorf("expected ErrUnknownChain, got %v", err)
		}
	})
}

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{"whole usdc", "100", 6, "100000000", false},
		{"fractional usdc", "100.5", 6, "100500000", false},
		{"eighteen decimals", "1.5", 18, "1500000000000000000", false},
		{"smallest unit", "0.000001", 6, "1", false},
		{"too precise", "0.0000001", 6, "", true},
		{"zero", "0", 6, "", true},
		{"negative", "-1", 6, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToBaseUnits(decimal.RequireFromString(tc.amount), tc.decimals)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", got)
				}
				if !errors.Is(err, ErrBadAmount) {
					t.Errorf("expected ErrBadAmount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToBaseUnits: %v", err)
			}
			if got.String() != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestFromBaseUnits(t *testing.T) {
	got := FromBaseUnits(big.NewInt(100500000), 6)
	if !got.Equal(decimal.RequireFromString("100.5")) {
		t.Errorf("got %s, want 100.5", got)
	}
}

func TestRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("123.456789")
	raw, err := ToBaseUnits(amount, 18)
	if err != nil {
		t.Fatalf("ToBaseUnits: %v", err)
	}
	back := FromBaseUnits(raw, 18)
	if !back.Equal(amount) {
		t.Errorf("round trip %s -> %s", amount, back)
	}
}
