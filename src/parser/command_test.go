package parser

import "testing"

func TestParseSwapCommand(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    SwapCommand
		wantErr bool
	}{
		{"basic", "swap 100 USDC to DAI", SwapCommand{"100", "USDC", "DAI"}, false},
		{"no swap prefix", "1.5 ETH to USDC", SwapCommand{"1.5", "ETH", "USDC"}, false},
		{"sell prefix", "sell 250 DAI into WETH", SwapCommand{"250", "DAI", "WETH"}, false},
		{"for connector", "swap 0.5 WETH for USDC", SwapCommand{"0.5", "WETH", "USDC"}, false},
		{"lowercase input", "swap 100 usdc to dai", SwapCommand{"100", "USDC", "DAI"}, false},
		{"extra whitespace", "  swap 100 USDC to DAI  ", SwapCommand{"100", "USDC", "DAI"}, false},
		{"address as token", "swap 5 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48 to DAI",
			SwapCommand{"5", "0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48", "DAI"}, false},
		{"same token", "swap 100 USDC to USDC", SwapCommand{}, true},
		{"missing amount", "swap USDC to DAI", SwapCommand{}, true},
		{"missing connector", "swap 100 USDC DAI", SwapCommand{}, true},
		{"empty", "", SwapCommand{}, true},
		{"garbage", "buy low sell high", SwapCommand{}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSwapCommand(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSwapCommand(%q): %v", tc.input, err)
			}
			if *got != tc.want {
				t.Errorf("got %+v, want %+v", *got, tc.want)
			}
		})
	}
}
