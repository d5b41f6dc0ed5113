// Package parser turns chat-style swap commands into swap requests.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// SwapCommand is the parsed form of a chat swap instruction. Tokens are
// symbols or 0x addresses exactly as the user typed them, upper-cased.
type SwapCommand struct {
	Amount    string
	SellToken string
	BuyToken  string
}

var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+|0X[A-F0-9]{40})\s+(?:TO|FOR|INTO)\s+([A-Z0-9]+|0X[A-F0-9]{40})$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 100 USDC to DAI"
//   - "1.5 ETH for USDC"
//   - "sell 250 DAI into WETH"
func ParseSwapCommand(command string) (*SwapCommand, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")
	command = strings.TrimPrefix(command, "SELL ")
	command = strings.TrimSpace(command)

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 100 USDC to DAI')")
	}

	cmd := &SwapCommand{
		Amount:    matches[1],
		SellToken: matches[2],
		BuyToken:  matches[3],
	}
	if cmd.SellToken == cmd.BuyToken {
		return nil, fmt.Errorf("sell and buy token are the same: %s", cmd.SellToken)
	}
	return cmd, nil
}
