package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status <uid>",
	Short: "Show the status of a submitted order",
	Args:  cobra.ExactArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type orderStatusReply struct {
	UID        string    `json:"uid"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Wallet     string    `json:"wallet"`
	ChainID    int64     `json:"chain_id"`
	SellToken  string    `json:"sell_token"`
	BuyToken   string    `json:"buy_token"`
	SellAmount string    `json:"sell_amount"`
	BuyAmount  string    `json:"buy_amount"`
	ValidTo    int64     `json:"valid_to"`
	OrderID    string    `json:"order_id"`
	Reason     string    `json:"reason"`
}

func runStatus(cmd *cobra.Command, args []string) {
	serverURL := viper.GetString("server_url")

	resp, err := http.Get(fmt.Sprintf("%s/orders/%s", serverURL, args[0]))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		fmt.Println("\nOrder not found.")
		os.Exit(1)
	}
	if resp.StatusCode != http.StatusOK {
		printError(fmt.Errorf("server returned status %d", resp.StatusCode))
		os.Exit(1)
	}

	var reply orderStatusReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		printError(err)
		os.Exit(1)
	}

	fmt.Printf("\nOrder %s\n", color.CyanString(reply.UID))
	fmt.Printf("  Status:      %s\n", statusColor(reply.Status))
	fmt.Printf("  Wallet:      %s\n", reply.Wallet)
	fmt.Printf("  Chain:       %d\n", reply.ChainID)
	fmt.Printf("  Selling:     %s of %s\n", reply.SellAmount, reply.SellToken)
	fmt.Printf("  Buying:      %s of %s\n", reply.BuyAmount, reply.BuyToken)
	fmt.Printf("  Valid to:    %s\n", time.Unix(reply.ValidTo, 0).Format(time.RFC3339))
	if reply.OrderID != "" {
		fmt.Printf("  Protocol ID: %s\n", reply.OrderID)
	}
	if reply.Reason != "" {
		fmt.Printf("  Reason:      %s\n", reply.Reason)
	}
	fmt.Println()
}

func statusColor(status string) string {
	switch status {
	case "SUBMITTED":
		return color.GreenString(status)
	case "REJECTED":
		return color.RedString(status)
	case "EXPIRED":
		return color.YellowString(status)
	default:
		return status
	}
}
