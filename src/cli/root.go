// Package cli implements the chat-style swap command line client.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "swapcli",
	Short: "A CLI for swapping tokens through a batch-auction settlement protocol",
	Long: `swapcli turns chat-style instructions into signed settlement orders.
It checks your token allowance, approves the vault relayer when needed,
fetches a quote from the swap server, signs the order with your local key,
and submits it for inclusion in the next batch auction.

Examples:
  swapcli swap 100 USDC to DAI
  swapcli swap 1.5 WETH for USDC --chain-id 100
  swapcli status <uid>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cowtrade.yaml)")
	rootCmd.PersistentFlags().String("server-url", "http://localhost:8080", "Swap server base URL")
	rootCmd.PersistentFlags().String("rpc-url", "", "Ethereum JSON-RPC endpoint")
	rootCmd.PersistentFlags().Int64("chain-id", 1, "Chain id to trade on")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server-url"))
	_ = viper.BindPFlag("rpc_url", rootCmd.PersistentFlags().Lookup("rpc-url"))
	_ = viper.BindPFlag("chain_id", rootCmd.PersistentFlags().Lookup("chain-id"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".cowtrade")
		}
	}

	viper.SetEnvPrefix("COWTRADE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
