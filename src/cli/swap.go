package cli

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	infraeth "github.com/cowtrade/cowtrade/src/Infrastructure/ethereum"
	"github.com/cowtrade/cowtrade/src/lifecycle"
	"github.com/cowtrade/cowtrade/src/order/domain"
	"github.com/cowtrade/cowtrade/src/parser"
	"github.com/cowtrade/cowtrade/src/protocol"
	"github.com/cowtrade/cowtrade/src/signing"
	"github.com/cowtrade/cowtrade/src/token"
)

var noConfirm bool

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token> to <token>",
	Short: "Swap tokens through the batch-auction protocol",
	Long: `Swap tokens by signing an off-chain order that solvers settle in the
next batch auction. The only on-chain transaction you may pay for is a
one-time ERC-20 approval of the vault relayer; the swap itself is gasless.

Examples:
  swapcli swap 100 USDC to DAI
  swapcli swap 1.5 WETH for USDC --chain-id 100
  swapcli swap 50 DAI to USDC --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompts")
}

func runSwap(cmd *cobra.Command, args []string) {
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	chainID := viper.GetInt64("chain_id")
	serverURL := viper.GetString("server_url")
	rpcURL := viper.GetString("rpc_url")
	privateKey := viper.GetString("private_key")

	if !protocol.SupportedChain(chainID) {
		printError(fmt.Errorf("chain id %d is not supported by the settlement protocol", chainID))
		os.Exit(1)
	}
	if rpcURL == "" {
		printError(fmt.Errorf("rpc_url is not configured (set COWTRADE_RPC_URL or --rpc-url)"))
		os.Exit(1)
	}
	if privateKey == "" {
		printError(fmt.Errorf("private_key is not configured (set COWTRADE_PRIVATE_KEY)"))
		os.Exit(1)
	}

	amount, err := decimal.NewFromString(swapReq.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		printError(fmt.Errorf("invalid amount: %s", swapReq.Amount))
		os.Exit(1)
	}

	sellTok, err := token.Resolve(chainID, swapReq.SellToken)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	buyTok, err := token.Resolve(chainID, swapReq.BuyToken)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	signer, err := signing.NewLocalSigner(privateKey, chainID)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !noConfirm {
		signer.Confirm = func() bool {
			return confirm(fmt.Sprintf("Sign order selling %s %s for at least some %s?",
				amount, sellTok.Symbol, buyTok.Symbol))
		}
	}

	ctx := context.Background()
	chain, err := infraeth.NewClient(ctx, infraeth.Config{
		RPCURL:     rpcURL,
		PrivateKey: privateKey,
		ChainID:    big.NewInt(chainID),
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer chain.Close()

	wallet := strings.ToLower(signer.Address())
	api := NewAPIClient(serverURL, wallet)

	fmt.Printf("\nSwapping %s %s for %s on chain %d\n",
		color.YellowString(amount.String()), sellTok.Symbol, buyTok.Symbol, chainID)
	fmt.Printf("Wallet: %s\n", color.CyanString(wallet))

	if !noConfirm && !confirm("Proceed with swap?") {
		fmt.Println("\nSwap cancelled.")
		os.Exit(0)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Start()

	runner := lifecycle.NewRunner(chain, api, signer, func(state lifecycle.State) {
		switch state {
		case lifecycle.StateCheckingApproval:
			s.Suffix = " Checking balance and allowance..."
		case lifecycle.StateApproving:
			s.Suffix = " Approving vault relayer..."
		case lifecycle.StateCreating:
			s.Suffix = " Fetching quote..."
		case lifecycle.StateSigning:
			s.Stop()
			fmt.Println()
		case lifecycle.StateSubmitting:
			s.Suffix = " Submitting order..."
			s.Restart()
		default:
			s.Stop()
		}
	})

	result, err := runner.Run(ctx, domain.SwapIntent{
		SellToken: swapReq.SellToken,
		BuyToken:  swapReq.BuyToken,
		AmountIn:  amount,
		ChainID:   chainID,
		Wallet:    wallet,
	})
	s.Stop()
	if err != nil {
		printFlowError(err)
		os.Exit(1)
	}

	if runner.Approved() && verbose {
		fmt.Printf("Approval tx: %s\n", color.CyanString(runner.ApprovalTx()))
	}

	buyRaw, ok := new(big.Int).SetString(result.Payload.BuyAmount, 10)
	if !ok {
		buyRaw = big.NewInt(0)
	}
	buyAmount := token.FromBaseUnits(buyRaw, buyTok.Decimals)
	color.Green("\n✓ Order submitted!")
	fmt.Printf("  Order ID:  %s\n", color.CyanString(result.OrderID))
	fmt.Printf("  Selling:   %s %s\n", amount, sellTok.Symbol)
	fmt.Printf("  Buying:    at least %s %s\n", buyAmount, buyTok.Symbol)
	fmt.Printf("  Valid to:  %s\n", time.Unix(int64(result.Payload.ValidTo), 0).Format(time.RFC3339))
	fmt.Println("\nSolvers will settle the order in an upcoming batch auction.")
}

func printFlowError(err error) {
	switch domain.KindOf(err) {
	case domain.ErrInsufficientBalance:
		color.Red("\nInsufficient balance: %v", err)
	case domain.ErrApprovalFailed:
		color.Red("\nApproval failed: %v", err)
	case domain.ErrSignatureDeclined:
		color.Yellow("\nSignature declined, order not submitted.")
	case domain.ErrSubmissionRejected:
		color.Red("\nOrder rejected: %v", err)
	default:
		printError(err)
	}
	fmt.Println()
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
