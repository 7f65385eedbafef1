package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fogswap/pkg/address"
	"fogswap/pkg/history"
	"fogswap/pkg/types"
)

var (
	payoutAddr    string
	payoutExtraID string
	swapTxType    string
	swapPrivate   bool
	swapUseXMR    bool
	noConfirm     bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token>[@network] to <dest-token>[@network]",
	Short: "Create a swap transaction",
	Long: `Create a swap on the Fogswap service. The command shows a quote first,
then creates the transaction and prints the deposit address to send funds to.

IMPORTANT:
  - You MUST specify --payout-address (where you'll receive tokens)
  - Some networks also need --payout-extra-id (memo or destination tag)

Examples:
  fogswap swap 1 SOL to ETH --payout-address 0x5290...9EE7
  fogswap swap 100 USDC@eth to SOL --payout-address <solana-addr> --private
  fogswap swap 1 SOL to USDC@eth --payout-address 0x5290...9EE7 --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&payoutAddr, "payout-address", "", "Payout address (REQUIRED - where you'll receive tokens)")
	swapCmd.Flags().StringVar(&payoutExtraID, "payout-extra-id", "", "Memo or tag for the payout address (optional)")
	swapCmd.Flags().StringVar(&swapTxType, "type", "standard", "Transaction type: standard or private")
	swapCmd.Flags().BoolVar(&swapPrivate, "private", false, "Shorthand for --type private")
	swapCmd.Flags().BoolVar(&swapUseXMR, "xmr", false, "Use XMR for the privacy hop (with --private)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	asJSON := jsonOutput(cmd)
	ctx := cmd.Context()

	if strings.TrimSpace(payoutAddr) == "" {
		printError(fmt.Errorf("--payout-address is required"))
		os.Exit(1)
	}

	txType, err := txTypeFromFlags(swapTxType, swapPrivate)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, apiClient, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := history.NewStorage(cfg.HistoryFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	parsed, quoteReq, err := resolveSwap(ctx, apiClient, args, txType, swapUseXMR)
	var quote *types.QuoteResponse
	if err == nil {
		quote, err = apiClient.GetQuote(ctx, quoteReq)
	}
	if !asJSON {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if err := address.Validate(quoteReq.NetworkTo, payoutAddr); err != nil {
		printError(fmt.Errorf("payout address: %w", err))
		os.Exit(1)
	}

	if !asJSON {
		displayQuote(quote, parsed)
		if !noConfirm && !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	createReq := types.CreateTransactionRequest{
		QuoteRequest:  quoteReq,
		PayoutAddress: payoutAddr,
	}
	if payoutExtraID != "" {
		createReq.PayoutExtraID = &payoutExtraID
	}

	if !asJSON {
		s.Suffix = " Creating transaction..."
		s.Start()
	}
	tx, err := apiClient.CreateTransaction(ctx, createReq)
	if !asJSON {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// The transaction exists server-side; a history failure must not hide it
	if err := store.Create(history.NewRecord(tx)); err != nil {
		color.Yellow("\nWarning: could not record transaction in history: %v", err)
	}

	if asJSON {
		jsonData, _ := json.MarshalIndent(tx, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayDepositInstructions(tx, parsed)

	fmt.Println("You can monitor the swap status using:")
	color.Cyan("  fogswap status %s --watch\n", tx.ID)
}

func displayDepositInstructions(tx *types.TransactionInfo, parsed *types.SwapCommand) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("                 DEPOSIT INSTRUCTIONS")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Transaction ID:    %s\n", color.CyanString(tx.ID))
	fmt.Printf("  Status:            %s\n", coloredStatus(tx.Status))
	fmt.Printf("  You receive:       ~%s %s (%s)\n", tx.AmountTo, parsed.DestToken, tx.NetworkTo)
	fmt.Printf("  Payout Address:    %s\n", tx.PayoutAddress)

	fmt.Printf("\nTo complete the swap, send %s %s (%s) to:\n\n", tx.AmountFrom, parsed.SourceToken, tx.NetworkFrom)
	color.Cyan("  %s\n", tx.PayinAddress)

	if extra := tx.GetPayinExtraID(); extra != "" {
		fmt.Printf("\nMemo (REQUIRED): %s\n", color.MagentaString(extra))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
