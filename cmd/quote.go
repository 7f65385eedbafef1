package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fogswap/pkg/client"
	"fogswap/pkg/parser"
	"fogswap/pkg/types"
)

var (
	quoteTxType  string
	quotePrivate bool
	quoteUseXMR  bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token>[@network] to <dest-token>[@network]",
	Short: "Get an estimate for a swap without creating it",
	Long: `Ask the service how much of the destination token an amount would buy.
Quotes are estimates and do not reserve a rate.

Tokens are looked up by symbol. Add @network when the symbol exists on
more than one network.

Examples:
  fogswap quote 1 SOL to USDC
  fogswap quote 100 USDC@eth to SOL --private
  fogswap quote 0.1 BTC to ETH --private --xmr`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteTxType, "type", "standard", "Transaction type: standard or private")
	quoteCmd.Flags().BoolVar(&quotePrivate, "private", false, "Shorthand for --type private")
	quoteCmd.Flags().BoolVar(&quoteUseXMR, "xmr", false, "Use XMR for the privacy hop (with --private)")
}

func runQuote(cmd *cobra.Command, args []string) {
	asJSON := jsonOutput(cmd)

	_, apiClient, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	txType, err := txTypeFromFlags(quoteTxType, quotePrivate)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	parsed, req, err := resolveSwap(cmd.Context(), apiClient, args, txType, quoteUseXMR)
	var quote *types.QuoteResponse
	if err == nil {
		quote, err = apiClient.GetQuote(cmd.Context(), req)
	}
	if !asJSON {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if asJSON {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayQuote(quote, parsed)
}

// resolveSwap parses a swap command and resolves its tokens against the
// service's token list
func resolveSwap(ctx context.Context, apiClient *client.FogswapClient, args []string, txType types.TxType, useXMR bool) (*types.SwapCommand, types.QuoteRequest, error) {
	parsed, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, types.QuoteRequest{}, err
	}

	lists, err := apiClient.GetTokenList(ctx)
	if err != nil {
		return nil, types.QuoteRequest{}, err
	}

	req, err := parser.ResolveQuoteRequest(parsed, lists)
	if err != nil {
		return nil, types.QuoteRequest{}, fmt.Errorf("%w (try: fogswap list-tokens)", err)
	}
	req.TxType = txType
	req.UseXMR = useXMR

	return parsed, req, nil
}

// txTypeFromFlags combines --type with the --private shorthand
func txTypeFromFlags(typeFlag string, private bool) (types.TxType, error) {
	if private {
		return types.TxTypePrivate, nil
	}
	return types.ParseTxTypeFlag(typeFlag)
}

func displayQuote(quote *types.QuoteResponse, parsed *types.SwapCommand) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s (%s)\n", quote.AmountFrom, color.YellowString(parsed.SourceToken), quote.NetworkFrom)
	fmt.Printf("  To:                ~%s %s (%s)\n", quote.AmountTo, color.YellowString(parsed.DestToken), quote.NetworkTo)
	fmt.Printf("  Rate:              1 %s = %s %s\n", parsed.SourceToken, quote.Rate(), parsed.DestToken)
	fmt.Printf("  Type:              %s\n", quote.TxType)

	if quote.ConvertUsd.From != nil && quote.ConvertUsd.To != nil {
		fmt.Printf("  USD Value:         $%s -> $%s\n",
			quote.ConvertUsd.From.StringFixed(2), quote.ConvertUsd.To.StringFixed(2))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
