package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fogswap/pkg/types"
)

var (
	filterNetwork string
	filterSymbol  string
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List all supported tokens",
	Long: `List all tokens supported by the Fogswap API, grouped by network.

You can filter tokens by network or symbol.

Examples:
  fogswap list-tokens
  fogswap list-tokens --network sol
  fogswap list-tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterNetwork, "network", "", "Filter by network")
	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	asJSON := jsonOutput(cmd)

	_, apiClient, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		s.Suffix = " Fetching supported tokens..."
		s.Start()
	}

	lists, err := apiClient.GetTokenList(cmd.Context())
	if !asJSON {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	filtered := filterTokenLists(lists, filterNetwork, filterSymbol)

	if asJSON {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(filtered)
	}
}

// filterTokenLists keeps networks matching network and tokens whose
// symbol contains symbol. Networks left without tokens are dropped.
func filterTokenLists(lists []types.TokenList, network, symbol string) []types.TokenList {
	network = strings.TrimSpace(network)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	filtered := make([]types.TokenList, 0, len(lists))
	for _, list := range lists {
		if network != "" && !strings.EqualFold(list.Network, network) {
			continue
		}
		if symbol == "" {
			filtered = append(filtered, list)
			continue
		}

		var tokens []types.TokenInfo
		for _, token := range list.Tokens {
			if strings.Contains(strings.ToUpper(token.Token), symbol) {
				tokens = append(tokens, token)
			}
		}
		if len(tokens) > 0 {
			list.Tokens = tokens
			filtered = append(filtered, list)
		}
	}
	return filtered
}

func displayTokens(lists []types.TokenList) {
	total := types.CountTokens(lists)
	if total == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 90))

	// Networks keep the order the service returned them in
	for _, list := range lists {
		color.Cyan("\n%s", strings.ToUpper(list.Network))
		fmt.Println(strings.Repeat("-", 90))

		for _, token := range list.Tokens {
			address := token.ContractAddress
			if len(address) > 50 {
				address = address[:47] + "..."
			}

			kind := "token "
			if token.IsNativeAsset() {
				kind = "native"
			}

			fmt.Printf("  %-10s  %s  %s\n",
				color.YellowString(token.Token),
				kind,
				color.HiBlackString(address))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens across %d networks\n\n", total, len(lists))
}
