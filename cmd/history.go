package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"fogswap/pkg/history"
	"fogswap/pkg/types"
)

var (
	refreshHistory bool
	removeEntry    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List swaps created from this machine",
	Long: `List the swaps created with "fogswap swap", newest first.

The stored status is what was last seen. Use --refresh to fetch the current
status of every unfinished swap from the service.

Examples:
  fogswap history
  fogswap history --refresh
  fogswap history --remove S7ZulO3j16`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVarP(&refreshHistory, "refresh", "r", false, "Refresh unfinished swaps from the service")
	historyCmd.Flags().StringVar(&removeEntry, "remove", "", "Remove a transaction from the local history")
}

func runHistory(cmd *cobra.Command, args []string) {
	asJSON := jsonOutput(cmd)

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

	if removeEntry != "" {
		if err := store.Delete(removeEntry); err != nil {
			printError(err)
			os.Exit(1)
		}
		printSuccess(fmt.Sprintf("Removed %s from history", removeEntry))
		return
	}

	records := store.List()

	if refreshHistory {
		for _, record := range records {
			if types.IsTerminalStatus(record.LastStatus) {
				continue
			}
			tx, err := apiClient.GetTransactionInfo(cmd.Context(), record.ID)
			if err != nil {
				if cmd.Context().Err() != nil {
					break
				}
				color.Yellow("Warning: could not refresh %s: %v", record.ID, err)
				continue
			}
			recordStatus(store, tx)
		}
		records = store.List()
	}

	if asJSON {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayHistory(records, store.FilePath())
}

func displayHistory(records []*history.Record, path string) {
	if len(records) == 0 {
		fmt.Printf("\nNo swaps recorded yet (%s).\n\n", path)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 100))
	color.Green("                                      SWAP HISTORY")
	fmt.Println(strings.Repeat("=", 100))
	fmt.Println()

	for _, r := range records {
		fmt.Printf("  %-12s  %s  %s %s/%s -> ~%s %s/%s  %s\n",
			color.CyanString(r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.AmountFrom, r.NetworkFrom, r.ContractAddressFrom,
			r.AmountTo, r.NetworkTo, r.ContractAddressTo,
			coloredStatus(r.LastStatus))
	}

	fmt.Println("\n" + strings.Repeat("=", 100))
	fmt.Printf("\nTotal: %d swaps\n\n", len(records))
}
