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

	"fogswap/pkg/history"
	"fogswap/pkg/types"
)

var (
	watchStatus   bool
	watchInterval time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status <transaction-id>",
	Short: "Check the status of a swap",
	Long: `Check the status of a swap transaction by its id.

With --watch the status is polled until the transaction reaches a final
status (finished, failed, refunded, expired, overdue) or Ctrl+C is pressed.

Examples:
  fogswap status S7ZulO3j16
  fogswap status S7ZulO3j16 --watch
  fogswap status S7ZulO3j16 --watch --interval 10s`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until the swap completes")
	statusCmd.Flags().DurationVar(&watchInterval, "interval", 5*time.Second, "Polling interval (when watching)")
}

// transactionFetcher is the part of the API client status polling needs
type transactionFetcher interface {
	GetTransactionInfo(ctx context.Context, id string) (*types.TransactionInfo, error)
}

func runStatus(cmd *cobra.Command, args []string) {
	id := args[0]
	asJSON := jsonOutput(cmd)

	cfg, apiClient, err := setup(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// History is best effort; status works for transactions created elsewhere
	store, err := history.NewStorage(cfg.HistoryFile)
	if err != nil {
		color.Yellow("Warning: history unavailable: %v", err)
		store = nil
	}

	if watchStatus {
		if asJSON {
			fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
			os.Exit(1)
		}
		if watchInterval <= 0 {
			printError(fmt.Errorf("--interval must be positive"))
			os.Exit(1)
		}

		fmt.Printf("\nWatching swap status (Transaction ID: %s)\n", color.CyanString(id))
		fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n", watchInterval)

		tx, err := pollTransaction(cmd.Context(), apiClient, id, watchInterval, func(tx *types.TransactionInfo, err error) {
			if err != nil {
				color.Red("Error: %v", err)
				return
			}
			recordStatus(store, tx)
			displayStatus(tx)
		})
		if err != nil {
			fmt.Println("\nStopped watching.")
			return
		}
		printSuccess(fmt.Sprintf("Swap reached final status: %s", coloredStatus(tx.Status)))
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !asJSON {
		s.Suffix = " Checking swap status..."
		s.Start()
	}

	tx, err := apiClient.GetTransactionInfo(cmd.Context(), id)
	if !asJSON {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	recordStatus(store, tx)

	if asJSON {
		jsonData, _ := json.MarshalIndent(tx, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(tx)
	}
}

// pollTransaction fetches the transaction every interval until it reaches
// a terminal status or ctx is done. Fetch errors are reported to onUpdate
// and polling continues. The last successfully fetched state is returned
// together with ctx.Err() when polling was interrupted.
func pollTransaction(ctx context.Context, api transactionFetcher, id string, interval time.Duration, onUpdate func(*types.TransactionInfo, error)) (*types.TransactionInfo, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last *types.TransactionInfo
	for {
		tx, err := api.GetTransactionInfo(ctx, id)
		if ctx.Err() != nil {
			return last, ctx.Err()
		}
		onUpdate(tx, err)
		if err == nil {
			last = tx
			if tx.IsTerminal() {
				return tx, nil
			}
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

func recordStatus(store *history.Storage, tx *types.TransactionInfo) {
	if store == nil {
		return
	}
	if _, err := store.Observe(tx); err != nil {
		color.Yellow("Warning: could not update history: %v", err)
	}
}

func displayStatus(tx *types.TransactionInfo) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SWAP STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Transaction ID:  %s\n", color.CyanString(tx.ID))
	fmt.Printf("  Status:          %s\n", coloredStatus(tx.Status))
	fmt.Printf("  Type:            %s\n", tx.TxType)
	fmt.Printf("  Created:         %s\n", tx.CreatedTime().Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Amount In:       %s %s (%s)\n", tx.AmountFrom, tx.ContractAddressFrom, tx.NetworkFrom)
	fmt.Printf("  Amount Out:      ~%s %s (%s)\n", tx.AmountTo, tx.ContractAddressTo, tx.NetworkTo)
	fmt.Printf("  Deposit Address: %s\n", tx.PayinAddress)
	if extra := tx.GetPayinExtraID(); extra != "" {
		fmt.Printf("  Deposit Memo:    %s\n", color.MagentaString(extra))
	}
	fmt.Printf("  Payout Address:  %s\n", tx.PayoutAddress)

	if tx.HasPayinHash() {
		fmt.Printf("  Deposit Tx:      %s\n", color.HiBlackString(tx.GetPayinHash()))
	}
	if tx.HasPayoutHash() {
		fmt.Printf("  Payout Tx:       %s\n", color.HiBlackString(tx.GetPayoutHash()))
	}
	if tx.ConvertUsd != nil {
		fmt.Printf("  USD Value:       $%s\n", tx.ConvertUsd.StringFixed(2))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredStatus(status string) string {
	upper := strings.ToUpper(status)

	switch strings.ToLower(status) {
	case "finished":
		return color.GreenString(upper)
	case "waiting", "confirming", "exchanging", "sending":
		return color.YellowString(upper)
	case "failed", "refunded", "expired", "overdue":
		return color.RedString(upper)
	default:
		return upper
	}
}
