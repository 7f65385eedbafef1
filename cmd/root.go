package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"fogswap/config"
	"fogswap/pkg/client"
	"fogswap/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fogswap",
	Short: "A CLI for token swaps through the Fogswap exchange API",
	Long: `fogswap is a command-line tool for quoting and creating token swaps on the
Fogswap exchange service and following them until the payout is sent.

Examples:
  fogswap list-tokens --network sol
  fogswap quote 1 SOL to USDC@eth
  fogswap swap 1 SOL to ETH --payout-address 0x5290...9EE7
  fogswap status <transaction-id> --watch
  fogswap history --refresh`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.fogswap.yaml)")
}

// newLogger builds the logger from FOGSWAP_LOG_* and --verbose
func newLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	logCfg, err := logging.LoadConfig()
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logCfg.Level = logrus.DebugLevel.String()
	}
	return logging.New(logCfg)
}

// setup loads configuration and builds an API client for a command
func setup(cmd *cobra.Command) (*config.Config, *client.FogswapClient, error) {
	log, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"timeout":  cfg.Timeout,
	}).Debug("configuration loaded")

	apiClient := client.NewFogswapClient(
		client.WithBaseURL(cfg.BaseURL),
		client.WithTimeout(cfg.Timeout),
		client.WithUserAgent(cfg.UserAgent),
		client.WithLogger(log),
	)
	return cfg, apiClient, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
