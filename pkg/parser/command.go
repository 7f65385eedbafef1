package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fogswap/pkg/types"
)

// <amount> <token>[@network] TO <token>[@network]
var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)(?:@([A-Z0-9_-]+))?\s+TO\s+([A-Z0-9]+)(?:@([A-Z0-9_-]+))?$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 SOL to USDC"
//   - "1.5 ETH to BTC"
//   - "100 USDC@eth to SOL"
func ParseSwapCommand(command string) (*types.SwapCommand, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")
	command = strings.Join(strings.Fields(command), " ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 SOL to USDC')")
	}

	amount, err := decimal.NewFromString(matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", matches[1], err)
	}

	cmd := &types.SwapCommand{
		Amount:        amount,
		SourceToken:   NormalizeTokenSymbol(matches[2]),
		SourceNetwork: strings.ToLower(matches[3]),
		DestToken:     NormalizeTokenSymbol(matches[4]),
		DestNetwork:   strings.ToLower(matches[5]),
	}
	if err := ValidateSwapCommand(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// ValidateSwapCommand validates that a swap command has all required fields
func ValidateSwapCommand(cmd *types.SwapCommand) error {
	if !cmd.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than 0")
	}
	if cmd.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if cmd.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	return nil
}

// NormalizeTokenSymbol normalizes token symbols to standard format
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))

	aliases := map[string]string{
		"WBTC": "BTC",
		"WETH": "ETH",
		"WSOL": "SOL",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}

// ResolveQuoteRequest turns a parsed command into quote parameters by
// looking up both tokens in the service's token lists
func ResolveQuoteRequest(cmd *types.SwapCommand, lists []types.TokenList) (types.QuoteRequest, error) {
	if err := ValidateSwapCommand(cmd); err != nil {
		return types.QuoteRequest{}, err
	}

	from, err := types.FindToken(lists, cmd.SourceToken, cmd.SourceNetwork)
	if err != nil {
		return types.QuoteRequest{}, fmt.Errorf("source token: %w", err)
	}
	to, err := types.FindToken(lists, cmd.DestToken, cmd.DestNetwork)
	if err != nil {
		return types.QuoteRequest{}, fmt.Errorf("destination token: %w", err)
	}

	req := types.QuoteRequest{
		AmountFrom:          cmd.Amount,
		NetworkFrom:         from.Network,
		ContractAddressFrom: from.ContractAddress,
		NetworkTo:           to.Network,
		ContractAddressTo:   to.ContractAddress,
	}
	req.Normalize()
	return req, nil
}
