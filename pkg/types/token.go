package types

import (
	"fmt"
	"strings"
)

// TokenInfo describes a single token supported by the service
type TokenInfo struct {
	Token           string `json:"token"`
	Network         string `json:"network"`
	ContractAddress string `json:"contract_address"` // case-sensitive; native assets use their symbol
	Image           string `json:"image"`
	IsNative        bool   `json:"is_native"`
}

// nativeSymbols maps a network to the symbol the service uses as the
// contract address of its native asset
var nativeSymbols = map[string]string{
	"btc":     "BTC",
	"eth":     "ETH",
	"arb":     "ETH",
	"base":    "ETH",
	"op":      "ETH",
	"bsc":     "BNB",
	"polygon": "POL",
	"avax":    "AVAX",
	"sol":     "SOL",
	"xmr":     "XMR",
	"ltc":     "LTC",
	"doge":    "DOGE",
	"trx":     "TRX",
	"ton":     "TON",
}

// NativeSymbol returns the native asset symbol of a network, if known
func NativeSymbol(network string) (string, bool) {
	symbol, ok := nativeSymbols[strings.ToLower(strings.TrimSpace(network))]
	return symbol, ok
}

// IsNativeAsset reports whether the token is the chain's native asset:
// either flagged by the service, or its contract address equals the
// network's upper-case native symbol (e.g. "SOL" on sol).
func (t TokenInfo) IsNativeAsset() bool {
	if t.IsNative {
		return true
	}
	symbol, ok := NativeSymbol(t.Network)
	return ok && t.ContractAddress == symbol
}

// TokenList groups the tokens of one network
type TokenList struct {
	Network      string      `json:"network"`
	NetworkImage string      `json:"network_image"`
	Tokens       []TokenInfo `json:"tokens"`
}

// CountTokens returns the number of tokens across all lists
func CountTokens(lists []TokenList) int {
	total := 0
	for _, l := range lists {
		total += len(l.Tokens)
	}
	return total
}

// FindToken searches for a token by symbol. When network is empty every
// network is searched; exact symbol matches win over partial ones.
func FindToken(lists []TokenList, symbol, network string) (*TokenInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	network = strings.ToLower(strings.TrimSpace(network))
	if symbol == "" {
		return nil, fmt.Errorf("token symbol is required")
	}

	var partial *TokenInfo
	for i := range lists {
		if network != "" && strings.ToLower(lists[i].Network) != network {
			continue
		}
		for j := range lists[i].Tokens {
			token := &lists[i].Tokens[j]
			name := strings.ToUpper(token.Token)
			if name == symbol {
				return token, nil
			}
			if partial == nil && strings.Contains(name, symbol) {
				partial = token
			}
		}
	}

	if partial != nil {
		return partial, nil
	}
	if network != "" {
		return nil, fmt.Errorf("token '%s' not found on network '%s'", symbol, network)
	}
	return nil, fmt.Errorf("token '%s' not found", symbol)
}
