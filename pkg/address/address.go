// Package address performs offline sanity checks on payout addresses
// before a transaction is created. Networks it does not know are
// accepted and left for the service to judge.
package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// Family groups networks that share an address format
type Family string

const (
	FamilyUnknown Family = ""
	FamilyEVM     Family = "evm"
	FamilySolana  Family = "solana"
	FamilyBitcoin Family = "bitcoin"
)

var networkFamilies = map[string]Family{
	"eth":      FamilyEVM,
	"bsc":      FamilyEVM,
	"arb":      FamilyEVM,
	"arbitrum": FamilyEVM,
	"base":     FamilyEVM,
	"op":       FamilyEVM,
	"optimism": FamilyEVM,
	"polygon":  FamilyEVM,
	"matic":    FamilyEVM,
	"avax":     FamilyEVM,
	"avaxc":    FamilyEVM,
	"sol":      FamilySolana,
	"solana":   FamilySolana,
	"btc":      FamilyBitcoin,
	"bitcoin":  FamilyBitcoin,
}

// FamilyOf returns the address family of a network
func FamilyOf(network string) Family {
	return networkFamilies[strings.ToLower(strings.TrimSpace(network))]
}

// Validate checks that addr looks like a valid address on network
func Validate(network, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("address is required")
	}

	switch FamilyOf(network) {
	case FamilyEVM:
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address: %s", network, addr)
		}
	case FamilySolana:
		if _, err := solana.PublicKeyFromBase58(addr); err != nil {
			return fmt.Errorf("invalid %s address: %w", network, err)
		}
	case FamilyBitcoin:
		decoded, err := btcutil.DecodeAddress(addr, &chaincfg.MainNetParams)
		if err != nil {
			return fmt.Errorf("invalid %s address: %w", network, err)
		}
		if !decoded.IsForNet(&chaincfg.MainNetParams) {
			return fmt.Errorf("invalid %s address: not a mainnet address", network)
		}
	}
	return nil
}
