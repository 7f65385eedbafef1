package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SwapCommand represents a user's swap command before token resolution
type SwapCommand struct {
	Amount        decimal.Decimal
	SourceToken   string
	DestToken     string
	SourceNetwork string
	DestNetwork   string
}

// QuoteRequest holds the parameters of a quote. The zero TxType is
// TxTypeStandard and UseXMR defaults to false.
type QuoteRequest struct {
	AmountFrom          decimal.Decimal
	NetworkFrom         string
	ContractAddressFrom string
	NetworkTo           string
	ContractAddressTo   string
	TxType              TxType
	UseXMR              bool
}

// Normalize trims identifiers and lower-cases networks. Contract
// addresses are case-sensitive and keep their case.
func (r *QuoteRequest) Normalize() {
	r.NetworkFrom = strings.ToLower(strings.TrimSpace(r.NetworkFrom))
	r.NetworkTo = strings.ToLower(strings.TrimSpace(r.NetworkTo))
	r.ContractAddressFrom = strings.TrimSpace(r.ContractAddressFrom)
	r.ContractAddressTo = strings.TrimSpace(r.ContractAddressTo)
}

// Validate checks that the request has all required fields
func (r *QuoteRequest) Validate() error {
	if !r.AmountFrom.IsPositive() {
		return fmt.Errorf("amount_from must be greater than 0, got %s", r.AmountFrom)
	}
	if r.NetworkFrom == "" {
		return fmt.Errorf("network_from is required")
	}
	if r.ContractAddressFrom == "" {
		return fmt.Errorf("contract_address_from is required")
	}
	if r.NetworkTo == "" {
		return fmt.Errorf("network_to is required")
	}
	if r.ContractAddressTo == "" {
		return fmt.Errorf("contract_address_to is required")
	}
	if !r.TxType.IsValid() {
		return fmt.Errorf("invalid tx type %d", int(r.TxType))
	}
	return nil
}

// CreateTransactionRequest holds the parameters of a new transaction. It
// embeds the quote parameters so both calls request the same pair.
type CreateTransactionRequest struct {
	QuoteRequest
	PayoutAddress string
	PayoutExtraID *string
}

// Normalize trims the request; a blank extra id is dropped
func (r *CreateTransactionRequest) Normalize() {
	r.QuoteRequest.Normalize()
	r.PayoutAddress = strings.TrimSpace(r.PayoutAddress)
	if r.PayoutExtraID != nil {
		extra := strings.TrimSpace(*r.PayoutExtraID)
		if extra == "" {
			r.PayoutExtraID = nil
		} else {
			r.PayoutExtraID = &extra
		}
	}
}

// Validate checks that the request has all required fields
func (r *CreateTransactionRequest) Validate() error {
	if err := r.QuoteRequest.Validate(); err != nil {
		return err
	}
	if r.PayoutAddress == "" {
		return fmt.Errorf("payout_address is required")
	}
	return nil
}
