package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Statuses after which the service no longer changes a transaction
var terminalStatuses = map[string]bool{
	"finished": true,
	"failed":   true,
	"refunded": true,
	"expired":  true,
	"overdue":  true,
}

// TransactionInfo is the server-side state of a swap transaction.
// Pointer fields are nil until the corresponding event happened.
type TransactionInfo struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
	TxType    TxType `json:"tx_type"`

	NetworkFrom         string `json:"network_from"`
	ContractAddressFrom string `json:"contract_address_from"`

	ContractAddressTo string `json:"contract_address_to"`
	NetworkTo         string `json:"network_to"`

	AmountFrom decimal.Decimal `json:"amount_from"`
	AmountTo   decimal.Decimal `json:"amount_to"`

	PayinAddress string  `json:"payin_address"`
	PayinExtraID *string `json:"payin_extra_id,omitempty"`
	PayinHash    *string `json:"payin_hash,omitempty"`

	PayoutAddress string  `json:"payout_address"`
	PayoutExtraID *string `json:"payout_extra_id,omitempty"`
	PayoutHash    *string `json:"payout_hash,omitempty"`

	ConvertUsd *decimal.Decimal `json:"convert_usd,omitempty"`

	Status string `json:"status"`
}

// CreatedTime converts CreatedAt to a time. Millisecond timestamps are
// detected by magnitude.
func (t *TransactionInfo) CreatedTime() time.Time {
	if t.CreatedAt > 1e12 {
		return time.UnixMilli(t.CreatedAt)
	}
	return time.Unix(t.CreatedAt, 0)
}

// IsTerminal reports whether the status is a known final one. Unknown
// statuses are treated as still in progress.
func (t *TransactionInfo) IsTerminal() bool {
	return IsTerminalStatus(t.Status)
}

// IsTerminalStatus reports whether status is a known final status
func IsTerminalStatus(status string) bool {
	return terminalStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// HasPayinHash returns true once the deposit was observed on-chain
func (t *TransactionInfo) HasPayinHash() bool {
	return t.PayinHash != nil
}

// GetPayinHash returns the deposit hash or an empty string
func (t *TransactionInfo) GetPayinHash() string {
	if t.PayinHash == nil {
		return ""
	}
	return *t.PayinHash
}

// HasPayoutHash returns true once the payout was sent
func (t *TransactionInfo) HasPayoutHash() bool {
	return t.PayoutHash != nil
}

// GetPayoutHash returns the payout hash or an empty string
func (t *TransactionInfo) GetPayoutHash() string {
	if t.PayoutHash == nil {
		return ""
	}
	return *t.PayoutHash
}

// GetPayinExtraID returns the deposit memo/tag or an empty string
func (t *TransactionInfo) GetPayinExtraID() string {
	if t.PayinExtraID == nil {
		return ""
	}
	return *t.PayinExtraID
}
