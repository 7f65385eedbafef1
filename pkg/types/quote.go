package types

import "github.com/shopspring/decimal"

// ConvertUsd holds the USD valuation of both legs of a quote. Either side
// may be missing when the service has no price for the token.
type ConvertUsd struct {
	From *decimal.Decimal `json:"from"`
	To   *decimal.Decimal `json:"to"`
}

// QuoteResponse is a non-binding estimate for a swap
type QuoteResponse struct {
	NetworkFrom         string          `json:"network_from"`
	ContractAddressFrom string          `json:"contract_address_from"`
	AmountFrom          decimal.Decimal `json:"amount_from"`
	NetworkTo           string          `json:"network_to"`
	ContractAddressTo   string          `json:"contract_address_to"`
	AmountTo            decimal.Decimal `json:"amount_to"`
	ConvertUsd          ConvertUsd      `json:"convert_usd"`
	TxType              TxType          `json:"tx_type"`
}

// Rate returns how many destination tokens one source token buys
func (q *QuoteResponse) Rate() decimal.Decimal {
	if q.AmountFrom.IsZero() {
		return decimal.Zero
	}
	return q.AmountTo.DivRound(q.AmountFrom, 8)
}
