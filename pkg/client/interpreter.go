package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fogswap/pkg/types"
)

var validate = validator.New()

// envelope is the common wrapper of every service response
type envelope struct {
	Result  json.RawMessage `json:"result"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type apiError struct {
	Message string `json:"message"`
}

// Wire payloads. Pointers let the validator tell a missing field from a
// zero value; every required field carries validate:"required".

type tokenInfoPayload struct {
	Token           *string `json:"token" validate:"required"`
	Network         *string `json:"network" validate:"required"`
	ContractAddress *string `json:"contract_address" validate:"required"`
	Image           *string `json:"image" validate:"required"`
	IsNative        *bool   `json:"is_native" validate:"required"`
}

type tokenListPayload struct {
	Network      *string            `json:"network" validate:"required"`
	NetworkImage *string            `json:"network_image" validate:"required"`
	Tokens       []tokenInfoPayload `json:"tokens" validate:"required,dive"`
}

type convertUsdPayload struct {
	From *decimal.Decimal `json:"from"`
	To   *decimal.Decimal `json:"to"`
}

type quotePayload struct {
	NetworkFrom         *string            `json:"network_from" validate:"required"`
	ContractAddressFrom *string            `json:"contract_address_from" validate:"required"`
	AmountFrom          *decimal.Decimal   `json:"amount_from" validate:"required"`
	NetworkTo           *string            `json:"network_to" validate:"required"`
	ContractAddressTo   *string            `json:"contract_address_to" validate:"required"`
	AmountTo            *decimal.Decimal   `json:"amount_to" validate:"required"`
	ConvertUsd          *convertUsdPayload `json:"convert_usd"`
	TxType              *types.TxType      `json:"tx_type" validate:"required"`
}

type transactionPayload struct {
	ID                  *string          `json:"id" validate:"required"`
	CreatedAt           *int64           `json:"created_at" validate:"required"`
	TxType              *types.TxType    `json:"tx_type" validate:"required"`
	NetworkFrom         *string          `json:"network_from" validate:"required"`
	ContractAddressFrom *string          `json:"contract_address_from" validate:"required"`
	ContractAddressTo   *string          `json:"contract_address_to" validate:"required"`
	NetworkTo           *string          `json:"network_to" validate:"required"`
	AmountFrom          *decimal.Decimal `json:"amount_from" validate:"required"`
	AmountTo            *decimal.Decimal `json:"amount_to" validate:"required"`
	PayinAddress        *string          `json:"payin_address" validate:"required"`
	PayinExtraID        *string          `json:"payin_extra_id"`
	PayinHash           *string          `json:"payin_hash"`
	PayoutAddress       *string          `json:"payout_address" validate:"required"`
	PayoutExtraID       *string          `json:"payout_extra_id"`
	PayoutHash          *string          `json:"payout_hash"`
	ConvertUsd          *decimal.Decimal `json:"convert_usd"`
	Status              *string          `json:"status" validate:"required"`
}

// interpret unwraps the envelope. It returns the raw result on success
// and a *Error of the given kind otherwise.
func interpret(kind ErrorKind, op string, status int, payload []byte) (json.RawMessage, error) {
	success := status >= 200 && status < 300

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		if !success {
			return nil, newError(kind, op, fmt.Sprintf("unexpected status code %d", status), err)
		}
		return nil, newError(kind, op, fmt.Sprintf("malformed response: %v", err), err)
	}

	if msg, ok := serverMessage(env.Error); ok {
		return nil, newError(kind, op, msg, nil)
	}

	if !success {
		if env.Message != "" {
			return nil, newError(kind, op, env.Message, nil)
		}
		return nil, newError(kind, op, fmt.Sprintf("unexpected status code %d", status), nil)
	}

	if isNull(env.Result) {
		return nil, newError(kind, op, "malformed response: missing result", nil)
	}

	return env.Result, nil
}

// serverMessage extracts the text of an embedded error. The service sends
// {"message": "..."}; a non-empty bare string is accepted too. Any other
// value (null, "", false, numbers) means no error.
func serverMessage(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}

	switch trimmed[0] {
	case '{':
		var e apiError
		if err := json.Unmarshal(trimmed, &e); err == nil && e.Message != "" {
			return e.Message, true
		}
		return "server returned an error", true
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decode unmarshals raw into dst and enforces required fields
func decode(kind ErrorKind, op string, raw json.RawMessage, dst interface{}) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return newError(kind, op, fmt.Sprintf("malformed response: %v", err), err)
	}
	return nil
}

func validateStruct(kind ErrorKind, op string, v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return newError(kind, op, fmt.Sprintf("malformed response: %v", err), err)
	}
	return nil
}

type namedAmount struct {
	name  string
	value decimal.Decimal
}

// checkAmounts reports the first negative amount in field order
func checkAmounts(kind ErrorKind, op string, amounts []namedAmount) error {
	for _, a := range amounts {
		if a.value.IsNegative() {
			return newError(kind, op, fmt.Sprintf("malformed response: %s is negative (%s)", a.name, a.value), nil)
		}
	}
	return nil
}

func parseTokenLists(op string, raw json.RawMessage) ([]types.TokenList, error) {
	const kind = KindGetAvailableCoins

	var payload []tokenListPayload
	if err := decode(kind, op, raw, &payload); err != nil {
		return nil, err
	}

	lists := make([]types.TokenList, 0, len(payload))
	for i := range payload {
		if err := validateStruct(kind, op, &payload[i]); err != nil {
			return nil, err
		}

		p := payload[i]
		list := types.TokenList{
			Network:      *p.Network,
			NetworkImage: *p.NetworkImage,
			Tokens:       make([]types.TokenInfo, 0, len(p.Tokens)),
		}
		for _, t := range p.Tokens {
			list.Tokens = append(list.Tokens, types.TokenInfo{
				Token:           *t.Token,
				Network:         *t.Network,
				ContractAddress: *t.ContractAddress,
				Image:           *t.Image,
				IsNative:        *t.IsNative,
			})
		}
		lists = append(lists, list)
	}

	return lists, nil
}

func parseQuote(op string, raw json.RawMessage) (*types.QuoteResponse, error) {
	const kind = KindGetEstimatedExchangeAmount

	var p quotePayload
	if err := decode(kind, op, raw, &p); err != nil {
		return nil, err
	}
	if err := validateStruct(kind, op, &p); err != nil {
		return nil, err
	}
	if err := checkAmounts(kind, op, []namedAmount{
		{"amount_from", *p.AmountFrom},
		{"amount_to", *p.AmountTo},
	}); err != nil {
		return nil, err
	}

	quote := &types.QuoteResponse{
		NetworkFrom:         *p.NetworkFrom,
		ContractAddressFrom: *p.ContractAddressFrom,
		AmountFrom:          *p.AmountFrom,
		NetworkTo:           *p.NetworkTo,
		ContractAddressTo:   *p.ContractAddressTo,
		AmountTo:            *p.AmountTo,
		TxType:              *p.TxType,
	}
	if p.ConvertUsd != nil {
		quote.ConvertUsd = types.ConvertUsd{From: p.ConvertUsd.From, To: p.ConvertUsd.To}
	}

	return quote, nil
}

func parseTransaction(kind ErrorKind, op string, raw json.RawMessage) (*types.TransactionInfo, error) {
	var p transactionPayload
	if err := decode(kind, op, raw, &p); err != nil {
		return nil, err
	}
	if err := validateStruct(kind, op, &p); err != nil {
		return nil, err
	}
	amounts := []namedAmount{
		{"amount_from", *p.AmountFrom},
		{"amount_to", *p.AmountTo},
	}
	if p.ConvertUsd != nil {
		amounts = append(amounts, namedAmount{"convert_usd", *p.ConvertUsd})
	}
	if err := checkAmounts(kind, op, amounts); err != nil {
		return nil, err
	}

	return &types.TransactionInfo{
		ID:                  *p.ID,
		CreatedAt:           *p.CreatedAt,
		TxType:              *p.TxType,
		NetworkFrom:         *p.NetworkFrom,
		ContractAddressFrom: *p.ContractAddressFrom,
		ContractAddressTo:   *p.ContractAddressTo,
		NetworkTo:           *p.NetworkTo,
		AmountFrom:          *p.AmountFrom,
		AmountTo:            *p.AmountTo,
		PayinAddress:        *p.PayinAddress,
		PayinExtraID:        p.PayinExtraID,
		PayinHash:           p.PayinHash,
		PayoutAddress:       *p.PayoutAddress,
		PayoutExtraID:       p.PayoutExtraID,
		PayoutHash:          p.PayoutHash,
		ConvertUsd:          p.ConvertUsd,
		Status:              *p.Status,
	}, nil
}
