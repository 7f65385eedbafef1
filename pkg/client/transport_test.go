package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fogswap/internal/fogswaptest"
	"fogswap/pkg/types"
)

func TestHTTPTransportQueryEncoding(t *testing.T) {
	srv := fogswaptest.New()
	defer srv.Close()

	srv.RespondResult(http.MethodGet, quotePath, map[string]interface{}{
		"network_from": "sol", "contract_address_from": "SOL", "amount_from": 1.0,
		"network_to": "sol", "contract_address_to": "SOL", "amount_to": 0.98,
		"convert_usd": map[string]interface{}{"from": 150.0, "to": 147.0},
		"tx_type": "private",
	})

	c := NewFogswapClient(WithBaseURL(srv.BaseURL()), WithUserAgent("fogswap-test/1.0"))
	quote, err := c.GetQuote(context.Background(), solQuoteRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TxType != types.TxTypePrivate {
		t.Errorf("tx_type = %v", quote.TxType)
	}

	req, ok := srv.LastRequest()
	if !ok {
		t.Fatal("no request recorded")
	}
	if req.Method != http.MethodGet || req.Path != "/v1/transaction/quote" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}

	wantQuery := map[string]string{
		"amount_from":           "1",
		"network_from":          "sol",
		"contract_address_from": "SOL",
		"network_to":            "sol",
		"contract_address_to":   "SOL",
		"tx_type":               "private",
		"is_use_xmr":            "true",
	}
	for key, want := range wantQuery {
		if got := req.Query.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}

	if req.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
	if got := req.Header.Get("User-Agent"); got != "fogswap-test/1.0" {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestHTTPTransportJSONBody(t *testing.T) {
	srv := fogswaptest.New()
	defer srv.Close()

	srv.Respond(http.MethodPost, createPath, http.StatusOK, `{"result": `+transactionJSON+`, "error": null}`)

	c := NewFogswapClient(WithBaseURL(srv.BaseURL() + "/"))
	_, err := c.CreateTransaction(context.Background(), types.CreateTransactionRequest{
		QuoteRequest: types.QuoteRequest{
			AmountFrom:          decimal.RequireFromString("0.5"),
			NetworkFrom:         "sol",
			ContractAddressFrom: "SOL",
			NetworkTo:           "eth",
			ContractAddressTo:   "ETH",
		},
		PayoutAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req, _ := srv.LastRequest()
	if req.Method != http.MethodPost || req.Path != "/v1/transaction/create" {
		t.Errorf("request = %s %s", req.Method, req.Path)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if amount, ok := req.Body["amount_from"].(float64); !ok || amount != 0.5 {
		t.Errorf("amount_from = %#v, want number 0.5", req.Body["amount_from"])
	}
	if req.Body["tx_type"] != "standard" || req.Body["is_use_xmr"] != false {
		t.Errorf("defaults not sent: %v", req.Body)
	}
	if req.Body["payout_address"] != "0x52908400098527886E0F7030069857D2E4169EE7" {
		t.Errorf("payout_address = %v", req.Body["payout_address"])
	}
	if _, present := req.Body["payout_extra_id"]; present {
		t.Error("payout_extra_id should be omitted when unset")
	}
}

func TestHTTPTransportTransactionLookup(t *testing.T) {
	srv := fogswaptest.New()
	defer srv.Close()

	srv.RespondError(http.MethodGet, transactionPath, http.StatusNotFound, "Transaction not found")

	c := NewFogswapClient(WithBaseURL(srv.BaseURL()))
	_, err := c.GetTransactionInfo(context.Background(), "S7ZulO3j16")
	if !errors.Is(err, ErrGetTransactionInfo) {
		t.Fatalf("expected GetTransactionInfo error, got %v", err)
	}
	if err.Error() != "Get Transaction Info Error : Transaction not found" {
		t.Errorf("message = %q", err.Error())
	}

	req, _ := srv.LastRequest()
	if got := req.Query.Get("tx_id"); got != "S7ZulO3j16" {
		t.Errorf("tx_id = %q", got)
	}
}

func TestHTTPTransportUnsupportedMethod(t *testing.T) {
	tr := NewHTTPTransport("http://127.0.0.1:1/v1", nil, "", nil)

	_, _, err := tr.Send(context.Background(), http.MethodDelete, tokensPath, nil)
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
}

func TestHTTPTransportNoResponse(t *testing.T) {
	srv := fogswaptest.New()
	baseURL := srv.BaseURL()
	srv.Close()

	c := NewFogswapClient(WithBaseURL(baseURL), WithTimeout(2*time.Second))
	_, err := c.GetTokenList(context.Background())
	if KindOf(err) != KindSendRequest {
		t.Fatalf("kind = %v (%v), want SendRequest", KindOf(err), err)
	}
}

func TestHTTPTransportCancelledContext(t *testing.T) {
	srv := fogswaptest.New()
	defer srv.Close()
	srv.RespondResult(http.MethodGet, tokensPath, []interface{}{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewFogswapClient(WithBaseURL(srv.BaseURL()))
	_, err := c.GetTokenList(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if KindOf(err) != KindSendRequest {
		t.Errorf("kind = %v", KindOf(err))
	}
}
