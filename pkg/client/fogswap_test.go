package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"fogswap/pkg/types"
)

type sentRequest struct {
	method string
	path   string
	params interface{}
}

// fakeTransport records requests and answers with a canned response
type fakeTransport struct {
	mu      sync.Mutex
	sent    []sentRequest
	status  int
	payload string
	err     error
}

func (f *fakeTransport) Send(_ context.Context, method, path string, params interface{}) (int, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentRequest{method: method, path: path, params: params})
	if f.err != nil {
		return 0, nil, f.err
	}
	return f.status, []byte(f.payload), nil
}

func (f *fakeTransport) last(t *testing.T) sentRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no request was sent")
	}
	return f.sent[len(f.sent)-1]
}

func newTestClient(status int, payload string) (*FogswapClient, *fakeTransport) {
	ft := &fakeTransport{status: status, payload: payload}
	return NewFogswapClient(WithTransport(ft)), ft
}

func solQuoteRequest() types.QuoteRequest {
	return types.QuoteRequest{
		AmountFrom:          decimal.NewFromFloat(1.0),
		NetworkFrom:         "sol",
		ContractAddressFrom: "SOL",
		NetworkTo:           "sol",
		ContractAddressTo:   "SOL",
		TxType:              types.TxTypePrivate,
		UseXMR:              true,
	}
}

func TestGetQuotePrivateXMR(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{
		"result": {
			"network_from": "sol", "contract_address_from": "SOL", "amount_from": 1.0,
			"network_to": "sol", "contract_address_to": "SOL", "amount_to": 0.98,
			"convert_usd": {"from": 151.2, "to": 148.17},
			"tx_type": "private"
		},
		"error": null
	}`)

	quote, err := c.GetQuote(context.Background(), solQuoteRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.AmountTo.Equal(decimal.RequireFromString("0.98")) {
		t.Errorf("amount_to = %s, want 0.98", quote.AmountTo)
	}
	if quote.TxType != types.TxTypePrivate {
		t.Errorf("tx_type = %v, want private", quote.TxType)
	}

	sent := ft.last(t)
	if sent.method != http.MethodGet || sent.path != quotePath {
		t.Errorf("sent %s %s", sent.method, sent.path)
	}
	want := quoteParams{
		AmountFrom:          "1",
		NetworkFrom:         "sol",
		ContractAddressFrom: "SOL",
		NetworkTo:           "sol",
		ContractAddressTo:   "SOL",
		TxType:              "private",
		IsUseXMR:            true,
	}
	if diff := cmp.Diff(want, sent.params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestGetQuoteDefaults(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{"error": {"message": "unused"}}`)

	req := solQuoteRequest()
	req.TxType = types.TxType(0)
	req.UseXMR = false
	_, _ = c.GetQuote(context.Background(), req)

	params := ft.last(t).params.(quoteParams)
	if params.TxType != "standard" {
		t.Errorf("default tx_type = %q, want standard", params.TxType)
	}
	if params.IsUseXMR {
		t.Error("default is_use_xmr should be false")
	}
}

func TestQuoteAndCreateRequestSamePair(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{"error": {"message": "unused"}}`)

	quoteReq := types.QuoteRequest{
		AmountFrom:          decimal.RequireFromString("0.5"),
		NetworkFrom:         " SOL",
		ContractAddressFrom: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		NetworkTo:           "eth ",
		ContractAddressTo:   "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	}
	_, _ = c.GetQuote(context.Background(), quoteReq)
	quoteSent := ft.last(t).params.(quoteParams)

	_, _ = c.CreateTransaction(context.Background(), types.CreateTransactionRequest{
		QuoteRequest:  quoteReq,
		PayoutAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
	})
	createSent := ft.last(t)

	if createSent.method != http.MethodPost || createSent.path != createPath {
		t.Errorf("sent %s %s", createSent.method, createSent.path)
	}
	params := createSent.params.(createParams)
	if diff := cmp.Diff(quoteSent, params.quoteParams); diff != "" {
		t.Errorf("quote and create disagree on the pair (-quote +create):\n%s", diff)
	}
	if params.NetworkFrom != "sol" || params.NetworkTo != "eth" {
		t.Errorf("networks not normalized: %q %q", params.NetworkFrom, params.NetworkTo)
	}
	if params.PayoutExtraID != nil {
		t.Error("payout_extra_id should be omitted")
	}
}

func TestGetQuoteInvalidArgumentNotDispatched(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{}`)

	req := solQuoteRequest()
	req.AmountFrom = decimal.Zero
	_, err := c.GetQuote(context.Background(), req)

	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(ft.sent) != 0 {
		t.Errorf("request should not be sent, got %d", len(ft.sent))
	}
}

func TestCreateTransaction(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{"result": `+transactionJSON+`, "error": null}`)

	extra := "104"
	tx, err := c.CreateTransaction(context.Background(), types.CreateTransactionRequest{
		QuoteRequest: types.QuoteRequest{
			AmountFrom:          decimal.RequireFromString("0.5"),
			NetworkFrom:         "sol",
			ContractAddressFrom: "SOL",
			NetworkTo:           "eth",
			ContractAddressTo:   "ETH",
		},
		PayoutAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
		PayoutExtraID: &extra,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID != "S7ZulO3j16" || tx.Status != "waiting" {
		t.Errorf("unexpected transaction %+v", tx)
	}

	params := ft.last(t).params.(createParams)
	if params.PayoutExtraID == nil || *params.PayoutExtraID != "104" {
		t.Errorf("payout_extra_id = %v", params.PayoutExtraID)
	}
}

func TestCreateTransactionServerError(t *testing.T) {
	c, _ := newTestClient(http.StatusOK, `{"result": null, "error": {"message": "Invalid payout address"}}`)

	_, err := c.CreateTransaction(context.Background(), types.CreateTransactionRequest{
		QuoteRequest:  solQuoteRequest(),
		PayoutAddress: "nope",
	})
	if !errors.Is(err, ErrCreateTransaction) {
		t.Fatalf("expected create transaction error, got %v", err)
	}
	if err.Error() != "Create Transaction Error : Invalid payout address" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGetTransactionInfoNotFound(t *testing.T) {
	c, ft := newTestClient(http.StatusNotFound, `{"result": null, "error": {"message": "Transaction not found"}}`)

	_, err := c.GetTransactionInfo(context.Background(), "S7ZulO3j16")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Kind != KindGetTransactionInfo {
		t.Errorf("kind = %v, want GetTransactionInfo", e.Kind)
	}
	if e.Message != "Transaction not found" {
		t.Errorf("message = %q", e.Message)
	}

	sent := ft.last(t)
	if sent.path != transactionPath || sent.params.(transactionParams).TxID != "S7ZulO3j16" {
		t.Errorf("sent %s %+v", sent.path, sent.params)
	}
}

func TestGetTransactionInfoEmptyID(t *testing.T) {
	c, ft := newTestClient(http.StatusOK, `{}`)

	_, err := c.GetTransactionInfo(context.Background(), "  ")
	if KindOf(err) != KindInvalidArgument {
		t.Fatalf("kind = %v", KindOf(err))
	}
	if len(ft.sent) != 0 {
		t.Error("request should not be sent")
	}
}

func TestTransportFailureIsSendRequestError(t *testing.T) {
	ft := &fakeTransport{err: errors.New("dial tcp 127.0.0.1:1: connect: connection refused")}
	c := NewFogswapClient(WithTransport(ft))
	ctx := context.Background()

	calls := map[string]func() error{
		"GetTokenList": func() error { _, err := c.GetTokenList(ctx); return err },
		"GetQuote":     func() error { _, err := c.GetQuote(ctx, solQuoteRequest()); return err },
		"CreateTransaction": func() error {
			_, err := c.CreateTransaction(ctx, types.CreateTransactionRequest{QuoteRequest: solQuoteRequest(), PayoutAddress: "addr"})
			return err
		},
		"GetTransactionInfo": func() error { _, err := c.GetTransactionInfo(ctx, "S7ZulO3j16"); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if KindOf(err) != KindSendRequest {
				t.Fatalf("kind = %v (%v), want SendRequest", KindOf(err), err)
			}
			if !errors.Is(err, ft.err) {
				t.Error("transport error should be wrapped")
			}
		})
	}
}

func TestUnsupportedMethod(t *testing.T) {
	ft := &fakeTransport{err: ErrUnsupportedMethod}
	c := NewFogswapClient(WithTransport(ft))

	_, err := c.GetTokenList(context.Background())
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported method, got %v", err)
	}
	if err.Error() != "Unsupported method" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestMalformedPayloadPerOperation(t *testing.T) {
	c, _ := newTestClient(http.StatusOK, `{"result": {"unexpected": true}, "error": null}`)
	ctx := context.Background()

	if _, err := c.GetTokenList(ctx); KindOf(err) != KindGetAvailableCoins {
		t.Errorf("GetTokenList kind = %v", KindOf(err))
	}
	if _, err := c.GetQuote(ctx, solQuoteRequest()); KindOf(err) != KindGetEstimatedExchangeAmount {
		t.Errorf("GetQuote kind = %v", KindOf(err))
	}
	if _, err := c.CreateTransaction(ctx, types.CreateTransactionRequest{QuoteRequest: solQuoteRequest(), PayoutAddress: "a"}); KindOf(err) != KindCreateTransaction {
		t.Errorf("CreateTransaction kind = %v", KindOf(err))
	}
	if _, err := c.GetTransactionInfo(ctx, "id"); KindOf(err) != KindGetTransactionInfo {
		t.Errorf("GetTransactionInfo kind = %v", KindOf(err))
	}
}

func TestGetTokenListAndFindToken(t *testing.T) {
	c, _ := newTestClient(http.StatusOK, `{"result": [
		{"network": "sol", "network_image": "https://img/sol.png", "tokens": [
			{"token": "SOL", "network": "sol", "contract_address": "SOL", "image": "https://img/sol.png", "is_native": true},
			{"token": "USDC", "network": "sol", "contract_address": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "image": "https://img/usdc.png", "is_native": false}
		]},
		{"network": "xmr", "network_image": "https://img/xmr.png", "tokens": []}
	], "error": null}`)

	lists, err := c.GetTokenList(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lists) != 2 || len(lists[0].Tokens) != 2 || len(lists[1].Tokens) != 0 {
		t.Fatalf("unexpected shape: %+v", lists)
	}

	token, err := c.FindToken(context.Background(), "usdc", "SOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.ContractAddress != "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v" {
		t.Errorf("found %+v", token)
	}
}

func TestGetTokenListIgnoresEmptyErrorField(t *testing.T) {
	for _, errField := range []string{`""`, `false`} {
		c, _ := newTestClient(http.StatusOK, `{"result": [], "error": `+errField+`}`)

		lists, err := c.GetTokenList(context.Background())
		if err != nil {
			t.Fatalf("error %s: unexpected error: %v", errField, err)
		}
		if lists == nil || len(lists) != 0 {
			t.Errorf("error %s: lists = %#v, want empty", errField, lists)
		}
	}
}
