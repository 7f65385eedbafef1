package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fogswap/pkg/types"
)

const (
	// DefaultBaseURL is the public Fogswap API
	DefaultBaseURL = "https://api.fogswap.io/v1"
	// DefaultTimeout bounds a single request when no http.Client is given
	DefaultTimeout = 30 * time.Second
)

const (
	tokensPath      = "market/tokens"
	quotePath       = "transaction/quote"
	createPath      = "transaction/create"
	transactionPath = "transaction/info"
)

// FogswapClient talks to the Fogswap API. It keeps no state between calls
// and is safe for concurrent use.
type FogswapClient struct {
	transport Transport
	log       logrus.FieldLogger
}

type options struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	transport  Transport
	log        logrus.FieldLogger
}

// Option configures a FogswapClient
type Option func(*options)

// WithBaseURL overrides DefaultBaseURL
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient sets the http.Client used by the default transport
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithTimeout sets a request timeout on a fresh http.Client
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.httpClient = &http.Client{Timeout: timeout} }
}

// WithUserAgent sets the User-Agent header of the default transport
func WithUserAgent(userAgent string) Option {
	return func(o *options) { o.userAgent = userAgent }
}

// WithTransport replaces the HTTP transport entirely
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// NewFogswapClient creates a new Fogswap API client
func NewFogswapClient(opts ...Option) *FogswapClient {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = discardLogger()
	}
	if o.transport == nil {
		o.transport = NewHTTPTransport(o.baseURL, o.httpClient, o.userAgent, o.log)
	}

	return &FogswapClient{
		transport: o.transport,
		log:       o.log,
	}
}

// quoteParams is shared by the quote and create calls, so both always
// send the same pair.
type quoteParams struct {
	AmountFrom          json.Number `url:"amount_from" json:"amount_from"`
	NetworkFrom         string      `url:"network_from" json:"network_from"`
	ContractAddressFrom string      `url:"contract_address_from" json:"contract_address_from"`
	NetworkTo           string      `url:"network_to" json:"network_to"`
	ContractAddressTo   string      `url:"contract_address_to" json:"contract_address_to"`
	TxType              string      `url:"tx_type" json:"tx_type"`
	IsUseXMR            bool        `url:"is_use_xmr" json:"is_use_xmr"`
}

type createParams struct {
	quoteParams
	PayoutAddress string  `json:"payout_address"`
	PayoutExtraID *string `json:"payout_extra_id,omitempty"`
}

type transactionParams struct {
	TxID string `url:"tx_id"`
}

func newQuoteParams(r *types.QuoteRequest) quoteParams {
	return quoteParams{
		AmountFrom:          json.Number(r.AmountFrom.String()),
		NetworkFrom:         r.NetworkFrom,
		ContractAddressFrom: r.ContractAddressFrom,
		NetworkTo:           r.NetworkTo,
		ContractAddressTo:   r.ContractAddressTo,
		TxType:              r.TxType.String(),
		IsUseXMR:            r.UseXMR,
	}
}

// call dispatches one request and unwraps the response envelope
func (c *FogswapClient) call(ctx context.Context, kind ErrorKind, op, method, path string, params interface{}) (json.RawMessage, error) {
	status, payload, err := c.transport.Send(ctx, method, path, params)
	if err != nil {
		if errors.Is(err, ErrUnsupportedMethod) {
			return nil, newError(KindUnsupportedMethod, op, "", nil)
		}
		return nil, newError(KindSendRequest, op, err.Error(), err)
	}

	raw, err := interpret(kind, op, status, payload)
	if err != nil {
		c.log.WithFields(logrus.Fields{"op": op, "status": status}).WithError(err).Debug("request rejected")
		return nil, err
	}
	return raw, nil
}

// GetTokenList retrieves all supported tokens grouped by network, in
// server order
func (c *FogswapClient) GetTokenList(ctx context.Context) ([]types.TokenList, error) {
	const op = "GetTokenList"

	raw, err := c.call(ctx, KindGetAvailableCoins, op, http.MethodGet, tokensPath, nil)
	if err != nil {
		return nil, err
	}

	return parseTokenLists(op, raw)
}

// FindToken fetches the token list and searches it by symbol, optionally
// restricted to one network
func (c *FogswapClient) FindToken(ctx context.Context, symbol, network string) (*types.TokenInfo, error) {
	lists, err := c.GetTokenList(ctx)
	if err != nil {
		return nil, err
	}
	return types.FindToken(lists, symbol, network)
}

// GetQuote requests a non-binding estimate for a swap
func (c *FogswapClient) GetQuote(ctx context.Context, req types.QuoteRequest) (*types.QuoteResponse, error) {
	const op = "GetQuote"

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, newError(KindInvalidArgument, op, err.Error(), err)
	}

	raw, err := c.call(ctx, KindGetEstimatedExchangeAmount, op, http.MethodGet, quotePath, newQuoteParams(&req))
	if err != nil {
		return nil, err
	}

	return parseQuote(op, raw)
}

// CreateTransaction creates a swap transaction. The returned info holds
// the deposit (payin) address the user has to fund.
func (c *FogswapClient) CreateTransaction(ctx context.Context, req types.CreateTransactionRequest) (*types.TransactionInfo, error) {
	const op = "CreateTransaction"

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, newError(KindInvalidArgument, op, err.Error(), err)
	}

	params := createParams{
		quoteParams:   newQuoteParams(&req.QuoteRequest),
		PayoutAddress: req.PayoutAddress,
		PayoutExtraID: req.PayoutExtraID,
	}

	raw, err := c.call(ctx, KindCreateTransaction, op, http.MethodPost, createPath, params)
	if err != nil {
		return nil, err
	}

	return parseTransaction(KindCreateTransaction, op, raw)
}

// GetTransactionInfo fetches the current state of a transaction
func (c *FogswapClient) GetTransactionInfo(ctx context.Context, id string) (*types.TransactionInfo, error) {
	const op = "GetTransactionInfo"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, newError(KindInvalidArgument, op, "transaction id is required", nil)
	}

	raw, err := c.call(ctx, KindGetTransactionInfo, op, http.MethodGet, transactionPath, transactionParams{TxID: id})
	if err != nil {
		return nil, err
	}

	return parseTransaction(KindGetTransactionInfo, op, raw)
}
