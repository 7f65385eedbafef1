package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure returned by FogswapClient
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnsupportedMethod
	KindSendRequest
	KindGetAvailableCoins
	KindGetEstimatedExchangeAmount
	KindCreateTransaction
	KindGetTransactionInfo
	KindInvalidArgument
)

var kindTitles = map[ErrorKind]string{
	KindUnsupportedMethod:          "Unsupported method",
	KindSendRequest:                "send request error",
	KindGetAvailableCoins:          "Get Available Coins Error",
	KindGetEstimatedExchangeAmount: "Get Estimated Exchange Amount Error",
	KindCreateTransaction:          "Create Transaction Error",
	KindGetTransactionInfo:         "Get Transaction Info Error",
	KindInvalidArgument:            "Invalid Argument",
}

func (k ErrorKind) String() string {
	if title, ok := kindTitles[k]; ok {
		return title
	}
	return "unknown error"
}

// Sentinels for errors.Is. Matching compares kinds only.
var (
	ErrUnsupportedMethod          = &Error{Kind: KindUnsupportedMethod}
	ErrSendRequest                = &Error{Kind: KindSendRequest}
	ErrGetAvailableCoins          = &Error{Kind: KindGetAvailableCoins}
	ErrGetEstimatedExchangeAmount = &Error{Kind: KindGetEstimatedExchangeAmount}
	ErrCreateTransaction          = &Error{Kind: KindCreateTransaction}
	ErrGetTransactionInfo         = &Error{Kind: KindGetTransactionInfo}
	ErrInvalidArgument            = &Error{Kind: KindInvalidArgument}
)

// Error is the error type of every client operation. Message carries the
// server's own text when the service reported one.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnsupportedMethod, KindSendRequest:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.Err)
		}
		return e.Kind.String()
	default:
		return fmt.Sprintf("%s : %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: cause}
}
