package types

import (
	"fmt"
	"strings"
)

// TxType selects how a swap is routed by the service
type TxType int

const (
	// TxTypeStandard is a direct swap
	TxTypeStandard TxType = iota
	// TxTypePrivate routes the swap through an additional privacy hop
	TxTypePrivate
)

const (
	txTypeStandardName = "standard"
	txTypePrivateName  = "private"
)

// String returns the wire token of the transaction type
func (t TxType) String() string {
	switch t {
	case TxTypeStandard:
		return txTypeStandardName
	case TxTypePrivate:
		return txTypePrivateName
	default:
		return fmt.Sprintf("TxType(%d)", int(t))
	}
}

// IsValid reports whether t is one of the known transaction types
func (t TxType) IsValid() bool {
	return t == TxTypeStandard || t == TxTypePrivate
}

// ParseTxType parses a wire token. Matching is exact: the service only
// emits lowercase tokens.
func ParseTxType(s string) (TxType, error) {
	switch s {
	case txTypeStandardName:
		return TxTypeStandard, nil
	case txTypePrivateName:
		return TxTypePrivate, nil
	default:
		return 0, fmt.Errorf("invalid tx type %q: must be %q or %q", s, txTypeStandardName, txTypePrivateName)
	}
}

// ParseTxTypeFlag is the lenient variant used for user input
func ParseTxTypeFlag(s string) (TxType, error) {
	return ParseTxType(strings.ToLower(strings.TrimSpace(s)))
}

// MarshalText implements encoding.TextMarshaler
func (t TxType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid tx type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TxType) UnmarshalText(text []byte) error {
	parsed, err := ParseTxType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
