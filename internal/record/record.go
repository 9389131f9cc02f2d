package record

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account. Never reused for a different client.
type ClientID uint16

// TransactionID identifies a transfer globally, across all clients.
type TransactionID uint32

// Kind discriminator for record payloads
type Kind int32

const (
	KindUnknown Kind = iota
	KindDeposit
	KindWithdrawal
	KindDispute
	KindResolve
	KindChargeback
)

// ParseKind resolves a type tag from the input stream. Matching is
// case-insensitive; unrecognised tags map to KindUnknown.
func ParseKind(tag string) Kind {
	switch strings.ToLower(tag) {
	case "deposit":
		return KindDeposit
	case "withdrawal":
		return KindWithdrawal
	case "dispute":
		return KindDispute
	case "resolve":
		return KindResolve
	case "chargeback":
		return KindChargeback
	default:
		return KindUnknown
	}
}

// IsTransfer reports whether the kind moves funds (carries an amount).
func (k Kind) IsTransfer() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// IsAmendment reports whether the kind references an earlier transfer.
func (k Kind) IsAmendment() bool {
	return k == KindDispute || k == KindResolve || k == KindChargeback
}

func (k Kind) String() string {
	switch k {
	case KindDeposit:
		return "deposit"
	case KindWithdrawal:
		return "withdrawal"
	case KindDispute:
		return "dispute"
	case KindResolve:
		return "resolve"
	case KindChargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Record is the interface all classified records implement
type Record interface {
	// Kind returns the discriminator
	Kind() Kind

	// ClientID returns the client the record applies to
	ClientID() ClientID

	// TransactionID returns the transfer the record creates or references
	TransactionID() TransactionID

	// String renders the record for diagnostics
	String() string
}

// Transfer is a funds-moving record (deposit or withdrawal). Created once per
// unique transaction id, immutable thereafter; the ledger retains it so later
// amendments can resolve the amount and owning client.
type Transfer struct {
	TransferKind Kind // KindDeposit or KindWithdrawal
	Client       ClientID
	TX           TransactionID
	Amount       decimal.Decimal // Non-negative, validated at classification
}

func (t *Transfer) Kind() Kind                   { return t.TransferKind }
func (t *Transfer) ClientID() ClientID           { return t.Client }
func (t *Transfer) TransactionID() TransactionID { return t.TX }

func (t *Transfer) String() string {
	return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.TransferKind, t.Client, t.TX, t.Amount)
}

// Amendment is a dispute-lifecycle record (dispute, resolve or chargeback).
// It carries no amount of its own — the amount is always resolved from the
// referenced transfer.
type Amendment struct {
	AmendmentKind Kind // KindDispute, KindResolve or KindChargeback
	Client        ClientID
	TX            TransactionID
}

func (a *Amendment) Kind() Kind                   { return a.AmendmentKind }
func (a *Amendment) ClientID() ClientID           { return a.Client }
func (a *Amendment) TransactionID() TransactionID { return a.TX }

func (a *Amendment) String() string {
	return fmt.Sprintf("%s client=%d tx=%d", a.AmendmentKind, a.Client, a.TX)
}
