package record

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Input-format errors raised during classification. The row is dropped and
// the batch continues; the ledger never sees a record that failed here.
var (
	ErrMissingAmount     = errors.New("transfer row is missing an amount")
	ErrNegativeAmount    = errors.New("transfer amount is negative")
	ErrUnknownRecordType = errors.New("unrecognised record type")
)

// Raw is a structurally decoded input row before classification: the type
// tag has been resolved and the ids parsed, but the amount is still optional
// and unvalidated.
type Raw struct {
	Kind   Kind
	Client ClientID
	TX     TransactionID
	Amount *decimal.Decimal // nil when the row had no amount field
}

// Classify converts a raw row into a concrete Transfer or Amendment, or
// rejects it with an input-format error. Pure and stateless; it never
// touches the ledger.
//
// Amendment kinds never carry an amount — a superfluous one is ignored with
// a warning, since only the entire referenced transfer can be disputed.
// Transfer kinds require a strictly non-negative amount: a negative value is
// a hard rejection, never a sign flip.
func Classify(raw Raw, log zerolog.Logger) (Record, error) {
	switch {
	case raw.Kind.IsAmendment():
		if raw.Amount != nil {
			log.Warn().
				Stringer("kind", raw.Kind).
				Uint16("client", uint16(raw.Client)).
				Uint32("tx", uint32(raw.TX)).
				Str("amount", raw.Amount.String()).
				Msg("amount on amendment ignored: only the entire transfer can be disputed")
		}
		return &Amendment{AmendmentKind: raw.Kind, Client: raw.Client, TX: raw.TX}, nil

	case raw.Kind.IsTransfer():
		if raw.Amount == nil {
			return nil, ErrMissingAmount
		}
		if raw.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
		return &Transfer{TransferKind: raw.Kind, Client: raw.Client, TX: raw.TX, Amount: *raw.Amount}, nil

	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownRecordType, raw.Kind)
	}
}
