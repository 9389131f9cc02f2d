package record_test

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
)

func amt(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ============================================================================
// Test: Kind
// ============================================================================

func TestParseKind(t *testing.T) {
	cases := map[string]record.Kind{
		"deposit":    record.KindDeposit,
		"withdrawal": record.KindWithdrawal,
		"dispute":    record.KindDispute,
		"resolve":    record.KindResolve,
		"chargeback": record.KindChargeback,
		"Deposit":    record.KindDeposit,
		"CHARGEBACK": record.KindChargeback,
		"transfer":   record.KindUnknown,
		"":           record.KindUnknown,
	}
	for tag, want := range cases {
		if got := record.ParseKind(tag); got != want {
			t.Errorf("ParseKind(%q): got %v, want %v", tag, got, want)
		}
	}
}

func TestKind_Predicates(t *testing.T) {
	transfers := []record.Kind{record.KindDeposit, record.KindWithdrawal}
	for _, k := range transfers {
		if !k.IsTransfer() || k.IsAmendment() {
			t.Errorf("%s should be a transfer kind", k)
		}
	}
	amendments := []record.Kind{record.KindDispute, record.KindResolve, record.KindChargeback}
	for _, k := range amendments {
		if !k.IsAmendment() || k.IsTransfer() {
			t.Errorf("%s should be an amendment kind", k)
		}
	}
	if record.KindUnknown.IsTransfer() || record.KindUnknown.IsAmendment() {
		t.Error("unknown kind should be neither transfer nor amendment")
	}
}

// ============================================================================
// Test: Classify
// ============================================================================

func TestClassify_Deposit(t *testing.T) {
	rec, err := record.Classify(record.Raw{
		Kind:   record.KindDeposit,
		Client: 7,
		TX:     42,
		Amount: amt("3.5"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("classify deposit: %v", err)
	}

	transfer, ok := rec.(*record.Transfer)
	if !ok {
		t.Fatalf("got %T, want *record.Transfer", rec)
	}
	if transfer.Kind() != record.KindDeposit || transfer.ClientID() != 7 || transfer.TransactionID() != 42 {
		t.Errorf("unexpected transfer fields: %s", transfer)
	}
	if !transfer.Amount.Equal(decimal.RequireFromString("3.5")) {
		t.Errorf("amount: got %s, want 3.5", transfer.Amount)
	}
}

func TestClassify_ZeroAmountTransferIsValid(t *testing.T) {
	rec, err := record.Classify(record.Raw{
		Kind:   record.KindWithdrawal,
		Client: 1,
		TX:     1,
		Amount: amt("0"),
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("classify zero withdrawal: %v", err)
	}
	if _, ok := rec.(*record.Transfer); !ok {
		t.Fatalf("got %T, want *record.Transfer", rec)
	}
}

func TestClassify_TransferWithoutAmount(t *testing.T) {
	_, err := record.Classify(record.Raw{
		Kind:   record.KindWithdrawal,
		Client: 1,
		TX:     1,
	}, zerolog.Nop())
	if !errors.Is(err, record.ErrMissingAmount) {
		t.Fatalf("got %v, want ErrMissingAmount", err)
	}
}

func TestClassify_NegativeAmount(t *testing.T) {
	_, err := record.Classify(record.Raw{
		Kind:   record.KindDeposit,
		Client: 1,
		TX:     1,
		Amount: amt("-2.5"),
	}, zerolog.Nop())
	if !errors.Is(err, record.ErrNegativeAmount) {
		t.Fatalf("got %v, want ErrNegativeAmount", err)
	}
}

func TestClassify_AmendmentIgnoresAmount(t *testing.T) {
	for _, kind := range []record.Kind{record.KindDispute, record.KindResolve, record.KindChargeback} {
		rec, err := record.Classify(record.Raw{
			Kind:   kind,
			Client: 9,
			TX:     100,
			Amount: amt("1.23"),
		}, zerolog.Nop())
		if err != nil {
			t.Fatalf("classify %s with amount: %v", kind, err)
		}
		a, ok := rec.(*record.Amendment)
		if !ok {
			t.Fatalf("got %T, want *record.Amendment", rec)
		}
		if a.Kind() != kind || a.ClientID() != 9 || a.TransactionID() != 100 {
			t.Errorf("unexpected amendment fields: %s", a)
		}
	}
}

func TestClassify_AmendmentWithoutAmount(t *testing.T) {
	rec, err := record.Classify(record.Raw{
		Kind:   record.KindDispute,
		Client: 1,
		TX:     2,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("classify dispute: %v", err)
	}
	if _, ok := rec.(*record.Amendment); !ok {
		t.Fatalf("got %T, want *record.Amendment", rec)
	}
}

func TestClassify_UnknownKind(t *testing.T) {
	_, err := record.Classify(record.Raw{Kind: record.KindUnknown}, zerolog.Nop())
	if !errors.Is(err, record.ErrUnknownRecordType) {
		t.Fatalf("got %v, want ErrUnknownRecordType", err)
	}
}
