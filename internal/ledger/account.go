package ledger

import "github.com/shopspring/decimal"

// Account is per-client mutable state. The zero value is the lazily-created
// default: empty, unlocked. Total is always derived, never stored.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns available + held, computed on demand.
func (a Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Equal compares accounts by value. decimal.Decimal is not comparable with
// ==, so 12 and 12.0 compare equal here even though their representations
// differ.
func (a Account) Equal(b Account) bool {
	return a.Available.Equal(b.Available) && a.Held.Equal(b.Held) && a.Locked == b.Locked
}
