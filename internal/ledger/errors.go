package ledger

import "errors"

// Processing errors, one per precondition the state machine enforces.
// A rejected record leaves the ledger's observable state unchanged; all of
// these are non-fatal to the batch. Use with errors.Is.
var (
	// ErrTransactionIDExists is returned when a transfer reuses a transaction
	// id, even by a different client, even after a completed chargeback.
	ErrTransactionIDExists = errors.New("transaction id already exists")

	// ErrLockedAccount is returned for any transfer against a locked account.
	ErrLockedAccount = errors.New("transfer on locked account")

	// ErrInsufficientFunds is returned when a withdrawal exceeds available funds.
	ErrInsufficientFunds = errors.New("not enough available funds for withdrawal")

	// ErrUnknownTransaction is returned when an amendment references a
	// transaction id with no recorded transfer.
	ErrUnknownTransaction = errors.New("amendment references unknown transaction")

	// ErrWrongClient is returned when an amendment's client does not match
	// the referenced transfer's owning client.
	ErrWrongClient = errors.New("amendment client does not own the transaction")

	// ErrAlreadyInDispute is returned for a dispute on a transaction that is
	// already under an open dispute.
	ErrAlreadyInDispute = errors.New("transfer is already in dispute")

	// ErrAlreadyChargedBack is returned for a dispute on a transaction that
	// completed a chargeback; the block is permanent.
	ErrAlreadyChargedBack = errors.New("transfer was already charged back")

	// ErrResolveNotInDispute is returned for a resolve on a transaction with
	// no open dispute.
	ErrResolveNotInDispute = errors.New("resolved transfer was not in dispute")

	// ErrChargebackNotInDispute is returned for a chargeback on a transaction
	// with no open dispute.
	ErrChargebackNotInDispute = errors.New("charged back transfer was not in dispute")
)

// Reason maps a processing error to a short stable label for metrics and
// structured logs.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrTransactionIDExists):
		return "duplicate_tx_id"
	case errors.Is(err, ErrLockedAccount):
		return "locked_account"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrUnknownTransaction):
		return "unknown_transaction"
	case errors.Is(err, ErrWrongClient):
		return "wrong_client"
	case errors.Is(err, ErrAlreadyInDispute):
		return "already_in_dispute"
	case errors.Is(err, ErrAlreadyChargedBack):
		return "already_charged_back"
	case errors.Is(err, ErrResolveNotInDispute):
		return "resolve_not_in_dispute"
	case errors.Is(err, ErrChargebackNotInDispute):
		return "chargeback_not_in_dispute"
	default:
		return "other"
	}
}
