package ledger

import (
	"fmt"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/observability"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
)

// Processor is the single-threaded ledger state machine. It owns the
// authoritative client → account mapping plus the transfer store, the set of
// transaction ids under open dispute, and the set of ids that have ever
// completed a chargeback.
//
// Records are applied strictly in input order; ordering is load-bearing
// (a dispute must follow its transfer, a resolve/chargeback must follow a
// dispute). Not safe for concurrent use — the maps are exclusively owned by
// the one processing loop.
type Processor struct {
	accounts    map[record.ClientID]Account
	transfers   map[record.TransactionID]record.Transfer
	inDispute   map[record.TransactionID]struct{}
	chargedBack map[record.TransactionID]struct{}

	metrics *observability.Metrics
}

// NewProcessor creates an empty ledger. metrics may be nil.
func NewProcessor(metrics *observability.Metrics) *Processor {
	return &Processor{
		accounts:    make(map[record.ClientID]Account),
		transfers:   make(map[record.TransactionID]record.Transfer),
		inDispute:   make(map[record.TransactionID]struct{}),
		chargedBack: make(map[record.TransactionID]struct{}),
		metrics:     metrics,
	}
}

// Apply runs one classified record through the state machine. On error the
// ledger's observable state is unchanged: every check completes before any
// mutation is committed.
func (p *Processor) Apply(rec record.Record) error {
	var err error
	switch r := rec.(type) {
	case *record.Transfer:
		err = p.applyTransfer(r)
	case *record.Amendment:
		err = p.applyAmendment(r)
	default:
		err = fmt.Errorf("unsupported record type: %T", rec)
	}

	if p.metrics != nil {
		kind := rec.Kind().String()
		if err != nil {
			p.metrics.RecordsRejected.WithLabelValues(kind, Reason(err)).Inc()
		} else {
			p.metrics.RecordsApplied.WithLabelValues(kind).Inc()
		}
	}

	return err
}

func (p *Processor) applyTransfer(t *record.Transfer) error {
	// Transaction ids are globally unique across all clients, for the whole
	// lifetime of the ledger.
	if _, exists := p.transfers[t.TX]; exists {
		return ErrTransactionIDExists
	}

	// Zero value is the lazily-created default account.
	acct := p.accounts[t.Client]
	if acct.Locked {
		return ErrLockedAccount
	}

	switch t.TransferKind {
	case record.KindDeposit:
		acct.Available = acct.Available.Add(t.Amount)
	case record.KindWithdrawal:
		if acct.Available.LessThan(t.Amount) {
			return ErrInsufficientFunds
		}
		acct.Available = acct.Available.Sub(t.Amount)
	default:
		return fmt.Errorf("transfer with non-transfer kind %s", t.TransferKind)
	}

	p.accounts[t.Client] = acct
	// Recording the transfer is what makes the id visible to future
	// amendments and to the duplicate-id check. Rejected transfers are
	// never recorded.
	p.transfers[t.TX] = *t
	return nil
}

func (p *Processor) applyAmendment(a *record.Amendment) error {
	transfer, ok := p.transfers[a.TX]
	if !ok {
		return ErrUnknownTransaction
	}
	if transfer.Client != a.Client {
		return ErrWrongClient
	}

	// Any recorded transfer already created the account; a miss here is a
	// logic defect, not bad input.
	acct, ok := p.accounts[a.Client]
	if !ok {
		panic(fmt.Sprintf("FATAL: no account for client %d despite recorded transfer tx %d", a.Client, a.TX))
	}

	// The amount is always the original transfer's, applied uniformly
	// whether that transfer was a deposit or a withdrawal.
	amount := transfer.Amount

	switch a.AmendmentKind {
	case record.KindDispute:
		// Charged-back status is checked before the dispute set is touched,
		// so a rejected re-dispute can never leave the id marked open.
		if _, charged := p.chargedBack[a.TX]; charged {
			return ErrAlreadyChargedBack
		}
		if _, open := p.inDispute[a.TX]; open {
			return ErrAlreadyInDispute
		}
		p.inDispute[a.TX] = struct{}{}
		acct.Available = acct.Available.Sub(amount)
		acct.Held = acct.Held.Add(amount)

	case record.KindResolve:
		if _, open := p.inDispute[a.TX]; !open {
			return ErrResolveNotInDispute
		}
		delete(p.inDispute, a.TX)
		acct.Available = acct.Available.Add(amount)
		acct.Held = acct.Held.Sub(amount)

	case record.KindChargeback:
		if _, open := p.inDispute[a.TX]; !open {
			return ErrChargebackNotInDispute
		}
		delete(p.inDispute, a.TX)
		acct.Held = acct.Held.Sub(amount)
		acct.Locked = true
		// Permanent: blocks any future dispute of this id.
		p.chargedBack[a.TX] = struct{}{}

	default:
		return fmt.Errorf("amendment with non-amendment kind %s", a.AmendmentKind)
	}

	// Funds are only held while their transfer is in the dispute set, so held
	// can never go negative on any input. A violation is a logic defect.
	if acct.Held.IsNegative() {
		panic(fmt.Sprintf("FATAL: held balance went negative for client %d: %s", a.Client, acct.Held))
	}

	p.accounts[a.Client] = acct
	return nil
}

// Account returns a client's account state, if the client has one.
func (p *Processor) Account(id record.ClientID) (Account, bool) {
	acct, ok := p.accounts[id]
	return acct, ok
}

// Accounts returns a copy of the per-client state for reporting. Callers
// never see the live map.
func (p *Processor) Accounts() map[record.ClientID]Account {
	snapshot := make(map[record.ClientID]Account, len(p.accounts))
	for id, acct := range p.accounts {
		snapshot[id] = acct
	}
	return snapshot
}
