// Package report renders the final per-client account snapshot as CSV.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/ledger"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
)

var header = []string{"client", "available", "held", "total", "locked"}

// WriteAccounts writes one row per client plus the header. With sortByClient
// set the rows come out in ascending client order; otherwise row order is
// unspecified, which is fine for machine consumers.
//
// Amounts are rendered exactly, with no padding: trailing zeros are not
// preserved, so a deposit of 1.5000 reports as 1.5.
func WriteAccounts(w io.Writer, accounts map[record.ClientID]ledger.Account, sortByClient bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	ids := make([]record.ClientID, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	if sortByClient {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	for _, id := range ids {
		acct := accounts[id]
		row := []string{
			strconv.FormatUint(uint64(id), 10),
			acct.Available.String(),
			acct.Held.String(),
			acct.Total().String(),
			strconv.FormatBool(acct.Locked),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
