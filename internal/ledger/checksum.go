package ledger

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
)

const checksumSeed = "txproc:ledger:v1"

// Checksum returns a deterministic digest of the full account state. Two
// ledgers fed the same records in the same order always agree, so replays
// and independent runs over one input file can be compared cheaply.
func (p *Processor) Checksum() [32]byte {
	ids := make([]record.ClientID, 0, len(p.accounts))
	for id := range p.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	h := sha256.New()
	h.Write([]byte(checksumSeed))
	for _, id := range ids {
		var idBuf [2]byte
		binary.BigEndian.PutUint16(idBuf[:], uint16(id))
		h.Write(idBuf[:])

		acct := p.accounts[id]
		// String form normalizes the internal representation: 12 and 12.0
		// digest identically.
		h.Write([]byte(acct.Available.String()))
		h.Write([]byte{0})
		h.Write([]byte(acct.Held.String()))
		if acct.Locked {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}
