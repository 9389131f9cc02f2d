package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/observability"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
)

// Header errors. A file whose header cannot be mapped to the expected columns
// yields no records at all, so these are fatal to the batch.
var (
	ErrEmptyInput      = errors.New("input has no header row")
	ErrBadHeader       = errors.New("unusable header")
	ErrMissingColumn   = errors.New("header is missing a required column")
	ErrDuplicateColumn = errors.New("header repeats a column")
	ErrUnknownColumn   = errors.New("header has an unrecognised column")
)

// ErrBadRow wraps any structural failure in a data row. Bad rows are skipped,
// never fatal.
var ErrBadRow = errors.New("bad row")

// columns maps header position to meaning. -1 means absent; amount is the
// only column allowed to be absent (a file of pure amendments needs none).
type columns struct {
	kind   int
	client int
	tx     int
	amount int
}

// Reader streams classified records out of a CSV source. Malformed data rows
// are logged, counted and skipped; only real I/O failures stop the stream.
// Rows come back strictly in file order.
type Reader struct {
	csv     *csv.Reader
	cols    columns
	log     zerolog.Logger
	metrics *observability.Metrics

	read    int
	skipped int
}

// OpenFile opens path and wraps it in a Reader. The caller closes the
// returned file once the stream is drained.
func OpenFile(path string, log zerolog.Logger, metrics *observability.Metrics) (*Reader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := NewReader(f, log, metrics)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

// NewReader wraps src and validates its header row. metrics may be nil.
func NewReader(src io.Reader, log zerolog.Logger, metrics *observability.Metrics) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	// Data rows may carry trailing commas the header does not have.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	return &Reader{csv: cr, cols: cols, log: log, metrics: metrics}, nil
}

func mapHeader(header []string) (columns, error) {
	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}
	for i, name := range header {
		var slot *int
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			slot = &cols.kind
		case "client":
			slot = &cols.client
		case "tx":
			slot = &cols.tx
		case "amount":
			slot = &cols.amount
		default:
			return cols, fmt.Errorf("%w: %q at position %d", ErrUnknownColumn, name, i)
		}
		if *slot != -1 {
			return cols, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		*slot = i
	}
	for name, idx := range map[string]int{"type": cols.kind, "client": cols.client, "tx": cols.tx} {
		if idx == -1 {
			return cols, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	return cols, nil
}

// Next returns the next well-formed record, io.EOF at end of input, or a
// fatal read error. Rows that fail CSV parsing, field decoding or
// classification are skipped with a warning and do not end the stream.
func (r *Reader) Next() (record.Record, error) {
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.skip("parse", err, nil)
				continue
			}
			return nil, err
		}
		r.read++
		if r.metrics != nil {
			r.metrics.RowsRead.Inc()
		}

		raw, err := r.decodeRow(row)
		if err != nil {
			r.skip("decode", err, row)
			continue
		}

		rec, err := record.Classify(raw, r.log)
		if err != nil {
			r.skip("classify", err, row)
			continue
		}
		return rec, nil
	}
}

func (r *Reader) decodeRow(row []string) (record.Raw, error) {
	kindTag := field(row, r.cols.kind)
	kind := record.ParseKind(kindTag)
	if kind == record.KindUnknown {
		return record.Raw{}, fmt.Errorf("%w: unknown type %q", ErrBadRow, kindTag)
	}

	client, err := strconv.ParseUint(field(row, r.cols.client), 10, 16)
	if err != nil {
		return record.Raw{}, fmt.Errorf("%w: client id: %v", ErrBadRow, err)
	}
	tx, err := strconv.ParseUint(field(row, r.cols.tx), 10, 32)
	if err != nil {
		return record.Raw{}, fmt.Errorf("%w: transaction id: %v", ErrBadRow, err)
	}

	raw := record.Raw{
		Kind:   kind,
		Client: record.ClientID(client),
		TX:     record.TransactionID(tx),
	}
	if s := field(row, r.cols.amount); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return record.Raw{}, fmt.Errorf("%w: amount: %v", ErrBadRow, err)
		}
		raw.Amount = &amount
	}
	return raw, nil
}

// field reads a row position tolerantly: a short row or an unmapped column
// reads as empty rather than panicking.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (r *Reader) skip(stage string, err error, row []string) {
	r.skipped++
	if r.metrics != nil {
		r.metrics.RowsSkipped.WithLabelValues(stage).Inc()
	}
	r.log.Warn().
		Str("stage", stage).
		Strs("row", row).
		Err(err).
		Msg("skipping malformed input row")
}

// Rows reports how many data rows parsed past the CSV layer.
func (r *Reader) Rows() int { return r.read }

// Skipped reports how many rows were dropped as malformed.
func (r *Reader) Skipped() int { return r.skipped }
