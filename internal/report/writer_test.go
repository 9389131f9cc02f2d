package report_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/alexandervoronov/tiny-transaction-processor/internal/ingestion"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/ledger"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/record"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/report"
	"github.com/alexandervoronov/tiny-transaction-processor/internal/testutil"
)

// ============================================================================
// Test: WriteAccounts
// ============================================================================

func TestWriteAccounts_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteAccounts(&buf, map[record.ClientID]ledger.Account{}, true)
	if err != nil {
		t.Fatalf("write accounts: %v", err)
	}
	if got := buf.String(); got != "client,available,held,total,locked\n" {
		t.Errorf("got %q, want header only", got)
	}
}

func TestWriteAccounts_SortedByClient(t *testing.T) {
	accounts := map[record.ClientID]ledger.Account{
		42: {Available: decimal.RequireFromString("1.5")},
		3:  {Held: decimal.RequireFromString("2"), Locked: true},
		7:  {Available: decimal.RequireFromString("-4")},
	}

	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, accounts, true); err != nil {
		t.Fatalf("write accounts: %v", err)
	}

	want := strings.Join([]string{
		"client,available,held,total,locked",
		"3,0,2,2,true",
		"7,-4,0,-4,false",
		"42,1.5,0,1.5,false",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("report mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestWriteAccounts_UnsortedHasAllRows(t *testing.T) {
	accounts := map[record.ClientID]ledger.Account{
		1: {Available: decimal.RequireFromString("1")},
		2: {Available: decimal.RequireFromString("2")},
		3: {Available: decimal.RequireFromString("3")},
	}

	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, accounts, false); err != nil {
		t.Fatalf("write accounts: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows", len(lines))
	}
	for _, row := range []string{"1,1,0,1,false", "2,2,0,2,false", "3,3,0,3,false"} {
		found := false
		for _, line := range lines[1:] {
			if line == row {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing row %q in output:\n%s", row, buf.String())
		}
	}
}

func TestWriteAccounts_TrimsTrailingZeros(t *testing.T) {
	accounts := map[record.ClientID]ledger.Account{
		1: {Available: decimal.RequireFromString("1.5000")},
	}
	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, accounts, true); err != nil {
		t.Fatalf("write accounts: %v", err)
	}
	if !strings.Contains(buf.String(), "1,1.5,0,1.5,false") {
		t.Errorf("expected trimmed amount, got:\n%s", buf.String())
	}
}

// ============================================================================
// Test: End-to-end pipeline
// ============================================================================

func TestPipeline_GoldenReport(t *testing.T) {
	f, err := os.Open("testdata/transactions.csv")
	if err != nil {
		t.Fatalf("open input: %v", err)
	}
	defer f.Close()

	reader, err := ingestion.NewReader(f, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}

	proc := ledger.NewProcessor(nil)
	rejected := 0
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if err := proc.Apply(rec); err != nil {
			rejected++
		}
	}

	// The input deliberately carries rows the ledger must turn away.
	if rejected == 0 {
		t.Error("expected some rejected records in the fixture")
	}

	var buf bytes.Buffer
	if err := report.WriteAccounts(&buf, proc.Accounts(), true); err != nil {
		t.Fatalf("write report: %v", err)
	}
	testutil.AssertGolden(t, "report.golden.csv", buf.Bytes())
}
