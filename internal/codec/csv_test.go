package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/depack/cashflow-backend/internal/models"
)

var parseNow = time.Date(2023, time.October, 15, 12, 0, 0, 0, time.UTC)

func TestParseLine(t *testing.T) {
	line := "01/10/2023,Alpha Corp,INV-001,Payable,5000.50,USD,cheque,05/10/2023"

	tx, ok := ParseLine(line, parseNow)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if tx.OriginalDate != "2023-10-01" {
		t.Fatalf("originalDate mismatch: %q", tx.OriginalDate)
	}
	if tx.AdjustedDate != "2023-10-05" {
		t.Fatalf("adjustedDate mismatch: %q", tx.AdjustedDate)
	}
	if tx.Partner != "Alpha Corp" || tx.InvoiceNo != "INV-001" {
		t.Fatalf("partner/invoice mismatch: %+v", tx)
	}
	if tx.Type != models.TypePayable {
		t.Fatalf("type mismatch: %q", tx.Type)
	}
	if tx.Amount != 5000.50 {
		t.Fatalf("amount mismatch: %v", tx.Amount)
	}
	if tx.Currency != models.CurrencyUSD || tx.PaymentType != "cheque" {
		t.Fatalf("currency/payment mismatch: %+v", tx)
	}
	if tx.ID != "" {
		t.Fatalf("parser must not assign ids, got %q", tx.ID)
	}
}

func TestParseLineTypeDefaultsToReceivable(t *testing.T) {
	line := "01/10/2023,Alpha,INV-1,Incoming Invoice,100,EGP,cash,01/10/2023"
	tx, ok := ParseLine(line, parseNow)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if tx.Type != models.TypeReceivable {
		t.Fatalf("unrecognized type column must default to Receivable, got %q", tx.Type)
	}

	// substring match, case-insensitive
	line = "01/10/2023,Alpha,INV-1,ACCOUNTS PAYABLE,100,EGP,cash,01/10/2023"
	tx, _ = ParseLine(line, parseNow)
	if tx.Type != models.TypePayable {
		t.Fatalf("expected Payable for %q", "ACCOUNTS PAYABLE")
	}
}

func TestParseLineRejectsShortLines(t *testing.T) {
	if _, ok := ParseLine("01/10/2023,Alpha,INV-1,Payable,100,USD,cash", parseNow); ok {
		t.Fatalf("7-column line must be rejected")
	}
	if _, ok := ParseLine("", parseNow); ok {
		t.Fatalf("empty line must be rejected")
	}
}

func TestParseLineMalformedDateFallsBackToToday(t *testing.T) {
	line := "not-a-date,Alpha,INV-1,Payable,100,USD,cash,also-bad"
	tx, ok := ParseLine(line, parseNow)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if tx.OriginalDate != "2023-10-15" || tx.AdjustedDate != "2023-10-15" {
		t.Fatalf("malformed dates must fall back to today: %+v", tx)
	}
}

func TestParseLineUnpaddedDate(t *testing.T) {
	line := "1/3/2023,Alpha,INV-1,Payable,100,USD,cash,9/3/2023"
	tx, ok := ParseLine(line, parseNow)
	if !ok {
		t.Fatalf("expected line to parse")
	}
	if tx.OriginalDate != "2023-03-01" || tx.AdjustedDate != "2023-03-09" {
		t.Fatalf("unpadded dates must normalize: %+v", tx)
	}
}

func TestParseDropsMalformedLines(t *testing.T) {
	content := strings.Join([]string{
		"01/10/2023,Alpha,INV-1,Payable,100,USD,cash,01/10/2023",
		"",
		"garbage line",
		"02/10/2023,Beta,INV-2,Receivable,200,EUR,transfer,02/10/2023",
	}, "\n")

	txs := Parse(content, parseNow)
	if len(txs) != 2 {
		t.Fatalf("expected 2 surviving transactions, got %d", len(txs))
	}
	if txs[0].Partner != "Alpha" || txs[1].Partner != "Beta" {
		t.Fatalf("line order must survive: %+v", txs)
	}
}

func TestParseAmountStripsThousandsSeparators(t *testing.T) {
	if got := parseAmount("1,250,000.75"); got != 1250000.75 {
		t.Fatalf("amount mismatch: %v", got)
	}
	if got := parseAmount("nonsense"); got != 0 {
		t.Fatalf("unparseable amounts must come back 0, got %v", got)
	}
}

func TestExport(t *testing.T) {
	out := Export([]models.Transaction{
		{
			OriginalDate: "2023-10-01",
			AdjustedDate: "2023-10-05",
			Partner:      "Alpha, Corp",
			InvoiceNo:    "INV-001",
			Type:         models.TypePayable,
			Amount:       5000,
			Currency:     models.CurrencyUSD,
			PaymentType:  "cheque",
		},
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Original Date,Partner,Invoice No.") {
		t.Fatalf("header mismatch: %q", lines[0])
	}
	want := `01/10/2023,"Alpha, Corp",INV-001,Payable,5000,USD,cheque,05/10/2023`
	if lines[1] != want {
		t.Fatalf("row mismatch:\n got %q\nwant %q", lines[1], want)
	}
}

func TestExportFractionalAmount(t *testing.T) {
	out := Export([]models.Transaction{
		{
			OriginalDate: "2023-10-01",
			AdjustedDate: "2023-10-01",
			Partner:      "Beta",
			InvoiceNo:    "INV-2",
			Type:         models.TypeReceivable,
			Amount:       10.5,
			Currency:     models.CurrencyEUR,
			PaymentType:  "transfer",
		},
	})
	if !strings.Contains(out, ",10.50,") {
		t.Fatalf("fractional amounts must render with 2 decimals: %q", out)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	if got := FormatDisplayDate("2023-10-05"); got != "05/10/2023" {
		t.Fatalf("display date mismatch: %q", got)
	}
	if got := FormatDisplayDate("whatever"); got != "whatever" {
		t.Fatalf("unparseable values must pass through: %q", got)
	}
}
