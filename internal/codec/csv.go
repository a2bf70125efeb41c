// Package codec implements the 8-column delimited transaction format used by
// the dashboard: line-oriented, comma-separated, no header on import, dates
// as DD/MM/YYYY externally and YYYY-MM-DD internally.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/depack/cashflow-backend/internal/models"
)

const (
	isoDate     = "2006-01-02"
	displayDate = "02/01/2006"
	fieldCount  = 8
)

var exportHeader = []string{
	"Original Date", "Partner", "Invoice No.", "Payable/Receivable",
	"Amount", "Currency", "Payment Type", "Adjusted Date",
}

// ParseLine parses one import line into a transaction without an ID. Lines
// with fewer than 8 comma-separated fields are rejected. Malformed dates fall
// back to now's calendar day.
func ParseLine(line string, now time.Time) (models.Transaction, bool) {
	cols := strings.Split(line, ",")
	if len(cols) < fieldCount {
		return models.Transaction{}, false
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	txType := models.TypeReceivable
	if strings.Contains(strings.ToLower(cols[3]), "payable") {
		txType = models.TypePayable
	}

	return models.Transaction{
		OriginalDate: parseDisplayDate(cols[0], now),
		Partner:      cols[1],
		InvoiceNo:    cols[2],
		Type:         txType,
		Amount:       parseAmount(cols[4]),
		Currency:     models.Currency(cols[5]),
		PaymentType:  cols[6],
		AdjustedDate: parseDisplayDate(cols[7], now),
	}, true
}

// Parse splits content into lines and returns every parseable transaction.
// Malformed lines are dropped; the caller only learns the surviving count.
func Parse(content string, now time.Time) []models.Transaction {
	var out []models.Transaction
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if t, ok := ParseLine(line, now); ok {
			out = append(out, t)
		}
	}
	return out
}

// Export renders the transactions back into the import format with a header
// row. The partner field is quoted to survive embedded commas.
func Export(txs []models.Transaction) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for _, t := range txs {
		b.WriteByte('\n')
		row := []string{
			FormatDisplayDate(t.OriginalDate),
			strconv.Quote(t.Partner),
			t.InvoiceNo,
			string(t.Type),
			formatAmount(t.Amount),
			string(t.Currency),
			t.PaymentType,
			FormatDisplayDate(t.AdjustedDate),
		}
		b.WriteString(strings.Join(row, ","))
	}
	return b.String()
}

// FormatDisplayDate converts an internal YYYY-MM-DD date to DD/MM/YYYY.
// Unparseable values pass through unchanged.
func FormatDisplayDate(iso string) string {
	d, err := time.Parse(isoDate, iso)
	if err != nil {
		return iso
	}
	return d.Format(displayDate)
}

func parseDisplayDate(s string, now time.Time) string {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return now.Format(isoDate)
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return now.Format(isoDate)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func parseAmount(s string) float64 {
	cleaned := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%.2f", v)
}
