package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ringlens/muling-engine/pkg/models"
)

// Ledger Parser
//
// Turns raw tabular text into a validated transaction sequence. The format
// is CSV-lite: a mandatory header row, columns in any order matched
// case-insensitively, and double quotes toggling an inside-field state so
// values can embed commas. Escaped quotes are not supported.
//
// Parsing is atomic: the first invalid row aborts the whole batch, because
// every downstream graph index assumes a fully consistent transaction set.

// Required header columns, matched case-insensitively in any order.
var requiredColumns = []string{"transaction_id", "sender_id", "receiver_id", "amount", "timestamp"}

// Accepted timestamp layouts, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// SchemaError reports a required column absent from the header row.
// Fatal before any data row is processed.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// RowValidationError reports a single invalid data row. Row is the 1-based
// line number in the input (the header is line 1).
type RowValidationError struct {
	Row    int
	Reason string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("invalid data at line %d: %s", e.Row, e.Reason)
}

// Parse validates the full input and returns the transaction sequence, or
// fails atomically on the first invalid row.
func Parse(raw string) ([]models.Transaction, error) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	header := splitLine(strings.TrimSuffix(lines[0], "\r"))

	colIndex := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, field := range requiredColumns {
		if _, ok := colIndex[field]; !ok {
			return nil, &SchemaError{Field: field}
		}
	}

	var txs []models.Transaction
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		values := splitLine(line)
		row := i + 1

		tx := models.Transaction{
			TransactionID: fieldAt(values, colIndex["transaction_id"]),
			SenderID:      fieldAt(values, colIndex["sender_id"]),
			ReceiverID:    fieldAt(values, colIndex["receiver_id"]),
		}
		if tx.TransactionID == "" || tx.SenderID == "" || tx.ReceiverID == "" {
			return nil, &RowValidationError{Row: row, Reason: "missing required fields"}
		}

		amountRaw := fieldAt(values, colIndex["amount"])
		amount, err := strconv.ParseFloat(amountRaw, 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return nil, &RowValidationError{Row: row, Reason: "invalid amount"}
		}
		tx.Amount = amount

		ts, ok := parseTimestamp(fieldAt(values, colIndex["timestamp"]))
		if !ok {
			return nil, &RowValidationError{Row: row, Reason: "invalid timestamp"}
		}
		tx.Timestamp = ts

		txs = append(txs, tx)
	}

	return txs, nil
}

// splitLine splits one row on commas, honoring the quote toggle. Quote
// characters themselves are dropped; there is no escaped-quote support.
func splitLine(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			values = append(values, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	values = append(values, current.String())
	return values
}

// fieldAt returns the trimmed value at idx, or "" for short rows.
func fieldAt(values []string, idx int) string {
	if idx >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[idx])
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
