// Package report renders a processed statement as a per-transaction CSV file
// and a category summary file.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// csvRow is the fixed CSV schema: one row per transaction, deterministic
// column order.
type csvRow struct {
	Date             string `csv:"date"`
	Cardholder       string `csv:"cardholder"`
	Merchant         string `csv:"merchant"`
	Amount           string `csv:"amount"`
	Kind             string `csv:"type"`
	Category         string `csv:"category"`
	OriginalCategory string `csv:"original_category"`
}

// WriteCSV writes one row per transaction to the given writer.
func WriteCSV(out io.Writer, stmt *models.Statement) error {
	rows := make([]csvRow, 0, len(stmt.Transactions))
	for _, txn := range stmt.Transactions {
		rows = append(rows, csvRow{
			Date:             txn.Date.Format("2006/01/02"),
			Cardholder:       txn.Cardholder,
			Merchant:         txn.Merchant,
			Amount:           txn.Amount.StringFixed(2),
			Kind:             string(txn.Kind),
			Category:         txn.Category,
			OriginalCategory: txn.RawCategory,
		})
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("write transaction CSV: %w", err)
	}
	return nil
}

// WriteCSVFile writes the transaction CSV to the given path.
func WriteCSVFile(path string, stmt *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create CSV file %q: %w", path, err)
	}
	defer f.Close()

	return WriteCSV(f, stmt)
}
