package parser

import (
	"strings"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// ColumnarExtractor handles the newer columnar layout (cards ending 5136).
//
// Transactions sit under a "Date of Transaction" column header with no
// cardholder groupings. A FEES CHARGED sub-section inside the block lists
// fee lines; those carry the statement's own "CC FEES" category text.
// The printed Purchases figure is the authoritative total.
type ColumnarExtractor struct{}

func (e *ColumnarExtractor) Format() models.StatementFormat {
	return models.FormatColumnar
}

var columnarBounds = blockBounds{
	start: []string{"Date of Transaction"},
	end:   []string{"INTEREST CHARGES", "TOTALS YEAR-TO-DATE"},
}

func (e *ColumnarExtractor) Parse(pages []string) (*models.Statement, error) {
	lines := splitPages(pages)
	stmt := &models.Statement{Format: models.FormatColumnar}

	start, end, ok := extractPeriod(lines)
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatColumnar, Anchor: "Opening/Closing Date"}
	}
	stmt.PeriodStart, stmt.PeriodEnd = start, end

	if due, ok := extractDueDate(lines); ok {
		stmt.PaymentDueDate = due
	}

	purchases, ok := extractLabeledAmount(lines, "Purchases")
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatColumnar, Anchor: "Purchases"}
	}
	stmt.Totals.Purchases = purchases
	if prev, ok := extractLabeledAmount(lines, "Previous Balance"); ok {
		stmt.Totals.PreviousBalance = prev
	}
	if pay, ok := extractLabeledAmount(lines, "Payments, Credits"); ok {
		stmt.Totals.Payments = pay.Abs()
	}
	if nb, ok := extractLabeledAmount(lines, "New Balance"); ok {
		stmt.Totals.NewBalance = nb
	}

	scanner := &blockScanner{bounds: columnarBounds}
	inFees := false

	for _, line := range lines {
		if line == "" {
			continue
		}

		// The FEES CHARGED sub-section only exists inside the block;
		// the summary's "Fees Charged" line must not toggle it.
		upper := strings.ToUpper(line)
		if scanner.inside && strings.Contains(upper, "FEES CHARGED") {
			inFees = true
			continue
		}
		if inFees && strings.Contains(upper, "TOTAL FEES FOR THIS PERIOD") {
			inFees = false
			continue
		}

		if !scanner.next(line) {
			continue
		}

		tl, ok := matchTransactionLine(line)
		if !ok {
			stmt.SkippedLines++
			continue
		}

		date, err := resolveTransactionDate(tl.mmdd, stmt.PeriodEnd)
		if err != nil {
			stmt.SkippedLines++
			continue
		}

		kind, amount := classifyKind(tl.merchant, tl.amount)
		txn := models.Transaction{
			Date:     date,
			Merchant: tl.merchant,
			Amount:   amount,
			Kind:     kind,
		}
		if inFees && kind == models.KindPurchase {
			txn.RawCategory = "CC FEES"
		}
		stmt.Transactions = append(stmt.Transactions, txn)
	}

	return stmt, nil
}
