package parser

import (
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// PremierExtractor handles the premier layout (cards ending 1250).
//
// The layout lists all transactions under a single ACCOUNT ACTIVITY block
// and prints its summary as a "New Balance Total" line. The prior balance is
// settled in full every cycle on this card, so the New Balance Total is the
// authoritative purchase figure.
type PremierExtractor struct{}

func (e *PremierExtractor) Format() models.StatementFormat {
	return models.FormatPremier
}

var premierBounds = blockBounds{
	start: []string{"ACCOUNT ACTIVITY"},
	end:   []string{"INTEREST CHARGES", "TOTAL FEES", "TOTALS YEAR-TO-DATE"},
}

func (e *PremierExtractor) Parse(pages []string) (*models.Statement, error) {
	lines := splitPages(pages)
	stmt := &models.Statement{Format: models.FormatPremier}

	start, end, ok := extractPeriod(lines)
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatPremier, Anchor: "Opening/Closing Date"}
	}
	stmt.PeriodStart, stmt.PeriodEnd = start, end

	if due, ok := extractDueDate(lines); ok {
		stmt.PaymentDueDate = due
	}

	newBalance, ok := extractLabeledAmount(lines, "New Balance Total")
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatPremier, Anchor: "New Balance Total"}
	}
	stmt.Totals.NewBalance = newBalance
	if prev, ok := extractLabeledAmount(lines, "Previous Balance"); ok {
		stmt.Totals.PreviousBalance = prev
	}
	if pay, ok := extractLabeledAmount(lines, "Payments and Credits"); ok {
		stmt.Totals.Payments = pay.Abs()
	}

	scanner := &blockScanner{bounds: premierBounds}
	for _, line := range lines {
		if line == "" || !scanner.next(line) {
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
		stmt.Transactions = append(stmt.Transactions, models.Transaction{
			Date:     date,
			Merchant: tl.merchant,
			Amount:   amount,
			Kind:     kind,
		})
	}

	return stmt, nil
}
