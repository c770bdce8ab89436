package parser

import (
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// BusinessExtractor handles the business-card layout (cards ending 8635).
//
// The layout prints a BUSINESS CARD ACTIVITY SUMMARY with beginning and
// ending balances instead of a purchase total. The authoritative purchase
// figure is derived: ending balance - beginning balance + payments.
type BusinessExtractor struct{}

func (e *BusinessExtractor) Format() models.StatementFormat {
	return models.FormatBusiness
}

var businessBounds = blockBounds{
	start: []string{"TRANSACTION DETAIL"},
	end:   []string{"INTEREST CHARGES", "TOTAL FOR PERIOD", "SERVICE CHARGE SUMMARY"},
}

func (e *BusinessExtractor) Parse(pages []string) (*models.Statement, error) {
	lines := splitPages(pages)
	stmt := &models.Statement{Format: models.FormatBusiness}

	start, end, ok := extractPeriod(lines)
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatBusiness, Anchor: "Opening/Closing Date"}
	}
	stmt.PeriodStart, stmt.PeriodEnd = start, end

	if due, ok := extractDueDate(lines); ok {
		stmt.PaymentDueDate = due
	}

	beginning, ok := extractLabeledAmount(lines, "Beginning Balance")
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatBusiness, Anchor: "Beginning Balance"}
	}
	ending, ok := extractLabeledAmount(lines, "Ending Balance")
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatBusiness, Anchor: "Ending Balance"}
	}
	stmt.Totals.BeginningBalance = beginning
	stmt.Totals.EndingBalance = ending
	if pay, ok := extractLabeledAmount(lines, "Payments"); ok {
		stmt.Totals.Payments = pay.Abs()
	}

	scanner := &blockScanner{bounds: businessBounds}
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
