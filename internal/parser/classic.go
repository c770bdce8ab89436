package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// ClassicExtractor handles the traditional layout (cards ending 0801).
//
// The layout groups transactions per cardholder:
//
//	CARDHOLDER NAME
//	TRANSACTIONS THIS CYCLE (CARD 0801)
//	02/15 MERCHANT CITY OR 123.45
//	...
//
// The summary block prints Previous Balance, Payments, Credits, Purchases
// and New Balance; the printed Purchases figure is the authoritative total.
type ClassicExtractor struct{}

func (e *ClassicExtractor) Format() models.StatementFormat {
	return models.FormatClassic
}

// cardholderPattern matches the all-caps name line that precedes each
// "TRANSACTIONS THIS CYCLE" sub-header.
// Single-letter words are allowed for middle initials.
var cardholderPattern = regexp.MustCompile(`^[A-Z][A-Z.]*(?:\s+[A-Z][A-Z.]*)+$`)

var classicBounds = blockBounds{
	start: []string{"TRANSACTIONS THIS CYCLE"},
	end:   []string{"TOTALS YEAR-TO-DATE", "INTEREST CHARGES", "TOTAL FEES"},
}

func (e *ClassicExtractor) Parse(pages []string) (*models.Statement, error) {
	lines := splitPages(pages)
	stmt := &models.Statement{Format: models.FormatClassic}

	start, end, ok := extractPeriod(lines)
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatClassic, Anchor: "Opening/Closing Date"}
	}
	stmt.PeriodStart, stmt.PeriodEnd = start, end

	if due, ok := extractDueDate(lines); ok {
		stmt.PaymentDueDate = due
	}

	purchases, ok := extractLabeledAmount(lines, "Purchases")
	if !ok {
		return nil, &models.AnchorError{Format: models.FormatClassic, Anchor: "Purchases"}
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

	scanner := &blockScanner{bounds: classicBounds}
	var cardholder string
	seen := map[string]bool{}

	for i, line := range lines {
		if line == "" {
			continue
		}

		// A name line directly above a cycle sub-header opens a new
		// cardholder section.
		if i+1 < len(lines) && strings.Contains(lines[i+1], "TRANSACTIONS THIS CYCLE") &&
			cardholderPattern.MatchString(line) && !strings.Contains(line, "ACCOUNT") {
			cardholder = line
			if !seen[cardholder] {
				seen[cardholder] = true
				stmt.Cardholders = append(stmt.Cardholders, cardholder)
			}
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
		stmt.Transactions = append(stmt.Transactions, models.Transaction{
			Date:       date,
			Cardholder: cardholder,
			Merchant:   tl.merchant,
			Amount:     amount,
			Kind:       kind,
		})
	}

	return stmt, nil
}
