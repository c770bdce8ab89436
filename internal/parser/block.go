package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// All four layouts print transaction lines in the same basic shape:
// MM/DD  MERCHANT DESCRIPTION  AMOUNT
var txnLinePattern = regexp.MustCompile(
	`^(\d{2}/\d{2})\s+(.+?)\s+(` + amountToken + `)$`,
)

// txnLine is one matched transaction line before date resolution.
type txnLine struct {
	mmdd     string
	merchant string
	amount   decimal.Decimal
}

// matchTransactionLine applies the shared line shape. Merchants shorter than
// three characters or bare summary words are rejected — they are header
// fragments, not transactions.
func matchTransactionLine(line string) (txnLine, bool) {
	m := txnLinePattern.FindStringSubmatch(line)
	if m == nil {
		return txnLine{}, false
	}
	merchant := strings.TrimSpace(m[2])
	if len(merchant) < 3 {
		return txnLine{}, false
	}
	switch strings.ToUpper(merchant) {
	case "TOTAL", "SUBTOTAL", "BALANCE":
		return txnLine{}, false
	}
	amount, err := parseAmount(m[3])
	if err != nil {
		return txnLine{}, false
	}
	return txnLine{mmdd: m[1], merchant: merchant, amount: amount}, true
}

// classifyKind normalizes the sign convention and assigns a transaction
// kind. Payments are detected by keyword regardless of printed sign;
// other negative amounts are credits.
func classifyKind(merchant string, amount decimal.Decimal) (models.TransactionKind, decimal.Decimal) {
	if isPaymentDescription(merchant) {
		return models.KindPayment, amount.Abs().Neg()
	}
	if amount.IsNegative() {
		return models.KindCredit, amount
	}
	return models.KindPurchase, amount
}

// blockBounds marks the anchor phrases that open and close a layout's
// transaction block. Scanning only between them keeps interest-rate tables
// and fee disclosures from producing false positives.
type blockBounds struct {
	start []string
	end   []string
}

// inBlock tracks whether the scanner is inside a transaction block.
type blockScanner struct {
	bounds blockBounds
	inside bool
}

// next consumes one line and reports whether it lies inside the block.
// Boundary lines themselves are not part of the block. A start anchor seen
// while already inside (the next cardholder's sub-header) re-opens the block
// rather than counting as content.
func (b *blockScanner) next(line string) bool {
	if containsAny(line, b.bounds.start) {
		b.inside = true
		return false
	}
	if !b.inside {
		return false
	}
	if containsAny(line, b.bounds.end) {
		b.inside = false
		return false
	}
	return true
}
