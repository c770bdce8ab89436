package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a statement line item.
type TransactionKind string

const (
	KindPurchase   TransactionKind = "Purchase"
	KindPayment    TransactionKind = "Payment"
	KindCredit     TransactionKind = "Credit"
	KindAdjustment TransactionKind = "Adjustment"
)

// Transaction represents a single statement transaction.
//
// Amounts are normalized at ingestion: purchases and fees are positive,
// payments and credits are negative, regardless of how the source layout
// prints them.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Cardholder  string          `json:"cardholder,omitempty"`
	Merchant    string          `json:"merchant"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
	Category    string          `json:"category"`
	RawCategory string          `json:"rawCategory,omitempty"` // category text printed by the statement itself, if any
}

// StatementFormat identifies one of the supported statement layouts.
type StatementFormat string

const (
	// FormatClassic is the traditional layout with per-cardholder
	// "TRANSACTIONS THIS CYCLE" groupings (cards ending 0801).
	FormatClassic StatementFormat = "classic"
	// FormatPremier prints a "New Balance Total" summary line
	// (cards ending 1250).
	FormatPremier StatementFormat = "premier"
	// FormatColumnar is the newer columnar "Date of Transaction" layout
	// (cards ending 5136).
	FormatColumnar StatementFormat = "columnar"
	// FormatBusiness is the business-card layout with beginning/ending
	// balance activity summary (cards ending 8635).
	FormatBusiness StatementFormat = "business"
	// FormatUnknown means no detection rule matched.
	FormatUnknown StatementFormat = ""
)

// CardSuffix returns the card-number suffix associated with the format,
// which also participates in filename-based detection.
func (f StatementFormat) CardSuffix() string {
	switch f {
	case FormatClassic:
		return "0801"
	case FormatPremier:
		return "1250"
	case FormatColumnar:
		return "5136"
	case FormatBusiness:
		return "8635"
	default:
		return ""
	}
}

// Totals holds the issuer-printed summary figures for a statement.
// Which fields are populated depends on the format.
type Totals struct {
	PreviousBalance  decimal.Decimal `json:"previousBalance"`
	NewBalance       decimal.Decimal `json:"newBalance"`
	Payments         decimal.Decimal `json:"payments"` // stored positive, as printed
	Purchases        decimal.Decimal `json:"purchases"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"` // business format only
	EndingBalance    decimal.Decimal `json:"endingBalance"`    // business format only
}

// Statement holds everything extracted from one statement PDF.
type Statement struct {
	Format         StatementFormat `json:"format"`
	PeriodStart    time.Time       `json:"periodStart"`
	PeriodEnd      time.Time       `json:"periodEnd"`
	PaymentDueDate time.Time       `json:"paymentDueDate,omitzero"`
	Cardholders    []string        `json:"cardholders,omitempty"`
	Totals         Totals          `json:"totals"`
	Transactions   []Transaction   `json:"transactions"`

	// SkippedLines counts lines inside the transaction block that did not
	// match the expected shape. Non-zero values are surfaced in reports so
	// silent data loss is visible.
	SkippedLines int `json:"skippedLines"`
}

// StatementMonth returns the display label for the statement, derived from
// the period end date (e.g. "March 2025").
func (s *Statement) StatementMonth() string {
	if s.PeriodEnd.IsZero() {
		return ""
	}
	return s.PeriodEnd.Format("January 2006")
}

// AuthoritativeTotal returns the issuer-printed figure used as ground truth
// for reconciliation. Each format prints its totals differently:
//
//   - classic and columnar print the purchase total directly;
//   - premier prints a New Balance Total (the prior balance is paid in full
//     each cycle, so the new balance is the purchase total);
//   - business prints beginning/ending balances, so the purchase total is
//     ending - beginning + payments.
func (s *Statement) AuthoritativeTotal() decimal.Decimal {
	switch s.Format {
	case FormatPremier:
		return s.Totals.NewBalance
	case FormatBusiness:
		return s.Totals.EndingBalance.Sub(s.Totals.BeginningBalance).Add(s.Totals.Payments)
	default:
		return s.Totals.Purchases
	}
}

// CalculatedTotal sums the normalized amounts of all non-payment
// transactions. The verifier compares this figure, and only this figure,
// against AuthoritativeTotal — reports must reuse it rather than re-summing.
func (s *Statement) CalculatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, txn := range s.Transactions {
		if txn.Kind == KindPayment {
			continue
		}
		total = total.Add(txn.Amount)
	}
	return total
}

// ReconciliationStatus is the outcome of comparing calculated against
// authoritative totals.
type ReconciliationStatus string

const (
	StatusMatched    ReconciliationStatus = "Matched"
	StatusAdjusted   ReconciliationStatus = "AdjustedWithinTolerance"
	StatusMismatched ReconciliationStatus = "Mismatched"
)

// ReconciliationResult records one statement's verification outcome.
type ReconciliationResult struct {
	Calculated    decimal.Decimal      `json:"calculated"`
	Authoritative decimal.Decimal      `json:"authoritative"`
	Difference    decimal.Decimal      `json:"difference"` // absolute
	Status        ReconciliationStatus `json:"status"`
}
