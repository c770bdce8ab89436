// Package verifier reconciles extracted transactions against the statement's
// issuer-printed totals.
package verifier

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// Default tolerances. Both are configuration, not policy constants: callers
// override them from the environment.
var (
	DefaultEpsilon           = decimal.RequireFromString("0.01")
	DefaultAdjustmentCeiling = decimal.RequireFromString("1.00")
)

// Verifier compares a statement's calculated total against its authoritative
// total.
//
//   - within Epsilon: the totals match (rounding noise);
//   - within AdjustmentCeiling: a single synthetic Adjustment transaction is
//     appended so the totals agree exactly;
//   - beyond the ceiling: the discrepancy is reported, never papered over —
//     a large difference means an extraction bug, not a rounding artifact.
type Verifier struct {
	Epsilon           decimal.Decimal
	AdjustmentCeiling decimal.Decimal
}

// New returns a Verifier with the default tolerances.
func New() *Verifier {
	return &Verifier{
		Epsilon:           DefaultEpsilon,
		AdjustmentCeiling: DefaultAdjustmentCeiling,
	}
}

// Reconcile verifies the statement and, for small discrepancies, appends one
// balancing Adjustment transaction dated at the statement close. The
// returned result reflects the totals before any adjustment; after an
// adjustment the statement's calculated total equals the authoritative total
// exactly.
func (v *Verifier) Reconcile(stmt *models.Statement) models.ReconciliationResult {
	calculated := stmt.CalculatedTotal()
	authoritative := stmt.AuthoritativeTotal()
	diff := calculated.Sub(authoritative)

	result := models.ReconciliationResult{
		Calculated:    calculated,
		Authoritative: authoritative,
		Difference:    diff.Abs(),
	}

	switch {
	case diff.Abs().LessThanOrEqual(v.Epsilon):
		result.Status = models.StatusMatched
	case diff.Abs().LessThanOrEqual(v.AdjustmentCeiling):
		result.Status = models.StatusAdjusted
		stmt.Transactions = append(stmt.Transactions, models.Transaction{
			Date:       stmt.PeriodEnd,
			Cardholder: "SYSTEM",
			Merchant:   "MISC BALANCE ADJUSTMENT",
			Amount:     diff.Neg(),
			Kind:       models.KindAdjustment,
			Category:   "MISC",
		})
	default:
		result.Status = models.StatusMismatched
	}

	return result
}
