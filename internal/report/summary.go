package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// CategoryTotal aggregates one category's transactions.
type CategoryTotal struct {
	Category string
	Count    int
	Amount   decimal.Decimal
}

// CategoryBreakdown aggregates non-payment transactions per category, sorted
// by descending amount. The grand total is the verifier's calculated total,
// reused rather than re-summed.
func CategoryBreakdown(stmt *models.Statement) ([]CategoryTotal, decimal.Decimal) {
	byCategory := map[string]*CategoryTotal{}
	for _, txn := range stmt.Transactions {
		if txn.Kind == models.KindPayment {
			continue
		}
		ct, ok := byCategory[txn.Category]
		if !ok {
			ct = &CategoryTotal{Category: txn.Category}
			byCategory[txn.Category] = ct
		}
		ct.Count++
		ct.Amount = ct.Amount.Add(txn.Amount)
	}

	totals := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		totals = append(totals, *ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		if !totals[i].Amount.Equal(totals[j].Amount) {
			return totals[i].Amount.GreaterThan(totals[j].Amount)
		}
		return totals[i].Category < totals[j].Category
	})

	return totals, stmt.CalculatedTotal()
}

// WriteSummary renders the statement metadata block, the verification
// outcome and the category breakdown table with a trailing TOTAL row.
func WriteSummary(out io.Writer, stmt *models.Statement, result models.ReconciliationResult) error {
	w := &stickyWriter{out: out}

	w.printf("STATEMENT CATEGORY ANALYSIS\n")
	w.printf("%s\n", divider)
	w.printf("Format:           %s\n", stmt.Format)
	w.printf("Statement Period: %s - %s\n",
		stmt.PeriodStart.Format("01/02/2006"), stmt.PeriodEnd.Format("01/02/2006"))
	w.printf("Statement Month:  %s\n", stmt.StatementMonth())
	if !stmt.PaymentDueDate.IsZero() {
		w.printf("Payment Due Date: %s\n", stmt.PaymentDueDate.Format("01/02/2006"))
	}
	w.printf("Authoritative Total: $%s\n", result.Authoritative.StringFixed(2))
	w.printf("Calculated Total:    $%s\n", result.Calculated.StringFixed(2))
	w.printf("Verification:        %s\n", result.Status)
	if result.Status == models.StatusMismatched {
		w.printf("  !! difference of $%s exceeds the adjustment ceiling\n",
			result.Difference.StringFixed(2))
	}
	if stmt.SkippedLines > 0 {
		w.printf("Skipped Lines:       %d (unmatched lines inside the transaction block)\n",
			stmt.SkippedLines)
	}

	totals, grandTotal := CategoryBreakdown(stmt)
	totalCount := 0

	w.printf("\nCATEGORY BREAKDOWN\n")
	w.printf("%s\n", divider)
	w.printf("%-25s %-8s %-15s %s\n", "Category", "Count", "Amount", "% of Total")
	w.printf("%s\n", divider)
	for _, ct := range totals {
		pct := decimal.Zero
		if !grandTotal.IsZero() {
			pct = ct.Amount.Div(grandTotal).Mul(decimal.NewFromInt(100))
		}
		w.printf("%-25s %-8d $%-14s %s%%\n",
			ct.Category, ct.Count, ct.Amount.StringFixed(2), pct.StringFixed(1))
		totalCount += ct.Count
	}
	w.printf("%s\n", divider)
	w.printf("%-25s %-8d $%-14s %s%%\n", "TOTAL", totalCount, grandTotal.StringFixed(2), "100.0")

	return w.err
}

// WriteSummaryFile writes the category summary to the given path.
func WriteSummaryFile(path string, stmt *models.Statement, result models.ReconciliationResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file %q: %w", path, err)
	}
	defer f.Close()

	if err := WriteSummary(f, stmt, result); err != nil {
		return fmt.Errorf("write summary file %q: %w", path, err)
	}
	return nil
}

const divider = "----------------------------------------------------------------------"

// stickyWriter keeps the first write error so the formatting code stays
// linear.
type stickyWriter struct {
	out io.Writer
	err error
}

func (w *stickyWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}
