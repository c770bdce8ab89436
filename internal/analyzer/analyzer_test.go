package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/card-statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

const classicStatement = `CARDMEMBER SERVICES
Account Number: XXXX XXXX XXXX 0801
Opening/Closing Date 02/07/25 - 03/06/25
Payment Due Date: 04/03/25

Previous Balance $4,233.99
Payments, Credits $4,233.99-
Purchases +$111.95
New Balance $111.95

JOHN Q SMITH
TRANSACTIONS THIS CYCLE (CARD 0801)
02/10 AMAZON MKTPL*AB12C Amzn.com/bill WA 48.77
02/14 SHELL OIL 57444 CHICAGO IL 52.03
02/20 Payment Thank You - Web 4,233.99-
02/22 STARBUCKS #1234 CHICAGO IL 11.15
TOTALS YEAR-TO-DATE`

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(Options{
		MasterFile: filepath.Join(t.TempDir(), "categories.master"),
	})
	require.NoError(t, err)
	return a
}

func TestAnalyzePages(t *testing.T) {
	a := newTestAnalyzer(t)

	result, err := a.AnalyzePages("20250306-statements-0801-.pdf", []string{classicStatement})
	require.NoError(t, err)

	stmt := result.Statement
	assert.Equal(t, models.FormatClassic, stmt.Format)
	require.Len(t, stmt.Transactions, 4)

	// heuristics categorize the new vendors, and each becomes a rule
	assert.Equal(t, "SHOPPING", stmt.Transactions[0].Category)
	assert.Equal(t, "GAS/FUEL", stmt.Transactions[1].Category)
	assert.Equal(t, "PAYMENT", stmt.Transactions[2].Category)
	assert.Equal(t, "RESTAURANT", stmt.Transactions[3].Category)
	assert.Len(t, result.NewRules, 3)

	// totals agree, so no synthetic adjustment appears
	assert.Equal(t, models.StatusMatched, result.Reconciliation.Status)
	assert.True(t, result.Reconciliation.Calculated.Equal(decimal.RequireFromString("111.95")))

	// learned rules are persisted for the next statement
	assert.Equal(t, 3, a.Store().Len())
}

func TestAnalyzePagesRulesCarryAcrossStatements(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzePages("20250306-statements-0801-.pdf", []string{classicStatement})
	require.NoError(t, err)

	// the same vendors again: everything is already known
	result, err := a.AnalyzePages("20250306-statements-0801-.pdf", []string{classicStatement})
	require.NoError(t, err)
	assert.Empty(t, result.NewRules)
	assert.Equal(t, 3, a.Store().Len())
}

func TestAnalyzePagesAppendsAdjustment(t *testing.T) {
	a := newTestAnalyzer(t)

	// printed total off by two cents from the transaction sum
	adjusted := strings.Replace(classicStatement, "Purchases +$111.95", "Purchases +$111.93", 1)

	result, err := a.AnalyzePages("20250306-statements-0801-.pdf", []string{adjusted})
	require.NoError(t, err)
	require.Equal(t, models.StatusAdjusted, result.Reconciliation.Status)

	stmt := result.Statement
	require.Len(t, stmt.Transactions, 5)
	adj := stmt.Transactions[4]
	assert.Equal(t, models.KindAdjustment, adj.Kind)
	assert.Equal(t, "MISC", adj.Category)
	assert.Equal(t, "SYSTEM", adj.Cardholder)
	assert.True(t, stmt.CalculatedTotal().Equal(stmt.AuthoritativeTotal()))
}

func TestAnalyzePagesRulePersistenceFailureSurfaces(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rules")
	require.NoError(t, os.Mkdir(dir, 0o755))

	a, err := New(Options{MasterFile: filepath.Join(dir, "categories.master")})
	require.NoError(t, err)

	// rule commits start failing mid-run
	require.NoError(t, os.RemoveAll(dir))

	_, err = a.AnalyzePages("20250306-statements-0801-.pdf", []string{classicStatement})
	require.Error(t, err)
	assert.ErrorIs(t, err, categorizer.ErrRulePersistence,
		"a failed rule commit must be distinguishable from per-statement errors")
}

func TestAnalyzePagesUnrecognizedFormat(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzePages("statement.pdf", []string{"nothing recognizable here"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnrecognizedFormat))
}

func TestAnalyzeFileMissing(t *testing.T) {
	a := newTestAnalyzer(t)

	_, err := a.AnalyzeFile(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
}
