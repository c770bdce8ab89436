// Package analyzer wires the statement pipeline together: text extraction,
// format detection, transaction parsing, categorization and balance
// reconciliation.
package analyzer

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/card-statement-analyzer/internal/extractor"
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
	"github.com/insightdelivered/card-statement-analyzer/internal/parser"
	"github.com/insightdelivered/card-statement-analyzer/internal/verifier"
)

// Options configures an Analyzer. Zero values fall back to the package
// defaults; MasterFile is required.
type Options struct {
	// MasterFile is the path of the persisted merchant-rule file. It is
	// created with a header row if it does not exist.
	MasterFile string

	// Epsilon and AdjustmentCeiling override the reconciliation tolerances
	// when non-zero.
	Epsilon           decimal.Decimal
	AdjustmentCeiling decimal.Decimal

	// Prompt, when set, is asked for a category whenever a merchant has no
	// master rule. Nil means unattended mode: heuristics decide and the
	// proposal is recorded without interaction.
	Prompt categorizer.PromptFunc

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Analyzer runs the full statement pipeline. It is not safe for concurrent
// use: the rule store is read-modify-write.
type Analyzer struct {
	store    *categorizer.Store
	verifier *verifier.Verifier
	prompt   categorizer.PromptFunc
	log      *slog.Logger
}

// Result is the outcome of analyzing a single statement.
type Result struct {
	Path           string
	Statement      *models.Statement
	Reconciliation models.ReconciliationResult

	// NewRules are the merchant rules learned during categorization, already
	// committed to the master file.
	NewRules []categorizer.Rule

	// Recategorized counts transactions whose statement-supplied category was
	// overridden by a master rule.
	Recategorized int
}

// New opens the master rule file and returns a ready Analyzer.
func New(opts Options) (*Analyzer, error) {
	store, err := categorizer.OpenStore(opts.MasterFile)
	if err != nil {
		return nil, err
	}

	v := verifier.New()
	if !opts.Epsilon.IsZero() {
		v.Epsilon = opts.Epsilon
	}
	if !opts.AdjustmentCeiling.IsZero() {
		v.AdjustmentCeiling = opts.AdjustmentCeiling
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Analyzer{
		store:    store,
		verifier: v,
		prompt:   opts.Prompt,
		log:      log,
	}, nil
}

// Store exposes the underlying rule store, mainly for reporting rule counts.
func (a *Analyzer) Store() *categorizer.Store {
	return a.store
}

// AnalyzeFile runs the pipeline on one statement PDF. Extraction or parse
// failures abort the statement; nothing partial is produced. Learned rules
// are committed to the master file before the result is returned, so a later
// statement in the same batch benefits from them.
func (a *Analyzer) AnalyzeFile(path string) (*Result, error) {
	pages, err := extractor.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", filepath.Base(path), err)
	}
	return a.analyze(path, pages)
}

// AnalyzePages runs the pipeline on already extracted page text. The name is
// used for format detection only.
func (a *Analyzer) AnalyzePages(name string, pages []string) (*Result, error) {
	return a.analyze(name, pages)
}

func (a *Analyzer) analyze(path string, pages []string) (*Result, error) {
	name := filepath.Base(path)

	format := parser.Detect(name, pages)
	if format == models.FormatUnknown {
		return nil, fmt.Errorf("%q: %w", name, models.ErrUnrecognizedFormat)
	}
	a.log.Info("format detected", "file", name, "format", string(format))

	ext, err := parser.New(format)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}

	stmt, err := ext.Parse(pages)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", name, err)
	}
	if stmt.SkippedLines > 0 {
		a.log.Warn("lines skipped inside transaction blocks",
			"file", name, "skipped", stmt.SkippedLines)
	}

	// A fresh categorizer per statement keeps the matcher current with rules
	// committed by earlier statements in the batch.
	cat := categorizer.New(a.store)
	cat.Prompt = a.prompt
	proposed, recategorized := cat.Categorize(stmt.Transactions)
	if len(proposed) > 0 {
		if err := a.store.Commit(proposed); err != nil {
			return nil, err
		}
		a.log.Info("merchant rules learned", "file", name, "count", len(proposed))
	}

	result := a.verifier.Reconcile(stmt)
	switch result.Status {
	case models.StatusMatched:
		a.log.Info("totals reconciled", "file", name,
			"total", result.Authoritative.StringFixed(2))
	case models.StatusAdjusted:
		a.log.Warn("totals adjusted", "file", name,
			"difference", result.Difference.StringFixed(2))
	case models.StatusMismatched:
		a.log.Error("totals mismatched", "file", name,
			"calculated", result.Calculated.StringFixed(2),
			"authoritative", result.Authoritative.StringFixed(2))
	}

	return &Result{
		Path:           path,
		Statement:      stmt,
		Reconciliation: result,
		NewRules:       proposed,
		Recategorized:  recategorized,
	}, nil
}
