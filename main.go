package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/card-statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/card-statement-analyzer/internal/api"
	"github.com/insightdelivered/card-statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/card-statement-analyzer/internal/config"
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
	"github.com/insightdelivered/card-statement-analyzer/internal/report"
)

const version = "1.0.0"

func main() {
	dirFlag := flag.String("dir", "", "Analyze every PDF statement in this directory")
	outputFlag := flag.String("output", "", "Output CSV path (single input) or directory (batch); defaults next to each input")
	masterFlag := flag.String("master", "", "Path of the merchant category master file (overrides ANALYZER_MASTER_FILE)")
	summaryOnlyFlag := flag.Bool("summary-only", false, "Print the category summary without writing CSV files")
	interactiveFlag := flag.Bool("interactive", false, "Prompt for categories of unknown merchants")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of analyzing files")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Statement Analyzer
by Insight Delivered (QEA AutoLens)

Extracts transactions from credit-card statement PDFs, categorizes
merchants against a learned rule file, verifies statement totals and
writes CSV plus category summaries.

Usage:
  card-statement-analyzer [flags] <statement.pdf> [statement2.pdf ...]
  card-statement-analyzer -dir statements/
  card-statement-analyzer -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze one statement, writing statement.csv next to it
  card-statement-analyzer 20250306-statements-0801-.pdf

  # Batch a directory, prompting for unknown merchants
  card-statement-analyzer -interactive -dir statements/

  # Category summary only
  card-statement-analyzer -summary-only statement.pdf

Environment:
  ANALYZER_MASTER_FILE         merchant rule file (default categories.master)
  ANALYZER_EPSILON             match tolerance in dollars (default 0.01)
  ANALYZER_ADJUSTMENT_CEILING  max auto-adjustment in dollars (default 1.00)
  ANALYZER_LISTEN_ADDR         HTTP listen address for -serve (default :8080)
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("card-statement-analyzer v%s\n", version)
		os.Exit(0)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		fatalf("configuration error: %v\n", err)
	}
	if *masterFlag != "" {
		cfg.MasterFile = *masterFlag
	}

	epsilon, err := decimal.NewFromString(cfg.Epsilon)
	if err != nil {
		fatalf("invalid ANALYZER_EPSILON %q: %v\n", cfg.Epsilon, err)
	}
	ceiling, err := decimal.NewFromString(cfg.AdjustmentCeiling)
	if err != nil {
		fatalf("invalid ANALYZER_ADJUSTMENT_CEILING %q: %v\n", cfg.AdjustmentCeiling, err)
	}

	opts := analyzer.Options{
		MasterFile:        cfg.MasterFile,
		Epsilon:           epsilon,
		AdjustmentCeiling: ceiling,
		Logger:            log,
	}
	if *interactiveFlag && !*serveFlag {
		opts.Prompt = stdinPrompt(os.Stdin)
	}

	a, err := analyzer.New(opts)
	if err != nil {
		fatalf("%v\n", err)
	}
	fmt.Printf("Loaded %d merchant rules from %s\n", a.Store().Len(), cfg.MasterFile)

	if *serveFlag {
		srv := api.NewServer(a, log)
		log.Info("HTTP API listening", "addr", cfg.ListenAddr)
		if err := srv.App().Listen(cfg.ListenAddr); err != nil {
			fatalf("server error: %v\n", err)
		}
		return
	}

	inputs, err := collectInputs(*dirFlag, flag.Args())
	if err != nil {
		fatalf("%v\n", err)
	}
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failures := 0
	mismatches := 0
	for _, path := range inputs {
		if err := processFile(a, path, *outputFlag, *summaryOnlyFlag, &mismatches); err != nil {
			// losing the rule file invalidates every later statement's
			// categorization, so the whole run stops here
			if errors.Is(err, categorizer.ErrRulePersistence) {
				fatalf("Error processing %s: %v\n", path, err)
			}
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			failures++
		}
	}

	if failures > 0 || mismatches > 0 {
		os.Exit(1)
	}
}

// collectInputs merges -dir contents with positional arguments. Directory
// entries are sorted so batch runs are deterministic.
func collectInputs(dir string, args []string) ([]string, error) {
	var inputs []string

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read statement directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			inputs = append(inputs, filepath.Join(dir, e.Name()))
		}
		sort.Strings(inputs)
	}

	inputs = append(inputs, args...)
	return inputs, nil
}

func processFile(a *analyzer.Analyzer, path, output string, summaryOnly bool, mismatches *int) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("input file not found: %s", path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", path)

	result, err := a.AnalyzeFile(path)
	if err != nil {
		return err
	}
	stmt := result.Statement

	fmt.Printf("  Format: %s, %d transaction(s), %s\n",
		stmt.Format, len(stmt.Transactions), stmt.StatementMonth())
	if len(result.NewRules) > 0 {
		fmt.Printf("  Learned %d new merchant rule(s)\n", len(result.NewRules))
	}

	if err := report.WriteSummary(os.Stdout, stmt, result.Reconciliation); err != nil {
		return err
	}

	if result.Reconciliation.Status == models.StatusMismatched {
		*mismatches++
	}

	if summaryOnly {
		return nil
	}

	csvPath := csvOutputPath(path, output)
	if err := report.WriteCSVFile(csvPath, stmt); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", csvPath)
	return nil
}

// csvOutputPath resolves where a statement's CSV lands: an explicit file
// path, a directory, or next to the input with a .csv extension.
func csvOutputPath(inputPath, output string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)) + ".csv"
	if output == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, base)
	}
	if strings.EqualFold(filepath.Ext(output), ".csv") {
		return output
	}
	return filepath.Join(output, base)
}

// stdinPrompt asks the operator for a category, showing the fuzzy suggestion
// as the default. An empty answer accepts the suggestion.
func stdinPrompt(in *os.File) categorizer.PromptFunc {
	reader := bufio.NewReader(in)
	return func(vendor, suggested string) string {
		fmt.Printf("Category for %q [%s]: ", vendor, suggested)
		line, err := reader.ReadString('\n')
		if err != nil {
			return ""
		}
		return strings.TrimSpace(line)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
