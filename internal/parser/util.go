package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Common patterns found across the supported statement layouts.
var (
	// MM/DD/YY - MM/DD/YY, the Opening/Closing Date range
	periodPattern = regexp.MustCompile(`(\d{2}/\d{2}/\d{2})\s*-\s*(\d{2}/\d{2}/\d{2})`)
	// Payment Due Date: MM/DD/YY
	dueDatePattern = regexp.MustCompile(`(?i)Payment Due Date:?\s*(\d{2}/\d{2}/\d{2})`)
	// a monetary amount, optionally signed and with thousands separators;
	// a trailing minus is how these layouts print credits
	amountToken = `[-]?\$?[\d,]+\.\d{2}[-]?`
)

// parseAmount converts a printed amount like "$1,234.56" or "1,234.56-"
// (trailing minus means negative) into a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasSuffix(s, "-") {
		neg = true
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// expandYear converts a two-digit year to four digits with a fixed pivot:
// 00-49 map to the 2000s, 50-99 to the 1900s.
func expandYear(yy int) int {
	if yy < 50 {
		return 2000 + yy
	}
	return 1900 + yy
}

// parseShortDate parses MM/DD/YY into a time, expanding the year.
func parseShortDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("bad date %q", s)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("bad month in date %q", s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("bad day in date %q", s)
	}
	yy, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("bad year in date %q", s)
	}
	return time.Date(expandYear(yy), time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// resolveTransactionDate turns a MM/DD transaction date into a full date
// using the statement period. Transaction lines never print a year, so we
// take the period end's year and roll back one year for dates that would
// land after the period end (a December transaction on a January statement).
func resolveTransactionDate(mmdd string, periodEnd time.Time) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(mmdd), "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("bad transaction date %q", mmdd)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("bad month in transaction date %q", mmdd)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("bad day in transaction date %q", mmdd)
	}

	d := time.Date(periodEnd.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if !periodEnd.IsZero() && d.After(periodEnd) {
		d = d.AddDate(-1, 0, 0)
	}
	return d, nil
}

// extractPeriod finds the Opening/Closing date range in the statement text.
func extractPeriod(lines []string) (start, end time.Time, ok bool) {
	for _, line := range lines {
		m := periodPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		s, err1 := parseShortDate(m[1])
		e, err2 := parseShortDate(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		return s, e, true
	}
	return time.Time{}, time.Time{}, false
}

// extractDueDate finds the payment due date, if printed.
func extractDueDate(lines []string) (time.Time, bool) {
	for _, line := range lines {
		m := dueDatePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d, err := parseShortDate(m[1])
		if err != nil {
			continue
		}
		return d, true
	}
	return time.Time{}, false
}

// extractLabeledAmount scans for a line containing the label and returns the
// first amount printed after it. Labels are matched case-insensitively.
func extractLabeledAmount(lines []string, label string) (decimal.Decimal, bool) {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `[^\d-]*(` + amountToken + `)`)
	for _, line := range lines {
		// percentage lines belong to interest-rate tables, not the summary
		if strings.Contains(line, "%") {
			continue
		}
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		d, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		return d, true
	}
	return decimal.Zero, false
}

// isPaymentDescription reports whether a merchant description identifies a
// payment regardless of the amount's sign.
func isPaymentDescription(desc string) bool {
	lower := strings.ToLower(desc)
	return strings.Contains(lower, "payment thank you") ||
		strings.Contains(lower, "automatic payment") ||
		strings.Contains(lower, "online payment")
}

// splitPages flattens page texts into one ordered line slice.
func splitPages(pages []string) []string {
	var lines []string
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

// containsAny reports whether text contains any of the needles,
// case-insensitively.
func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
