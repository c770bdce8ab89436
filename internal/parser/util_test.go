package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"25.99", "25.99", false},
		{"1,234.56", "1234.56", false},
		{"$25.99", "25.99", false},
		{"-25.99", "-25.99", false},
		{"25.99-", "-25.99", false},
		{"$4,233.99-", "-4233.99", false},
		{"0.00", "0", false},
		{"", "0", false},
		{" 25.99 ", "25.99", false},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.expected)
			if !got.Equal(want) {
				t.Errorf("got %s, want %s", got, want)
			}
		})
	}
}

func TestExpandYear(t *testing.T) {
	tests := []struct {
		yy       int
		expected int
	}{
		{0, 2000},
		{5, 2005},
		{25, 2025},
		{49, 2049},
		{50, 1950},
		{99, 1999},
	}

	for _, tt := range tests {
		if got := expandYear(tt.yy); got != tt.expected {
			t.Errorf("expandYear(%d): got %d, want %d", tt.yy, got, tt.expected)
		}
	}
}

func TestParseShortDate(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"03/06/25", time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC), false},
		{"12/31/99", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"13/01/25", time.Time{}, true},
		{"02/40/25", time.Time{}, true},
		{"02/15", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseShortDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestResolveTransactionDate(t *testing.T) {
	periodEnd := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		mmdd     string
		expected time.Time
		wantErr  bool
	}{
		{"01/03", time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), false},
		// December transactions on a January statement belong to the prior year
		{"12/28", time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC), false},
		{"01/06", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), false},
		{"13/01", time.Time{}, true},
		{"01/32", time.Time{}, true},
		{"0103", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.mmdd, func(t *testing.T) {
			got, err := resolveTransactionDate(tt.mmdd, periodEnd)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractPeriod(t *testing.T) {
	lines := []string{
		"Account Number: XXXX XXXX XXXX 0801",
		"Opening/Closing Date 02/07/25 - 03/06/25",
	}

	start, end, ok := extractPeriod(lines)
	if !ok {
		t.Fatal("period not found")
	}
	if start != time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start: got %v", start)
	}
	if end != time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC) {
		t.Errorf("end: got %v", end)
	}

	if _, _, ok := extractPeriod([]string{"no dates here"}); ok {
		t.Error("expected no period in unrelated text")
	}
}

func TestExtractDueDate(t *testing.T) {
	lines := []string{"Payment Due Date: 04/03/25"}
	due, ok := extractDueDate(lines)
	if !ok {
		t.Fatal("due date not found")
	}
	if due != time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC) {
		t.Errorf("got %v", due)
	}
}

func TestExtractLabeledAmount(t *testing.T) {
	lines := []string{
		"Purchases 21.24%", // interest-rate table row, must not match
		"Purchases +$1,079.57",
		"Payments, Credits $4,233.99-",
		"New Balance $1,079.57",
	}

	got, ok := extractLabeledAmount(lines, "Purchases")
	if !ok {
		t.Fatal("Purchases not found")
	}
	if !got.Equal(decimal.RequireFromString("1079.57")) {
		t.Errorf("Purchases: got %s, want 1079.57", got)
	}

	pay, ok := extractLabeledAmount(lines, "Payments, Credits")
	if !ok {
		t.Fatal("Payments, Credits not found")
	}
	if !pay.Equal(decimal.RequireFromString("-4233.99")) {
		t.Errorf("Payments: got %s, want -4233.99", pay)
	}

	if _, ok := extractLabeledAmount(lines, "Cash Advances"); ok {
		t.Error("expected no match for absent label")
	}
}

func TestIsPaymentDescription(t *testing.T) {
	tests := []struct {
		desc     string
		expected bool
	}{
		{"Payment Thank You - Web", true},
		{"AUTOMATIC PAYMENT - THANK", true},
		{"Online Payment 12345", true},
		{"AMAZON MKTPL*AB12C", false},
		{"SHELL OIL 5744", false},
	}

	for _, tt := range tests {
		if got := isPaymentDescription(tt.desc); got != tt.expected {
			t.Errorf("isPaymentDescription(%q): got %v, want %v", tt.desc, got, tt.expected)
		}
	}
}
