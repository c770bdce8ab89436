// Package parser turns extracted statement text into structured statement
// data. It supports four fixed issuer layouts; detection is a closed priority
// list, not open plugin registration.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

// Extractor defines the interface for format-specific statement extractors.
type Extractor interface {
	// Parse takes raw text from PDF pages and returns structured
	// statement data.
	Parse(pages []string) (*models.Statement, error)
	// Format returns the layout this extractor handles.
	Format() models.StatementFormat
}

// New returns the extractor for the given format. FormatUnknown yields
// models.ErrNoExtractor: the caller must treat detection failure explicitly.
func New(format models.StatementFormat) (Extractor, error) {
	switch format {
	case models.FormatClassic:
		return &ClassicExtractor{}, nil
	case models.FormatPremier:
		return &PremierExtractor{}, nil
	case models.FormatColumnar:
		return &ColumnarExtractor{}, nil
	case models.FormatBusiness:
		return &BusinessExtractor{}, nil
	default:
		return nil, models.ErrNoExtractor
	}
}

// detectionOrder is the fixed priority list for format checks.
var detectionOrder = []models.StatementFormat{
	models.FormatClassic,
	models.FormatPremier,
	models.FormatColumnar,
	models.FormatBusiness,
}

// bodyAnchors maps each format to the anchor phrases unique to its layout.
// Used when the filename is ambiguous or missing.
var bodyAnchors = map[models.StatementFormat][]string{
	models.FormatClassic:  {"TRANSACTIONS THIS CYCLE"},
	models.FormatPremier:  {"New Balance Total"},
	models.FormatColumnar: {"Date of Transaction"},
	models.FormatBusiness: {"BUSINESS CARD ACTIVITY SUMMARY"},
}

// Detect classifies a statement into one of the known layouts, or
// FormatUnknown. The filename fast path checks for card-suffix tokens
// (statements are named like "20250306-statements-0801-.pdf"); the body scan
// first looks for an Account Number line carrying the suffix, then for
// format-unique anchor phrases.
//
// The suffix must appear as a delimited "-NNNN-" token: the YYYYMMDD date
// prefix can embed another card's digits (20250801-...-5136- holds both
// 0801 and 5136), and only the delimited token identifies the card.
func Detect(filename string, pages []string) models.StatementFormat {
	if filename != "" {
		base := filepath.Base(filename)
		for _, f := range detectionOrder {
			if strings.Contains(base, "-"+f.CardSuffix()+"-") {
				return f
			}
		}
	}

	combined := strings.Join(pages, "\n")

	for _, line := range strings.Split(combined, "\n") {
		if !strings.Contains(line, "Account Number") {
			continue
		}
		for _, f := range detectionOrder {
			if strings.Contains(line, f.CardSuffix()) {
				return f
			}
		}
	}

	for _, f := range detectionOrder {
		if containsAny(combined, bodyAnchors[f]) {
			return f
		}
	}

	return models.FormatUnknown
}
