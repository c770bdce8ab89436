package parser

import (
	"errors"
	"testing"

	"github.com/insightdelivered/card-statement-analyzer/internal/models"
)

func TestNew(t *testing.T) {
	for _, format := range detectionOrder {
		ext, err := New(format)
		if err != nil {
			t.Fatalf("New(%s): unexpected error: %v", format, err)
		}
		if ext.Format() != format {
			t.Errorf("New(%s): extractor reports %s", format, ext.Format())
		}
	}

	if _, err := New(models.FormatUnknown); !errors.Is(err, models.ErrNoExtractor) {
		t.Errorf("New(unknown): got %v, want ErrNoExtractor", err)
	}
}

func TestDetectByFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected models.StatementFormat
	}{
		{"20250306-statements-0801-.pdf", models.FormatClassic},
		{"20250118-statements-1250-.pdf", models.FormatPremier},
		{"20250214-statements-5136-.pdf", models.FormatColumnar},
		{"20250131-statements-8635-.pdf", models.FormatBusiness},
		// the August 1st date prefix embeds 0801; the -5136- token decides
		{"20250801-statements-5136-.pdf", models.FormatColumnar},
		{"20241250-statements-8635-.pdf", models.FormatBusiness},
		// an undelimited suffix is not a card token
		{"statements0801.pdf", models.FormatUnknown},
		{"statement.pdf", models.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := Detect(tt.filename, nil)
			if got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestDetectByAccountNumber(t *testing.T) {
	pages := []string{
		"CARDMEMBER SERVICES\nAccount Number: XXXX XXXX XXXX 5136\nOpening/Closing Date 01/15/25 - 02/14/25",
	}

	if got := Detect("statement.pdf", pages); got != models.FormatColumnar {
		t.Errorf("got %s, want columnar", got)
	}
}

func TestDetectByBodyAnchor(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected models.StatementFormat
	}{
		{"classic", "JOHN Q SMITH\nTRANSACTIONS THIS CYCLE (CARD 0801)", models.FormatClassic},
		{"premier", "ACCOUNT ACTIVITY\nNew Balance Total $892.16", models.FormatPremier},
		{"columnar", "Date of Transaction  Merchant Name or Transaction Description", models.FormatColumnar},
		{"business", "BUSINESS CARD ACTIVITY SUMMARY", models.FormatBusiness},
		{"unknown", "totally unrelated text", models.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect("statement.pdf", []string{tt.body})
			if got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

// Filename suffixes take priority over body anchors, so a renamed file keeps
// deterministic classification.
func TestDetectFilenameWinsOverBody(t *testing.T) {
	pages := []string{"BUSINESS CARD ACTIVITY SUMMARY"}
	if got := Detect("20250306-statements-0801-.pdf", pages); got != models.FormatClassic {
		t.Errorf("got %s, want classic", got)
	}
}

// Each format's anchors must be unique across layouts or detection order
// would silently decide ties.
func TestBodyAnchorsDisjoint(t *testing.T) {
	for f, anchors := range bodyAnchors {
		for _, anchor := range anchors {
			for other, otherAnchors := range bodyAnchors {
				if other == f {
					continue
				}
				if containsAny(anchor, otherAnchors) {
					t.Errorf("anchor %q of %s also matches %s", anchor, f, other)
				}
			}
		}
	}
}
