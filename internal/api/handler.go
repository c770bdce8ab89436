// Package api exposes the statement pipeline over HTTP.
package api

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/insightdelivered/card-statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/card-statement-analyzer/internal/categorizer"
	"github.com/insightdelivered/card-statement-analyzer/internal/models"
	"github.com/insightdelivered/card-statement-analyzer/internal/report"
)

const version = "1.0.0"

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success        bool                         `json:"success"`
	Error          string                       `json:"error,omitempty"`
	Format         string                       `json:"format,omitempty"`
	Month          string                       `json:"month,omitempty"`
	Cardholders    []string                     `json:"cardholders,omitempty"`
	Transactions   []models.Transaction         `json:"transactions"`
	Count          int                          `json:"count"`
	Reconciliation *models.ReconciliationResult `json:"reconciliation,omitempty"`
	NewRuleCount   int                          `json:"newRuleCount"`
	SkippedLines   int                          `json:"skippedLines"`
	CSV            string                       `json:"csv,omitempty"`
}

// Server wires the pipeline behind an HTTP surface. The API runs
// unattended: no category prompting, heuristics and the master file decide.
type Server struct {
	analyzer *analyzer.Analyzer
	log      *slog.Logger
}

// NewServer returns a Server backed by the given analyzer.
func NewServer(a *analyzer.Analyzer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{analyzer: a, log: log}
}

// App builds the Fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:             32 << 20, // statements are small; 32MB is generous
		DisableStartupMessage: true,
	})

	app.Get("/api/health", s.handleHealth)
	app.Post("/api/analyze", s.handleAnalyze)

	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// handleAnalyze accepts a multipart PDF upload under form field "file",
// runs the full pipeline on it and returns the parsed statement, the
// reconciliation outcome and the CSV rendering.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return errorResponse(c, fiber.StatusBadRequest, "only PDF files are supported")
	}

	// The PDF library needs a file on disk, so the upload lands in a temp
	// directory that is removed with the request.
	tmpDir, err := os.MkdirTemp("", "statement-upload-*")
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "could not store upload")
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(header.Filename))
	if err := c.SaveFile(header, tmpPath); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "could not store upload")
	}

	result, err := s.analyzer.AnalyzeFile(tmpPath)
	if err != nil {
		s.log.Error("analysis failed", "file", header.Filename, "error", err)
		if errors.Is(err, categorizer.ErrRulePersistence) {
			return errorResponse(c, fiber.StatusInternalServerError, err.Error())
		}
		return errorResponse(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var csvBuf bytes.Buffer
	if err := report.WriteCSV(&csvBuf, result.Statement); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "CSV rendering failed")
	}

	stmt := result.Statement
	return c.JSON(AnalyzeResponse{
		Success:        true,
		Format:         string(stmt.Format),
		Month:          stmt.StatementMonth(),
		Cardholders:    stmt.Cardholders,
		Transactions:   stmt.Transactions,
		Count:          len(stmt.Transactions),
		Reconciliation: &result.Reconciliation,
		NewRuleCount:   len(result.NewRules),
		SkippedLines:   stmt.SkippedLines,
		CSV:            csvBuf.String(),
	})
}

func errorResponse(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
