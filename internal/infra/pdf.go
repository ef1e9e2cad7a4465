package infra

// pdf.go — Daily closing report generation using go-pdf/fpdf.
// Renders an A5 summary sheet with the register, closing date, expected vs
// counted cash, and the discrepancy. The output file is saved to
// storagePath/closing_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// ClosingReportData carries the already-formatted figures for one closing.
// Monetary values arrive as decimal strings; the renderer does no arithmetic.
type ClosingReportData struct {
	ClosingID    string
	RegisterID   string
	ClosingDate  string
	ExpectedCash string
	ActualCash   string
	Discrepancy  string
}

// GenerateClosingPDF renders the closing summary and returns the absolute
// path to the generated file. storagePath is created if needed.
func GenerateClosingPDF(data ClosingReportData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("closing_%s.pdf", data.ClosingID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Daily Closing Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, data.ClosingDate, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Register info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Register: "+data.RegisterID, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Closing:  "+data.ClosingID, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Figures ───────────────────────────────────────────────────────────────
	labelW := contentW * 0.6
	valueW := contentW * 0.4

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(labelW, 7, "Expected cash (from movements):", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 7, "$"+data.ExpectedCash, "", 1, "R", false, 0, "")

	pdf.CellFormat(labelW, 7, "Counted cash:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 7, "$"+data.ActualCash, "", 1, "R", false, 0, "")

	pdf.Ln(1)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "Discrepancy:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 8, "$"+data.Discrepancy, "", 1, "R", false, 0, "")

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, "Register balance has been reset to zero for the next period.", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
