package infra

// pdf.go — movement report generation using go-pdf/fpdf.
// Renders the most recent ledger entries as an A4 table: fecha, herramienta,
// operario, tipo, cantidad, and the disponible snapshot after the movement.
// The output file is saved to storagePath/movimientos_{timestamp}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/it-3llideas/eines-nibexinstalacions-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarReporteTransacciones writes a PDF listing the given ledger entries
// (expected newest first) and returns the absolute path of the file.
func GenerarReporteTransacciones(transacciones []model.Transaccion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("movimientos_%s.pdf", time.Now().Format("20060102_150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 14, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Registro de movimientos de herramientas", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colFecha := contentW * 0.16
	colHerr := contentW * 0.28
	colOper := contentW * 0.22
	colTipo := contentW * 0.14
	colCant := contentW * 0.08
	colDisp := contentW * 0.12

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colFecha, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colHerr, 6, "Herramienta", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colOper, 6, "Operario", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colTipo, 6, "Tipo", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCant, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colDisp, 6, "Disp.", "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, t := range transacciones {
		herramienta := ""
		if t.Herramienta != nil {
			herramienta = t.Herramienta.Nombre
		}
		operario := "-"
		if t.Operario != nil {
			operario = t.Operario.Nombre
		}
		pdf.CellFormat(colFecha, 5.5, t.CreatedAt.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colHerr, 5.5, herramienta, "", 0, "L", false, 0, "")
		pdf.CellFormat(colOper, 5.5, operario, "", 0, "L", false, 0, "")
		pdf.CellFormat(colTipo, 5.5, t.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 5.5, fmt.Sprintf("%d", t.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(colDisp, 5.5, fmt.Sprintf("%d", t.DisponibleNuevo), "", 1, "R", false, 0, "")
	}

	if len(transacciones) == 0 {
		pdf.Ln(2)
		pdf.CellFormat(contentW, 6, "Sin movimientos registrados", "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
