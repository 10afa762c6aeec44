package infra

// pdf.go — end-of-day closing report generation using go-pdf/fpdf.
// Generates an A5 summary with:
//   - Restaurant name header and closing timestamp
//   - System totals per payment method
//   - Declared vs system comparison with per-concept differences
//   - Final verdict line (cuadrada / descuadrada)
//
// The output file is saved to storagePath/cierre_{cajaID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/lazarohernan/ezorder-backend/internal/model"
)

// GenerateCierrePDF renders the closing report for a closed Caja.
// Returns the absolute path to the generated file.
func GenerateCierrePDF(caja *model.Caja, restauranteNombre, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%s.pdf", caja.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, restauranteNombre, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 6, "Reporte de Cierre de Caja", "", 1, "C", false, 0, "")
	if caja.FechaCierre != nil {
		pdf.CellFormat(contentW, 5, caja.FechaCierre.Format("02/01/2006  15:04"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	col1 := contentW * 0.55
	col2 := contentW * 0.45

	linea := func(label string, monto decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(col1, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, "$"+monto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	lineaOpcional := func(label string, monto *decimal.Decimal) {
		if monto != nil {
			linea(label, *monto, false)
		}
	}

	// ── System totals ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Totales del sistema", "", 1, "L", false, 0, "")
	linea("Monto inicial", caja.MontoInicial, false)
	lineaOpcional("Ventas en efectivo", caja.VentasEfectivoSistema)
	lineaOpcional("Ventas POS", caja.VentasPosSistema)
	lineaOpcional("Ventas transferencia", caja.VentasTransferenciaSistema)
	lineaOpcional("Gastos", caja.GastosSistema)
	linea("Ingresos manuales", caja.TotalIngresos, false)
	lineaOpcional("Efectivo esperado", caja.EfectivoSistema)
	pdf.Ln(2)

	// ── Declared vs system ───────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Montos declarados", "", 1, "L", false, 0, "")
	lineaOpcional("Efectivo contado", caja.EfectivoDeclarado)
	lineaOpcional("POS declarado", caja.VentasPosDeclaradas)
	lineaOpcional("Transferencias declaradas", caja.VentasTransferenciaDeclaradas)
	lineaOpcional("Gastos declarados", caja.GastosDeclarados)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Diferencias", "", 1, "L", false, 0, "")
	lineaOpcional("Efectivo", caja.DiferenciaEfectivo)
	lineaOpcional("POS", caja.DiferenciaPos)
	lineaOpcional("Transferencias", caja.DiferenciaTransferencia)
	lineaOpcional("Gastos", caja.DiferenciaGastos)
	if caja.DiferenciaTotal != nil {
		linea("DIFERENCIA TOTAL", *caja.DiferenciaTotal, true)
	}

	// ── Verdict ──────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	veredicto := "SIN CUADRE"
	if caja.EstadoCuadre != nil {
		if *caja.EstadoCuadre == model.CuadreCuadrada {
			veredicto = "CAJA CUADRADA"
		} else {
			veredicto = "CAJA DESCUADRADA"
		}
	}
	pdf.CellFormat(contentW, 7, veredicto, "", 1, "C", false, 0, "")

	if caja.Observaciones != nil && *caja.Observaciones != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.MultiCell(contentW, 4, "Obs: "+*caja.Observaciones, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
