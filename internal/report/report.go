// Package report renders an extraction result as a one-page PDF dossier:
// the scored field table, media inventory and any strategy errors. Layout is
// intentionally simple; the JSON result remains the machine-readable form.
package report

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/goleilao/internal/profile"
	"github.com/hyperifyio/goleilao/internal/record"
)

// fieldRows is the presentation order of the record fields.
var fieldRows = []struct {
	key   string
	label string
}{
	{record.KeyTitle, "Titulo"},
	{record.KeyPropertyType, "Tipo de imovel"},
	{record.KeyAddress, "Endereco"},
	{record.KeyArea, "Area (m2)"},
	{record.KeyInitialValue, "Lance inicial (R$)"},
	{record.KeyAppraisalValue, "Valor de avaliacao (R$)"},
	{record.KeyAuctionDate, "Data do leilao"},
	{record.KeyAuctionType, "Tipo de leilao"},
	{record.KeyAuctionStatus, "Situacao"},
	{record.KeyProcessNumber, "Processo"},
	{record.KeyRegistryNumber, "Matricula"},
}

// WritePDF renders the result to outPath.
func WritePDF(res profile.Result, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Relatorio de extracao", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, res.URL, "", "L", false)
	pdf.CellFormat(0, 5, fmt.Sprintf("Perfil: %s    Status: %s    Confianca: %.2f",
		res.Profile, res.Status, res.Confidence), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Extraido em "+res.ExtractedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Campos", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range fieldRows {
		v, ok := res.Fields[row.key]
		if !ok {
			continue
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(55, 6, row.label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 6, formatValue(v), "B", "L", false)
	}
	if desc, ok := res.Fields[record.KeyDescription].(string); ok && desc != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Descricao", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, truncate(desc, 1200), "", "L", false)
	}

	if len(res.Media) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("Midia (%d)", len(res.Media)), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, asset := range res.Media {
			line := asset.Context + "  "
			if asset.OCR != nil {
				line += fmt.Sprintf("[ocr %.0f%%]  ", asset.OCR.MeanConfidence)
			}
			pdf.Write(5, line)
			pdf.WriteLinkString(5, truncate(asset.URL, 90), asset.URL)
			pdf.Ln(5)
		}
	}

	if len(res.Errors) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, "Falhas de estrategia", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, e := range res.Errors {
			pdf.MultiCell(0, 5, e.Strategy+": "+e.Message, "", "L", false)
		}
	}

	return pdf.OutputFileAndClose(outPath)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		s := fmt.Sprintf("%.2f", t)
		return strings.Replace(s, ".", ",", 1)
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
