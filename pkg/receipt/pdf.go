// Package receipt renders one-page rent receipt PDFs.
package receipt

import (
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type Data struct {
	Number     string
	TenantName string
	Apartment  string
	Amount     float64
	Date       time.Time
	Method     string
}

// Generate writes the receipt PDF to path.
func Generate(path string, d Data) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, tr("Recibo de pago"))
	pdf.Ln(18)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Recibo", d.Number},
		{"Inquilino", d.TenantName},
		{"Apartamento", d.Apartment},
		{"Importe", fmt.Sprintf("%.2f €", d.Amount)},
		{"Fecha", d.Date.Format("2006-01-02")},
		{"Método de pago", d.Method},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, tr(row[1]), "", 1, "L", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Generado el %s", time.Now().UTC().Format("2006-01-02 15:04"))))

	return pdf.OutputFileAndClose(path)
}
