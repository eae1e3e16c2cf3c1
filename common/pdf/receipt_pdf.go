package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// ReceiptLine is one itemized row on a receipt
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
	Subtotal    float64
}

// ReceiptData holds everything needed to render a sale receipt
type ReceiptData struct {
	Folio          string
	Date           time.Time
	EmployeeName   string
	CustomerName   string
	CustomerEmail  string
	Lines          []ReceiptLine
	Total          float64
	QRCodePngBytes []byte
}

// GenerateReceiptPDF renders an A4 receipt with the sale folio QR code.
// Returns PDF bytes, ready to save or attach to an email.
func GenerateReceiptPDF(data ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, "SIGE Marimon", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Sale receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Folio and date
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(95, 7, fmt.Sprintf("Folio: %s", data.Folio), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(95, 7, data.Date.Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	if data.EmployeeName != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Served by: %s", data.EmployeeName), "", 1, "L", false, 0, "")
	}
	if data.CustomerName != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Customer: %s", data.CustomerName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Separator
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.4)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(4)

	// Item table header
	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(85, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", true, 0, "")

	// Item rows
	pdf.SetFont("Arial", "", 11)
	for _, line := range data.Lines {
		name := line.ProductName
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		pdf.CellFormat(85, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", line.Subtotal), "1", 1, "R", false, 0, "")
	}

	// Total
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 9, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, fmt.Sprintf("$%.2f", data.Total), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	// QR code with the folio, bottom centered
	if len(data.QRCodePngBytes) > 0 {
		imgOpts := gofpdf.ImageOptions{
			ImageType: "PNG",
			ReadDpi:   false,
		}
		imgName := fmt.Sprintf("qr_%s", data.Folio)
		pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(data.QRCodePngBytes))

		qrX := (210.0 - 40.0) / 2
		pdf.ImageOptions(imgName, qrX, pdf.GetY(), 40, 40, false, imgOpts, 0, "")
		pdf.Ln(42)

		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, "Scan to verify this receipt", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
