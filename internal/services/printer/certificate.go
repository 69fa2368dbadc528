package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// CertificateData holds the provenance facts printed on a batch certificate
type CertificateData struct {
	BatchRef        string
	TraceURL        string
	CooperativeName string
	Location        string
	CertNumber      string
	Breed           string
	SourceLabel     string // "Flock" or "Livestock" line, already formatted
	Grade           string
	QuantityEggs    int
	PackageDate     string
	ExpiryDate      string
	OnssaNumber     string
}

// GenerateCertificatePDF creates a printable A4 certificate with the batch
// facts and the trace QR code
func GenerateCertificatePDF(data CertificateData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; accented French text must go through the
	// translator or it prints as mojibake.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 40

	// Header
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(contentWidth, 12, tr("Certificat de Traçabilité"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(contentWidth, 7, tr("Biovolailles Union"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Batch reference, prominent
	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(contentWidth, 10, tr(data.BatchRef), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	// QR Code (trace URL, high error correction for print wear)
	qrPng, err := qrcode.Encode(data.TraceURL, qrcode.High, 300)
	if err != nil {
		return nil, fmt.Errorf("encode trace QR: %w", err)
	}

	imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("trace_qr", imgOptions, bytes.NewReader(qrPng))

	qrSize := 50.0
	qrX := 20 + (contentWidth-qrSize)/2
	pdf.ImageOptions("trace_qr", qrX, pdf.GetY(), qrSize, qrSize, false, imgOptions, 0, "")
	pdf.SetY(pdf.GetY() + qrSize + 2)

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(contentWidth, 5, tr(data.TraceURL), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Fact rows
	rows := [][2]string{
		{"Coopérative", data.CooperativeName},
		{"Localisation", data.Location},
		{"N° certification", data.CertNumber},
		{"Source", data.SourceLabel},
		{"Race", data.Breed},
		{"Calibre", data.Grade},
		{"Quantité", fmt.Sprintf("%d oeufs", data.QuantityEggs)},
		{"Date de conditionnement", data.PackageDate},
		{"Date d'expiration", data.ExpiryDate},
		{"N° ONSSA", data.OnssaNumber},
	}

	labelWidth := 60.0
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(labelWidth, 8, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(contentWidth-labelWidth, 8, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(contentWidth, 5, tr("Scannez le code QR pour vérifier la provenance de ce lot."), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
