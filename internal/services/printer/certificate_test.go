package printer

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

func demoCertificate() CertificateData {
	return CertificateData{
		BatchRef:        "BVU-2025-0001",
		TraceURL:        "https://bvunion.ma/trace/BVU-2025-0001",
		CooperativeName: "Coopérative Atlas",
		Location:        "Azrou",
		CertNumber:      "ONSSA-771",
		Breed:           "Rhode Island",
		SourceLabel:     "Lot d'élevage",
		Grade:           "A",
		QuantityEggs:    360,
		PackageDate:     "2025-02-10",
		OnssaNumber:     "ONSSA-LOT-2291",
	}
}

func TestGenerateCertificatePDF(t *testing.T) {
	pdfBytes, err := GenerateCertificatePDF(demoCertificate())
	if err != nil {
		t.Fatalf("GenerateCertificatePDF: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("Output is not a PDF document")
	}
	t.Logf("Certificate PDF: %d bytes", len(pdfBytes))
}

// Core fonts use cp1252, so accented characters must arrive in the page
// content stream as single cp1252 bytes, never as raw UTF-8 pairs.
func TestCertificatePDFFrenchTextEncoding(t *testing.T) {
	pdfBytes, err := GenerateCertificatePDF(demoCertificate())
	if err != nil {
		t.Fatalf("GenerateCertificatePDF: %v", err)
	}

	content := pageContentStreams(t, pdfBytes)
	if len(content) == 0 {
		t.Fatal("No page content stream found in PDF")
	}

	// "ç" and "é" appear in the fixed labels and the cooperative name
	if bytes.Contains(content, []byte{0xC3, 0xA7}) || bytes.Contains(content, []byte{0xC3, 0xA9}) {
		t.Error("Content stream carries raw UTF-8 byte pairs for accented characters")
	}
	if !bytes.Contains(content, []byte{0xE7}) {
		t.Error("cp1252 byte for 'ç' missing from content stream")
	}
	if !bytes.Contains(content, []byte{0xE9}) {
		t.Error("cp1252 byte for 'é' missing from content stream")
	}
}

// pageContentStreams inflates every stream object and concatenates the ones
// holding text-show operators, skipping image data.
func pageContentStreams(t *testing.T, pdfBytes []byte) []byte {
	t.Helper()

	var out []byte
	rest := pdfBytes
	for {
		start := bytes.Index(rest, []byte("stream"))
		if start < 0 {
			break
		}
		seg := rest[start+len("stream"):]
		for len(seg) > 0 && (seg[0] == '\r' || seg[0] == '\n') {
			seg = seg[1:]
		}
		end := bytes.Index(seg, []byte("endstream"))
		if end < 0 {
			break
		}
		raw := seg[:end]

		inflated := raw
		if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			if data, err := io.ReadAll(zr); err == nil {
				inflated = data
			}
			zr.Close()
		}
		if bytes.Contains(inflated, []byte("BT")) && bytes.Contains(inflated, []byte("Tj")) {
			out = append(out, inflated...)
		}

		rest = seg[end+len("endstream"):]
	}
	return out
}
