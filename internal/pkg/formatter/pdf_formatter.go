package formatter

import (
	"bytes"
	"os"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// In the container image fonts live next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSystemPath  = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath finds a DejaVuSans font next to the binary or on the system
func resolveFontPath() string {
	for _, p := range []string{pdfFontRuntimePath, pdfFontSystemPath} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (mf *PDFFormatter) Format(title, markdown string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Core fonts only cover cp1252; fall back to them when DejaVuSans is absent.
	fontName := "Arial"
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		translate = func(s string) string { return s }
	}

	pdf.SetFont(fontName, "B", 18)
	pdf.MultiCell(0, 9, translate(titleOrDefault(title)), "", "", false)
	pdf.Ln(4)

	headingSizes := map[int]float64{1: 16, 2: 14, 3: 12}

	for _, b := range parseBlocks(markdown) {
		switch {
		case b.heading > 0:
			pdf.SetFont(fontName, "B", headingSizes[b.heading])
			pdf.Ln(2)
			pdf.MultiCell(0, 7, translate(b.text), "", "", false)
		case b.bullet:
			pdf.SetFont(fontName, "", 11)
			pdf.MultiCell(0, 6, translate("- "+b.text), "", "", false)
		default:
			pdf.SetFont(fontName, "", 11)
			pdf.MultiCell(0, 6, translate(b.text), "", "", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
