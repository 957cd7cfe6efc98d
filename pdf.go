package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10
	pdfLineHeight = 4.5
	pdfFontSize   = 9
	pdfTabWidth   = 4
)

// The core PDF fonts are Latin-1 only, so box-drawing connectors are mapped
// to their ASCII look-alikes.
var pdfReplacer = strings.NewReplacer(
	"├── ", "|-- ",
	"└── ", "`-- ",
	"│   ", "|   ",
)

// pdfLexers picks a highlighter for the structured formats; the rest are plain.
var pdfLexers = map[Format]string{
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatCSV:  "csv",
}

// generatePDF writes a rendered listing to outputPath with a title line.
func generatePDF(listing string, format Format, title, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight+1, tr(title), "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	text := pdfReplacer.Replace(listing)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	if name, ok := pdfLexers[format]; ok {
		if err := writeHighlightedText(pdf, style, text, name, tr); err != nil {
			logger.Warnf("highlighting %s output failed, writing plain text: %v", format, err)
			writePlainText(pdf, tr(text))
		}
	} else {
		writePlainText(pdf, tr(text))
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}

func writePlainText(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Courier", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, text, "", "L", false)
}

// writeHighlightedText tokenises text with the named lexer and writes each
// token with the style's colour and weight. tr converts token text to the
// font encoding.
func writeHighlightedText(pdf *gofpdf.Fpdf, style *chroma.Style, text, lexerName string, tr func(string) string) error {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	fg := style.Get(chroma.Text).Colour

	for token := iterator(); token != chroma.EOF; token = iterator() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		switch {
		case entry.Colour.IsSet():
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		case fg.IsSet():
			pdf.SetTextColor(int(fg.Red()), int(fg.Green()), int(fg.Blue()))
		default:
			pdf.SetTextColor(0, 0, 0)
		}

		pdf.Write(pdfLineHeight, tr(strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))))
	}
	pdf.Ln(-1)
	return pdf.Error()
}
