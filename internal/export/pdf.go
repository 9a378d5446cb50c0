package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"invoicedesk/internal/domain"
	"invoicedesk/internal/render"
)

// A4 page size in millimetres.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// FileName is the suggested download name for an invoice PDF. Only the last
// path element of the invoice number is used, so the name never leaves the
// directory it is joined to.
func FileName(invoiceNumber string) string {
	name := filepath.Base(invoiceNumber)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	if name == "." || name == ".." {
		name = ""
	}
	return "Invoice-" + name + ".pdf"
}

// PDF places img across the full width of A4 pages, keeping its aspect
// ratio. Content taller than one page continues on the next.
func PDF(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("export: empty raster")
	}

	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return nil, fmt.Errorf("encode raster: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("invoice", opts, &raster)

	height := PageWidthMM * float64(b.Dy()) / float64(b.Dx())
	for offset := 0.0; offset < height; offset += PageHeightMM {
		pdf.AddPage()
		pdf.ImageOptions("invoice", 0, -offset, PageWidthMM, height, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}

// Document is a rendered PDF and the name to save it under.
type Document struct {
	FileName string
	Bytes    []byte
}

// RenderPDF rasterises v at DefaultScale and wraps it in a PDF.
func RenderPDF(inv domain.Invoice, v render.View) (Document, error) {
	data, err := PDF(Rasterize(v, DefaultScale))
	if err != nil {
		return Document{}, err
	}
	return Document{FileName: FileName(strings.TrimSpace(inv.InvoiceNumber)), Bytes: data}, nil
}
