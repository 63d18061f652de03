package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jung-kurt/gofpdf"
)

// Document is an in-memory paginated canvas built incrementally by the
// section builders. It exists only for the duration of one generate call
// and is owned exclusively by the generator that created it.
type Document struct {
	f      *gofpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64
	margin float64
	font   string
	body   float64 // body point size
}

func newDocument(s InvoiceSettings) *Document {
	orient := "P"
	if s.Orientation == Landscape {
		orient = "L"
	}
	size := "A4"
	if s.PageSize == PageLetter {
		size = "Letter"
	}
	f := gofpdf.New(orient, "mm", size, "")
	f.SetAutoPageBreak(true, 18)
	f.AddPage()
	w, h := f.GetPageSize()
	d := &Document{
		f:      f,
		tr:     f.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
		margin: 14,
		font:   string(s.FontFamily),
		body:   FontSize(s.FontSize),
	}
	if d.font == "" {
		d.font = string(FontHelvetica)
	}
	return d
}

// Bytes renders the document and returns the raw PDF bytes.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI renders the document as a base64 data URI suitable for embedding
// in a page or an iframe.
func (d *Document) DataURI() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(b), nil
}

// WriteTo streams the rendered document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	b, err := d.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// SaveFile writes the rendered document to the named file.
func (d *Document) SaveFile(name string) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(name, b, 0o644)
}

// Err reports any error the underlying canvas accumulated while drawing.
func (d *Document) Err() error {
	if d.f.Err() {
		return d.f.Error()
	}
	return nil
}

// ── Layout primitives ────────────────────────────────────────────────────────

// contentWidth is the usable width between margins.
func (d *Document) contentWidth() float64 {
	return d.width - 2*d.margin
}

func (d *Document) setFill(c RGB)   { d.f.SetFillColor(c.R, c.G, c.B) }
func (d *Document) setText(c RGB)   { d.f.SetTextColor(c.R, c.G, c.B) }
func (d *Document) setDraw(c RGB)   { d.f.SetDrawColor(c.R, c.G, c.B) }
func (d *Document) setFont(style string, size float64) {
	d.f.SetFont(d.font, style, size)
}

// fillRect draws a filled rectangle.
func (d *Document) fillRect(x, y, w, h float64, c RGB) {
	d.setFill(c)
	d.f.Rect(x, y, w, h, "F")
}

// roundedRect draws a filled rounded rectangle on all four corners.
func (d *Document) roundedRect(x, y, w, h, radius float64, c RGB) {
	d.setFill(c)
	if radius <= 0 {
		d.f.Rect(x, y, w, h, "F")
		return
	}
	d.f.RoundedRect(x, y, w, h, radius, "1234", "F")
}

// textAt places a single line with the given alignment inside [x, x+w].
// align is one of "L", "C", "R".
func (d *Document) textAt(x, y, w float64, align, style string, size float64, c RGB, s string) {
	d.setText(c)
	d.setFont(style, size)
	d.f.SetXY(x, y)
	d.f.CellFormat(w, size*0.5, d.tr(s), "", 0, align+"M", false, 0, "")
}

// placeImage resolves, validates and registers an image reference, then
// draws it as a square of the given side at (x, y). Returns false when the
// image cannot be used; the caller draws its fallback instead.
func (d *Document) placeImage(name, ref string, x, y, side float64) bool {
	raw, kind, err := loadLogo(ref)
	if err != nil {
		log.Printf("pdf: image unavailable, falling back: %v", err)
		return false
	}
	opts := gofpdf.ImageOptions{ImageType: kind}
	if err := d.registerImage(name, opts, raw); err != nil {
		log.Printf("pdf: register image: %v", err)
		return false
	}
	d.f.ImageOptions(name, x, y, side, side, false, opts, 0, "")
	return true
}

// registerImage feeds the bytes to the PDF engine. The engine panics on
// some malformed streams and records others as a sticky error; both are
// converted to a plain error and the sticky state cleared so one bad image
// cannot fail the whole document.
func (d *Document) registerImage(name string, opts gofpdf.ImageOptions, raw []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.f.ClearError()
			err = fmt.Errorf("image parse panic: %v", r)
		}
	}()
	d.f.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if d.f.Err() {
		err = d.f.Error()
		d.f.ClearError()
	}
	return err
}

// multiLine writes lines top to bottom starting at y, returning the next y.
// Empty lines are dropped so cards compact instead of showing blank rows.
func (d *Document) multiLine(x, y, w, lineH float64, style string, size float64, c RGB, lines []string) float64 {
	for _, ln := range lines {
		if ln == "" {
			continue
		}
		d.textAt(x, y, w, "L", style, size, c, ln)
		y += lineH
	}
	return y
}
