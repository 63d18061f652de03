package pdf

import (
	"log"
	"strconv"
	"time"
)

// Purchase is one line item on a client invoice.
type Purchase struct {
	Description string
	UnitPrice   float64
	Quantity    int
}

// ClientInvoiceData is everything the invoice pipeline needs about the
// recipient. Quantity >= 1 is enforced upstream, not by the renderer.
type ClientInvoiceData struct {
	// Number optionally carries a persisted invoice number. When empty the
	// renderer falls back to the last six digits of the current timestamp.
	Number    string
	Name      string
	Phone     string
	Address   string
	Email     string
	Purchases []Purchase
	// TaxRate optionally carries the rate the caller already billed at.
	// When positive it overrides the settings rate, so a document rendered
	// for an old order keeps the totals that order was finalized with.
	TaxRate float64
}

// TransactionRow is one line of the transaction report.
type TransactionRow struct {
	Description string
	Amount      float64
	Type        string // "income" or "expense"
	Date        time.Time
	Category    string
}

// Subtotal sums quantity × unit price over all purchases.
func Subtotal(purchases []Purchase) float64 {
	var total float64
	for _, p := range purchases {
		total += float64(p.Quantity) * p.UnitPrice
	}
	return total
}

// Generator sequences the section builders into complete documents.
// Each call builds a fresh Document, so concurrent renders do not interfere
// as long as each goroutine uses its own call.
type Generator struct {
	settings InvoiceSettings
	now      func() time.Time
}

// New returns a generator holding an immutable snapshot of the settings.
func New(settings InvoiceSettings) *Generator {
	return &Generator{settings: settings, now: time.Now}
}

// ClientInvoice builds the per-client invoice document: header, info cards,
// badges, item table, totals and footer, threading the Y cursor through.
func (g *Generator) ClientInvoice(data ClientInvoiceData) (*Document, error) {
	d := newDocument(g.settings)
	y := g.header(d, "FACTURE")
	y = g.infoCards(d, y, data)
	y = g.badges(d, y, data.Number)
	y = g.itemsTable(d, y, data.Purchases)
	rate := g.settings.Rate()
	if data.TaxRate > 0 {
		rate = data.TaxRate
	}
	y = g.totals(d, y, data.Purchases, rate)
	if g.settings.IncludeFooter {
		g.footer(d, y)
	}
	g.watermark(d)
	if err := d.Err(); err != nil {
		log.Printf("pdf: invoice generation failed: %v", err)
		return nil, err
	}
	return d, nil
}

// invoiceNumber prefers a caller-supplied number and otherwise derives one
// from the current timestamp's last six digits.
func (g *Generator) invoiceNumber(supplied string) string {
	if supplied != "" {
		return supplied
	}
	s := strconv.FormatInt(g.now().UnixMilli(), 10)
	return s[len(s)-6:]
}

// ── Section builders ─────────────────────────────────────────────────────────
//
// Each builder takes the current Y offset and returns the next one; side
// effects are confined to the document canvas.

const (
	headerBandH = 50
	cardGutter  = 8
	badgeW      = 55
)

func logoFrame(size LogoSize) float64 {
	switch size {
	case LogoSmall:
		return 18
	case LogoLarge:
		return 30
	default:
		return 24
	}
}

func (g *Generator) header(d *Document, title string) float64 {
	s := g.settings
	if !s.IncludeHeader {
		return d.margin
	}
	primary := HexToRGB(s.PrimaryColor)
	white := RGB{255, 255, 255}

	d.fillRect(0, 0, d.width, headerBandH, primary)

	// Logo frame, or the company monogram when no logo decodes.
	frame := logoFrame(s.LogoSize)
	fx := d.margin
	switch s.LogoPosition {
	case LogoCenter:
		fx = (d.width - frame) / 2
	case LogoRight:
		fx = d.width - d.margin - frame
	}
	fy := (headerBandH - frame) / 2
	d.roundedRect(fx, fy, frame, frame, s.Theme.BorderRadius, white)
	g.drawLogo(d, fx, fy, frame)

	// Title right-aligned in the band, shifted left of a right-placed logo.
	tw := d.width - d.margin - fx - frame - 6
	tx := fx + frame + 6
	if s.LogoPosition == LogoRight {
		tx = d.margin
		tw = fx - d.margin - 6
	}
	d.textAt(tx, headerBandH/2-4, tw, "R", "B", 26, white, title)
	if s.HeaderText != "" {
		d.textAt(tx, headerBandH/2+5, tw, "R", "", d.body, white, s.HeaderText)
	}
	return headerBandH + s.Theme.Spacing
}

// drawLogo places the logo image inside its white frame, falling back to the
// two-letter monogram when the reference is missing or fails to decode.
// Decode failures are logged and swallowed: the document always renders.
func (g *Generator) drawLogo(d *Document, x, y, frame float64) {
	s := g.settings
	if s.CompanyInfo.Logo != "" {
		if ok := d.placeImage("logo", s.CompanyInfo.Logo, x+2, y+2, frame-4); ok {
			return
		}
	}
	d.textAt(x, y+frame/2-3, frame, "C", "B", frame*0.55, HexToRGB(s.PrimaryColor), monogram(s.CompanyInfo.Name))
}

func (g *Generator) infoCards(d *Document, y float64, data ClientInvoiceData) float64 {
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	secondary := HexToRGB(s.SecondaryColor)
	bg := HexToRGB(s.BackgroundColor)
	white := RGB{255, 255, 255}

	cardW := (d.contentWidth() - cardGutter) / 2
	const cardH = 40
	const bandH = 9

	draw := func(x float64, title, name string, lines []string) {
		d.roundedRect(x, y, cardW, cardH, s.Theme.BorderRadius, bg)
		d.roundedRect(x, y, cardW, bandH, s.Theme.BorderRadius, primary)
		d.textAt(x+4, y+bandH/2-2, cardW-8, "L", "B", d.body, white, title)
		ly := y + bandH + 5
		d.textAt(x+4, ly, cardW-8, "L", "B", d.body+1, primary, name)
		d.multiLine(x+4, ly+6, cardW-8, 5.5, "", d.body, secondary, lines)
	}

	draw(d.margin, "EXPÉDITEUR", s.CompanyInfo.Name,
		[]string{s.CompanyInfo.Address, s.CompanyInfo.Phone, s.CompanyInfo.Email})
	draw(d.margin+cardW+cardGutter, "DESTINATAIRE", data.Name,
		[]string{data.Address, data.Phone, data.Email})

	return y + cardH + s.Theme.Spacing
}

func (g *Generator) badges(d *Document, y float64, number string) float64 {
	s := g.settings
	white := RGB{255, 255, 255}
	const badgeH = 16

	now := g.now()
	due := now.AddDate(0, 0, 30)
	chips := []struct {
		label string
		value string
		color RGB
	}{
		{"N° FACTURE", g.invoiceNumber(number), HexToRGB(s.PrimaryColor)},
		{"DATE", FormatDate(now, s.DateFormat), HexToRGB(s.AccentColor)},
		{"ÉCHÉANCE", FormatDate(due, s.DateFormat), HexToRGB(s.SecondaryColor)},
	}

	gap := (d.contentWidth() - 3*badgeW) / 2
	x := d.margin
	for _, chip := range chips {
		d.roundedRect(x, y, badgeW, badgeH, s.Theme.BorderRadius, chip.color)
		d.textAt(x, y+4, badgeW, "C", "B", d.body-1, white, chip.label)
		d.textAt(x, y+10.5, badgeW, "C", "", d.body, white, chip.value)
		x += badgeW + gap
	}
	return y + badgeH + s.Theme.Spacing
}

func (g *Generator) itemsTable(d *Document, y float64, purchases []Purchase) float64 {
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	secondary := HexToRGB(s.SecondaryColor)
	stripe := HexToRGB(s.BackgroundColor)
	white := RGB{255, 255, 255}

	if len(purchases) == 0 {
		d.setText(secondary)
		d.setFont("I", d.body)
		d.f.SetXY(d.margin, y)
		d.f.CellFormat(d.contentWidth(), 8, d.tr("Aucun article"), "", 0, "CM", false, 0, "")
		return y + 10
	}

	w := d.contentWidth()
	cols := []struct {
		title string
		width float64
		align string
	}{
		{"DÉSIGNATION", w * 0.46, "L"},
		{"PRIX UNITAIRE", w * 0.20, "R"},
		{"QTÉ", w * 0.12, "R"},
		{"TOTAL", w * 0.22, "R"},
	}

	const rowH = 9
	d.fillRect(d.margin, y, w, rowH, primary)
	x := d.margin
	for _, c := range cols {
		d.textAt(x+2, y+rowH/2-2, c.width-4, c.align, "B", d.body, white, c.title)
		x += c.width
	}
	y += rowH

	striped := s.Theme.TableStyle != "plain"
	for i, p := range purchases {
		if y+rowH > d.height-60 {
			d.f.AddPage()
			y = d.margin
		}
		if striped && i%2 == 1 {
			d.fillRect(d.margin, y, w, rowH, stripe)
		}
		line := float64(p.Quantity) * p.UnitPrice
		cells := []string{
			p.Description,
			FormatCurrency(p.UnitPrice, s.Currency),
			strconv.Itoa(p.Quantity),
			FormatCurrency(line, s.Currency),
		}
		x = d.margin
		for j, c := range cols {
			d.textAt(x+2, y+rowH/2-2, c.width-4, c.align, "", d.body, secondary, cells[j])
			x += c.width
		}
		y += rowH
	}
	return y + s.Theme.Spacing
}

// totals draws subtotal, tax and the highlighted total. With no purchases it
// draws nothing and returns y unchanged.
func (g *Generator) totals(d *Document, y float64, purchases []Purchase, rate float64) float64 {
	if len(purchases) == 0 {
		return y
	}
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	secondary := HexToRGB(s.SecondaryColor)
	white := RGB{255, 255, 255}

	subtotal := Subtotal(purchases)
	tax := subtotal * rate
	total := subtotal + tax

	const boxW = 76
	x := d.width - d.margin - boxW
	row := func(label, value string) {
		d.textAt(x, y, boxW*0.5, "L", "", d.body, secondary, label)
		d.textAt(x+boxW*0.5, y, boxW*0.5, "R", "", d.body, secondary, value)
		y += 7
	}
	row("Sous-total", FormatCurrency(subtotal, s.Currency))
	row("TVA ("+strconv.FormatFloat(rate*100, 'f', -1, 64)+"%)", FormatCurrency(tax, s.Currency))

	const pillH = 12
	d.roundedRect(x, y, boxW, pillH, pillH/2, primary)
	d.textAt(x+6, y+pillH/2-2, boxW*0.4, "L", "B", d.body+1, white, "TOTAL")
	d.textAt(x+boxW*0.4, y+pillH/2-2, boxW*0.6-6, "R", "B", d.body+1, white, FormatCurrency(total, s.Currency))
	return y + pillH + s.Theme.Spacing
}

func (g *Generator) footer(d *Document, y float64) {
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	secondary := HexToRGB(s.SecondaryColor)
	bg := HexToRGB(s.BackgroundColor)

	if bottom := d.height - 64; y < bottom {
		y = bottom
	}
	cardW := (d.contentWidth() - cardGutter) / 2
	const cardH = 34

	card := func(x float64, title string, lines []string) {
		d.roundedRect(x, y, cardW, cardH, s.Theme.BorderRadius, bg)
		d.textAt(x+4, y+5, cardW-8, "L", "B", d.body, primary, title)
		d.multiLine(x+4, y+12, cardW-8, 5, "", d.body-1, secondary, lines)
	}

	card(d.margin, "CONDITIONS DE PAIEMENT", []string{
		"Paiement à 30 jours",
		"Pénalité de retard : 3%",
		"Escompte règlement anticipé : 2%",
	})
	card(d.margin+cardW+cardGutter, "COORDONNÉES BANCAIRES", []string{
		"Bénéficiaire : " + s.CompanyInfo.Name,
		"IBAN : " + s.CompanyInfo.TaxNumber,
		s.FooterText,
	})

	my := y + cardH + 9
	d.textAt(d.margin, my, d.contentWidth(), "C", "B", d.body+2, primary, "MERCI POUR VOTRE CONFIANCE")
	lineW := 40.0
	d.fillRect((d.width-lineW)/2, my+6, lineW, 0.8, HexToRGB(s.AccentColor))
}

// watermark overlays the optional diagonal theme watermark.
func (g *Generator) watermark(d *Document) {
	wm := g.settings.Theme.Watermark
	if wm == nil || wm.Text == "" {
		return
	}
	opacity := wm.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.08
	}
	d.f.SetAlpha(opacity, "Normal")
	d.f.TransformBegin()
	d.f.TransformRotate(45, d.width/2, d.height/2)
	d.textAt(0, d.height/2, d.width, "C", "B", 60, HexToRGB(g.settings.SecondaryColor), wm.Text)
	d.f.TransformEnd()
	d.f.SetAlpha(1, "Normal")
}
