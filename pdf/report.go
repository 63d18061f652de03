package pdf

import "log"

// TransactionReport builds the flat tabular report of income and expense
// movements: a simpler banded header with the company identity, a striped
// table of all rows, and the footer when enabled.
func (g *Generator) TransactionReport(rows []TransactionRow, title string) (*Document, error) {
	if title == "" {
		title = "RAPPORT DES TRANSACTIONS"
	}
	s := g.settings
	d := newDocument(s)

	y := g.reportHeader(d, title)
	y = g.transactionTable(d, y, rows)
	if s.IncludeFooter {
		g.footer(d, y)
	}
	g.watermark(d)
	if err := d.Err(); err != nil {
		log.Printf("pdf: report generation failed: %v", err)
		return nil, err
	}
	return d, nil
}

// reportHeader is a slimmer band than the invoice header: logo or monogram
// on the left, company name beside it, title underneath.
func (g *Generator) reportHeader(d *Document, title string) float64 {
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	white := RGB{255, 255, 255}
	const bandH = 32

	d.fillRect(0, 0, d.width, bandH, primary)
	frame := logoFrame(LogoSmall)
	fy := (bandH - frame) / 2
	d.roundedRect(d.margin, fy, frame, frame, s.Theme.BorderRadius, white)
	g.drawLogo(d, d.margin, fy, frame)

	x := d.margin + frame + 6
	d.textAt(x, bandH/2-5, d.width-d.margin-x, "L", "B", 15, white, s.CompanyInfo.Name)
	d.textAt(x, bandH/2+3, d.width-d.margin-x, "L", "", d.body, white, title)
	d.textAt(x, bandH/2+3, d.width-d.margin-x, "R", "", d.body, white,
		FormatDate(g.now(), s.DateFormat))
	return bandH + s.Theme.Spacing
}

func (g *Generator) transactionTable(d *Document, y float64, rows []TransactionRow) float64 {
	s := g.settings
	primary := HexToRGB(s.PrimaryColor)
	secondary := HexToRGB(s.SecondaryColor)
	stripe := HexToRGB(s.BackgroundColor)
	accent := HexToRGB(s.AccentColor)
	white := RGB{255, 255, 255}

	if len(rows) == 0 {
		d.setText(secondary)
		d.setFont("I", d.body)
		d.f.SetXY(d.margin, y)
		d.f.CellFormat(d.contentWidth(), 8, d.tr("Aucune transaction"), "", 0, "CM", false, 0, "")
		return y + 10
	}

	w := d.contentWidth()
	cols := []struct {
		title string
		width float64
		align string
	}{
		{"DESCRIPTION", w * 0.34, "L"},
		{"TYPE", w * 0.12, "L"},
		{"MONTANT", w * 0.20, "R"},
		{"DATE", w * 0.16, "R"},
		{"CATÉGORIE", w * 0.18, "L"},
	}

	const rowH = 8
	d.fillRect(d.margin, y, w, rowH, primary)
	x := d.margin
	for _, c := range cols {
		d.textAt(x+2, y+rowH/2-2, c.width-4, c.align, "B", d.body-1, white, c.title)
		x += c.width
	}
	y += rowH

	striped := s.Theme.TableStyle != "plain"
	for i, row := range rows {
		if y+rowH > d.height-50 {
			d.f.AddPage()
			y = d.margin
		}
		if striped && i%2 == 1 {
			d.fillRect(d.margin, y, w, rowH, stripe)
		}
		typeColor := accent
		label := "Revenu"
		if row.Type == "expense" {
			typeColor = secondary
			label = "Dépense"
		}
		cells := []struct {
			text  string
			color RGB
		}{
			{row.Description, secondary},
			{label, typeColor},
			{FormatCurrency(row.Amount, s.Currency), secondary},
			{FormatDate(row.Date, s.DateFormat), secondary},
			{row.Category, secondary},
		}
		x = d.margin
		for j, c := range cols {
			d.textAt(x+2, y+rowH/2-2, c.width-4, c.align, "", d.body-1, cells[j].color, cells[j].text)
			x += c.width
		}
		y += rowH
	}
	return y + s.Theme.Spacing
}
