package pdf

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGenerator(t *testing.T, ov *Overrides) *Generator {
	t.Helper()
	g := New(DefaultSettings(ov))
	g.now = func() time.Time { return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC) }
	return g
}

func TestSubtotalInvariant(t *testing.T) {
	purchases := []Purchase{
		{Description: "Clavier", UnitPrice: 350, Quantity: 3},
		{Description: "Écran", UnitPrice: 1800, Quantity: 2},
		{Description: "Câble", UnitPrice: 45.5, Quantity: 10},
	}
	subtotal := Subtotal(purchases)
	assert.InDelta(t, 3*350+2*1800+10*45.5, subtotal, 1e-9)

	tax := subtotal * DefaultTaxRate
	total := subtotal + tax
	assert.InDelta(t, subtotal*1.18, total, 1e-9)
}

func TestSingleItemInvoiceScenario(t *testing.T) {
	purchases := []Purchase{{Description: "Produit", UnitPrice: 10000, Quantity: 2}}
	subtotal := Subtotal(purchases)
	assert.Equal(t, 20000.0, subtotal)
	assert.InDelta(t, 3600.0, subtotal*DefaultTaxRate, 1e-9)
	assert.InDelta(t, 23600.0, subtotal+subtotal*DefaultTaxRate, 1e-9)

	g := testGenerator(t, nil)
	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean Dupont",
		Phone:     "+212 6 00 00 00 00",
		Address:   "5 Rue des Fleurs, Rabat",
		Email:     "jean@example.com",
		Purchases: purchases,
	})
	require.NoError(t, err)

	b, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b[:4]), "%PDF"))
	assert.True(t, strings.HasSuffix(FormatCurrency(23600, g.settings.Currency), " "+g.settings.Currency))
}

func TestTotalsSkippedWhenEmpty(t *testing.T) {
	g := testGenerator(t, nil)
	d := newDocument(g.settings)

	y := 120.0
	got := g.totals(d, y, nil, g.settings.Rate())
	assert.Equal(t, y, got, "totals must not advance the cursor for an empty list")
}

func TestItemsTablePlaceholderWhenEmpty(t *testing.T) {
	g := testGenerator(t, nil)
	d := newDocument(g.settings)

	y := 100.0
	got := g.itemsTable(d, y, nil)
	assert.Equal(t, y+10, got, "empty table advances by a small fixed amount")
	require.NoError(t, d.Err())
}

func TestEmptyInvoiceStillRenders(t *testing.T) {
	g := testGenerator(t, nil)
	doc, err := g.ClientInvoice(ClientInvoiceData{Name: "Client Sans Achat"})
	require.NoError(t, err)
	b, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b[:4]), "%PDF"))
}

func TestMalformedColorDegradesToBlack(t *testing.T) {
	g := testGenerator(t, &Overrides{PrimaryColor: "notacolor"})
	assert.Equal(t, RGB{}, HexToRGB(g.settings.PrimaryColor))

	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean Dupont",
		Purchases: []Purchase{{Description: "Produit", UnitPrice: 100, Quantity: 1}},
	})
	require.NoError(t, err, "generation completes despite the bad color")
	_, err = doc.Bytes()
	require.NoError(t, err)
}

func TestMissingLogoUsesMonogram(t *testing.T) {
	g := testGenerator(t, &Overrides{CompanyInfo: &CompanyInfo{Name: "Boutique Centrale"}})
	require.Empty(t, g.settings.CompanyInfo.Logo)
	assert.Equal(t, "BO", monogram(g.settings.CompanyInfo.Name))

	doc, err := g.ClientInvoice(ClientInvoiceData{Name: "Jean"})
	require.NoError(t, err)
	require.NoError(t, doc.Err())
}

func TestBrokenLogoFallsBack(t *testing.T) {
	g := testGenerator(t, &Overrides{
		CompanyInfo: &CompanyInfo{Logo: "data:image/png;base64,AAAA"},
	})
	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean",
		Purchases: []Purchase{{Description: "P", UnitPrice: 10, Quantity: 1}},
	})
	require.NoError(t, err, "logo decode failure must not abort generation")
	b, err := doc.Bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestTruncatedLogoFallsBack(t *testing.T) {
	// a PNG cut off after the IHDR chunk: the header parses, the body is gone
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	cut := buf.Bytes()[:33]
	_, _, err := image.DecodeConfig(bytes.NewReader(cut))
	require.NoError(t, err, "header alone must still parse or the fixture is wrong")

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(cut)
	if _, _, err := loadLogo(uri); err == nil {
		t.Fatal("truncated logo must fail validation")
	}

	g := testGenerator(t, &Overrides{CompanyInfo: &CompanyInfo{Name: "Boutique", Logo: uri}})
	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean",
		Purchases: []Purchase{{Description: "P", UnitPrice: 10, Quantity: 1}},
	})
	require.NoError(t, err, "truncated logo must degrade to the monogram")
	b, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b[:4]), "%PDF"))
}

func TestRegisterImageClearsEngineError(t *testing.T) {
	g := testGenerator(t, nil)
	d := newDocument(g.settings)

	err := d.registerImage("logo", gofpdf.ImageOptions{ImageType: "PNG"}, []byte("not a png"))
	if err == nil {
		t.Fatal("garbage image must be rejected")
	}
	require.NoError(t, d.Err(), "a rejected image must not leave a sticky error")
}

func TestInvoiceRateOverride(t *testing.T) {
	g := testGenerator(t, nil)
	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean",
		TaxRate:   0.2,
		Purchases: []Purchase{{Description: "P", UnitPrice: 100, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, doc.Err())
}

func TestInvoiceNumberFallback(t *testing.T) {
	g := testGenerator(t, nil)
	assert.Equal(t, "FAC-0042", g.invoiceNumber("FAC-0042"))

	n := g.invoiceNumber("")
	assert.Len(t, n, 6)
	// deterministic clock makes the fallback stable
	assert.Equal(t, n, g.invoiceNumber(""))
}

func TestDataURI(t *testing.T) {
	g := testGenerator(t, nil)
	doc, err := g.ClientInvoice(ClientInvoiceData{Name: "Jean"})
	require.NoError(t, err)
	uri, err := doc.DataURI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:application/pdf;base64,"))
}

func TestTransactionReport(t *testing.T) {
	g := testGenerator(t, nil)
	rows := []TransactionRow{
		{Description: "Vente comptoir", Amount: 1200, Type: "income", Date: time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), Category: "ventes"},
		{Description: "Loyer", Amount: 4500, Type: "expense", Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Category: "charges"},
	}
	doc, err := g.TransactionReport(rows, "")
	require.NoError(t, err)
	b, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b[:4]), "%PDF"))

	// empty report renders the placeholder instead of failing
	doc, err = g.TransactionReport(nil, "Rapport vide")
	require.NoError(t, err)
	_, err = doc.Bytes()
	require.NoError(t, err)
}

func TestWatermarkRenders(t *testing.T) {
	g := testGenerator(t, &Overrides{
		Theme: &Theme{Template: "premium", TableStyle: "striped", Watermark: &Watermark{Text: "BROUILLON", Opacity: 0.1}},
	})
	doc, err := g.ClientInvoice(ClientInvoiceData{
		Name:      "Jean",
		Purchases: []Purchase{{Description: "P", UnitPrice: 10, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NoError(t, doc.Err())
}
