package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsNoOverrides(t *testing.T) {
	s := DefaultSettings(nil)
	assert.Equal(t, PageA4, s.PageSize)
	assert.Equal(t, Portrait, s.Orientation)
	assert.Equal(t, SizeMedium, s.FontSize)
	assert.Equal(t, DefaultTaxRate, s.TaxRate)
	assert.True(t, s.IncludeHeader)
	assert.True(t, s.IncludeFooter)
	assert.Equal(t, "premium", s.Theme.Template)
	assert.NotEmpty(t, s.CompanyInfo.Name)
	// colors are well-formed, never black-fallback
	for _, hex := range []string{s.PrimaryColor, s.AccentColor, s.SecondaryColor, s.BackgroundColor} {
		assert.NotEqual(t, RGB{}, HexToRGB(hex), "color %q", hex)
	}
}

func TestDefaultSettingsCompanyInfoMerge(t *testing.T) {
	base := DefaultSettings(nil)
	s := DefaultSettings(&Overrides{CompanyInfo: &CompanyInfo{Name: "Acme"}})

	assert.Equal(t, "Acme", s.CompanyInfo.Name)
	// other company fields keep the factory defaults
	assert.Equal(t, base.CompanyInfo.Address, s.CompanyInfo.Address)
	assert.Equal(t, base.CompanyInfo.Phone, s.CompanyInfo.Phone)
	assert.Equal(t, base.CompanyInfo.Email, s.CompanyInfo.Email)
	assert.Equal(t, base.CompanyInfo.TaxNumber, s.CompanyInfo.TaxNumber)
	// non-company fields untouched
	assert.Equal(t, base.PageSize, s.PageSize)
	assert.Equal(t, base.PrimaryColor, s.PrimaryColor)
	assert.Equal(t, base.Currency, s.Currency)
}

func TestDefaultSettingsTopLevelReplace(t *testing.T) {
	off := false
	s := DefaultSettings(&Overrides{
		PageSize:      PageLetter,
		Orientation:   Landscape,
		PrimaryColor:  "#FF0000",
		Currency:      "EUR",
		IncludeFooter: &off,
		Theme:         &Theme{Template: "minimal", TableStyle: "plain"},
	})
	assert.Equal(t, PageLetter, s.PageSize)
	assert.Equal(t, Landscape, s.Orientation)
	assert.Equal(t, "#FF0000", s.PrimaryColor)
	assert.Equal(t, "EUR", s.Currency)
	assert.False(t, s.IncludeFooter)
	// Theme replaces wholesale, not field by field
	assert.Equal(t, "minimal", s.Theme.Template)
	assert.Zero(t, s.Theme.Spacing)
}

func TestRateFallback(t *testing.T) {
	var s InvoiceSettings
	assert.Equal(t, DefaultTaxRate, s.Rate())
	s.TaxRate = 0.2
	assert.Equal(t, 0.2, s.Rate())
}
