package pdf

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestFormatCurrencyIdempotent(t *testing.T) {
	for _, amount := range []float64{0, 9, 1234, 20000, 999999.4} {
		first := FormatCurrency(amount, "DH")
		second := FormatCurrency(amount, "DH")
		assert.Equal(t, first, second)
	}
}

func TestFormatCurrencySuffixAndGrouping(t *testing.T) {
	s := FormatCurrency(20000, "DH")
	assert.True(t, strings.HasSuffix(s, " DH"), "got %q", s)
	assert.Equal(t, "20000", digitsOf(s))
	// grouping inserts a separator, so the string is longer than digits+suffix
	assert.Greater(t, len(s), len("20000 DH"))

	assert.Equal(t, "0", digitsOf(FormatCurrency(0, "")))
}

func TestHexToRGBRoundTrip(t *testing.T) {
	for _, hex := range []string{"#1e3a5f", "1E3A5F", "#ffffff", "000000", "#E8B54D"} {
		c := HexToRGB(hex)
		want := strings.ToLower(strings.TrimPrefix(hex, "#"))
		assert.Equal(t, "#"+want, c.Hex())
	}
}

func TestHexToRGBMalformed(t *testing.T) {
	for _, hex := range []string{"notacolor", "", "#fff", "#12345g", "12345"} {
		assert.Equal(t, RGB{}, HexToRGB(hex), "input %q", hex)
	}
}

func TestFontSize(t *testing.T) {
	assert.Equal(t, 9.0, FontSize(SizeSmall))
	assert.Equal(t, 10.0, FontSize(SizeMedium))
	assert.Equal(t, 12.0, FontSize(SizeLarge))
	assert.Equal(t, 10.0, FontSize("huge"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "09/03/2026", FormatDate(d, DateDMY))
	assert.Equal(t, "03/09/2026", FormatDate(d, DateMDY))
	assert.Equal(t, "2026-03-09", FormatDate(d, DateYMD))
	assert.Equal(t, "09/03/2026", FormatDate(d, ""))
}

func TestMonogram(t *testing.T) {
	assert.Equal(t, "JE", monogram("Jean Dupont"))
	assert.Equal(t, "MA", monogram("ma boutique"))
	assert.Equal(t, "X", monogram("x"))
	assert.Equal(t, "??", monogram("  "))
}
