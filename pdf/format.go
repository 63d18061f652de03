package pdf

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var frPrinter = message.NewPrinter(language.French)

// FormatCurrency renders an amount with thousands grouping, no decimals and
// the configured currency code appended. The locale formatter decides the
// grouping character and the rounding of fractional amounts.
func FormatCurrency(amount float64, currency string) string {
	s := frPrinter.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(0)))
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// RGB is a color triple for drawing calls.
type RGB struct {
	R, G, B int
}

var hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// HexToRGB parses a "#RRGGBB" or "RRGGBB" string. Malformed input returns
// black rather than an error so drawing code stays infallible; a bad color
// mis-renders the document instead of aborting it.
func HexToRGB(hex string) RGB {
	m := hexColorRe.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}
	}
	r, _ := strconv.ParseUint(m[1][0:2], 16, 8)
	g, _ := strconv.ParseUint(m[1][2:4], 16, 8)
	b, _ := strconv.ParseUint(m[1][4:6], 16, 8)
	return RGB{R: int(r), G: int(g), B: int(b)}
}

// Hex re-encodes the triple as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FontSize maps a size class to a point size. Unrecognized values fall back
// to the medium size.
func FontSize(class FontSizeClass) float64 {
	switch class {
	case SizeSmall:
		return 9
	case SizeLarge:
		return 12
	default:
		return 10
	}
}

// FormatDate renders a date according to the configured format enum.
func FormatDate(t time.Time, df DateFormat) string {
	switch df {
	case DateMDY:
		return t.Format("01/02/2006")
	case DateYMD:
		return t.Format("2006-01-02")
	default:
		return t.Format("02/01/2006")
	}
}
