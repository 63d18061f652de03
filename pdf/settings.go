// Package pdf generates client invoices and transaction reports as PDF
// documents. The layout is a linear pipeline of section builders, each
// drawing one block (header band, info cards, badges, item table, totals,
// footer) and returning the next vertical offset.
package pdf

// PageSize selects the physical page format.
type PageSize string

const (
	PageA4     PageSize = "A4"
	PageLetter PageSize = "Letter"
)

// Orientation selects page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// LogoPosition places the company logo inside the header band.
type LogoPosition string

const (
	LogoLeft   LogoPosition = "left"
	LogoCenter LogoPosition = "center"
	LogoRight  LogoPosition = "right"
)

// LogoSize selects the logo frame size.
type LogoSize string

const (
	LogoSmall  LogoSize = "small"
	LogoMedium LogoSize = "medium"
	LogoLarge  LogoSize = "large"
)

// FontFamily is one of the PDF core font families.
type FontFamily string

const (
	FontHelvetica FontFamily = "Helvetica"
	FontTimes     FontFamily = "Times"
	FontCourier   FontFamily = "Courier"
)

// FontSizeClass is the body text size class. See FontSize for the mapping.
type FontSizeClass string

const (
	SizeSmall  FontSizeClass = "small"
	SizeMedium FontSizeClass = "medium"
	SizeLarge  FontSizeClass = "large"
)

// DateFormat selects how dates are rendered on documents.
type DateFormat string

const (
	DateDMY DateFormat = "dd/mm/yyyy"
	DateMDY DateFormat = "mm/dd/yyyy"
	DateYMD DateFormat = "yyyy-mm-dd"
)

// DefaultTaxRate is the VAT rate applied by the totals section when the
// settings do not carry an explicit rate.
const DefaultTaxRate = 0.18

// Watermark is an optional diagonal text drawn behind the page content.
type Watermark struct {
	Text    string  `json:"text"`
	Opacity float64 `json:"opacity"`
}

// Theme groups the purely cosmetic knobs of a document template.
type Theme struct {
	Template        string     `json:"template"`     // premium, classic, minimal
	HeaderStyle     string     `json:"header_style"` // banded, flat
	CardStyle       string     `json:"card_style"`   // rounded, square
	TableStyle      string     `json:"table_style"`  // striped, plain
	ShadowIntensity float64    `json:"shadow_intensity"`
	BorderRadius    float64    `json:"border_radius"`
	Spacing         float64    `json:"spacing"`
	Watermark       *Watermark `json:"watermark,omitempty"`
}

// CompanyInfo identifies the document issuer.
type CompanyInfo struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Website   string `json:"website"`
	TaxNumber string `json:"tax_number"`
	// Logo is a logo reference: a data URI, an http(s) URL or a file path.
	Logo string `json:"logo"`
}

// InvoiceSettings is the full configuration record controlling company
// identity, layout and theme for generated documents. The renderer receives
// an immutable snapshot per invocation; persistence is the caller's concern.
type InvoiceSettings struct {
	CompanyInfo CompanyInfo `json:"company_info"`

	PageSize     PageSize     `json:"page_size"`
	Orientation  Orientation  `json:"orientation"`
	LogoPosition LogoPosition `json:"logo_position"`
	LogoSize     LogoSize     `json:"logo_size"`

	FontFamily FontFamily    `json:"font_family"`
	FontSize   FontSizeClass `json:"font_size"`

	// Colors are 6-hex-digit strings, with or without a leading '#'.
	PrimaryColor    string `json:"primary_color"`
	AccentColor     string `json:"accent_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`

	IncludeHeader bool   `json:"include_header"`
	IncludeFooter bool   `json:"include_footer"`
	HeaderText    string `json:"header_text"`
	FooterText    string `json:"footer_text"`

	Currency   string     `json:"currency"`
	DateFormat DateFormat `json:"date_format"`

	// TaxRate overrides DefaultTaxRate when positive.
	TaxRate float64 `json:"tax_rate"`

	Theme Theme `json:"theme"`
}

// Overrides carries caller-supplied deviations from the defaults.
// Zero-valued fields keep the default. Pointer fields distinguish
// "not supplied" from an explicit false/empty value.
type Overrides struct {
	CompanyInfo *CompanyInfo

	PageSize     PageSize
	Orientation  Orientation
	LogoPosition LogoPosition
	LogoSize     LogoSize

	FontFamily FontFamily
	FontSize   FontSizeClass

	PrimaryColor    string
	AccentColor     string
	SecondaryColor  string
	BackgroundColor string

	IncludeHeader *bool
	IncludeFooter *bool
	HeaderText    *string
	FooterText    *string

	Currency   string
	DateFormat DateFormat
	TaxRate    float64

	Theme *Theme
}

// DefaultSettings returns the baseline configuration merged with the given
// overrides. Top-level overrides replace the default wholesale; CompanyInfo
// is merged field by field so a caller can set just the name and keep the
// placeholder contact details.
func DefaultSettings(ov *Overrides) InvoiceSettings {
	s := InvoiceSettings{
		CompanyInfo: CompanyInfo{
			Name:      "Ma Boutique",
			Address:   "12 Avenue Hassan II, Casablanca",
			Phone:     "+212 5 22 00 00 00",
			Email:     "contact@maboutique.ma",
			Website:   "www.maboutique.ma",
			TaxNumber: "IF 12345678",
		},
		PageSize:        PageA4,
		Orientation:     Portrait,
		LogoPosition:    LogoLeft,
		LogoSize:        LogoMedium,
		FontFamily:      FontHelvetica,
		FontSize:        SizeMedium,
		PrimaryColor:    "#1E3A5F",
		AccentColor:     "#E8B54D",
		SecondaryColor:  "#64748B",
		BackgroundColor: "#F8FAFC",
		IncludeHeader:   true,
		IncludeFooter:   true,
		Currency:        "DH",
		DateFormat:      DateDMY,
		TaxRate:         DefaultTaxRate,
		Theme: Theme{
			Template:        "premium",
			HeaderStyle:     "banded",
			CardStyle:       "rounded",
			TableStyle:      "striped",
			ShadowIntensity: 0.15,
			BorderRadius:    3,
			Spacing:         8,
		},
	}
	if ov == nil {
		return s
	}
	if ov.CompanyInfo != nil {
		mergeCompanyInfo(&s.CompanyInfo, *ov.CompanyInfo)
	}
	if ov.PageSize != "" {
		s.PageSize = ov.PageSize
	}
	if ov.Orientation != "" {
		s.Orientation = ov.Orientation
	}
	if ov.LogoPosition != "" {
		s.LogoPosition = ov.LogoPosition
	}
	if ov.LogoSize != "" {
		s.LogoSize = ov.LogoSize
	}
	if ov.FontFamily != "" {
		s.FontFamily = ov.FontFamily
	}
	if ov.FontSize != "" {
		s.FontSize = ov.FontSize
	}
	if ov.PrimaryColor != "" {
		s.PrimaryColor = ov.PrimaryColor
	}
	if ov.AccentColor != "" {
		s.AccentColor = ov.AccentColor
	}
	if ov.SecondaryColor != "" {
		s.SecondaryColor = ov.SecondaryColor
	}
	if ov.BackgroundColor != "" {
		s.BackgroundColor = ov.BackgroundColor
	}
	if ov.IncludeHeader != nil {
		s.IncludeHeader = *ov.IncludeHeader
	}
	if ov.IncludeFooter != nil {
		s.IncludeFooter = *ov.IncludeFooter
	}
	if ov.HeaderText != nil {
		s.HeaderText = *ov.HeaderText
	}
	if ov.FooterText != nil {
		s.FooterText = *ov.FooterText
	}
	if ov.Currency != "" {
		s.Currency = ov.Currency
	}
	if ov.DateFormat != "" {
		s.DateFormat = ov.DateFormat
	}
	if ov.TaxRate > 0 {
		s.TaxRate = ov.TaxRate
	}
	if ov.Theme != nil {
		s.Theme = *ov.Theme
	}
	return s
}

func mergeCompanyInfo(dst *CompanyInfo, ov CompanyInfo) {
	if ov.Name != "" {
		dst.Name = ov.Name
	}
	if ov.Address != "" {
		dst.Address = ov.Address
	}
	if ov.Phone != "" {
		dst.Phone = ov.Phone
	}
	if ov.Email != "" {
		dst.Email = ov.Email
	}
	if ov.Website != "" {
		dst.Website = ov.Website
	}
	if ov.TaxNumber != "" {
		dst.TaxNumber = ov.TaxNumber
	}
	if ov.Logo != "" {
		dst.Logo = ov.Logo
	}
}

// Rate returns the tax rate to apply, falling back to DefaultTaxRate.
func (s InvoiceSettings) Rate() float64 {
	if s.TaxRate > 0 {
		return s.TaxRate
	}
	return DefaultTaxRate
}
