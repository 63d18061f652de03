package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/internal/models"
	"github.com/diewo77/shop-manager/internal/storage"
	"github.com/diewo77/shop-manager/pdf"
	"github.com/diewo77/shop-manager/validation"
)

type SettingsHandler struct {
	db    *gorm.DB
	store storage.Store
}

func NewSettingsHandler(db *gorm.DB, store storage.Store) *SettingsHandler {
	return &SettingsHandler{db: db, store: store}
}

func (h *SettingsHandler) current() (models.ShopSettings, error) {
	var settings models.ShopSettings
	err := h.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.ShopSettings{Version: 1, Invoice: pdf.DefaultSettings(nil)}
		err = h.db.Create(&settings).Error
	}
	return settings, err
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.current()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

func validateInvoiceSettings(s pdf.InvoiceSettings) validation.Violations {
	v := make(validation.Violations)
	validation.Required("company_info.name", s.CompanyInfo.Name, v)
	validation.Email("company_info.email", s.CompanyInfo.Email, v)
	validation.HexColor("primary_color", s.PrimaryColor, v)
	validation.HexColor("accent_color", s.AccentColor, v)
	validation.HexColor("secondary_color", s.SecondaryColor, v)
	validation.HexColor("background_color", s.BackgroundColor, v)
	validation.OneOf("page_size", string(s.PageSize),
		[]string{string(pdf.PageA4), string(pdf.PageLetter)}, v)
	validation.OneOf("orientation", string(s.Orientation),
		[]string{string(pdf.Portrait), string(pdf.Landscape)}, v)
	validation.OneOf("logo_position", string(s.LogoPosition),
		[]string{string(pdf.LogoLeft), string(pdf.LogoCenter), string(pdf.LogoRight)}, v)
	validation.OneOf("logo_size", string(s.LogoSize),
		[]string{string(pdf.LogoSmall), string(pdf.LogoMedium), string(pdf.LogoLarge)}, v)
	validation.OneOf("font_family", string(s.FontFamily),
		[]string{string(pdf.FontHelvetica), string(pdf.FontTimes), string(pdf.FontCourier)}, v)
	validation.OneOf("font_size", string(s.FontSize),
		[]string{string(pdf.SizeSmall), string(pdf.SizeMedium), string(pdf.SizeLarge)}, v)
	validation.OneOf("date_format", string(s.DateFormat),
		[]string{string(pdf.DateDMY), string(pdf.DateMDY), string(pdf.DateYMD)}, v)
	validation.Required("currency", s.Currency, v)
	if s.TaxRate < 0 || s.TaxRate >= 1 {
		v["tax_rate"] = "invalid_value"
	}
	return v
}

// Update replaces the invoice configuration wholesale and bumps the version.
// The request body is the pdf.InvoiceSettings JSON shape.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var invoice pdf.InvoiceSettings
	if err := httpx.Decode(r, &invoice); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateInvoiceSettings(invoice); !v.Empty() {
		failValidation(w, r, v)
		return
	}
	settings, err := h.current()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	settings.Invoice = invoice
	settings.Version++
	if err := h.db.Save(&settings).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// Reset restores the default configuration, keeping the company name so the
// shop does not revert to the placeholder identity.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	settings, err := h.current()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	settings.Invoice = pdf.DefaultSettings(&pdf.Overrides{
		CompanyInfo: &pdf.CompanyInfo{Name: settings.Invoice.CompanyInfo.Name},
	})
	settings.Version++
	if err := h.db.Save(&settings).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// UploadLogo stores a logo image and points the company logo at its URL.
func (h *SettingsHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart", nil)
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "missing_logo", nil)
		return
	}
	defer file.Close()

	url, err := h.store.Put(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "upload_failed", nil)
		return
	}
	settings, err := h.current()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	settings.Invoice.CompanyInfo.Logo = url
	settings.Version++
	if err := h.db.Save(&settings).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"logo": url})
}
