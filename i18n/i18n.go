// Package i18n provides the fr/en message catalog used for API error
// messages and Accept-Language detection. French is the reference locale;
// missing keys fall back to it, then to the code itself.
package i18n

import "strings"

var messages = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"must_be_positive":      "Doit être positif",
		"invalid_email":         "Email invalide",
		"invalid_color":         "Couleur invalide",
		"invalid_value":         "Valeur invalide",
		"not_found":             "Introuvable",
		"unauthorized":          "Non autorisé",
		"forbidden":             "Accès refusé",
		"validation_failed":     "Validation échouée",
		"insufficient_stock":    "Stock insuffisant",
		"order_not_editable":    "Commande non modifiable",
		"empty_order":           "Commande vide",
		"pdf_generation_failed": "Échec de génération du PDF",
	},
	"en": {
		"required":              "Required",
		"must_be_positive":      "Must be positive",
		"invalid_email":         "Invalid email",
		"invalid_color":         "Invalid color",
		"invalid_value":         "Invalid value",
		"not_found":             "Not found",
		"unauthorized":          "Unauthorized",
		"forbidden":             "Forbidden",
		"validation_failed":     "Validation failed",
		"insufficient_stock":    "Insufficient stock",
		"order_not_editable":    "Order is not editable",
		"empty_order":           "Order has no items",
		"pdf_generation_failed": "PDF generation failed",
	},
}

// T translates a message code. Unknown languages fall back to French;
// unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages["fr"][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks fr or en from an Accept-Language header value.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if i := strings.IndexAny(tag, "-;"); i >= 0 {
			tag = tag[:i]
		}
		switch tag {
		case "en":
			return "en"
		case "fr":
			return "fr"
		}
	}
	return "fr"
}
