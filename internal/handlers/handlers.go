// Package handlers implements the JSON API of the dashboard, one file per
// resource. Handlers assume auth/permission middleware already ran.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/shop-manager/httpx"
	"github.com/diewo77/shop-manager/i18n"
)

// listParams extracts pagination and search from a list request.
type listParams struct {
	Query  string
	Limit  int
	Offset int
}

func parseListParams(r *http.Request) listParams {
	p := listParams{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			p.Limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			p.Offset = (n - 1) * p.Limit
		}
	}
	p.Query = strings.TrimSpace(r.URL.Query().Get("q"))
	return p
}

// likePattern lowercases and wraps a search term for a LIKE query.
func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func lang(r *http.Request) string {
	return i18n.DetectLanguage(r.Header.Get("Accept-Language"))
}

// failValidation writes the standard 422 with per-field codes plus a
// translated summary message.
func failValidation(w http.ResponseWriter, r *http.Request, violations any) {
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":   "validation_failed",
		"message": i18n.T(lang(r), "validation_failed"),
		"fields":  violations,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, http.StatusNotFound, "not_found", i18n.T(lang(r), "not_found"))
}
