package pdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var logoClient = &http.Client{Timeout: 10 * time.Second}

// loadLogo resolves a logo reference (data URI, http(s) URL or file path)
// into validated image bytes plus the gofpdf image type ("PNG" or "JPG").
// Any failure is returned to the caller, which substitutes the monogram.
func loadLogo(ref string) ([]byte, string, error) {
	var raw []byte
	switch {
	case strings.HasPrefix(ref, "data:"):
		idx := strings.Index(ref, "base64,")
		if idx < 0 {
			return nil, "", errors.New("logo data URI is not base64")
		}
		b, err := base64.StdEncoding.DecodeString(ref[idx+len("base64,"):])
		if err != nil {
			return nil, "", fmt.Errorf("decode logo data URI: %w", err)
		}
		raw = b
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		resp, err := logoClient.Get(ref)
		if err != nil {
			return nil, "", fmt.Errorf("fetch logo: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("fetch logo: status %d", resp.StatusCode)
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		if err != nil {
			return nil, "", fmt.Errorf("read logo: %w", err)
		}
		raw = b
	default:
		b, err := os.ReadFile(ref)
		if err != nil {
			return nil, "", fmt.Errorf("read logo file: %w", err)
		}
		raw = b
	}

	// Full decode, not just the header: a truncated body must be rejected
	// here so it never reaches the PDF engine.
	_, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode logo: %w", err)
	}
	switch format {
	case "png":
		return raw, "PNG", nil
	case "jpeg":
		return raw, "JPG", nil
	default:
		return nil, "", fmt.Errorf("unsupported logo format %q", format)
	}
}

// monogram derives the two-letter fallback drawn when no logo is available:
// the first two characters of the company name, uppercased.
func monogram(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) == 0 {
		return "??"
	}
	if len(r) == 1 {
		return strings.ToUpper(string(r[0]))
	}
	return strings.ToUpper(string(r[:2]))
}
