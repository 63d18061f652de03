package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	Required("code", "SKU1", v)
	if v["name"] != "required" {
		t.Fatalf("expected required violation, got %v", v)
	}
	if _, ok := v["code"]; ok {
		t.Fatal("unexpected violation for non-empty value")
	}
}

func TestEmail(t *testing.T) {
	v := make(Violations)
	Email("email", "not-an-email", v)
	if v["email"] != "invalid_email" {
		t.Fatalf("expected invalid_email, got %v", v)
	}
	v = make(Violations)
	Email("email", "", v)
	Email("email2", "a@b.co", v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestHexColor(t *testing.T) {
	v := make(Violations)
	HexColor("primary", "#1E3A5F", v)
	HexColor("accent", "E8B54D", v)
	HexColor("bad", "notacolor", v)
	HexColor("short", "#fff", v)
	if len(v) != 2 || v["bad"] != "invalid_color" || v["short"] != "invalid_color" {
		t.Fatalf("unexpected violations: %v", v)
	}
}

func TestOneOf(t *testing.T) {
	v := make(Violations)
	OneOf("orientation", "portrait", []string{"portrait", "landscape"}, v)
	OneOf("page_size", "A5", []string{"A4", "Letter"}, v)
	if len(v) != 1 || v["page_size"] != "invalid_value" {
		t.Fatalf("unexpected violations: %v", v)
	}
}
