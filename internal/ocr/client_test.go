package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/parse" {
			t.Errorf("Path = %s, want /parse", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req["image_base64"] != "aGVsbG8=" {
			t.Errorf("image_base64 = %q, want aGVsbG8=", req["image_base64"])
		}
		if req["media_type"] != "image/png" {
			t.Errorf("media_type = %q, want image/png", req["media_type"])
		}

		w.Write([]byte(`{
			"vendor": "La Taqueria",
			"date": "2026-03-14",
			"currency": "MXN",
			"line_items": [
				{"description": "Tacos al pastor", "amount": 120.0},
				{"description": "Mezcal", "amount": 150.0, "category": "alcohol"}
			],
			"tax_lines": [{"description": "IVA", "amount": 43.2}],
			"subtotal": 270.0,
			"total": 313.2
		}`))
	}))
	defer service.Close()

	client := New(service.URL, "secret")
	result, err := client.Parse(context.Background(), "aGVsbG8=", "image/png")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if result.Vendor != "La Taqueria" || result.Currency != "MXN" {
		t.Errorf("Result header = %+v, want La Taqueria in MXN", result)
	}
	if len(result.LineItems) != 2 {
		t.Fatalf("Got %d line items, want 2", len(result.LineItems))
	}
	if result.LineItems[1].Category != "alcohol" {
		t.Errorf("Category = %q, want alcohol", result.LineItems[1].Category)
	}
	if len(result.TaxLines) != 1 || result.TaxLines[0].Amount != 43.2 {
		t.Errorf("Tax lines = %+v, want one IVA line of 43.2", result.TaxLines)
	}
	if result.Total == nil || *result.Total != 313.2 {
		t.Errorf("Total = %v, want 313.2", result.Total)
	}
	if result.Tip != nil {
		t.Errorf("Tip = %v, want nil", result.Tip)
	}
}

func TestParseDefaultsMediaType(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["media_type"] != "image/jpeg" {
			t.Errorf("media_type = %q, want image/jpeg default", req["media_type"])
		}
		w.Write([]byte(`{"line_items": [], "tax_lines": []}`))
	}))
	defer service.Close()

	client := New(service.URL, "")
	if _, err := client.Parse(context.Background(), "aGVsbG8=", ""); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
}

func TestParseNotConfigured(t *testing.T) {
	client := New("", "")
	if client.Configured() {
		t.Error("Expected client without URL to report not configured")
	}
	_, err := client.Parse(context.Background(), "aGVsbG8=", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Parse error = %v, want ErrNotConfigured", err)
	}
}

func TestParseServiceError(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer service.Close()

	client := New(service.URL, "")
	if _, err := client.Parse(context.Background(), "aGVsbG8=", ""); err == nil {
		t.Fatal("Expected error from failing service")
	}
}
