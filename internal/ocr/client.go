// Package ocr is the boundary client for the external receipt-extraction
// service. The service receives a receipt image and returns structured
// line items, tax lines and totals; the extraction itself (vision model,
// heuristics, whatever) is entirely the external service's business.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured means no extraction service URL was provided.
var ErrNotConfigured = errors.New("ocr service not configured")

// ParsedLineItem is one extracted receipt line. Amounts are decimal units
// as printed on the receipt; conversion to cents happens when a receipt is
// saved.
type ParsedLineItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
}

// ParsedTaxLine is one extracted tax line.
type ParsedTaxLine struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Result is the structured output of a parse call.
type Result struct {
	Vendor    string           `json:"vendor,omitempty"`
	Date      string           `json:"date,omitempty"`
	Currency  string           `json:"currency,omitempty"`
	LineItems []ParsedLineItem `json:"line_items"`
	TaxLines  []ParsedTaxLine  `json:"tax_lines"`
	Subtotal  *float64         `json:"subtotal,omitempty"`
	Total     *float64         `json:"total,omitempty"`
	Tip       *float64         `json:"tip,omitempty"`
}

// Client calls the extraction service over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a client for the extraction service at baseURL. token is
// sent as a Bearer credential when non-empty.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// Vision extraction is slow; allow well over the usual request
		// budget.
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Configured reports whether a service URL was provided.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Parse submits a base64-encoded receipt image and returns the extracted
// structure.
func (c *Client) Parse(ctx context.Context, imageBase64, mediaType string) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	payload, err := json.Marshal(map[string]string{
		"image_base64": imageBase64,
		"media_type":   mediaType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocr service returned %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ocr response: %w", err)
	}
	return &result, nil
}
