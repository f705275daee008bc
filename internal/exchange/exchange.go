// Package exchange resolves currency rates: a local cache backed by the
// store, with frankfurter.app as the upstream source and support for
// manual overrides. The balance engine never calls this package; amounts
// reach it already converted.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmynk/tripsplit/internal/models"
)

// SourceManual marks rates set by hand rather than fetched upstream.
const SourceManual = "manual"

// ErrRateUnavailable means neither the cache nor the upstream API could
// provide a rate for the requested pair and date.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// RateStore is the subset of storage the service needs.
type RateStore interface {
	GetExchangeRate(ctx context.Context, from, to, date string) (*models.ExchangeRate, error)
	SaveExchangeRate(ctx context.Context, rate *models.ExchangeRate) error
}

// Rate is a resolved exchange rate with provenance.
type Rate struct {
	Rate   float64
	Source string
	Cached bool
}

// Service resolves rates cache-first, then from the upstream API.
type Service struct {
	store   RateStore
	client  *http.Client
	baseURL string
}

// New creates an exchange rate service talking to the given upstream API
// base URL (e.g., "https://api.frankfurter.app").
func New(store RateStore, baseURL string) *Service {
	return &Service{
		store:   store,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Fetch resolves the rate for a currency pair on a date (YYYY-MM-DD).
// Cache hits are returned as-is; fetched rates are cached before return.
func (s *Service) Fetch(ctx context.Context, from, to, date string) (*Rate, error) {
	cached, err := s.store.GetExchangeRate(ctx, from, to, date)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return &Rate{Rate: cached.Rate, Source: cached.Source, Cached: true}, nil
	}

	rate, err := s.fetchUpstream(ctx, from, to, date)
	if err != nil {
		return nil, err
	}

	saved := &models.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		RateDate:     date,
		Source:       "frankfurter",
	}
	if err := s.store.SaveExchangeRate(ctx, saved); err != nil {
		// A cache miss next time is cheaper than failing the request now.
		slog.Warn("Failed to cache exchange rate", "from", from, "to", to, "date", date, "error", err)
	}
	return &Rate{Rate: rate, Source: "frankfurter", Cached: false}, nil
}

// Override stores a manual rate, replacing any cached value for the same
// pair and date.
func (s *Service) Override(ctx context.Context, from, to, date string, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", rate)
	}
	return s.store.SaveExchangeRate(ctx, &models.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		RateDate:     date,
		Source:       SourceManual,
	})
}

// fetchUpstream queries the frankfurter.app historical rate endpoint:
// GET {base}/{date}?from=MXN&to=USD → {"rates": {"USD": 0.058}}.
func (s *Service) fetchUpstream(ctx context.Context, from, to, date string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	u := fmt.Sprintf("%s/%s?%s", s.baseURL, date, url.Values{
		"from": {from},
		"to":   {to},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: upstream returned %d for %s->%s on %s", ErrRateUnavailable, resp.StatusCode, from, to, date)
	}

	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode rate response: %w", err)
	}

	rate, ok := body.Rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: no %s rate in upstream response", ErrRateUnavailable, to)
	}
	return rate, nil
}
