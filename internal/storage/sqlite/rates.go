package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/tripsplit/internal/models"
)

// GetExchangeRate looks up a cached rate for a currency pair and date.
// Returns (nil, nil) on a cache miss.
func (s *SQLiteStore) GetExchangeRate(ctx context.Context, from, to, date string) (*models.ExchangeRate, error) {
	rate := &models.ExchangeRate{}
	err := s.db.QueryRowContext(ctx,
		`SELECT from_currency, to_currency, rate_date, rate, source, created_at
		 FROM exchange_rate_cache WHERE from_currency = ? AND to_currency = ? AND rate_date = ?`,
		strings.ToUpper(from), strings.ToUpper(to), date,
	).Scan(&rate.FromCurrency, &rate.ToCurrency, &rate.RateDate, &rate.Rate, &rate.Source, &rate.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}
	return rate, nil
}

// SaveExchangeRate upserts a rate into the cache, so manual overrides
// replace fetched rates for the same pair and date.
func (s *SQLiteStore) SaveExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	if rate.CreatedAt == 0 {
		rate.CreatedAt = time.Now().Unix()
	}
	rate.FromCurrency = strings.ToUpper(rate.FromCurrency)
	rate.ToCurrency = strings.ToUpper(rate.ToCurrency)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchange_rate_cache (from_currency, to_currency, rate_date, rate, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (from_currency, to_currency, rate_date)
		 DO UPDATE SET rate = excluded.rate, source = excluded.source, created_at = excluded.created_at`,
		rate.FromCurrency, rate.ToCurrency, rate.RateDate, rate.Rate, rate.Source, rate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return nil
}
