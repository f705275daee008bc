package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/mmynk/tripsplit/internal/exchange"
)

type exchangeRateResponse struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	RateDate     string  `json:"rate_date"`
	Rate         float64 `json:"rate"`
	Source       string  `json:"source"`
	Cached       bool    `json:"cached"`
}

func (s *Server) handleGetExchangeRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, errors.New("from and to query parameters are required"))
		return
	}
	date := q.Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	rate, err := s.Exchange.Fetch(r.Context(), from, to, date)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, exchange.ErrRateUnavailable) {
			status = http.StatusBadGateway
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeRateResponse{
		FromCurrency: from,
		ToCurrency:   to,
		RateDate:     date,
		Rate:         rate.Rate,
		Source:       rate.Source,
		Cached:       rate.Cached,
	})
}

type overrideRateRequest struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	RateDate     string  `json:"rate_date"`
	Rate         float64 `json:"rate"`
}

func (s *Server) handleSetExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req overrideRateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.FromCurrency == "" || req.ToCurrency == "" {
		writeError(w, http.StatusBadRequest, errors.New("from_currency and to_currency are required"))
		return
	}
	if req.RateDate == "" {
		req.RateDate = time.Now().UTC().Format("2006-01-02")
	}

	if err := s.Exchange.Override(r.Context(), req.FromCurrency, req.ToCurrency, req.RateDate, req.Rate); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, exchangeRateResponse{
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		RateDate:     req.RateDate,
		Rate:         req.Rate,
		Source:       exchange.SourceManual,
	})
}
