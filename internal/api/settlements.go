package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type balanceEntry struct {
	ParticipantID string `json:"participant_id"`
	BalanceCents  int64  `json:"balance_cents"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.Settlements.Balances(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	out := make([]balanceEntry, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceEntry{ParticipantID: b.ParticipantID, BalanceCents: b.Cents})
	}
	writeJSON(w, http.StatusOK, out)
}

type settlementEntry struct {
	FromParticipantID string `json:"from_participant_id"`
	ToParticipantID   string `json:"to_participant_id"`
	AmountCents       int64  `json:"amount_cents"`
}

func (s *Server) handleSettlements(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.Settlements.Settlements(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	out := make([]settlementEntry, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, settlementEntry{
			FromParticipantID: t.FromParticipantID,
			ToParticipantID:   t.ToParticipantID,
			AmountCents:       t.AmountCents,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type breakdownEntry struct {
	ParticipantID   string `json:"participant_id"`
	ItemsTotalCents int64  `json:"items_total_cents"`
	TaxShareCents   int64  `json:"tax_share_cents"`
	TipShareCents   int64  `json:"tip_share_cents"`
	TotalCents      int64  `json:"total_cents"`
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	shares, err := s.Settlements.Breakdown(r.Context(), chi.URLParam(r, "receiptID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	out := make([]breakdownEntry, 0, len(shares))
	for _, sh := range shares {
		out = append(out, breakdownEntry{
			ParticipantID:   sh.ParticipantID,
			ItemsTotalCents: sh.ItemsTotalCents,
			TaxShareCents:   sh.TaxShareCents,
			TipShareCents:   sh.TipShareCents,
			TotalCents:      sh.TotalCents,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
