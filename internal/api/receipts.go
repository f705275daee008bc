package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/tripsplit/internal/models"
)

type receiptRequest struct {
	Vendor             string                `json:"vendor"`
	Currency           string                `json:"currency"`
	Date               string                `json:"date"`
	LineItems          []receiptLineItem     `json:"line_items"`
	TaxLines           []receiptTaxLine      `json:"tax_lines"`
	TipCents           int64                 `json:"tip_cents"`
	Payments           []receiptPaymentEntry `json:"payments"`
	PayerParticipantID string                `json:"payer_participant_id"`
}

type receiptLineItem struct {
	Description    string              `json:"description"`
	UnitPriceCents int64               `json:"unit_price_cents"`
	Quantity       int64               `json:"quantity"`
	Category       string              `json:"category"`
	Assignments    []models.Assignment `json:"assignments"`
}

type receiptTaxLine struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
}

type receiptPaymentEntry struct {
	ParticipantID string `json:"participant_id"`
	AmountCents   int64  `json:"amount_cents"`
}

func (req *receiptRequest) toModel(tripID string) *models.Receipt {
	r := &models.Receipt{
		TripID:             tripID,
		Vendor:             req.Vendor,
		Currency:           req.Currency,
		Date:               req.Date,
		TipCents:           req.TipCents,
		PayerParticipantID: req.PayerParticipantID,
	}
	for _, li := range req.LineItems {
		qty := li.Quantity
		if qty == 0 {
			qty = 1
		}
		r.LineItems = append(r.LineItems, models.LineItem{
			Description:    li.Description,
			UnitPriceCents: li.UnitPriceCents,
			Quantity:       qty,
			Category:       li.Category,
			Assignments:    li.Assignments,
		})
	}
	for _, tl := range req.TaxLines {
		r.TaxLines = append(r.TaxLines, models.TaxLine{
			Description: tl.Description,
			AmountCents: tl.AmountCents,
			Category:    tl.Category,
		})
	}
	for _, p := range req.Payments {
		r.Payments = append(r.Payments, models.ReceiptPayment{
			ParticipantID: p.ParticipantID,
			AmountCents:   p.AmountCents,
		})
	}
	return r
}

func (s *Server) handleCreateReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	receipt := req.toModel(chi.URLParam(r, "tripID"))
	if err := s.Receipts.CreateReceipt(r.Context(), receipt); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.Receipts.ListReceipts(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	if receipts == nil {
		receipts = []*models.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.Receipts.GetReceipt(r.Context(), chi.URLParam(r, "receiptID"))
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleUpdateReceipt(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "receiptID")
	existing, err := s.Receipts.GetReceipt(r.Context(), receiptID)
	if err != nil {
		writeError(w, errStatus(err), err)
		return
	}

	var req receiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	receipt := req.toModel(existing.TripID)
	receipt.ID = receiptID
	receipt.CreatedAt = existing.CreatedAt
	if err := s.Receipts.UpdateReceipt(r.Context(), receipt); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.Receipts.DeleteReceipt(r.Context(), chi.URLParam(r, "receiptID")); err != nil {
		writeError(w, errStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
