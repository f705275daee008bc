package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/storage"
)

// ReceiptService manages receipts and validates their invariants before
// they reach storage, so the engine only ever sees consistent data.
type ReceiptService struct {
	store storage.Store
}

// NewReceiptService creates a new ReceiptService with the given storage
// backend.
func NewReceiptService(store storage.Store) *ReceiptService {
	return &ReceiptService{store: store}
}

// CreateReceipt validates and persists a receipt with its full graph.
func (s *ReceiptService) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	if err := s.validateReceipt(ctx, r); err != nil {
		slog.Warn("CreateReceipt rejected", "trip_id", r.TripID, "error", err)
		return err
	}
	if err := s.store.CreateReceipt(ctx, r); err != nil {
		slog.Error("CreateReceipt failed", "trip_id", r.TripID, "error", err)
		return err
	}
	slog.Info("Receipt created",
		"trip_id", r.TripID,
		"receipt_id", r.ID,
		"items", len(r.LineItems),
		"total_cents", r.TotalCents(),
	)
	return nil
}

// GetReceipt retrieves a receipt by ID.
func (s *ReceiptService) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	return s.store.GetReceipt(ctx, receiptID)
}

// ListReceipts retrieves a trip's receipts.
func (s *ReceiptService) ListReceipts(ctx context.Context, tripID string) ([]*models.Receipt, error) {
	return s.store.ListReceiptsByTrip(ctx, tripID)
}

// UpdateReceipt validates and replaces an existing receipt.
func (s *ReceiptService) UpdateReceipt(ctx context.Context, r *models.Receipt) error {
	existing, err := s.store.GetReceipt(ctx, r.ID)
	if err != nil {
		return err
	}
	r.TripID = existing.TripID
	if err := s.validateReceipt(ctx, r); err != nil {
		slog.Warn("UpdateReceipt rejected", "receipt_id", r.ID, "error", err)
		return err
	}
	if err := s.store.UpdateReceipt(ctx, r); err != nil {
		slog.Error("UpdateReceipt failed", "receipt_id", r.ID, "error", err)
		return err
	}
	slog.Info("Receipt updated", "receipt_id", r.ID)
	return nil
}

// DeleteReceipt removes a receipt.
func (s *ReceiptService) DeleteReceipt(ctx context.Context, receiptID string) error {
	if err := s.store.DeleteReceipt(ctx, receiptID); err != nil {
		slog.Error("DeleteReceipt failed", "receipt_id", receiptID, "error", err)
		return err
	}
	slog.Info("Receipt deleted", "receipt_id", receiptID)
	return nil
}

// validateReceipt enforces the structural invariants: quantities at least
// 1, no negative shares or amounts, participant references inside the
// trip, and payments summing to the receipt total within one cent.
func (s *ReceiptService) validateReceipt(ctx context.Context, r *models.Receipt) error {
	participants, err := s.store.ListParticipants(ctx, r.TripID, true)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}

	for _, li := range r.LineItems {
		if li.Quantity < 1 {
			return fmt.Errorf("%w: line item %q: quantity must be at least 1, got %d", ErrInvalidInput, li.Description, li.Quantity)
		}
		if li.UnitPriceCents < 0 {
			return fmt.Errorf("%w: line item %q: negative unit price %d", ErrInvalidInput, li.Description, li.UnitPriceCents)
		}
		for _, a := range li.Assignments {
			if a.Shares < 0 {
				return fmt.Errorf("%w: line item %q: negative shares %d for participant %s", ErrInvalidInput, li.Description, a.Shares, a.ParticipantID)
			}
			if !known[a.ParticipantID] {
				return fmt.Errorf("%w: line item %q: unknown participant %s", ErrInvalidInput, li.Description, a.ParticipantID)
			}
		}
	}

	for _, tl := range r.TaxLines {
		if tl.AmountCents < 0 {
			return fmt.Errorf("%w: tax line %q: negative amount %d", ErrInvalidInput, tl.Description, tl.AmountCents)
		}
	}
	if r.TipCents < 0 {
		return fmt.Errorf("%w: tip must not be negative, got %d", ErrInvalidInput, r.TipCents)
	}

	if len(r.Payments) > 0 {
		var paid int64
		for _, p := range r.Payments {
			if p.AmountCents <= 0 {
				return fmt.Errorf("%w: receipt payment by %s: amount must be positive, got %d", ErrInvalidInput, p.ParticipantID, p.AmountCents)
			}
			if !known[p.ParticipantID] {
				return fmt.Errorf("%w: receipt payment: unknown participant %s", ErrInvalidInput, p.ParticipantID)
			}
			paid += p.AmountCents
		}
		if money.Abs(paid-r.TotalCents()) > 1 {
			return fmt.Errorf("%w: payments sum to %s but receipt totals %s",
				ErrInvalidInput, money.FormatCents(paid), money.FormatCents(r.TotalCents()))
		}
	} else if r.PayerParticipantID != "" && !known[r.PayerParticipantID] {
		return fmt.Errorf("%w: unknown payer participant %s", ErrInvalidInput, r.PayerParticipantID)
	}

	return nil
}
