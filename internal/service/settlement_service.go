package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/calculator"
	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/money"
	"github.com/mmynk/tripsplit/internal/storage"
)

// SettlementService runs the calculator engine over trip snapshots loaded
// from storage. The engine itself is pure; this layer owns snapshot
// assembly and logging.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Balances computes each active participant's signed net balance for a
// trip.
func (s *SettlementService) Balances(ctx context.Context, tripID string) ([]calculator.Balance, error) {
	snap, err := s.loadSnapshot(ctx, tripID)
	if err != nil {
		return nil, err
	}

	result, err := calculator.Balances(*snap)
	if err != nil {
		slog.Warn("Balance computation rejected", "trip_id", tripID, "error", err)
		return nil, err
	}
	if money.Abs(result.ResidualCents) > result.RoundingBoundCents {
		// Rounding alone cannot explain this; the stored data is off.
		slog.Warn("Balance zero-sum residual exceeds rounding bound",
			"trip_id", tripID,
			"residual_cents", result.ResidualCents,
			"bound_cents", result.RoundingBoundCents,
		)
	}
	return result.Balances, nil
}

// Settlements computes the payment plan that zeroes a trip's balances.
func (s *SettlementService) Settlements(ctx context.Context, tripID string) ([]calculator.Transaction, error) {
	balances, err := s.Balances(ctx, tripID)
	if err != nil {
		return nil, err
	}

	plan, err := calculator.Settle(balances)
	if err != nil {
		slog.Warn("Settlement computation rejected", "trip_id", tripID, "error", err)
		return nil, err
	}
	slog.Info("Settlement plan computed", "trip_id", tripID, "transactions", len(plan))
	return plan, nil
}

// Breakdown computes the per-participant proration of one receipt.
func (s *SettlementService) Breakdown(ctx context.Context, receiptID string) ([]calculator.Share, error) {
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	shares, err := calculator.Prorate(toCalcExpense(receipt))
	if err != nil {
		slog.Warn("Breakdown rejected", "receipt_id", receiptID, "error", err)
		return nil, err
	}
	return shares, nil
}

// loadSnapshot assembles the engine's immutable input for one trip:
// active participants in insertion order, all receipts, all direct
// payments.
func (s *SettlementService) loadSnapshot(ctx context.Context, tripID string) (*calculator.Snapshot, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	participants, err := s.store.ListParticipants(ctx, tripID, false)
	if err != nil {
		return nil, err
	}
	receipts, err := s.store.ListReceiptsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListDirectPaymentsByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	snap := &calculator.Snapshot{
		Participants:   make([]string, len(participants)),
		Expenses:       make([]calculator.Expense, len(receipts)),
		DirectPayments: make([]calculator.DirectPayment, len(payments)),
	}
	for i, p := range participants {
		snap.Participants[i] = p.ID
	}
	for i, r := range receipts {
		snap.Expenses[i] = toCalcExpense(r)
	}
	for i, dp := range payments {
		snap.DirectPayments[i] = calculator.DirectPayment{
			ID:                dp.ID,
			FromParticipantID: dp.FromParticipantID,
			ToParticipantID:   dp.ToParticipantID,
			AmountCents:       dp.AmountCents,
		}
	}
	return snap, nil
}

// toCalcExpense converts a stored receipt into the engine's expense shape.
func toCalcExpense(r *models.Receipt) calculator.Expense {
	e := calculator.Expense{
		ID:        r.ID,
		TipCents:  r.TipCents,
		PayerID:   r.PayerParticipantID,
		LineItems: make([]calculator.LineItem, len(r.LineItems)),
		TaxLines:  make([]calculator.TaxLine, len(r.TaxLines)),
		Payments:  make([]calculator.Payment, len(r.Payments)),
	}
	for i, li := range r.LineItems {
		cli := calculator.LineItem{
			ID:             li.ID,
			Description:    li.Description,
			UnitPriceCents: li.UnitPriceCents,
			Quantity:       li.Quantity,
			Category:       li.Category,
			Assignments:    make([]calculator.Assignment, len(li.Assignments)),
		}
		for j, a := range li.Assignments {
			cli.Assignments[j] = calculator.Assignment{ParticipantID: a.ParticipantID, Shares: a.Shares}
		}
		e.LineItems[i] = cli
	}
	for i, tl := range r.TaxLines {
		e.TaxLines[i] = calculator.TaxLine{
			Description: tl.Description,
			AmountCents: tl.AmountCents,
			Category:    tl.Category,
		}
	}
	for i, p := range r.Payments {
		e.Payments[i] = calculator.Payment{ParticipantID: p.ParticipantID, AmountCents: p.AmountCents}
	}
	return e
}
