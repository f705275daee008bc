// Package service orchestrates storage and the calculator engine behind
// the HTTP layer: trip and receipt CRUD, and the balance/settlement
// computations over read snapshots.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/tripsplit/internal/models"
	"github.com/mmynk/tripsplit/internal/storage"
)

// TripService manages trips, participants and direct payments.
type TripService struct {
	store storage.Store
}

// NewTripService creates a new TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// CreateTrip creates a trip owned by the given user.
func (s *TripService) CreateTrip(ctx context.Context, ownerUserID, name, currency string) (*models.Trip, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: trip name required", ErrInvalidInput)
	}
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code, got %q", ErrInvalidInput, currency)
	}

	trip := &models.Trip{
		Name:        name,
		Currency:    currency,
		OwnerUserID: ownerUserID,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, err
	}
	slog.Info("Trip created", "trip_id", trip.ID, "name", trip.Name, "currency", trip.Currency)
	return trip, nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.store.GetTrip(ctx, tripID)
}

// ListTrips retrieves the trips owned by a user.
func (s *TripService) ListTrips(ctx context.Context, ownerUserID string) ([]*models.Trip, error) {
	return s.store.ListTripsByOwner(ctx, ownerUserID)
}

// DeleteTrip removes a trip and everything under it.
func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if err := s.store.DeleteTrip(ctx, tripID); err != nil {
		slog.Error("DeleteTrip failed", "trip_id", tripID, "error", err)
		return err
	}
	slog.Info("Trip deleted", "trip_id", tripID)
	return nil
}

// AddParticipant adds a named participant to a trip.
func (s *TripService) AddParticipant(ctx context.Context, tripID, name string) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: participant name required", ErrInvalidInput)
	}
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}

	p := &models.Participant{TripID: tripID, Name: name}
	if err := s.store.AddParticipant(ctx, p); err != nil {
		slog.Error("AddParticipant failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	slog.Info("Participant added", "trip_id", tripID, "participant_id", p.ID, "name", p.Name)
	return p, nil
}

// ListParticipants retrieves a trip's participants. Soft-deleted
// participants are included so historical receipts stay renderable.
func (s *TripService) ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error) {
	return s.store.ListParticipants(ctx, tripID, true)
}

// RemoveParticipant soft-deletes a participant so future balance
// computations exclude them while old receipts keep their references.
func (s *TripService) RemoveParticipant(ctx context.Context, participantID string) error {
	if err := s.store.RemoveParticipant(ctx, participantID); err != nil {
		slog.Error("RemoveParticipant failed", "participant_id", participantID, "error", err)
		return err
	}
	slog.Info("Participant removed", "participant_id", participantID)
	return nil
}

// RecordDirectPayment records a peer-to-peer settlement payment between
// two participants of a trip.
func (s *TripService) RecordDirectPayment(ctx context.Context, p *models.DirectPayment) error {
	if p.AmountCents <= 0 {
		return fmt.Errorf("%w: payment amount must be positive, got %d cents", ErrInvalidInput, p.AmountCents)
	}
	if p.FromParticipantID == p.ToParticipantID {
		return fmt.Errorf("%w: payer and recipient must differ", ErrInvalidInput)
	}
	if err := s.validateParticipants(ctx, p.TripID, p.FromParticipantID, p.ToParticipantID); err != nil {
		return err
	}

	if err := s.store.CreateDirectPayment(ctx, p); err != nil {
		slog.Error("RecordDirectPayment failed", "trip_id", p.TripID, "error", err)
		return err
	}
	slog.Info("Direct payment recorded",
		"trip_id", p.TripID,
		"payment_id", p.ID,
		"from", p.FromParticipantID,
		"to", p.ToParticipantID,
		"amount_cents", p.AmountCents,
	)
	return nil
}

// ListDirectPayments retrieves a trip's direct payments.
func (s *TripService) ListDirectPayments(ctx context.Context, tripID string) ([]*models.DirectPayment, error) {
	return s.store.ListDirectPaymentsByTrip(ctx, tripID)
}

// DeleteDirectPayment removes a recorded payment.
func (s *TripService) DeleteDirectPayment(ctx context.Context, paymentID string) error {
	return s.store.DeleteDirectPayment(ctx, paymentID)
}

// validateParticipants checks that every given ID is a participant of the
// trip (deleted or not; a payment to a since-removed participant is still
// historical fact).
func (s *TripService) validateParticipants(ctx context.Context, tripID string, ids ...string) error {
	participants, err := s.store.ListParticipants(ctx, tripID, true)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: participant %s is not part of trip %s", ErrInvalidInput, id, tripID)
		}
	}
	return nil
}
