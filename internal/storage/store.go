// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/tripsplit/internal/models"
)

// Store defines the interface for trip storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip. The trip's ID and CreatedAt are
	// populated by the store when unset.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip by its ID.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// ListTripsByOwner retrieves all trips created by the given user,
	// newest first.
	ListTripsByOwner(ctx context.Context, ownerUserID string) ([]*models.Trip, error)

	// DeleteTrip removes a trip along with its participants, receipts and
	// direct payments.
	DeleteTrip(ctx context.Context, tripID string) error

	// AddParticipant adds a participant to a trip.
	AddParticipant(ctx context.Context, p *models.Participant) error

	// ListParticipants retrieves a trip's participants in insertion order.
	// Soft-deleted participants are included only when includeDeleted is
	// set.
	ListParticipants(ctx context.Context, tripID string, includeDeleted bool) ([]*models.Participant, error)

	// RemoveParticipant soft-deletes a participant: excluded from future
	// balance computations, retained for historical receipts.
	RemoveParticipant(ctx context.Context, participantID string) error

	// CreateReceipt persists a receipt with its full line item,
	// assignment, tax line and payment graph.
	CreateReceipt(ctx context.Context, r *models.Receipt) error

	// GetReceipt retrieves a receipt by ID, fully populated.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// UpdateReceipt replaces an existing receipt and its graph.
	UpdateReceipt(ctx context.Context, r *models.Receipt) error

	// DeleteReceipt removes a receipt and its graph.
	DeleteReceipt(ctx context.Context, receiptID string) error

	// ListReceiptsByTrip retrieves a trip's receipts in creation order,
	// fully populated.
	ListReceiptsByTrip(ctx context.Context, tripID string) ([]*models.Receipt, error)

	// CreateDirectPayment records a peer-to-peer payment.
	CreateDirectPayment(ctx context.Context, p *models.DirectPayment) error

	// ListDirectPaymentsByTrip retrieves a trip's direct payments in
	// creation order.
	ListDirectPaymentsByTrip(ctx context.Context, tripID string) ([]*models.DirectPayment, error)

	// DeleteDirectPayment removes a direct payment.
	DeleteDirectPayment(ctx context.Context, paymentID string) error

	// GetExchangeRate looks up a cached rate. Returns (nil, nil) on a
	// cache miss.
	GetExchangeRate(ctx context.Context, from, to, date string) (*models.ExchangeRate, error)

	// SaveExchangeRate upserts a rate into the cache.
	SaveExchangeRate(ctx context.Context, rate *models.ExchangeRate) error

	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when
	// not found.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when not
	// found.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
