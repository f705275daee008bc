package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/tripsplit/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "tripsplit-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateTrip(t *testing.T, store *SQLiteStore, name string) *models.Trip {
	t.Helper()
	trip := &models.Trip{Name: name, Currency: "USD", OwnerUserID: "owner-1"}
	if err := store.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func mustAddParticipant(t *testing.T, store *SQLiteStore, tripID, name string) *models.Participant {
	t.Helper()
	p := &models.Participant{TripID: tripID, Name: name}
	if err := store.AddParticipant(context.Background(), p); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	return p
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and timestamp", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Oaxaca 2026")
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "Oaxaca 2026" || got.Currency != "USD" || got.OwnerUserID != "owner-1" {
			t.Errorf("GetTrip = %+v, want created values", got)
		}
	})

	t.Run("GetTrip on missing ID fails", func(t *testing.T) {
		if _, err := store.GetTrip(ctx, "nope"); err == nil {
			t.Error("Expected error for missing trip")
		}
	})

	t.Run("ListTripsByOwner filters by owner", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Owner filter")
		trips, err := store.ListTripsByOwner(ctx, "owner-1")
		if err != nil {
			t.Fatalf("ListTripsByOwner failed: %v", err)
		}
		found := false
		for _, tr := range trips {
			if tr.ID == trip.ID {
				found = true
			}
			if tr.OwnerUserID != "owner-1" {
				t.Errorf("Trip %s owned by %s leaked into owner-1's list", tr.ID, tr.OwnerUserID)
			}
		}
		if !found {
			t.Error("Created trip missing from owner's list")
		}
	})

	t.Run("RemoveParticipant soft-deletes", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Soft delete")
		alice := mustAddParticipant(t, store, trip.ID, "Alice")
		bob := mustAddParticipant(t, store, trip.ID, "Bob")

		if err := store.RemoveParticipant(ctx, bob.ID); err != nil {
			t.Fatalf("RemoveParticipant failed: %v", err)
		}

		active, err := store.ListParticipants(ctx, trip.ID, false)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(active) != 1 || active[0].ID != alice.ID {
			t.Errorf("Active participants = %v, want only Alice", active)
		}

		all, err := store.ListParticipants(ctx, trip.ID, true)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("Got %d participants with includeDeleted, want 2", len(all))
		}
		for _, p := range all {
			if p.ID == bob.ID && p.Active() {
				t.Error("Bob should be marked deleted")
			}
		}

		// Removing again is an error: the row is already soft-deleted.
		if err := store.RemoveParticipant(ctx, bob.ID); err == nil {
			t.Error("Expected error removing an already-deleted participant")
		}
	})

	t.Run("Receipt round trip preserves the full graph", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Receipt graph")
		alice := mustAddParticipant(t, store, trip.ID, "Alice")
		bob := mustAddParticipant(t, store, trip.ID, "Bob")

		original := &models.Receipt{
			TripID:   trip.ID,
			Vendor:   "La Taqueria",
			Currency: "MXN",
			Date:     "2026-03-14",
			TipCents: 500,
			LineItems: []models.LineItem{
				{Description: "Tacos", UnitPriceCents: 300, Quantity: 4, Assignments: []models.Assignment{
					{ParticipantID: alice.ID, Shares: 1},
					{ParticipantID: bob.ID, Shares: 1},
				}},
				{Description: "Mezcal", UnitPriceCents: 1500, Quantity: 1, Category: "alcohol", Assignments: []models.Assignment{
					{ParticipantID: bob.ID, Shares: 2},
				}},
			},
			TaxLines: []models.TaxLine{
				{Description: "IVA", AmountCents: 432},
			},
			Payments: []models.ReceiptPayment{
				{ParticipantID: alice.ID, AmountCents: 3632},
			},
		}
		if err := store.CreateReceipt(ctx, original); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if original.ID == "" {
			t.Fatal("Expected receipt ID to be generated")
		}

		got, err := store.GetReceipt(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if got.Vendor != "La Taqueria" || got.TipCents != 500 || got.Date != "2026-03-14" {
			t.Errorf("Receipt header = %+v, want created values", got)
		}
		if len(got.LineItems) != 2 {
			t.Fatalf("Got %d line items, want 2", len(got.LineItems))
		}
		if got.LineItems[0].Description != "Tacos" || len(got.LineItems[0].Assignments) != 2 {
			t.Errorf("First line item = %+v, want Tacos with 2 assignments", got.LineItems[0])
		}
		if got.LineItems[1].Category != "alcohol" {
			t.Errorf("Second line item category = %q, want alcohol", got.LineItems[1].Category)
		}
		if len(got.TaxLines) != 1 || got.TaxLines[0].AmountCents != 432 {
			t.Errorf("Tax lines = %+v, want one IVA line of 432", got.TaxLines)
		}
		if len(got.Payments) != 1 || got.Payments[0].ParticipantID != alice.ID {
			t.Errorf("Payments = %+v, want one from Alice", got.Payments)
		}
		if got.TotalCents() != 3632 {
			t.Errorf("TotalCents = %d, want 3632", got.TotalCents())
		}
	})

	t.Run("UpdateReceipt replaces the graph", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Receipt update")
		alice := mustAddParticipant(t, store, trip.ID, "Alice")

		r := &models.Receipt{
			TripID: trip.ID, Vendor: "Before", Currency: "USD", Date: "2026-01-01",
			LineItems: []models.LineItem{
				{Description: "Old item", UnitPriceCents: 100, Quantity: 1, Assignments: []models.Assignment{
					{ParticipantID: alice.ID, Shares: 1},
				}},
			},
		}
		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		updated := &models.Receipt{
			ID: r.ID, TripID: trip.ID, Vendor: "After", Currency: "USD", Date: "2026-01-02",
			TipCents: 100,
			LineItems: []models.LineItem{
				{Description: "New item", UnitPriceCents: 200, Quantity: 2, Assignments: []models.Assignment{
					{ParticipantID: alice.ID, Shares: 3},
				}},
			},
			Payments: []models.ReceiptPayment{{ParticipantID: alice.ID, AmountCents: 500}},
		}
		if err := store.UpdateReceipt(ctx, updated); err != nil {
			t.Fatalf("UpdateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, r.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if got.Vendor != "After" || got.TipCents != 100 {
			t.Errorf("Header = %+v, want updated values", got)
		}
		if len(got.LineItems) != 1 || got.LineItems[0].Description != "New item" {
			t.Errorf("Line items = %+v, want only the new item", got.LineItems)
		}
		if got.LineItems[0].Assignments[0].Shares != 3 {
			t.Errorf("Shares = %d, want 3", got.LineItems[0].Assignments[0].Shares)
		}
		if len(got.Payments) != 1 || got.Payments[0].AmountCents != 500 {
			t.Errorf("Payments = %+v, want the new payment", got.Payments)
		}
	})

	t.Run("DeleteReceipt removes it from the trip list", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Receipt delete")
		r := &models.Receipt{TripID: trip.ID, Vendor: "Gone", Currency: "USD", Date: "2026-01-01"}
		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if err := store.DeleteReceipt(ctx, r.ID); err != nil {
			t.Fatalf("DeleteReceipt failed: %v", err)
		}
		if _, err := store.GetReceipt(ctx, r.ID); err == nil {
			t.Error("Expected error getting deleted receipt")
		}
		if err := store.DeleteReceipt(ctx, r.ID); err == nil {
			t.Error("Expected error deleting twice")
		}

		receipts, err := store.ListReceiptsByTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListReceiptsByTrip failed: %v", err)
		}
		if len(receipts) != 0 {
			t.Errorf("Got %d receipts, want 0", len(receipts))
		}
	})

	t.Run("Direct payments round trip", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Direct payments")
		alice := mustAddParticipant(t, store, trip.ID, "Alice")
		bob := mustAddParticipant(t, store, trip.ID, "Bob")

		p := &models.DirectPayment{
			TripID:            trip.ID,
			FromParticipantID: bob.ID,
			ToParticipantID:   alice.ID,
			AmountCents:       1500,
			Currency:          "USD",
			Date:              "2026-03-15",
			Note:              "venmo",
		}
		if err := store.CreateDirectPayment(ctx, p); err != nil {
			t.Fatalf("CreateDirectPayment failed: %v", err)
		}

		payments, err := store.ListDirectPaymentsByTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListDirectPaymentsByTrip failed: %v", err)
		}
		if len(payments) != 1 {
			t.Fatalf("Got %d payments, want 1", len(payments))
		}
		got := payments[0]
		if got.FromParticipantID != bob.ID || got.ToParticipantID != alice.ID || got.AmountCents != 1500 || got.Note != "venmo" {
			t.Errorf("Payment = %+v, want created values", got)
		}

		if err := store.DeleteDirectPayment(ctx, p.ID); err != nil {
			t.Fatalf("DeleteDirectPayment failed: %v", err)
		}
		if err := store.DeleteDirectPayment(ctx, p.ID); err == nil {
			t.Error("Expected error deleting twice")
		}
	})

	t.Run("Exchange rate cache upserts", func(t *testing.T) {
		miss, err := store.GetExchangeRate(ctx, "MXN", "USD", "2026-03-14")
		if err != nil {
			t.Fatalf("GetExchangeRate failed: %v", err)
		}
		if miss != nil {
			t.Fatalf("Expected cache miss, got %+v", miss)
		}

		rate := &models.ExchangeRate{
			FromCurrency: "mxn", ToCurrency: "usd", Rate: 0.058,
			RateDate: "2026-03-14", Source: "frankfurter",
		}
		if err := store.SaveExchangeRate(ctx, rate); err != nil {
			t.Fatalf("SaveExchangeRate failed: %v", err)
		}

		// Lookup is case-insensitive on currency codes.
		got, err := store.GetExchangeRate(ctx, "MXN", "USD", "2026-03-14")
		if err != nil {
			t.Fatalf("GetExchangeRate failed: %v", err)
		}
		if got == nil || got.Rate != 0.058 || got.Source != "frankfurter" {
			t.Fatalf("Rate = %+v, want 0.058 from frankfurter", got)
		}

		// A manual save for the same pair and date replaces the row.
		override := &models.ExchangeRate{
			FromCurrency: "MXN", ToCurrency: "USD", Rate: 0.06,
			RateDate: "2026-03-14", Source: "manual",
		}
		if err := store.SaveExchangeRate(ctx, override); err != nil {
			t.Fatalf("SaveExchangeRate override failed: %v", err)
		}
		got, err = store.GetExchangeRate(ctx, "MXN", "USD", "2026-03-14")
		if err != nil {
			t.Fatalf("GetExchangeRate failed: %v", err)
		}
		if got.Rate != 0.06 || got.Source != "manual" {
			t.Errorf("Rate after override = %+v, want 0.06 manual", got)
		}
	})

	t.Run("Users round trip", func(t *testing.T) {
		user := models.NewUser("alice@example.com", "Alice", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail == nil || byEmail.ID != user.ID {
			t.Errorf("GetUserByEmail = %+v, want %s", byEmail, user.ID)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID == nil || byID.Email != "alice@example.com" {
			t.Errorf("GetUserByID = %+v, want alice@example.com", byID)
		}

		missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if missing != nil {
			t.Errorf("Expected nil for unknown email, got %+v", missing)
		}

		// Duplicate email violates the unique constraint.
		dup := models.NewUser("alice@example.com", "Other Alice", "hash2")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected error creating duplicate email")
		}
	})

	t.Run("DeleteTrip cascades", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Cascade")
		alice := mustAddParticipant(t, store, trip.ID, "Alice")
		r := &models.Receipt{
			TripID: trip.ID, Vendor: "V", Currency: "USD", Date: "2026-01-01",
			LineItems: []models.LineItem{
				{Description: "Item", UnitPriceCents: 100, Quantity: 1, Assignments: []models.Assignment{
					{ParticipantID: alice.ID, Shares: 1},
				}},
			},
		}
		if err := store.CreateReceipt(ctx, r); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}

		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if _, err := store.GetReceipt(ctx, r.ID); err == nil {
			t.Error("Expected receipt to cascade away with the trip")
		}
		participants, err := store.ListParticipants(ctx, trip.ID, true)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(participants) != 0 {
			t.Errorf("Got %d participants after trip delete, want 0", len(participants))
		}
	})
}
