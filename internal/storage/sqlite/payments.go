package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// CreateDirectPayment records a peer-to-peer payment.
func (s *SQLiteStore) CreateDirectPayment(ctx context.Context, p *models.DirectPayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	var note interface{} = nil
	if p.Note != "" {
		note = p.Note
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO direct_payments (id, trip_id, from_participant_id, to_participant_id, amount_cents, currency, date, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.TripID, p.FromParticipantID, p.ToParticipantID, p.AmountCents, p.Currency, p.Date, note, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert direct payment: %w", err)
	}
	return nil
}

// ListDirectPaymentsByTrip retrieves a trip's direct payments in creation
// order.
func (s *SQLiteStore) ListDirectPaymentsByTrip(ctx context.Context, tripID string) ([]*models.DirectPayment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, from_participant_id, to_participant_id, amount_cents, currency, date, note, created_at
		 FROM direct_payments WHERE trip_id = ? ORDER BY created_at, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list direct payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.DirectPayment
	for rows.Next() {
		p := &models.DirectPayment{}
		var note sql.NullString
		if err := rows.Scan(&p.ID, &p.TripID, &p.FromParticipantID, &p.ToParticipantID,
			&p.AmountCents, &p.Currency, &p.Date, &note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan direct payment: %w", err)
		}
		if note.Valid {
			p.Note = note.String
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate direct payments: %w", err)
	}
	return payments, nil
}

// DeleteDirectPayment removes a direct payment by ID.
func (s *SQLiteStore) DeleteDirectPayment(ctx context.Context, paymentID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM direct_payments WHERE id = ?", paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete direct payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete direct payment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("direct payment not found: %s", paymentID)
	}
	return nil
}
