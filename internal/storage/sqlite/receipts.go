package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripsplit/internal/models"
)

// CreateReceipt persists a receipt with its line items, assignments, tax
// lines and payments in one transaction.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, r *models.Receipt) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payer interface{} = nil
	if r.PayerParticipantID != "" {
		payer = r.PayerParticipantID
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO receipts (id, trip_id, vendor, currency, date, tip_cents, payer_participant_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.TripID, r.Vendor, r.Currency, r.Date, r.TipCents, payer, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := insertReceiptGraph(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertReceiptGraph inserts the line items, assignments, tax lines and
// payments of a receipt. The receipt row itself must already exist.
func insertReceiptGraph(ctx context.Context, tx *sql.Tx, r *models.Receipt) error {
	for i := range r.LineItems {
		li := &r.LineItems[i]
		if li.ID == "" {
			li.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (id, receipt_id, description, unit_price_cents, quantity, category)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			li.ID, r.ID, li.Description, li.UnitPriceCents, li.Quantity, li.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		for _, a := range li.Assignments {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO item_assignments (line_item_id, participant_id, shares) VALUES (?, ?, ?)",
				li.ID, a.ParticipantID, a.Shares,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	for i := range r.TaxLines {
		tl := &r.TaxLines[i]
		if tl.ID == "" {
			tl.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO tax_lines (id, receipt_id, description, amount_cents, category) VALUES (?, ?, ?, ?, ?)",
			tl.ID, r.ID, tl.Description, tl.AmountCents, tl.Category,
		)
		if err != nil {
			return fmt.Errorf("failed to insert tax line: %w", err)
		}
	}

	for i := range r.Payments {
		p := &r.Payments[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO receipt_payments (id, receipt_id, participant_id, amount_cents) VALUES (?, ?, ?, ?)",
			p.ID, r.ID, p.ParticipantID, p.AmountCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert receipt payment: %w", err)
		}
	}
	return nil
}

// GetReceipt retrieves a receipt by ID, fully populated.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	r := &models.Receipt{}
	var payer sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, trip_id, vendor, currency, date, tip_cents, payer_participant_id, created_at
		 FROM receipts WHERE id = ?`,
		receiptID,
	).Scan(&r.ID, &r.TripID, &r.Vendor, &r.Currency, &r.Date, &r.TipCents, &payer, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt not found: %s", receiptID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	if payer.Valid {
		r.PayerParticipantID = payer.String
	}

	if err := s.loadReceiptGraph(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// loadReceiptGraph populates line items, assignments, tax lines and
// payments for a receipt whose header row is already loaded.
func (s *SQLiteStore) loadReceiptGraph(ctx context.Context, r *models.Receipt) error {
	itemRows, err := s.db.QueryContext(ctx,
		`SELECT id, description, unit_price_cents, quantity, category
		 FROM line_items WHERE receipt_id = ? ORDER BY rowid`,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get line items: %w", err)
	}
	defer itemRows.Close()

	r.LineItems = nil
	for itemRows.Next() {
		var li models.LineItem
		if err := itemRows.Scan(&li.ID, &li.Description, &li.UnitPriceCents, &li.Quantity, &li.Category); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		r.LineItems = append(r.LineItems, li)
	}
	if err := itemRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate line items: %w", err)
	}

	for i := range r.LineItems {
		li := &r.LineItems[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT participant_id, shares FROM item_assignments WHERE line_item_id = ? ORDER BY rowid",
			li.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var a models.Assignment
			if err := assignRows.Scan(&a.ParticipantID, &a.Shares); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			li.Assignments = append(li.Assignments, a)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}
	}

	taxRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount_cents, category FROM tax_lines WHERE receipt_id = ? ORDER BY rowid",
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get tax lines: %w", err)
	}
	defer taxRows.Close()
	r.TaxLines = nil
	for taxRows.Next() {
		var tl models.TaxLine
		if err := taxRows.Scan(&tl.ID, &tl.Description, &tl.AmountCents, &tl.Category); err != nil {
			return fmt.Errorf("failed to scan tax line: %w", err)
		}
		r.TaxLines = append(r.TaxLines, tl)
	}
	if err := taxRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tax lines: %w", err)
	}

	payRows, err := s.db.QueryContext(ctx,
		"SELECT id, participant_id, amount_cents FROM receipt_payments WHERE receipt_id = ? ORDER BY rowid",
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get receipt payments: %w", err)
	}
	defer payRows.Close()
	r.Payments = nil
	for payRows.Next() {
		var p models.ReceiptPayment
		if err := payRows.Scan(&p.ID, &p.ParticipantID, &p.AmountCents); err != nil {
			return fmt.Errorf("failed to scan receipt payment: %w", err)
		}
		r.Payments = append(r.Payments, p)
	}
	if err := payRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate receipt payments: %w", err)
	}

	return nil
}

// UpdateReceipt replaces a receipt's fields and graph in one transaction.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, r *models.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payer interface{} = nil
	if r.PayerParticipantID != "" {
		payer = r.PayerParticipantID
	}
	res, err := tx.ExecContext(ctx,
		`UPDATE receipts SET vendor = ?, currency = ?, date = ?, tip_cents = ?, payer_participant_id = ?
		 WHERE id = ?`,
		r.Vendor, r.Currency, r.Date, r.TipCents, payer, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt not found: %s", r.ID)
	}

	// Replace the whole graph; line item IDs are not stable across edits.
	for _, stmt := range []string{
		"DELETE FROM item_assignments WHERE line_item_id IN (SELECT id FROM line_items WHERE receipt_id = ?)",
		"DELETE FROM line_items WHERE receipt_id = ?",
		"DELETE FROM tax_lines WHERE receipt_id = ?",
		"DELETE FROM receipt_payments WHERE receipt_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, r.ID); err != nil {
			return fmt.Errorf("failed to clear receipt graph: %w", err)
		}
	}

	if err := insertReceiptGraph(ctx, tx, r); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteReceipt removes a receipt; the graph cascades.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, receiptID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM receipts WHERE id = ?", receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt not found: %s", receiptID)
	}
	return nil
}

// ListReceiptsByTrip retrieves a trip's receipts, fully populated.
func (s *SQLiteStore) ListReceiptsByTrip(ctx context.Context, tripID string) ([]*models.Receipt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, vendor, currency, date, tip_cents, payer_participant_id, created_at
		 FROM receipts WHERE trip_id = ? ORDER BY created_at, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		r := &models.Receipt{}
		var payer sql.NullString
		if err := rows.Scan(&r.ID, &r.TripID, &r.Vendor, &r.Currency, &r.Date, &r.TipCents, &payer, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		if payer.Valid {
			r.PayerParticipantID = payer.String
		}
		receipts = append(receipts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}

	for _, r := range receipts {
		if err := s.loadReceiptGraph(ctx, r); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}
