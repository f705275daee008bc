package models

// DirectPayment is a peer-to-peer settlement recorded outside any receipt,
// treated as already-settled debt reduction.
type DirectPayment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// TripID is the trip this payment belongs to.
	TripID string `json:"trip_id"`

	// FromParticipantID is who paid (debtor settling up).
	FromParticipantID string `json:"from_participant_id"`

	// ToParticipantID is who received the payment.
	ToParticipantID string `json:"to_participant_id"`

	// AmountCents is the payment amount in cents; always positive.
	AmountCents int64 `json:"amount_cents"`

	// Currency is the currency the payment was made in, kept for display.
	Currency string `json:"currency"`

	// Date is the payment date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Note is an optional description.
	Note string `json:"note,omitempty"`

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64 `json:"created_at"`
}
