package models

// Trip groups participants, receipts and direct payments under one
// reporting currency.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string `json:"id"`

	// Name is the display name of the trip (e.g., "Oaxaca 2026").
	Name string `json:"name"`

	// Currency is the ISO 4217 reporting currency all stored amounts are
	// denominated in. Conversion from other currencies happens before
	// amounts are persisted.
	Currency string `json:"currency"`

	// OwnerUserID is the user who created the trip.
	OwnerUserID string `json:"owner_user_id"`

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64 `json:"created_at"`
}

// Participant is an identity within a trip. Participants are soft-deleted:
// once removed they are excluded from new balance computations but their
// historical receipt references remain valid.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string `json:"id"`

	// TripID is the trip this participant belongs to.
	TripID string `json:"trip_id"`

	// Name is the participant's display name.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the participant was added.
	CreatedAt int64 `json:"created_at"`

	// DeletedAt is the Unix timestamp of soft deletion, or 0 while active.
	DeletedAt int64 `json:"deleted_at,omitempty"`
}

// Active reports whether the participant is included in balance
// computations.
func (p *Participant) Active() bool {
	return p.DeletedAt == 0
}
