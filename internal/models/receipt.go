package models

// Receipt is one shared cost event on a trip: line items with share-based
// assignments, tax lines, an optional tip, and the payments that funded it.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// TripID is the trip this receipt belongs to.
	TripID string `json:"trip_id"`

	// Vendor is the store or restaurant name, possibly from OCR.
	Vendor string `json:"vendor"`

	// Currency is the currency the amounts were converted from, kept for
	// display; the stored cents are already in the trip currency.
	Currency string `json:"currency"`

	// Date is the receipt date in YYYY-MM-DD form, empty if unknown.
	Date string `json:"date"`

	// LineItems are the receipt's cost components.
	LineItems []LineItem `json:"line_items"`

	// TaxLines are fixed tax amounts, optionally category-scoped.
	TaxLines []TaxLine `json:"tax_lines"`

	// TipCents is the tip in cents; 0 means no tip.
	TipCents int64 `json:"tip_cents"`

	// Payments lists who funded this receipt. Their sum must equal the
	// receipt total within one cent.
	Payments []ReceiptPayment `json:"payments"`

	// PayerParticipantID is the legacy single-payer reference, used only
	// when Payments is empty.
	PayerParticipantID string `json:"payer_participant_id,omitempty"`

	// CreatedAt is the Unix timestamp when the receipt was created.
	CreatedAt int64 `json:"created_at"`
}

// LineItem is a single cost component of a receipt, shared by weight among
// its assigned participants.
type LineItem struct {
	// ID is the unique identifier for the line item (UUID format).
	ID string `json:"id"`

	// Description is the item text (e.g., "Tacos al pastor").
	Description string `json:"description"`

	// UnitPriceCents is the per-unit price in cents.
	UnitPriceCents int64 `json:"unit_price_cents"`

	// Quantity is the unit count; always at least 1.
	Quantity int64 `json:"quantity"`

	// Category routes category-scoped taxes (e.g., "alcohol"). Empty
	// means uncategorized.
	Category string `json:"category,omitempty"`

	// Assignments link this item to participants with share weights. An
	// item with no positive shares is unassigned and excluded from every
	// participant's cost.
	Assignments []Assignment `json:"assignments"`
}

// Assignment gives one participant an integer share weight of a line item.
type Assignment struct {
	ParticipantID string `json:"participant_id"`
	Shares        int64  `json:"shares"`
}

// TaxLine is a fixed tax amount on a receipt, optionally scoped to one
// item category.
type TaxLine struct {
	// ID is the unique identifier for the tax line (UUID format).
	ID string `json:"id"`

	// Description is the tax label (e.g., "IVA", "Sales Tax").
	Description string `json:"description"`

	// AmountCents is the tax amount in cents.
	AmountCents int64 `json:"amount_cents"`

	// Category restricts proration to that category's assignments when
	// set; empty prorates over the full assigned total.
	Category string `json:"category,omitempty"`
}

// ReceiptPayment records one participant funding part of a receipt.
type ReceiptPayment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// ParticipantID is the payer.
	ParticipantID string `json:"participant_id"`

	// AmountCents is how much this payer contributed, in cents.
	AmountCents int64 `json:"amount_cents"`
}

// SubtotalCents sums all line item amounts, assigned or not.
func (r *Receipt) SubtotalCents() int64 {
	var subtotal int64
	for _, li := range r.LineItems {
		subtotal += li.UnitPriceCents * li.Quantity
	}
	return subtotal
}

// TotalCents is subtotal + taxes + tip.
func (r *Receipt) TotalCents() int64 {
	total := r.SubtotalCents()
	for _, tl := range r.TaxLines {
		total += tl.AmountCents
	}
	return total + r.TipCents
}
