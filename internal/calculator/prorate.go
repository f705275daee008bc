// Package calculator implements the balance reconciliation and settlement
// engine: proration of shared expenses, trip-wide balance aggregation, and
// greedy settlement minimization.
//
// Everything in this package is a pure function over an immutable snapshot.
// All amounts are integer cents; rounding is half-even, applied once per
// proration step, and residuals are surfaced rather than redistributed.
package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/tripsplit/internal/money"
)

// PaymentToleranceCents is how far an expense's recorded payments may drift
// from its computed total before the expense is rejected as inconsistent.
const PaymentToleranceCents = 1

// Assignment links a line item to a participant with an integer share
// weight. Zero shares means the assignment is absent.
type Assignment struct {
	ParticipantID string
	Shares        int64
}

// LineItem is one cost component of an expense.
type LineItem struct {
	ID             string
	Description    string
	UnitPriceCents int64
	Quantity       int64
	Category       string // routes category-scoped taxes; empty = uncategorized
	Assignments    []Assignment
}

// TaxLine is a fixed tax amount, optionally scoped to one item category.
type TaxLine struct {
	Description string
	AmountCents int64
	Category    string // empty = prorated across the whole assigned total
}

// Payment records one participant funding part of an expense.
type Payment struct {
	ParticipantID string
	AmountCents   int64
}

// Expense is one shared cost event: line items, taxes, tip, and the
// payments that funded it. PayerID is the legacy single-payer fallback used
// when Payments is empty.
type Expense struct {
	ID        string
	LineItems []LineItem
	TaxLines  []TaxLine
	TipCents  int64
	Payments  []Payment
	PayerID   string
}

// Share is one participant's computed contribution to a single expense.
type Share struct {
	ParticipantID   string
	ItemsTotalCents int64
	TaxShareCents   int64
	TipShareCents   int64
	TotalCents      int64
}

// InconsistencyError reports input that violates a structural invariant.
// It is never silently corrected; the caller must fix the data and retry.
type InconsistencyError struct {
	Entity string
	Detail string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent input: %s: %s", e.Entity, e.Detail)
}

// ExpenseTotal returns subtotal + taxes + tip in cents, where the subtotal
// covers every line item whether or not it is assigned.
func ExpenseTotal(e Expense) int64 {
	var total int64
	for _, li := range e.LineItems {
		total += li.UnitPriceCents * li.Quantity
	}
	for _, tl := range e.TaxLines {
		total += tl.AmountCents
	}
	return total + e.TipCents
}

// Prorate computes each contributing participant's items total, tax share
// and tip share for one expense.
//
// Items are split by share weight with one half-even rounding per
// assignment. Items whose assignments sum to zero shares contribute nothing
// to anyone and are excluded from the tax/tip denominator. Taxes scoped to
// a category are prorated only over that category's assigned amounts; the
// tip and unscoped taxes are prorated over the full assigned total.
//
// The result is sorted by total descending; ties keep first-appearance
// order, so identical input always yields identical output.
func Prorate(e Expense) ([]Share, error) {
	order := make([]string, 0, 8)
	index := make(map[string]int)
	itemsTotal := make(map[string]int64)
	taxShare := make(map[string]int64)
	tipShare := make(map[string]int64)

	// Per-category assigned totals, needed when any tax line is scoped.
	catTotal := make(map[string]int64)
	byCat := make(map[string]map[string]int64)

	var assignedTotal int64

	for _, li := range e.LineItems {
		if li.Quantity < 1 {
			return nil, &InconsistencyError{
				Entity: fmt.Sprintf("expense %s line item %s", e.ID, li.ID),
				Detail: fmt.Sprintf("quantity %d, must be at least 1", li.Quantity),
			}
		}

		var totalShares int64
		for _, a := range li.Assignments {
			if a.Shares < 0 {
				return nil, &InconsistencyError{
					Entity: fmt.Sprintf("expense %s line item %s", e.ID, li.ID),
					Detail: fmt.Sprintf("participant %s has negative shares %d", a.ParticipantID, a.Shares),
				}
			}
			totalShares += a.Shares
		}
		if totalShares == 0 {
			// Unassigned item: contributes to nobody, not even the
			// proration denominator.
			continue
		}

		itemTotal := li.UnitPriceCents * li.Quantity
		for _, a := range li.Assignments {
			if a.Shares == 0 {
				continue
			}
			share := money.MulDiv(itemTotal, a.Shares, totalShares)

			if _, seen := index[a.ParticipantID]; !seen {
				index[a.ParticipantID] = len(order)
				order = append(order, a.ParticipantID)
			}
			itemsTotal[a.ParticipantID] += share
			assignedTotal += share
			if li.Category != "" {
				catTotal[li.Category] += share
				if byCat[li.Category] == nil {
					byCat[li.Category] = make(map[string]int64)
				}
				byCat[li.Category][a.ParticipantID] += share
			}
		}
	}

	if assignedTotal > 0 {
		for _, tl := range e.TaxLines {
			if tl.Category != "" {
				base := catTotal[tl.Category]
				if base <= 0 {
					// No assigned spend in this category; nobody carries it.
					continue
				}
				for pid, sub := range byCat[tl.Category] {
					taxShare[pid] += money.MulDiv(tl.AmountCents, sub, base)
				}
				continue
			}
			for _, pid := range order {
				taxShare[pid] += money.MulDiv(tl.AmountCents, itemsTotal[pid], assignedTotal)
			}
		}
		if e.TipCents != 0 {
			for _, pid := range order {
				tipShare[pid] = money.MulDiv(e.TipCents, itemsTotal[pid], assignedTotal)
			}
		}
	}

	shares := make([]Share, len(order))
	for i, pid := range order {
		shares[i] = Share{
			ParticipantID:   pid,
			ItemsTotalCents: itemsTotal[pid],
			TaxShareCents:   taxShare[pid],
			TipShareCents:   tipShare[pid],
			TotalCents:      itemsTotal[pid] + taxShare[pid] + tipShare[pid],
		}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].TotalCents > shares[j].TotalCents
	})
	return shares, nil
}
