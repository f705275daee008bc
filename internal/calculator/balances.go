package calculator

import (
	"fmt"

	"github.com/mmynk/tripsplit/internal/money"
)

// DirectPayment is a peer-to-peer settlement already made outside any
// expense: it reduces what the payer owes and what the recipient is owed.
type DirectPayment struct {
	ID                string
	FromParticipantID string
	ToParticipantID   string
	AmountCents       int64
}

// Snapshot is the immutable input for one trip's balance computation.
// Participants lists the active (non-deleted) participant IDs in snapshot
// order; expense and payment references outside this set belong to
// soft-deleted participants and are excluded from the computation.
type Snapshot struct {
	Participants   []string
	Expenses       []Expense
	DirectPayments []DirectPayment
}

// Balance is one participant's signed net position: positive means the
// group owes them, negative means they owe the group.
type Balance struct {
	ParticipantID string
	Cents         int64
}

// BalanceResult carries the computed balances plus the zero-sum residual.
// ResidualCents is the true sum of all balances; RoundingBoundCents is the
// worst-case residual the proration rounding alone can explain. A residual
// beyond the bound indicates an upstream data bug and should be flagged by
// the caller, but the computed values are still returned untouched.
type BalanceResult struct {
	Balances           []Balance
	ResidualCents      int64
	RoundingBoundCents int64
}

// Balances aggregates one signed net balance per active participant across
// a whole trip.
//
// Per expense, recorded payments credit each payer and the prorated totals
// debit each consumer; an expense with neither payments nor a legacy payer
// is skipped entirely, since debiting without a matching credit can only
// fabricate imbalance. Direct payments credit the sender and debit the
// recipient.
func Balances(snap Snapshot) (*BalanceResult, error) {
	balances := make(map[string]int64, len(snap.Participants))
	for _, pid := range snap.Participants {
		if _, dup := balances[pid]; dup {
			return nil, &InconsistencyError{
				Entity: fmt.Sprintf("participant %s", pid),
				Detail: "listed twice in snapshot",
			}
		}
		balances[pid] = 0
	}

	var roundingSteps int64

	for _, e := range snap.Expenses {
		if len(e.Payments) == 0 && e.PayerID == "" {
			continue
		}

		shares, err := Prorate(e)
		if err != nil {
			return nil, err
		}

		total := ExpenseTotal(e)
		if len(e.Payments) > 0 {
			var paid int64
			for _, p := range e.Payments {
				paid += p.AmountCents
			}
			if money.Abs(paid-total) > PaymentToleranceCents {
				return nil, &InconsistencyError{
					Entity: fmt.Sprintf("expense %s", e.ID),
					Detail: fmt.Sprintf("payments sum to %d cents but expense totals %d cents", paid, total),
				}
			}
			for _, p := range e.Payments {
				if _, active := balances[p.ParticipantID]; active {
					balances[p.ParticipantID] += p.AmountCents
				}
			}
		} else if _, active := balances[e.PayerID]; active {
			// Legacy single-payer record: credit the full expense total.
			balances[e.PayerID] += total
		}

		for _, s := range shares {
			if _, active := balances[s.ParticipantID]; active {
				balances[s.ParticipantID] -= s.TotalCents
			}
			// One rounding per item share plus one per tax line and one
			// for the tip; counting per participant over-covers items.
			roundingSteps += int64(1 + len(e.TaxLines) + 1)
		}
	}

	for _, dp := range snap.DirectPayments {
		if dp.AmountCents < 0 {
			return nil, &InconsistencyError{
				Entity: fmt.Sprintf("direct payment %s", dp.ID),
				Detail: fmt.Sprintf("negative amount %d", dp.AmountCents),
			}
		}
		if _, active := balances[dp.FromParticipantID]; active {
			balances[dp.FromParticipantID] += dp.AmountCents
		}
		if _, active := balances[dp.ToParticipantID]; active {
			balances[dp.ToParticipantID] -= dp.AmountCents
		}
	}

	result := &BalanceResult{
		Balances:           make([]Balance, len(snap.Participants)),
		RoundingBoundCents: roundingSteps,
	}
	for i, pid := range snap.Participants {
		result.Balances[i] = Balance{ParticipantID: pid, Cents: balances[pid]}
		result.ResidualCents += balances[pid]
	}
	return result, nil
}
