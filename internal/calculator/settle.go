package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/tripsplit/internal/money"
)

// EpsilonCents is the settlement tolerance: balances within one cent of
// zero are considered settled.
const EpsilonCents = 1

// Transaction is a concrete payment recommendation. Amount is always
// positive and from/to are always distinct participants.
type Transaction struct {
	FromParticipantID string
	ToParticipantID   string
	AmountCents       int64
}

// ImbalanceError reports balances that do not sum to approximately zero,
// which means the upstream data is inconsistent. The optimizer never
// fabricates a transaction to force balance.
type ImbalanceError struct {
	ResidualCents  int64
	ToleranceCents int64
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("balances do not sum to zero: residual %d cents exceeds tolerance %d cents",
		e.ResidualCents, e.ToleranceCents)
}

type party struct {
	id     string
	amount int64 // always positive: credit for creditors, debt for debtors
}

// Settle produces a near-minimal list of payments that zeroes every
// balance, by repeatedly matching the largest creditor with the largest
// debtor. Ties on magnitude break by participant ID, so the plan is
// deterministic. For n unsettled participants the plan has at most n−1
// transactions.
func Settle(balances []Balance) ([]Transaction, error) {
	var creditors, debtors []party
	var residual int64
	for _, b := range balances {
		residual += b.Cents
		switch {
		case b.Cents > EpsilonCents:
			creditors = append(creditors, party{id: b.ParticipantID, amount: b.Cents})
		case b.Cents < -EpsilonCents:
			debtors = append(debtors, party{id: b.ParticipantID, amount: -b.Cents})
		}
	}

	tolerance := int64(EpsilonCents) * int64(len(creditors)+len(debtors))
	if tolerance < EpsilonCents {
		tolerance = EpsilonCents
	}
	if money.Abs(residual) > tolerance {
		return nil, &ImbalanceError{ResidualCents: residual, ToleranceCents: tolerance}
	}

	byMagnitude := func(parties []party) {
		sort.Slice(parties, func(i, j int) bool {
			if parties[i].amount != parties[j].amount {
				return parties[i].amount > parties[j].amount
			}
			return parties[i].id < parties[j].id
		})
	}

	var plan []Transaction
	for len(creditors) > 0 && len(debtors) > 0 {
		byMagnitude(creditors)
		byMagnitude(debtors)

		creditor := &creditors[0]
		debtor := &debtors[0]

		amount := creditor.amount
		if debtor.amount < amount {
			amount = debtor.amount
		}
		plan = append(plan, Transaction{
			FromParticipantID: debtor.id,
			ToParticipantID:   creditor.id,
			AmountCents:       amount,
		})

		creditor.amount -= amount
		debtor.amount -= amount
		if creditor.amount <= EpsilonCents {
			creditors = creditors[1:]
		}
		if debtor.amount <= EpsilonCents {
			debtors = debtors[1:]
		}
	}
	return plan, nil
}
