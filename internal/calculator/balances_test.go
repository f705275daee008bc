package calculator

import (
	"errors"
	"testing"
)

func TestBalances(t *testing.T) {
	tests := []struct {
		name         string
		snapshot     Snapshot
		wantErr      bool
		validateFunc func(t *testing.T, result *BalanceResult)
	}{
		{
			name: "multi-payer expense credits each payer",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob", "cara"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 3000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "alice", Shares: 1},
								{ParticipantID: "bob", Shares: 1},
								{ParticipantID: "cara", Shares: 1},
							}},
						},
						Payments: []Payment{
							{ParticipantID: "alice", AmountCents: 2000},
							{ParticipantID: "bob", AmountCents: 1000},
						},
					},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				want := map[string]int64{"alice": 1000, "bob": 0, "cara": -1000}
				assertBalances(t, result, want)
				if result.ResidualCents != 0 {
					t.Errorf("residual = %d, want 0", result.ResidualCents)
				}
			},
		},
		{
			name: "legacy single payer credited the full total",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 1000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "bob", Shares: 1},
							}},
						},
						PayerID: "alice",
					},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				assertBalances(t, result, map[string]int64{"alice": 1000, "bob": -1000})
			},
		},
		{
			name: "direct payment moves balance from payer to recipient",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob"},
				DirectPayments: []DirectPayment{
					{ID: "p1", FromParticipantID: "bob", ToParticipantID: "alice", AmountCents: 500},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				assertBalances(t, result, map[string]int64{"alice": -500, "bob": 500})
			},
		},
		{
			name: "expense with no payer is skipped",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 1000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "alice", Shares: 1},
							}},
						},
					},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				assertBalances(t, result, map[string]int64{"alice": 0, "bob": 0})
			},
		},
		{
			name: "soft-deleted payer reference drops the credit only",
			snapshot: Snapshot{
				Participants: []string{"alice"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 1000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "alice", Shares: 1},
							}},
						},
						PayerID: "ghost",
					},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				assertBalances(t, result, map[string]int64{"alice": -1000})
				if result.ResidualCents != -1000 {
					t.Errorf("residual = %d, want -1000", result.ResidualCents)
				}
			},
		},
		{
			name: "rounding residual stays within the reported bound",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob", "cara"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 1000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "alice", Shares: 1},
								{ParticipantID: "bob", Shares: 1},
								{ParticipantID: "cara", Shares: 1},
							}},
						},
						Payments: []Payment{{ParticipantID: "alice", AmountCents: 1000}},
					},
				},
			},
			validateFunc: func(t *testing.T, result *BalanceResult) {
				assertBalances(t, result, map[string]int64{"alice": 667, "bob": -333, "cara": -333})
				abs := result.ResidualCents
				if abs < 0 {
					abs = -abs
				}
				if abs > result.RoundingBoundCents {
					t.Errorf("residual %d exceeds rounding bound %d", result.ResidualCents, result.RoundingBoundCents)
				}
			},
		},
		{
			name: "payments that do not cover the total are rejected",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob"},
				Expenses: []Expense{
					{
						ID: "e1",
						LineItems: []LineItem{
							{ID: "i1", UnitPriceCents: 1000, Quantity: 1, Assignments: []Assignment{
								{ParticipantID: "bob", Shares: 1},
							}},
						},
						Payments: []Payment{{ParticipantID: "alice", AmountCents: 400}},
					},
				},
			},
			wantErr: true,
		},
		{
			name: "duplicate participant rejected",
			snapshot: Snapshot{
				Participants: []string{"alice", "alice"},
			},
			wantErr: true,
		},
		{
			name: "negative direct payment rejected",
			snapshot: Snapshot{
				Participants: []string{"alice", "bob"},
				DirectPayments: []DirectPayment{
					{ID: "p1", FromParticipantID: "alice", ToParticipantID: "bob", AmountCents: -100},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Balances(tt.snapshot)
			if tt.wantErr {
				var inconsistent *InconsistencyError
				if !errors.As(err, &inconsistent) {
					t.Fatalf("Balances() error = %v, want InconsistencyError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Balances() error = %v", err)
			}
			tt.validateFunc(t, result)
		})
	}
}

// Balances come back in snapshot participant order.
func TestBalancesOrder(t *testing.T) {
	snap := Snapshot{
		Participants: []string{"cara", "alice", "bob"},
	}
	result, err := Balances(snap)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range snap.Participants {
		if result.Balances[i].ParticipantID != want {
			t.Errorf("balance %d = %s, want %s", i, result.Balances[i].ParticipantID, want)
		}
	}
}

func assertBalances(t *testing.T, result *BalanceResult, want map[string]int64) {
	t.Helper()
	if len(result.Balances) != len(want) {
		t.Fatalf("got %d balances, want %d", len(result.Balances), len(want))
	}
	for _, b := range result.Balances {
		if b.Cents != want[b.ParticipantID] {
			t.Errorf("%s balance = %d, want %d", b.ParticipantID, b.Cents, want[b.ParticipantID])
		}
	}
}
