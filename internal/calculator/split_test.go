package calculator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mmynk/groupledger/internal/models"
)

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       models.Amount
		policy       Policy
		members      []string
		wantErr      error
		validateFunc func(t *testing.T, shares []Share)
	}{
		{
			name:    "three-way equal split assigns the extra cent to the lowest id",
			amount:  10000,
			policy:  Equal{},
			members: []string{"carol", "alice", "bob"},
			validateFunc: func(t *testing.T, shares []Share) {
				want := []Share{
					{UserID: "alice", Amount: 3334},
					{UserID: "bob", Amount: 3333},
					{UserID: "carol", Amount: 3333},
				}
				if len(shares) != len(want) {
					t.Fatalf("got %d shares, want %d", len(shares), len(want))
				}
				for i := range want {
					if shares[i] != want[i] {
						t.Errorf("share %d = %+v, want %+v", i, shares[i], want[i])
					}
				}
			},
		},
		{
			name:    "even division has no remainder",
			amount:  9000,
			policy:  Equal{},
			members: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares []Share) {
				for _, s := range shares {
					if s.Amount != 3000 {
						t.Errorf("%s owes %d, want 3000", s.UserID, s.Amount)
					}
				}
			},
		},
		{
			name:    "single member owes everything",
			amount:  1999,
			policy:  Equal{},
			members: []string{"alice"},
			validateFunc: func(t *testing.T, shares []Share) {
				if len(shares) != 1 || shares[0].Amount != 1999 {
					t.Errorf("unexpected shares %+v", shares)
				}
			},
		},
		{
			name:    "amount smaller than member count",
			amount:  2,
			policy:  Equal{},
			members: []string{"d", "c", "b", "a"},
			validateFunc: func(t *testing.T, shares []Share) {
				want := map[string]models.Amount{"a": 1, "b": 1, "c": 0, "d": 0}
				for _, s := range shares {
					if s.Amount != want[s.UserID] {
						t.Errorf("%s owes %d, want %d", s.UserID, s.Amount, want[s.UserID])
					}
				}
			},
		},
		{
			name:    "exact split keeps listed amounts and drops zero entries",
			amount:  5000,
			policy:  Exact{Amounts: map[string]models.Amount{"bob": 3500, "alice": 1500, "carol": 0}},
			members: []string{"alice", "bob", "carol"},
			validateFunc: func(t *testing.T, shares []Share) {
				want := []Share{{UserID: "alice", Amount: 1500}, {UserID: "bob", Amount: 3500}}
				if len(shares) != len(want) {
					t.Fatalf("got %+v, want %+v", shares, want)
				}
				for i := range want {
					if shares[i] != want[i] {
						t.Errorf("share %d = %+v, want %+v", i, shares[i], want[i])
					}
				}
			},
		},
		{
			name:    "exact split that does not add up",
			amount:  5000,
			policy:  Exact{Amounts: map[string]models.Amount{"alice": 1000, "bob": 1000}},
			members: []string{"alice", "bob"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "exact split naming a non-member",
			amount:  1000,
			policy:  Exact{Amounts: map[string]models.Amount{"mallory": 1000}},
			members: []string{"alice", "bob"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "exact split with a negative amount",
			amount:  1000,
			policy:  Exact{Amounts: map[string]models.Amount{"alice": 1500, "bob": -500}},
			members: []string{"alice", "bob"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "exact split without amounts",
			amount:  1000,
			policy:  Exact{},
			members: []string{"alice"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "zero amount should error",
			amount:  0,
			policy:  Equal{},
			members: []string{"alice"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "negative amount should error",
			amount:  -100,
			policy:  Equal{},
			members: []string{"alice"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "no members should error",
			amount:  100,
			policy:  Equal{},
			members: []string{},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "duplicate members should error",
			amount:  100,
			policy:  Equal{},
			members: []string{"alice", "alice"},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "empty member id should error",
			amount:  100,
			policy:  Equal{},
			members: []string{"alice", ""},
			wantErr: ErrInvalidSplitInput,
		},
		{
			name:    "nil policy should error",
			amount:  100,
			members: []string{"alice"},
			wantErr: ErrInvalidSplitInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeSplits(tt.amount, tt.policy, tt.members)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeSplits() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplits() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

// TestComputeSplitsEqualInvariants checks, over a grid of amounts and group
// sizes, that equal shares reconcile exactly and differ by at most one unit.
func TestComputeSplitsEqualInvariants(t *testing.T) {
	amounts := []models.Amount{1, 2, 7, 99, 100, 101, 9999, 10000, 10001, 123457, 1<<40 + 3}
	for n := 1; n <= 12; n++ {
		members := make([]string, n)
		for i := range members {
			members[i] = fmt.Sprintf("user-%02d", n-i)
		}
		for _, amount := range amounts {
			shares, err := ComputeSplits(amount, Equal{}, members)
			if err != nil {
				t.Fatalf("ComputeSplits(%d, %d members): %v", amount, n, err)
			}
			if len(shares) != n {
				t.Fatalf("ComputeSplits(%d, %d members) returned %d shares", amount, n, len(shares))
			}

			base := amount / models.Amount(n)
			var sum models.Amount
			for i, s := range shares {
				sum += s.Amount
				if s.Amount < base || s.Amount > base+1 {
					t.Errorf("amount %d, %d members: share %d outside [%d, %d]", amount, n, s.Amount, base, base+1)
				}
				if i > 0 && shares[i-1].UserID >= s.UserID {
					t.Errorf("shares not ordered by user id: %q before %q", shares[i-1].UserID, s.UserID)
				}
				if i > 0 && shares[i-1].Amount < s.Amount {
					t.Errorf("remainder not assigned to the first members: %+v", shares)
				}
			}
			if sum != amount {
				t.Errorf("amount %d, %d members: shares sum to %d", amount, n, sum)
			}
		}
	}
}

func TestComputeSplitsDoesNotReorderInput(t *testing.T) {
	members := []string{"zoe", "adam"}
	if _, err := ComputeSplits(100, Equal{}, members); err != nil {
		t.Fatalf("ComputeSplits: %v", err)
	}
	if members[0] != "zoe" || members[1] != "adam" {
		t.Errorf("input slice was modified: %v", members)
	}
}

// shortPolicy drops the last minor unit of every split.
type shortPolicy struct{}

func (shortPolicy) Kind() models.SplitPolicy { return "short" }

func (shortPolicy) Shares(amount models.Amount, members []string) ([]Share, error) {
	return []Share{{UserID: members[0], Amount: amount - 1}}, nil
}

func TestComputeSplitsRejectsUnbalancedPolicy(t *testing.T) {
	_, err := ComputeSplits(100, shortPolicy{}, []string{"alice", "bob"})
	if !errors.Is(err, ErrPolicyInvariant) {
		t.Fatalf("ComputeSplits() error = %v, want ErrPolicyInvariant", err)
	}
	if errors.Is(err, ErrInvalidSplitInput) {
		t.Error("a broken policy must not be reported as bad input")
	}
}

func TestPolicyFor(t *testing.T) {
	exact := map[string]models.Amount{"alice": 1}
	tests := []struct {
		name     string
		kind     models.SplitPolicy
		exact    map[string]models.Amount
		wantKind models.SplitPolicy
		wantErr  bool
	}{
		{"equal", models.SplitEqual, nil, models.SplitEqual, false},
		{"empty tag defaults to equal", "", nil, models.SplitEqual, false},
		{"exact", models.SplitExact, exact, models.SplitExact, false},
		{"unknown tag", "percentage", nil, "", true},
		{"equal with exact amounts", models.SplitEqual, exact, "", true},
		{"empty tag with exact amounts", "", exact, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := PolicyFor(tt.kind, tt.exact)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSplitInput) {
					t.Fatalf("PolicyFor(%q) error = %v, want ErrInvalidSplitInput", tt.kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PolicyFor(%q): %v", tt.kind, err)
			}
			if p.Kind() != tt.wantKind {
				t.Errorf("PolicyFor(%q).Kind() = %q, want %q", tt.kind, p.Kind(), tt.wantKind)
			}
		})
	}
}
