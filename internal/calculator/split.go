package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mmynk/groupledger/internal/models"
)

// ErrInvalidSplitInput is returned when an amount, member set or policy
// cannot produce a valid split.
var ErrInvalidSplitInput = errors.New("invalid split input")

// ErrPolicyInvariant is returned when a Policy produces shares that do not
// add up to the amount. It is a programming error, never a caller error.
var ErrPolicyInvariant = errors.New("split policy broke the sum invariant")

// Share is one member's computed portion of an expense.
type Share struct {
	UserID string
	Amount models.Amount
}

// Policy divides an amount among a set of members.
//
// Implementations receive members already validated and sorted ascending,
// and must return shares that sum exactly to amount.
type Policy interface {
	Kind() models.SplitPolicy
	Shares(amount models.Amount, members []string) ([]Share, error)
}

// Equal splits the amount evenly. Leftover minor units are handed out one
// at a time to members in ascending user ID order.
type Equal struct{}

// Kind implements Policy.
func (Equal) Kind() models.SplitPolicy { return models.SplitEqual }

// Shares implements Policy.
func (Equal) Shares(amount models.Amount, members []string) ([]Share, error) {
	n := models.Amount(len(members))
	base := amount / n
	remainder := amount - base*n

	shares := make([]Share, len(members))
	for i, m := range members {
		shares[i] = Share{UserID: m, Amount: base}
		if models.Amount(i) < remainder {
			shares[i].Amount++
		}
	}
	return shares, nil
}

// Exact assigns each listed member a fixed amount. Members without an entry
// (or with a zero entry) owe nothing and receive no share.
type Exact struct {
	Amounts map[string]models.Amount
}

// Kind implements Policy.
func (Exact) Kind() models.SplitPolicy { return models.SplitExact }

// Shares implements Policy.
func (e Exact) Shares(amount models.Amount, members []string) ([]Share, error) {
	if len(e.Amounts) == 0 {
		return nil, fmt.Errorf("%w: exact split requires at least one amount", ErrInvalidSplitInput)
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	var sum models.Amount
	for userID, a := range e.Amounts {
		if !memberSet[userID] {
			return nil, fmt.Errorf("%w: %q is not a member", ErrInvalidSplitInput, userID)
		}
		if a < 0 {
			return nil, fmt.Errorf("%w: negative amount for %q", ErrInvalidSplitInput, userID)
		}
		sum += a
	}
	if sum != amount {
		return nil, fmt.Errorf("%w: exact amounts sum to %s, expense is %s", ErrInvalidSplitInput, sum, amount)
	}

	var shares []Share
	for _, m := range members {
		if a := e.Amounts[m]; a > 0 {
			shares = append(shares, Share{UserID: m, Amount: a})
		}
	}
	return shares, nil
}

// PolicyFor resolves a policy tag. An empty tag means equal. exact is only
// accepted together with SplitExact.
func PolicyFor(kind models.SplitPolicy, exact map[string]models.Amount) (Policy, error) {
	if kind == "" {
		kind = models.SplitEqual
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown split policy %q", ErrInvalidSplitInput, kind)
	}
	if kind == models.SplitExact {
		return Exact{Amounts: exact}, nil
	}
	if len(exact) > 0 {
		return nil, fmt.Errorf("%w: exact amounts given for %s split", ErrInvalidSplitInput, kind)
	}
	return Equal{}, nil
}

// ComputeSplits divides amount among members according to policy.
//
// The result is ordered by ascending user ID and its amounts sum exactly to
// amount. It fails with ErrInvalidSplitInput when amount is not positive or
// members is empty or contains duplicate or empty IDs.
func ComputeSplits(amount models.Amount, policy Policy, members []string) ([]Share, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidSplitInput, amount)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: must have at least one member", ErrInvalidSplitInput)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: no split policy", ErrInvalidSplitInput)
	}

	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)
	for i, m := range sorted {
		if m == "" {
			return nil, fmt.Errorf("%w: empty member id", ErrInvalidSplitInput)
		}
		if i > 0 && sorted[i-1] == m {
			return nil, fmt.Errorf("%w: duplicate member %q", ErrInvalidSplitInput, m)
		}
	}

	shares, err := policy.Shares(amount, sorted)
	if err != nil {
		return nil, err
	}

	var total models.Amount
	for _, s := range shares {
		total += s.Amount
	}
	if total != amount {
		return nil, fmt.Errorf("%w: %s split produced %s for an expense of %s", ErrPolicyInvariant, policy.Kind(), total, amount)
	}
	return shares, nil
}
