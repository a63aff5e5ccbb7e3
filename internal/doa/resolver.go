// Package doa resolves delegation-of-authority approval chains: given a
// requester and a total cost, it selects the applicable chain template
// from a prioritized matrix. Resolution is pure and total.
package doa

import (
	"errors"
	"sort"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// ErrNegativeCost is returned when a negative total cost reaches the
// resolver. Costs are expected to be validated at the boundary.
var ErrNegativeCost = errors.New("total cost must not be negative")

// FallbackChain is used when no matrix rule survives filtering, so a
// malformed or incomplete matrix never blocks submission.
var FallbackChain = []string{"Line Manager", "Admin Verification"}

// Resolution is the outcome of a chain resolution. Source tells callers
// whether the chain came from the matrix or from the generic fallback,
// so the "policy not configured" case is visible instead of silent.
type Resolution struct {
	Chain  []string `json:"chain"`
	Source string   `json:"source"`
	RuleID int64    `json:"rule_id,omitempty"`
}

// Resolve selects the approval chain for a requester and cost:
// filter the matrix to the requester's entity, keep rules whose cost
// band contains totalCost (MaxCost = -1 means unbounded), stable-sort by
// ascending priority and take the first survivor. The matrix and the
// requester are never mutated.
func Resolve(requester entity.TravelerAttributes, totalCost float64, matrix []entity.DOARule) (Resolution, error) {
	if totalCost < 0 {
		return Resolution{}, ErrNegativeCost
	}

	var survivors []entity.DOARule
	for _, rule := range matrix {
		// A rule without approvers can never yield a usable chain
		if len(rule.Chain) == 0 {
			continue
		}
		if rule.Entity != entity.EntityAll && rule.Entity != requester.Entity {
			continue
		}
		if totalCost < rule.MinCost {
			continue
		}
		if rule.MaxCost >= 0 && totalCost > rule.MaxCost {
			continue
		}
		survivors = append(survivors, rule)
	}

	if len(survivors) == 0 {
		return Resolution{
			Chain:  append([]string(nil), FallbackChain...),
			Source: entity.ChainSourceFallback,
		}, nil
	}

	// Stable sort keeps original matrix order among equal priorities
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Priority < survivors[j].Priority
	})

	winner := survivors[0]
	return Resolution{
		Chain:  append([]string(nil), winner.Chain...),
		Source: entity.ChainSourceMatrix,
		RuleID: winner.ID,
	}, nil
}
