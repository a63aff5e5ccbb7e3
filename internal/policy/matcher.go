// Package policy implements the travel-policy compliance engine: a pure
// rule matcher, the compliance evaluator, and the fixed allowance tables
// (mileage, per diem). All functions are deterministic and side-effect
// free; rule sets are passed in explicitly, never read from ambient state.
package policy

import "github.com/nattapongw/travel-portal/internal/domain/entity"

// Applicable reports whether a policy rule applies to the given traveler
// and trip. Every condition must hold:
//   - the rule's owning entity is "ALL" or equals the traveler's
//   - the traveler's job grade is within the rule's grade window
//   - the rule's travel type is "ALL" or equals the trip's
//   - the trip is at least the rule's minimum duration (flight rules only)
//
// Rules are evaluated independently; there is no cross-rule ordering
// dependency in the predicate itself.
func Applicable(rule entity.PolicyRule, traveler entity.TravelerAttributes, tripDurationHours float64, travelType string) bool {
	if rule.Entity != entity.EntityAll && rule.Entity != traveler.Entity {
		return false
	}

	if rule.MinJobGrade != nil && traveler.JobGrade < *rule.MinJobGrade {
		return false
	}
	if rule.MaxJobGrade != nil && traveler.JobGrade > *rule.MaxJobGrade {
		return false
	}

	if rule.TravelType != entity.TravelTypeAll && rule.TravelType != travelType {
		return false
	}

	// Duration only constrains flight-class rules
	if rule.Category == entity.CategoryFlightClass && rule.MinDurationHours != nil {
		if tripDurationHours < *rule.MinDurationHours {
			return false
		}
	}

	return true
}

// matching filters rules to a category and keeps original list order,
// which the hotel-limit first-match tie-break depends on.
func matching(rules []entity.PolicyRule, category string, traveler entity.TravelerAttributes, trip entity.TripContext) []entity.PolicyRule {
	var out []entity.PolicyRule
	for _, rule := range rules {
		if rule.Category != category {
			continue
		}
		if Applicable(rule, traveler, trip.DurationHours, trip.TravelType) {
			out = append(out, rule)
		}
	}
	return out
}
