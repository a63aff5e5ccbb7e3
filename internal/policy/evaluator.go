package policy

import (
	"fmt"
	"strings"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// cabinRanks orders flight classes for compliance comparison.
// A requested class is compliant when its rank does not exceed the rank
// allowed by at least one matching rule.
var cabinRanks = map[string]int{
	entity.CabinEconomy:        0,
	entity.CabinPremiumEconomy: 1,
	entity.CabinBusiness:       2,
	entity.CabinFirst:          3,
}

// Default nightly hotel limits (THB) used when no hotel-limit rule
// matches. Degrading to a travel-type default instead of failing is
// deliberate: missing policy data must never block an evaluation.
const (
	DefaultHotelLimitDomestic      = 2000.0
	DefaultHotelLimitInternational = 4500.0
)

// Budget ceiling parameters. The ceiling is an early-warning heuristic,
// not a hard policy rule.
const (
	budgetMultiplierDomestic      = 1.5
	budgetMultiplierInternational = 2.0
	budgetFixedBuffer             = 2000.0
)

// RequestedServices holds the service attributes the form collaborator
// sends for evaluation. Zero values mean the service was not requested.
type RequestedServices struct {
	CabinClass        string  `json:"cabin_class,omitempty"`
	HotelNightlyPrice float64 `json:"hotel_nightly_price,omitempty"`
	EstimatedCost     float64 `json:"estimated_cost"`
}

// Verdict is the outcome of a compliance evaluation. Violations are
// plain-language strings intended for direct display to end users.
type Verdict struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations"`
}

// Evaluate runs every compliance check against the supplied rule set and
// returns the combined verdict. It never fails: absent policy data
// degrades to conservative defaults (Economy cabin, travel-type hotel
// limit) rather than erroring.
func Evaluate(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext, services RequestedServices) Verdict {
	var violations []string

	violations = append(violations, checkFlightClass(rules, traveler, trip, services.CabinClass)...)
	violations = append(violations, checkHotelLimit(rules, traveler, trip, services.HotelNightlyPrice)...)
	violations = append(violations, checkBudget(rules, traveler, trip, services.EstimatedCost)...)

	return Verdict{
		Compliant:  len(violations) == 0,
		Violations: violations,
	}
}

// checkFlightClass validates the requested cabin against the matching
// flight-class rules. With no matching rule the only permitted cabin is
// Economy.
func checkFlightClass(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext, requested string) []string {
	if requested == "" {
		return nil
	}

	requestedRank, known := cabinRanks[requested]
	if !known {
		return []string{fmt.Sprintf("Unknown flight class %q; allowed classes are Economy, Premium Economy, Business and First", requested)}
	}

	matched := matching(rules, entity.CategoryFlightClass, traveler, trip)

	if len(matched) == 0 {
		if requestedRank > cabinRanks[entity.CabinEconomy] {
			return []string{fmt.Sprintf("No travel policy allows %s for your grade; the default allowed class is %s", requested, entity.CabinEconomy)}
		}
		return nil
	}

	var allowed []string
	for _, rule := range matched {
		if rank, ok := cabinRanks[rule.AllowedClass]; ok && requestedRank <= rank {
			return nil
		}
		allowed = appendUnique(allowed, rule.AllowedClass)
	}

	return []string{fmt.Sprintf("%s is not permitted by travel policy; compliant classes for this trip: %s", requested, strings.Join(allowed, ", "))}
}

// checkHotelLimit validates the requested nightly price. The limit comes
// from the first matching hotel-limit rule in original list order
// (firstMatch tie-break), falling back to the travel-type default.
func checkHotelLimit(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext, nightlyPrice float64) []string {
	if nightlyPrice <= 0 {
		return nil
	}

	limit := HotelLimit(rules, traveler, trip)
	if nightlyPrice > limit {
		return []string{fmt.Sprintf("Hotel rate %.2f THB/night exceeds the policy limit of %.2f THB/night", nightlyPrice, limit)}
	}
	return nil
}

// HotelLimit resolves the nightly hotel limit for a traveler and trip
// using the firstMatch tie-break, degrading to the travel-type default.
func HotelLimit(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext) float64 {
	if rule, ok := firstMatch(rules, entity.CategoryHotelLimit, traveler, trip); ok {
		return rule.AmountLimit
	}
	if trip.TravelType == entity.TravelTypeInternational {
		return DefaultHotelLimitInternational
	}
	return DefaultHotelLimitDomestic
}

// firstMatch is the named tie-break policy for hotel limits: the first
// applicable rule in original list order wins, regardless of how
// specific or restrictive later matches are.
func firstMatch(rules []entity.PolicyRule, category string, traveler entity.TravelerAttributes, trip entity.TripContext) (entity.PolicyRule, bool) {
	matched := matching(rules, category, traveler, trip)
	if len(matched) == 0 {
		return entity.PolicyRule{}, false
	}
	return matched[0], true
}

// checkBudget compares the estimated trip cost against a heuristic
// ceiling derived from the hotel limit and per-diem allowance.
func checkBudget(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext, estimatedCost float64) []string {
	if estimatedCost <= 0 || trip.DurationDays <= 0 {
		return nil
	}

	maxBudget := MaxBudget(rules, traveler, trip)
	if estimatedCost > maxBudget {
		return []string{fmt.Sprintf("Estimated cost %.2f THB exceeds the indicative trip budget of %.2f THB", estimatedCost, maxBudget)}
	}
	return nil
}

// MaxBudget computes the indicative budget ceiling:
// (hotelLimit + perDiem*multiplier) * tripDays * travelers + buffer.
func MaxBudget(rules []entity.PolicyRule, traveler entity.TravelerAttributes, trip entity.TripContext) float64 {
	hotelLimit := HotelLimit(rules, traveler, trip)
	perDiem, _ := PerDiem(trip.TravelType, trip.Destination, traveler.JobGrade)

	multiplier := budgetMultiplierDomestic
	if trip.TravelType == entity.TravelTypeInternational {
		multiplier = budgetMultiplierInternational
	}

	travelers := trip.Travelers
	if travelers < 1 {
		travelers = 1
	}

	return (hotelLimit+perDiem*multiplier)*float64(trip.DurationDays)*float64(travelers) + budgetFixedBuffer
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
