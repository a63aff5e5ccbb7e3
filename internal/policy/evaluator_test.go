package policy

import (
	"strings"
	"testing"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

func TestCheckFlightClassNoMatchingRule(t *testing.T) {
	// Grade 11, no flight rule: only Economy is permitted
	traveler := entity.TravelerAttributes{Entity: "TH01", JobGrade: 11}
	trip := entity.TripContext{TravelType: entity.TravelTypeInternational, DurationHours: 8}

	verdict := Evaluate(nil, traveler, trip, RequestedServices{CabinClass: entity.CabinBusiness})
	if verdict.Compliant {
		t.Fatal("Business with no matching rule should not be compliant")
	}
	if len(verdict.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(verdict.Violations))
	}
	if !strings.Contains(verdict.Violations[0], entity.CabinEconomy) {
		t.Errorf("violation should name the default class Economy: %q", verdict.Violations[0])
	}

	// Economy itself stays compliant
	verdict = Evaluate(nil, traveler, trip, RequestedServices{CabinClass: entity.CabinEconomy})
	if !verdict.Compliant {
		t.Errorf("Economy with no matching rule should be compliant: %v", verdict.Violations)
	}
}

func TestCheckFlightClassRankOrdering(t *testing.T) {
	rules := []entity.PolicyRule{
		{
			Entity:       entity.EntityAll,
			TravelType:   entity.TravelTypeAll,
			Category:     entity.CategoryFlightClass,
			AllowedClass: entity.CabinBusiness,
		},
	}
	traveler := entity.TravelerAttributes{Entity: "TH01", JobGrade: 14}
	trip := entity.TripContext{TravelType: entity.TravelTypeInternational, DurationHours: 10}

	// Anything at or below the allowed rank passes
	for _, cabin := range []string{entity.CabinEconomy, entity.CabinPremiumEconomy, entity.CabinBusiness} {
		verdict := Evaluate(rules, traveler, trip, RequestedServices{CabinClass: cabin})
		if !verdict.Compliant {
			t.Errorf("%s should be compliant under a Business rule: %v", cabin, verdict.Violations)
		}
	}

	// Above the allowed rank fails
	verdict := Evaluate(rules, traveler, trip, RequestedServices{CabinClass: entity.CabinFirst})
	if verdict.Compliant {
		t.Error("First should not be compliant under a Business rule")
	}
}

func TestCheckFlightClassUnknownCabin(t *testing.T) {
	traveler := entity.TravelerAttributes{Entity: "TH01"}
	trip := entity.TripContext{TravelType: entity.TravelTypeDomestic}

	verdict := Evaluate(nil, traveler, trip, RequestedServices{CabinClass: "Supersonic"})
	if verdict.Compliant {
		t.Error("unknown cabin class should not be compliant")
	}
}

func TestHotelLimitFirstMatch(t *testing.T) {
	rules := []entity.PolicyRule{
		{ID: 1, Entity: entity.EntityAll, TravelType: entity.TravelTypeAll, Category: entity.CategoryHotelLimit, AmountLimit: 3000},
		{ID: 2, Entity: entity.EntityAll, TravelType: entity.TravelTypeAll, Category: entity.CategoryHotelLimit, AmountLimit: 6000},
	}
	traveler := entity.TravelerAttributes{Entity: "TH01"}
	trip := entity.TripContext{TravelType: entity.TravelTypeInternational}

	// First match wins even though a later rule is more generous
	if limit := HotelLimit(rules, traveler, trip); limit != 3000 {
		t.Errorf("HotelLimit() = %v, want 3000 (first match)", limit)
	}

	verdict := Evaluate(rules, traveler, trip, RequestedServices{HotelNightlyPrice: 4500})
	if verdict.Compliant {
		t.Error("4500/night should violate the first-match limit of 3000")
	}
}

func TestHotelLimitDefaults(t *testing.T) {
	traveler := entity.TravelerAttributes{Entity: "TH01"}

	tests := []struct {
		travelType string
		want       float64
	}{
		{entity.TravelTypeDomestic, DefaultHotelLimitDomestic},
		{entity.TravelTypeInternational, DefaultHotelLimitInternational},
	}

	for _, tt := range tests {
		trip := entity.TripContext{TravelType: tt.travelType}
		if got := HotelLimit(nil, traveler, trip); got != tt.want {
			t.Errorf("HotelLimit(%s, no rules) = %v, want %v", tt.travelType, got, tt.want)
		}
	}
}

func TestCheckBudget(t *testing.T) {
	traveler := entity.TravelerAttributes{Entity: "TH01", JobGrade: 10}
	trip := entity.TripContext{
		TravelType:   entity.TravelTypeDomestic,
		DurationDays: 3,
		Travelers:    2,
	}

	// (2000 + 500*1.5) * 3 days * 2 travelers + 2000 = 18500
	want := 18500.0
	if got := MaxBudget(nil, traveler, trip); got != want {
		t.Fatalf("MaxBudget() = %v, want %v", got, want)
	}

	under := Evaluate(nil, traveler, trip, RequestedServices{EstimatedCost: want})
	if !under.Compliant {
		t.Errorf("cost at the ceiling should be compliant: %v", under.Violations)
	}

	over := Evaluate(nil, traveler, trip, RequestedServices{EstimatedCost: want + 1})
	if over.Compliant {
		t.Error("cost above the ceiling should not be compliant")
	}
}

func TestEvaluateCollectsAllViolations(t *testing.T) {
	traveler := entity.TravelerAttributes{Entity: "TH01", JobGrade: 9}
	trip := entity.TripContext{
		TravelType:   entity.TravelTypeDomestic,
		DurationDays: 1,
		Travelers:    1,
	}

	verdict := Evaluate(nil, traveler, trip, RequestedServices{
		CabinClass:        entity.CabinFirst,
		HotelNightlyPrice: 9000,
		EstimatedCost:     100000,
	})
	if verdict.Compliant {
		t.Fatal("verdict should not be compliant")
	}
	if len(verdict.Violations) != 3 {
		t.Errorf("violations = %d, want 3 (flight, hotel, budget): %v", len(verdict.Violations), verdict.Violations)
	}
}

func TestEvaluateZeroServicesCompliant(t *testing.T) {
	traveler := entity.TravelerAttributes{Entity: "TH01"}
	trip := entity.TripContext{TravelType: entity.TravelTypeDomestic}

	verdict := Evaluate(nil, traveler, trip, RequestedServices{})
	if !verdict.Compliant {
		t.Errorf("empty request should be compliant: %v", verdict.Violations)
	}
}
