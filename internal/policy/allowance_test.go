package policy

import (
	"math"
	"testing"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

func TestMileageReimbursement(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{"zero distance", 0, 0},
		{"negative distance", -5, 0},
		{"below cutoff", 50, 450},
		{"exactly at cutoff", 100, 900},
		{"just past cutoff", 101, 904.5},
		{"well past cutoff", 300, 1800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MileageReimbursement(tt.distance)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("MileageReimbursement(%v) = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestMileageContinuousAtCutoff(t *testing.T) {
	// The reduced rate applies only to the excess, so there is no jump
	// at 100 km.
	below := MileageReimbursement(100)
	above := MileageReimbursement(100.001)
	if math.Abs(above-below) > 0.01 {
		t.Errorf("discontinuity at cutoff: f(100) = %v, f(100.001) = %v", below, above)
	}
}

func TestPerDiemDomestic(t *testing.T) {
	tests := []struct {
		name  string
		grade int
		want  float64
	}{
		{"standard grade", 10, 500},
		{"just below senior threshold", 12, 500},
		{"at senior threshold", 13, 800},
		{"above senior threshold", 18, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, currency := PerDiem(entity.TravelTypeDomestic, "Chiang Mai", tt.grade)
			if amount != tt.want {
				t.Errorf("PerDiem() amount = %v, want %v", amount, tt.want)
			}
			if currency != "THB" {
				t.Errorf("PerDiem() currency = %v, want THB", currency)
			}
		})
	}
}

func TestPerDiemInternational(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		want        float64
	}{
		{"country name", "Japan", 110},
		{"city with country substring", "Tokyo, Japan", 110},
		{"case insensitive", "singapore", 100},
		{"united states", "New York, United States", 120},
		{"unknown destination falls back", "Reykjavik, Iceland", 90},
		{"empty destination falls back", "", 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, currency := PerDiem(entity.TravelTypeInternational, tt.destination, 10)
			if amount != tt.want {
				t.Errorf("PerDiem(%q) amount = %v, want %v", tt.destination, amount, tt.want)
			}
			if currency != "USD" {
				t.Errorf("PerDiem(%q) currency = %v, want USD", tt.destination, currency)
			}
		})
	}
}

func TestPerDiemInternationalIgnoresGrade(t *testing.T) {
	junior, _ := PerDiem(entity.TravelTypeInternational, "Germany", 5)
	senior, _ := PerDiem(entity.TravelTypeInternational, "Germany", 18)
	if junior != senior {
		t.Errorf("international per diem should not depend on grade: junior=%v senior=%v", junior, senior)
	}
}
