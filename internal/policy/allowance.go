package policy

import (
	"strings"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// Mileage reimbursement rates, THB per km. The first 100 km are paid at
// the full rate, the remainder at the reduced rate.
const (
	mileageRateNear     = 9.0
	mileageRateFar      = 4.5
	mileageNearCutoffKM = 100.0
)

// Per-diem parameters. Domestic allowances are in the home currency;
// international ones use a fixed reference currency rather than a live
// FX feed.
const (
	perDiemDomestic        = 500.0
	perDiemDomesticSenior  = 800.0
	perDiemSeniorGradeMin  = 13
	perDiemIntlDefault     = 90.0
	currencyHome           = "THB"
	currencyIntlReference  = "USD"
)

// perDiemCountries maps known destinations to their daily allowance.
// Destination strings are matched by case-insensitive substring, so
// "Tokyo, Japan" resolves to the Japan rate. Best effort, not geocoding.
var perDiemCountries = []struct {
	Country string
	Amount  float64
}{
	{"Japan", 110},
	{"Singapore", 100},
	{"United States", 120},
	{"Germany", 100},
	{"China", 80},
	{"Vietnam", 70},
}

// MileageReimbursement computes the reimbursement for a private-vehicle
// trip of d km. Piecewise linear, continuous at the cutoff, no rounding.
func MileageReimbursement(distanceKM float64) float64 {
	if distanceKM <= 0 {
		return 0
	}
	if distanceKM <= mileageNearCutoffKM {
		return distanceKM * mileageRateNear
	}
	return mileageNearCutoffKM*mileageRateNear + (distanceKM-mileageNearCutoffKM)*mileageRateFar
}

// PerDiem resolves the daily allowance for a trip. Domestic trips get a
// flat amount with a higher tier for senior grades; international trips
// are looked up by destination country, degrading to the generic
// international default when the destination is not recognized.
func PerDiem(travelType, destination string, jobGrade int) (amount float64, currency string) {
	if travelType != entity.TravelTypeInternational {
		if jobGrade >= perDiemSeniorGradeMin {
			return perDiemDomesticSenior, currencyHome
		}
		return perDiemDomestic, currencyHome
	}

	dest := strings.ToLower(destination)
	for _, c := range perDiemCountries {
		if strings.Contains(dest, strings.ToLower(c.Country)) {
			return c.Amount, currencyIntlReference
		}
	}
	return perDiemIntlDefault, currencyIntlReference
}
